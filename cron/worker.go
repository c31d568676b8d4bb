package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"secondlife/services/suggestions"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeWeeklySuggestions = "suggestions:weekly"

// uniqueWindow collapses the enqueues of every instance's scheduler into one task.
const uniqueWindow = time.Hour

type weeklyPayload struct {
	Force        bool   `json:"force"`
	DesiredCount int    `json:"desiredCount"`
	Language     string `json:"language"`
}

// NewWeeklySuggestionsTask builds the task enqueued on every cron tick.
func NewWeeklySuggestionsTask(opts suggestions.Options) (*asynq.Task, error) {
	payload, err := json.Marshal(weeklyPayload{
		Force:        opts.Force,
		DesiredCount: opts.DesiredCount,
		Language:     opts.Language,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeWeeklySuggestions, payload,
		asynq.MaxRetry(1),
		asynq.Timeout(JobTimeout),
		asynq.Unique(uniqueWindow),
	), nil
}

func handleWeeklySuggestionsTask(gen WeeklyGenerator) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p weeklyPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			zap.L().Error("invalid weekly suggestions payload", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		opts := suggestions.DefaultOptions()
		opts.Force = p.Force
		if p.DesiredCount > 0 {
			opts.DesiredCount = p.DesiredCount
		}
		if p.Language != "" {
			opts.Language = p.Language
		}
		return RunWeeklySuggestions(ctx, gen, opts)
	}
}

// AsynqScheduler enqueues the weekly task through Redis and processes it, so
// several instances share one run per tick.
type AsynqScheduler struct {
	scheduler *asynq.Scheduler
	server    *asynq.Server
	mux       *asynq.ServeMux
	cronSpec  string
}

func NewAsynqScheduler(redisOpt asynq.RedisClientOpt, cronSpec string, loc *time.Location, gen WeeklyGenerator) *AsynqScheduler {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeWeeklySuggestions, handleWeeklySuggestionsTask(gen))

	return &AsynqScheduler{
		scheduler: asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{Location: loc}),
		server: asynq.NewServer(redisOpt, asynq.Config{
			Concurrency: 1,
			Queues:      map[string]int{"default": 1},
		}),
		mux:      mux,
		cronSpec: cronSpec,
	}
}

func (s *AsynqScheduler) Start() error {
	task, err := NewWeeklySuggestionsTask(suggestions.DefaultOptions())
	if err != nil {
		return err
	}
	entryID, err := s.scheduler.Register(s.cronSpec, task)
	if err != nil {
		return fmt.Errorf("failed to register weekly suggestions task: %w", err)
	}
	if err := s.server.Start(s.mux); err != nil {
		return fmt.Errorf("failed to start asynq server: %w", err)
	}
	if err := s.scheduler.Start(); err != nil {
		s.server.Shutdown()
		return fmt.Errorf("failed to start asynq scheduler: %w", err)
	}
	zap.L().Info("weekly suggestions scheduler started", zap.String("mode", "asynq"), zap.String("entryId", entryID), zap.String("cron", s.cronSpec))
	return nil
}

func (s *AsynqScheduler) Stop() {
	s.scheduler.Shutdown()
	s.server.Shutdown()
}
