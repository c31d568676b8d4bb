package cron

import (
	"context"
	"fmt"
	"time"

	"secondlife/services/suggestions"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

const (
	localAttempts   = 2
	localRetryDelay = 30 * time.Second
)

// LocalScheduler runs the weekly job in process. Use it with a single instance.
type LocalScheduler struct {
	scheduler  *gocron.Scheduler
	cronSpec   string
	gen        WeeklyGenerator
	retryDelay time.Duration
}

func NewLocalScheduler(cronSpec string, loc *time.Location, gen WeeklyGenerator) *LocalScheduler {
	s := gocron.NewScheduler(loc)
	s.SingletonModeAll()
	return &LocalScheduler{scheduler: s, cronSpec: cronSpec, gen: gen, retryDelay: localRetryDelay}
}

func (s *LocalScheduler) Start() error {
	job, err := s.scheduler.Cron(s.cronSpec).Do(s.run)
	if err != nil {
		return fmt.Errorf("failed to create weekly suggestions job: %w", err)
	}
	s.scheduler.StartAsync()
	zap.L().Info("weekly suggestions scheduler started",
		zap.String("mode", "local"),
		zap.String("cron", s.cronSpec),
		zap.Time("nextRun", job.NextRun()),
	)
	return nil
}

// run makes up to localAttempts tries, matching the single retry asynq gives the task.
func (s *LocalScheduler) run() error {
	var err error
	for attempt := 1; attempt <= localAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), JobTimeout)
		err = RunWeeklySuggestions(ctx, s.gen, suggestions.DefaultOptions())
		cancel()
		if err == nil {
			return nil
		}
		zap.L().Warn("weekly suggestions attempt failed", zap.Int("attempt", attempt), zap.Error(err))
		if attempt < localAttempts {
			time.Sleep(s.retryDelay)
		}
	}
	return err
}

func (s *LocalScheduler) Stop() {
	s.scheduler.Stop()
}
