package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"secondlife/services/suggestions"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	calls []suggestions.Options
	err   error
}

func (f *fakeGenerator) GenerateWeeklySuggestions(_ context.Context, opts suggestions.Options) (*suggestions.Result, error) {
	f.calls = append(f.calls, opts)
	if f.err != nil {
		return nil, f.err
	}
	id := "theme-1"
	return &suggestions.Result{Status: suggestions.StatusCreated, ThemeWeekID: &id, GeneratedCount: 8}, nil
}

func TestRunWeeklySuggestionsReturnsFailures(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("provider down")}
	err := RunWeeklySuggestions(context.Background(), gen, suggestions.DefaultOptions())
	assert.EqualError(t, err, "provider down")

	gen.err = nil
	require.NoError(t, RunWeeklySuggestions(context.Background(), gen, suggestions.DefaultOptions()))
	assert.Len(t, gen.calls, 2)
}

func TestWeeklyTaskCarriesDefaults(t *testing.T) {
	task, err := NewWeeklySuggestionsTask(suggestions.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, TypeWeeklySuggestions, task.Type())
	assert.JSONEq(t, `{"force":false,"desiredCount":8,"language":"fr"}`, string(task.Payload()))

	gen := &fakeGenerator{}
	require.NoError(t, handleWeeklySuggestionsTask(gen)(context.Background(), task))
	require.Len(t, gen.calls, 1)
	assert.Equal(t, suggestions.DefaultOptions(), gen.calls[0])
}

func TestWeeklyTaskHandlerSkipsRetryOnBadPayload(t *testing.T) {
	gen := &fakeGenerator{}
	err := handleWeeklySuggestionsTask(gen)(context.Background(), asynq.NewTask(TypeWeeklySuggestions, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Empty(t, gen.calls)
}

func TestWeeklyTaskHandlerPropagatesErrorsForRetry(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	task, err := NewWeeklySuggestionsTask(suggestions.DefaultOptions())
	require.NoError(t, err)
	assert.Error(t, handleWeeklySuggestionsTask(gen)(context.Background(), task))
}

func TestLocalSchedulerRejectsBadCron(t *testing.T) {
	s := NewLocalScheduler("not a cron", time.UTC, &fakeGenerator{})
	assert.Error(t, s.Start())
}

type flakyGenerator struct {
	fakeGenerator
	failures int
}

func (f *flakyGenerator) GenerateWeeklySuggestions(ctx context.Context, opts suggestions.Options) (*suggestions.Result, error) {
	if f.failures > 0 {
		f.failures--
		f.calls = append(f.calls, opts)
		return nil, errors.New("temporarily unavailable")
	}
	return f.fakeGenerator.GenerateWeeklySuggestions(ctx, opts)
}

func TestLocalSchedulerRetriesOnce(t *testing.T) {
	gen := &flakyGenerator{failures: 1}
	s := NewLocalScheduler("0 8 * * 1", time.UTC, gen)
	s.retryDelay = 0
	require.NoError(t, s.run())
	assert.Len(t, gen.calls, 2)

	gen = &flakyGenerator{failures: 5}
	s = NewLocalScheduler("0 8 * * 1", time.UTC, gen)
	s.retryDelay = 0
	assert.EqualError(t, s.run(), "temporarily unavailable")
	assert.Len(t, gen.calls, 2)
}
