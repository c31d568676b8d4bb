// Package cron triggers the weekly suggestion pipeline outside of HTTP.
package cron

import (
	"context"
	"time"

	"secondlife/services/suggestions"

	"go.uber.org/zap"
)

// JobTimeout bounds one scheduled run.
const JobTimeout = 120 * time.Second

// WeeklyGenerator is the pipeline entry point the schedulers call.
type WeeklyGenerator interface {
	GenerateWeeklySuggestions(ctx context.Context, opts suggestions.Options) (*suggestions.Result, error)
}

// Scheduler fires the weekly job until stopped.
type Scheduler interface {
	Start() error
	Stop()
}

// RunWeeklySuggestions executes one scheduled run and logs its outcome.
func RunWeeklySuggestions(ctx context.Context, gen WeeklyGenerator, opts suggestions.Options) error {
	result, err := gen.GenerateWeeklySuggestions(ctx, opts)
	if err != nil {
		zap.L().Error("weekly_suggestions_job_failed", zap.Error(err))
		return err
	}

	fields := []zap.Field{
		zap.String("status", string(result.Status)),
		zap.Int("generatedCount", result.GeneratedCount),
		zap.Int("existingCount", result.ExistingCount),
	}
	if result.ThemeWeekID != nil {
		fields = append(fields, zap.String("themeWeekId", *result.ThemeWeekID))
	}
	zap.L().Info("weekly_suggestions_job_completed", fields...)
	return nil
}
