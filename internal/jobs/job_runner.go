package jobs

import (
	"context"
	"time"

	"handsaround/internal/config"
	"handsaround/internal/logger"
	"handsaround/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	state   *service.AppState
	config  *config.Config
	timeout time.Duration
	now     func() time.Time
}

// NewJobRunner creates a new job runner over the application state
func NewJobRunner(state *service.AppState, cfg *config.Config) *JobRunner {
	return &JobRunner{
		state:   state,
		config:  cfg,
		timeout: cfg.BackendTimeout(),
		now:     time.Now,
	}
}

// Config returns the configuration the jobs were built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	ctx := context.Background()
	if jr.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, jr.timeout)
		defer cancel()
	}

	logger.Debug("Starting job", "job", jobName)
	jobFunc(ctx)
	logger.Debug("Job completed", "job", jobName)
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.PurgeExpiredSession()
	jr.RefreshEvents()
}
