package jobs

import (
	"context"
	"errors"

	"handsaround/internal/domain"
	"handsaround/internal/logger"
)

// RefreshEvents replaces the event directory with the backend's current snapshot.
// A refresh already running (manual or scheduled) is skipped.
func (jr *JobRunner) RefreshEvents() {
	jr.runWithRecovery("RefreshEvents", func(ctx context.Context) {
		events, err := jr.state.FetchEvents(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrInFlight) {
				logger.Debug("Event refresh already in progress")
				return
			}
			logger.WarnContext(ctx, "Scheduled event refresh failed", "error", err)
			return
		}
		logger.InfoContext(ctx, "Refreshed events", "count", len(events))
	})
}
