package jobs

import (
	"context"

	"handsaround/internal/logger"
)

// PurgeExpiredSession signs the user out once the backend token has expired
func (jr *JobRunner) PurgeExpiredSession() {
	jr.runWithRecovery("PurgeExpiredSession", func(ctx context.Context) {
		if jr.state.Session.PurgeIfExpired(ctx, jr.now()) {
			logger.InfoContext(ctx, "Purged expired session")
		}
	})
}
