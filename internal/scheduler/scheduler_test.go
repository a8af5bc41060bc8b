package scheduler

import (
	"testing"

	"handsaround/internal/config"
	"handsaround/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScheduler(t *testing.T) {
	t.Run("Registers both jobs", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Scheduler.RefreshEvents = "0 */5 * * * *"
		cfg.Scheduler.PurgeSession = "30 * * * * *"

		s, err := NewScheduler(jobs.NewJobRunner(nil, cfg))
		require.NoError(t, err)
		assert.Equal(t, 2, s.Entries())
		assert.True(t, s.IsRunning())

		s.Start()
		s.Stop()
	})

	t.Run("Invalid schedule", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Scheduler.RefreshEvents = "every now and then"
		cfg.Scheduler.PurgeSession = "30 * * * * *"

		_, err := NewScheduler(jobs.NewJobRunner(nil, cfg))
		assert.ErrorContains(t, err, "refresh_events")
	})
}
