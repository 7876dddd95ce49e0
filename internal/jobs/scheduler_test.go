package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSchedulerAddJob(t *testing.T) {
	scheduler := NewScheduler(zap.NewNop())

	require.NoError(t, scheduler.AddJob("expiration-alerts", "0 0 8 * * *", func() {}))
	require.NoError(t, scheduler.AddJob("hourly-sweep", "@hourly", func() {}))
}

func TestSchedulerAddJobRejectsBadExpression(t *testing.T) {
	scheduler := NewScheduler(zap.NewNop())

	err := scheduler.AddJob("broken", "not a cron expression", func() {})
	assert.Error(t, err)
}
