package tasks

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeChecker struct {
	connected bool
	calls     atomic.Int32
}

func (f *fakeChecker) TestConnection(ctx context.Context) bool {
	f.calls.Add(1)
	return f.connected
}

func TestCheckAPIConnection(t *testing.T) {
	t.Run("records a successful probe", func(t *testing.T) {
		resetAPIConnectionStatus()
		probed, _, _ := APIConnectionStatus()
		assert.False(t, probed)

		assert.NoError(t, CheckAPIConnection(&fakeChecker{connected: true}))

		probed, connected, lastProbe := APIConnectionStatus()
		assert.True(t, probed)
		assert.True(t, connected)
		assert.WithinDuration(t, time.Now(), lastProbe, 2*time.Second)
	})

	t.Run("records a failed probe", func(t *testing.T) {
		resetAPIConnectionStatus()
		assert.NoError(t, CheckAPIConnection(&fakeChecker{connected: false}))

		probed, connected, _ := APIConnectionStatus()
		assert.True(t, probed)
		assert.False(t, connected)
	})
}

func TestStartCronJobs(t *testing.T) {
	resetAPIConnectionStatus()
	checker := &fakeChecker{connected: true}

	scheduler := StartCronJobs(checker, time.Hour)
	defer scheduler.Stop()

	assert.Eventually(t, func() bool {
		return checker.calls.Load() >= 1
	}, 2*time.Second, 10*time.Millisecond)

	_, connected, _ := APIConnectionStatus()
	assert.True(t, connected)
}
