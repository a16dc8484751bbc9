package tasks

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/blaaiz/blaaiz-go/utils/logger"
)

// ConnectionChecker is satisfied by *blaaiz.Blaaiz
type ConnectionChecker interface {
	TestConnection(ctx context.Context) bool
}

// API connectivity readiness gate. The first probe runs at startup and the
// receiver reports not ready until one has succeeded.
var (
	apiProbeDone   atomic.Bool
	apiConnected   atomic.Bool
	apiLastProbeAt atomic.Int64
)

// APIConnectionStatus returns the result of the latest connectivity probe
func APIConnectionStatus() (probed bool, connected bool, lastProbe time.Time) {
	probed = apiProbeDone.Load()
	connected = apiConnected.Load()
	if ts := apiLastProbeAt.Load(); ts != 0 {
		lastProbe = time.Unix(ts, 0)
	}
	return probed, connected, lastProbe
}

// CheckAPIConnection probes the Blaaiz API once and records the result
func CheckAPIConnection(checker ConnectionChecker) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	connected := checker.TestConnection(ctx)
	apiConnected.Store(connected)
	apiLastProbeAt.Store(time.Now().Unix())
	apiProbeDone.Store(true)

	if !connected {
		logger.Warnf("Blaaiz API connectivity check failed", nil)
	} else {
		logger.Debugf("Blaaiz API connectivity check passed", nil)
	}
	return nil
}

// StartCronJobs runs the first probe and schedules the rest every interval
func StartCronJobs(checker ConnectionChecker, interval time.Duration) *gocron.Scheduler {
	scheduler := gocron.NewScheduler(time.UTC)

	_, err := scheduler.Every(interval).Do(CheckAPIConnection, checker)
	if err != nil {
		logger.Errorf("StartCronJobs for CheckAPIConnection: %v", nil, err)
	}

	scheduler.StartAsync()
	return scheduler
}

func resetAPIConnectionStatus() {
	apiProbeDone.Store(false)
	apiConnected.Store(false)
	apiLastProbeAt.Store(0)
}
