package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestCollectRuntime_StopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	metrics := NewPrometheusMetrics(WithRegisterer(prometheus.NewRegistry()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		metrics.CollectRuntime(ctx, 10*time.Millisecond)
	}()

	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(metrics.MemorySysGauge) > 0 &&
			testutil.ToFloat64(metrics.GoroutinesGauge) > 0
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("collector did not stop after cancel")
	}
}
