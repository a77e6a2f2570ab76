package telemetry

import (
	"context"
	"runtime"
	"time"
)

type MemoryUsage struct {
	Alloc       uint64 // bytes allocated and not yet freed
	Sys         uint64 // bytes obtained from the system
	HeapObjects uint64
}

func getMemoryUsage() MemoryUsage {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return MemoryUsage{
		Alloc:       memStats.Alloc,
		Sys:         memStats.Sys,
		HeapObjects: memStats.HeapObjects,
	}
}

// CollectRuntime refreshes the runtime gauges every interval until ctx is done.
func (p Prometheus) CollectRuntime(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p.observeRuntime()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.observeRuntime()
		}
	}
}

func (p Prometheus) observeRuntime() {
	usage := getMemoryUsage()
	p.MemoryAllocGauge.Set(float64(usage.Alloc))
	p.MemorySysGauge.Set(float64(usage.Sys))
	p.HeapObjectsGauge.Set(float64(usage.HeapObjects))
	p.GoroutinesGauge.Set(float64(runtime.NumGoroutine()))
}
