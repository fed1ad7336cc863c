//go:build !linux

// Package tilemul stub recorder for platforms without perf_event_open
package tilemul

type noopPerfRecorder struct{}

func newPlatformRecorder() PerfRecorder {
	return noopPerfRecorder{}
}

func (noopPerfRecorder) Start() error {
	return NewMeasurementError("PerfRecorder.Start",
		"hardware counters are only available on linux", nil)
}

func (noopPerfRecorder) Stop() (*PerfCounters, error) {
	return nil, NewMeasurementError("PerfRecorder.Stop",
		"hardware counters are only available on linux", nil)
}
