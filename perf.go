// Package tilemul hardware performance counter integration
package tilemul

import (
	"fmt"
	"strings"
	"time"
)

// PerfCounters holds the counter readings bracketing one multiply call
type PerfCounters struct {
	// Timing
	Duration time.Duration

	// CPU counters
	Cycles       uint64
	Instructions uint64
	CacheMisses  uint64
	L1DMisses    uint64
	LLCMisses    uint64

	// Derived metrics
	IPC    float64 // Instructions per cycle
	GFLOPS float64 // Billions of FP ops per second
}

// PerfRecorder collects hardware counters around a region of work.
// Start and Stop bracket the region; the multiply calls themselves are
// synchronous, so the bracket is exact. On platforms without counter
// support Start reports a measurement error and the harness degrades
// to timing-only.
type PerfRecorder interface {
	Start() error
	Stop() (*PerfCounters, error)
}

// NewPerfRecorder returns the platform's hardware counter recorder.
// The Linux build uses perf_event_open; other platforms return a
// recorder whose Start always fails.
func NewPerfRecorder() PerfRecorder {
	return newPlatformRecorder()
}

// MeasureKernel runs fn and returns wall time plus, when available,
// hardware counters for the run.
func MeasureKernel(fn func() error) (*PerfCounters, error) {
	rec := NewPerfRecorder()
	useHW := rec.Start() == nil

	start := time.Now()
	err := fn()
	duration := time.Since(start)

	if err != nil {
		if useHW {
			rec.Stop()
		}
		return nil, err
	}

	if useHW {
		counters, err := rec.Stop()
		if err == nil {
			counters.Duration = duration
			return counters, nil
		}
	}
	return &PerfCounters{Duration: duration}, nil
}

// CalculateMetrics fills in derived metrics given the FLOP count of
// the measured region
func (pc *PerfCounters) CalculateMetrics(flops uint64) {
	if pc.Duration > 0 {
		pc.GFLOPS = float64(flops) / (pc.Duration.Seconds() * 1e9)
	}
	if pc.Cycles > 0 {
		pc.IPC = float64(pc.Instructions) / float64(pc.Cycles)
	}
}

// String formats performance counters for display
func (pc *PerfCounters) String() string {
	var sb strings.Builder

	sb.WriteString("Performance Counters:\n")
	if pc.Duration > 0 {
		sb.WriteString(fmt.Sprintf("  Duration:          %v\n", pc.Duration))
	}
	if pc.Cycles > 0 {
		sb.WriteString(fmt.Sprintf("  CPU Cycles:        %d\n", pc.Cycles))
		sb.WriteString(fmt.Sprintf("  Instructions:      %d\n", pc.Instructions))
		sb.WriteString(fmt.Sprintf("  IPC:               %.2f\n", pc.IPC))
	}
	if pc.CacheMisses > 0 {
		sb.WriteString(fmt.Sprintf("  Cache Misses:      %d\n", pc.CacheMisses))
	}
	if pc.L1DMisses > 0 {
		sb.WriteString(fmt.Sprintf("  L1D Misses:        %d\n", pc.L1DMisses))
	}
	if pc.LLCMisses > 0 {
		sb.WriteString(fmt.Sprintf("  LLC Misses:        %d\n", pc.LLCMisses))
	}
	if pc.GFLOPS > 0 {
		sb.WriteString(fmt.Sprintf("  GFLOPS:            %.2f\n", pc.GFLOPS))
	}

	return sb.String()
}
