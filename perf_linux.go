//go:build linux

package tilemul

import (
	"encoding/binary"

	"golang.org/x/sys/unix"
)

type perfEventConfig struct {
	name   string
	typ    uint32
	config uint64
}

// cacheConfig packs a cache event descriptor: cache id, op and result
// in the low three bytes, as perf_event_open expects
func cacheConfig(cache, op, result uint64) uint64 {
	return cache | (op << 8) | (result << 16)
}

// linuxPerfRecorder reads hardware counters through perf_event_open
// file descriptors scoped to the calling process.
type linuxPerfRecorder struct {
	fds    []int
	events []perfEventConfig
}

func newPlatformRecorder() PerfRecorder {
	return &linuxPerfRecorder{
		events: []perfEventConfig{
			{"cycles", unix.PERF_TYPE_HARDWARE, unix.PERF_COUNT_HW_CPU_CYCLES},
			{"instructions", unix.PERF_TYPE_HARDWARE, unix.PERF_COUNT_HW_INSTRUCTIONS},
			{"cache-misses", unix.PERF_TYPE_HARDWARE, unix.PERF_COUNT_HW_CACHE_MISSES},
			{"L1d-read-misses", unix.PERF_TYPE_HW_CACHE,
				cacheConfig(unix.PERF_COUNT_HW_CACHE_L1D, unix.PERF_COUNT_HW_CACHE_OP_READ, unix.PERF_COUNT_HW_CACHE_RESULT_MISS)},
			{"LLC-read-misses", unix.PERF_TYPE_HW_CACHE,
				cacheConfig(unix.PERF_COUNT_HW_CACHE_LL, unix.PERF_COUNT_HW_CACHE_OP_READ, unix.PERF_COUNT_HW_CACHE_RESULT_MISS)},
		},
	}
}

// Start opens and enables one fd per event for the current process on
// any CPU. On any failure every fd opened so far is closed and the
// recorder is left inert.
func (r *linuxPerfRecorder) Start() error {
	r.close()

	r.fds = make([]int, 0, len(r.events))
	for _, ev := range r.events {
		attr := unix.PerfEventAttr{
			Type:   ev.typ,
			Size:   unix.PERF_ATTR_SIZE_VER1,
			Config: ev.config,
			Bits:   unix.PerfBitDisabled | unix.PerfBitExcludeKernel | unix.PerfBitExcludeHv,
		}

		fd, err := unix.PerfEventOpen(&attr, 0, -1, -1, unix.PERF_FLAG_FD_CLOEXEC)
		if err != nil {
			r.close()
			return NewMeasurementError("PerfRecorder.Start",
				"failed to open perf event "+ev.name, err)
		}
		r.fds = append(r.fds, fd)
	}

	for _, fd := range r.fds {
		if err := unix.IoctlSetInt(fd, unix.PERF_EVENT_IOC_RESET, 0); err != nil {
			r.close()
			return NewMeasurementError("PerfRecorder.Start", "failed to reset counter", err)
		}
		if err := unix.IoctlSetInt(fd, unix.PERF_EVENT_IOC_ENABLE, 0); err != nil {
			r.close()
			return NewMeasurementError("PerfRecorder.Start", "failed to enable counter", err)
		}
	}
	return nil
}

// Stop disables the counters, reads them out and closes the fds
func (r *linuxPerfRecorder) Stop() (*PerfCounters, error) {
	if len(r.fds) == 0 {
		return nil, NewMeasurementError("PerfRecorder.Stop", "recorder not started", nil)
	}
	defer r.close()

	counters := &PerfCounters{}
	var buf [8]byte

	for i, fd := range r.fds {
		unix.IoctlSetInt(fd, unix.PERF_EVENT_IOC_DISABLE, 0)

		n, err := unix.Read(fd, buf[:])
		if err != nil || n != 8 {
			continue
		}
		value := binary.NativeEndian.Uint64(buf[:])

		switch r.events[i].name {
		case "cycles":
			counters.Cycles = value
		case "instructions":
			counters.Instructions = value
		case "cache-misses":
			counters.CacheMisses = value
		case "L1d-read-misses":
			counters.L1DMisses = value
		case "LLC-read-misses":
			counters.LLCMisses = value
		}
	}

	if counters.Cycles > 0 {
		counters.IPC = float64(counters.Instructions) / float64(counters.Cycles)
	}
	return counters, nil
}

func (r *linuxPerfRecorder) close() {
	for _, fd := range r.fds {
		unix.Close(fd)
	}
	r.fds = nil
}
