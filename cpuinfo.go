// Package tilemul CPU feature reporting for benchmark headers
package tilemul

import (
	"strings"

	"golang.org/x/sys/cpu"
)

// CPUInfo returns a string describing the SIMD extensions of the host.
// Printed in benchmark headers so recorded results carry the hardware
// context they were measured on; the scalar kernels themselves do not
// branch on any of these.
func CPUInfo() string {
	var features []string

	if cpu.X86.HasSSE41 || cpu.X86.HasSSE42 {
		features = append(features, "SSE4")
	}
	if cpu.X86.HasAVX {
		features = append(features, "AVX")
	}
	if cpu.X86.HasAVX2 {
		features = append(features, "AVX2")
	}
	if cpu.X86.HasFMA {
		features = append(features, "FMA")
	}
	if cpu.X86.HasAVX512F {
		features = append(features, "AVX512F")
	}
	if cpu.ARM64.HasASIMD {
		features = append(features, "ASIMD")
	}
	if cpu.ARM64.HasSVE {
		features = append(features, "SVE")
	}

	if len(features) == 0 {
		return "no SIMD extensions detected"
	}
	return strings.Join(features, ", ")
}
