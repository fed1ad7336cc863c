// Package tilemul cache topology for the block-size advisor
package tilemul

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// CacheLevel is one named cache level with its capacity in bytes
type CacheLevel struct {
	Name     string `yaml:"name"`
	Capacity int64  `yaml:"capacity"`
}

// CacheTopology is an ordered sequence of cache levels, innermost
// first. Order matters for the FirstQualifying selection policy.
type CacheTopology []CacheLevel

// DefaultTopology returns a typical three-level topology used when
// detection and configuration are both unavailable.
func DefaultTopology() CacheTopology {
	return CacheTopology{
		{Name: "L1d", Capacity: FallbackL1Size},
		{Name: "L2", Capacity: FallbackL2Size},
		{Name: "L3", Capacity: FallbackL3Size},
	}
}

// LoadTopology reads a cache topology from a YAML file of the form:
//
//	caches:
//	  - name: L1d
//	    capacity: 131072
//	  - name: L2
//	    capacity: 12582912
func LoadTopology(path string) (CacheTopology, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewExecutionError("LoadTopology", "failed to read topology file", err)
	}

	var doc struct {
		Caches CacheTopology `yaml:"caches"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, NewExecutionError("LoadTopology", "failed to parse topology file", err)
	}
	if len(doc.Caches) == 0 {
		return nil, NewInvalidArgError("LoadTopology", "topology file lists no caches")
	}
	for _, level := range doc.Caches {
		if level.Capacity <= 0 {
			return nil, NewInvalidArgError("LoadTopology",
				fmt.Sprintf("cache %q has non-positive capacity %d", level.Name, level.Capacity))
		}
	}
	return doc.Caches, nil
}

// sysfsCacheRoot is swapped out by tests
var sysfsCacheRoot = "/sys/devices/system/cpu/cpu0/cache"

// DetectTopology reads the data and unified cache levels of cpu0 from
// sysfs, ordered by level. Returns an error on platforms without the
// sysfs cache hierarchy; callers fall back to DefaultTopology.
func DetectTopology() (CacheTopology, error) {
	entries, err := filepath.Glob(filepath.Join(sysfsCacheRoot, "index*"))
	if err != nil || len(entries) == 0 {
		return nil, NewExecutionError("DetectTopology", "no sysfs cache hierarchy", err)
	}

	type detected struct {
		level int
		cache CacheLevel
	}
	var found []detected

	for _, dir := range entries {
		typ, err := readSysfsString(filepath.Join(dir, "type"))
		if err != nil {
			continue
		}
		// Instruction caches never hold matrix tiles
		if typ != "Data" && typ != "Unified" {
			continue
		}

		levelStr, err := readSysfsString(filepath.Join(dir, "level"))
		if err != nil {
			continue
		}
		level, err := strconv.Atoi(levelStr)
		if err != nil {
			continue
		}

		sizeStr, err := readSysfsString(filepath.Join(dir, "size"))
		if err != nil {
			continue
		}
		capacity, err := parseCacheSize(sizeStr)
		if err != nil {
			continue
		}

		name := fmt.Sprintf("L%d", level)
		if level == 1 {
			name = "L1d"
		}
		found = append(found, detected{level, CacheLevel{Name: name, Capacity: capacity}})
	}

	if len(found) == 0 {
		return nil, NewExecutionError("DetectTopology", "no data or unified caches found", nil)
	}

	sort.Slice(found, func(i, j int) bool { return found[i].level < found[j].level })

	topology := make(CacheTopology, 0, len(found))
	for _, d := range found {
		topology = append(topology, d.cache)
	}
	return topology, nil
}

func readSysfsString(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// parseCacheSize parses sysfs sizes like "32K", "12288K" or "8M"
func parseCacheSize(s string) (int64, error) {
	mult := int64(1)
	switch {
	case strings.HasSuffix(s, "K"):
		mult = 1024
		s = strings.TrimSuffix(s, "K")
	case strings.HasSuffix(s, "M"):
		mult = 1024 * 1024
		s = strings.TrimSuffix(s, "M")
	case strings.HasSuffix(s, "G"):
		mult = 1024 * 1024 * 1024
		s = strings.TrimSuffix(s, "G")
	}

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("non-positive cache size %q", s)
	}
	return v * mult, nil
}

// String renders the topology the way the bench header prints it
func (t CacheTopology) String() string {
	parts := make([]string, 0, len(t))
	for _, level := range t {
		parts = append(parts, fmt.Sprintf("%s=%s", level.Name, formatBytes(level.Capacity)))
	}
	return strings.Join(parts, " ")
}

func formatBytes(b int64) string {
	switch {
	case b >= 1024*1024*1024 && b%(1024*1024*1024) == 0:
		return fmt.Sprintf("%dGB", b/(1024*1024*1024))
	case b >= 1024*1024 && b%(1024*1024) == 0:
		return fmt.Sprintf("%dMB", b/(1024*1024))
	case b >= 1024 && b%1024 == 0:
		return fmt.Sprintf("%dKB", b/1024)
	default:
		return fmt.Sprintf("%dB", b)
	}
}
