// Package tilemul session-based logging of benchmark results
package tilemul

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// BenchResult captures one timed multiply invocation
type BenchResult struct {
	Algorithm    string        `json:"algorithm"`
	Size         int           `json:"size"`
	TileEdge     int           `json:"tile_edge,omitempty"`
	Workers      int           `json:"workers,omitempty"`
	Duration     time.Duration `json:"duration_ns"`
	GFLOPS       float64       `json:"gflops"`
	Cycles       uint64        `json:"cycles,omitempty"`
	Instructions uint64        `json:"instructions,omitempty"`
	CacheMisses  uint64        `json:"cache_misses,omitempty"`
	L1DMisses    uint64        `json:"l1d_misses,omitempty"`
	LLCMisses    uint64        `json:"llc_misses,omitempty"`
	Verified     bool          `json:"verified,omitempty"`
	Error        string        `json:"error,omitempty"`
	Timestamp    time.Time     `json:"timestamp"`
}

// BenchLogger accumulates the results of one benchmark session and
// writes them to disk as JSON, flushing after every result so a
// crashed run keeps what it measured.
type BenchLogger struct {
	mu        sync.Mutex
	results   []BenchResult
	logDir    string
	sessionID string
	path      string
}

// NewBenchLogger opens a new session under logDir. Each session gets a
// unique ID used in the file name and embedded in the session header.
func NewBenchLogger(logDir string) (*BenchLogger, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, NewExecutionError("NewBenchLogger", "failed to create log directory", err)
	}

	id := uuid.NewString()
	timestamp := time.Now().Format("20060102_150405")
	bl := &BenchLogger{
		logDir:    logDir,
		sessionID: id,
		path:      filepath.Join(logDir, fmt.Sprintf("matbench_%s_%s.json", timestamp, id[:8])),
	}

	if err := bl.flush(); err != nil {
		return nil, err
	}
	return bl, nil
}

// SessionID returns the unique identifier of this logging session
func (bl *BenchLogger) SessionID() string {
	return bl.sessionID
}

// Path returns the JSON session file path
func (bl *BenchLogger) Path() string {
	return bl.path
}

// Log appends one result and flushes the session file
func (bl *BenchLogger) Log(result BenchResult) error {
	bl.mu.Lock()
	defer bl.mu.Unlock()

	result.Timestamp = time.Now()
	bl.results = append(bl.results, result)
	return bl.flush()
}

// Results returns a copy of the results logged so far
func (bl *BenchLogger) Results() []BenchResult {
	bl.mu.Lock()
	defer bl.mu.Unlock()
	out := make([]BenchResult, len(bl.results))
	copy(out, bl.results)
	return out
}

type sessionFile struct {
	SessionID string        `json:"session_id"`
	Results   []BenchResult `json:"results"`
}

// flush writes the session to disk; callers hold bl.mu
func (bl *BenchLogger) flush() error {
	data, err := json.MarshalIndent(sessionFile{
		SessionID: bl.sessionID,
		Results:   bl.results,
	}, "", "  ")
	if err != nil {
		return NewExecutionError("BenchLogger.flush", "failed to marshal results", err)
	}
	if err := os.WriteFile(bl.path, data, 0o644); err != nil {
		return NewExecutionError("BenchLogger.flush", "failed to write session file", err)
	}
	return nil
}

// WriteCSV writes the session's results as CSV, one row per
// invocation, for the plotting scripts
func (bl *BenchLogger) WriteCSV(path string) error {
	bl.mu.Lock()
	defer bl.mu.Unlock()

	f, err := os.Create(path)
	if err != nil {
		return NewExecutionError("BenchLogger.WriteCSV", "failed to create CSV file", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"algorithm", "size", "tile_edge", "workers",
		"seconds", "gflops", "cycles", "instructions",
		"cache_misses", "l1d_misses", "llc_misses",
	}
	if err := w.Write(header); err != nil {
		return NewExecutionError("BenchLogger.WriteCSV", "failed to write header", err)
	}

	for _, r := range bl.results {
		row := []string{
			r.Algorithm,
			strconv.Itoa(r.Size),
			strconv.Itoa(r.TileEdge),
			strconv.Itoa(r.Workers),
			strconv.FormatFloat(r.Duration.Seconds(), 'f', 6, 64),
			strconv.FormatFloat(r.GFLOPS, 'f', 3, 64),
			strconv.FormatUint(r.Cycles, 10),
			strconv.FormatUint(r.Instructions, 10),
			strconv.FormatUint(r.CacheMisses, 10),
			strconv.FormatUint(r.L1DMisses, 10),
			strconv.FormatUint(r.LLCMisses, 10),
		}
		if err := w.Write(row); err != nil {
			return NewExecutionError("BenchLogger.WriteCSV", "failed to write row", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return NewExecutionError("BenchLogger.WriteCSV", "failed to flush CSV", err)
	}
	return nil
}

// LoadSession reads a previously written JSON session file
func LoadSession(path string) (string, []BenchResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, NewExecutionError("LoadSession", "failed to read session file", err)
	}

	var doc sessionFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", nil, NewExecutionError("LoadSession", "failed to parse session file", err)
	}
	return doc.SessionID, doc.Results, nil
}
