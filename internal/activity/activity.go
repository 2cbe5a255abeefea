// Package activity records stop-marker rewrite runs in a JSONL audit log.
package activity

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	logFileMode   = 0o600
	maxLogEntries = 10000 // truncate oldest entries when log exceeds this size
)

// Actions recorded in the log.
const (
	ActionStopMarkers = "stop-markers"
	ActionDryRun      = "stop-markers-dry-run"
)

// Entry represents a single activity log entry.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	RunID     string    `json:"run_id"`
	Action    string    `json:"action"`
	Document  string    `json:"document"`
	Detail    string    `json:"detail"`
	Before    string    `json:"before"` // blake3 digest of the input
	After     string    `json:"after"`  // blake3 digest of the output
}

// NewEntry stamps an entry with the current time and a fresh run id.
func NewEntry(action, document, detail, before, after string) Entry {
	return Entry{
		Timestamp: time.Now().UTC(),
		RunID:     uuid.NewString(),
		Action:    action,
		Document:  document,
		Detail:    detail,
		Before:    before,
		After:     after,
	}
}

// Append appends an entry to the log at path.
// If the log exceeds maxLogEntries, the oldest entries are truncated.
func Append(path string, entry Entry) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFileMode) //nolint:gosec // log path from trusted config dir
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling log entry: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing log entry: %w", err)
	}

	// Truncate if needed (best-effort; errors are non-fatal).
	_ = truncateIfNeeded(path, maxLogEntries)

	return nil
}

// Record appends an entry when path is set. Errors are silently discarded
// because logging should never fail a command.
func Record(path string, entry Entry) {
	if path == "" {
		return
	}
	_ = Append(path, entry)
}

// Read returns every entry of the log at path, oldest first.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path) //nolint:gosec // trusted path
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("parsing log entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading log file: %w", err)
	}
	return entries, nil
}

// truncateIfNeeded reads the log file and, if it exceeds limit entries,
// rewrites it keeping only the most recent ones.
func truncateIfNeeded(path string, limit int) error {
	f, err := os.Open(path) //nolint:gosec // trusted path
	if err != nil {
		return err
	}

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	_ = f.Close()

	if err := scanner.Err(); err != nil {
		return err
	}

	if len(lines) <= limit {
		return nil
	}

	lines = lines[len(lines)-limit:]

	var buf strings.Builder
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}

	return os.WriteFile(path, []byte(buf.String()), logFileMode)
}
