// Package output handles formatting CLI output as table, JSON, compact, or plain lines.
package output

import (
	"os"
)

// EnvVar selects the output format when no flag is given.
const EnvVar = "ROADMAP_OUTPUT"

// Format represents an output format.
type Format int

const (
	// FormatAuto lets each command pick its natural format.
	FormatAuto Format = iota
	// FormatJSON outputs JSON.
	FormatJSON
	// FormatTable outputs a human-readable table.
	FormatTable
	// FormatCompact outputs one-line-per-record compact format.
	FormatCompact
)

// Detect returns the appropriate format based on flags and environment.
// Returns FormatAuto when no explicit format is set.
func Detect(jsonFlag, tableFlag, compactFlag bool) Format {
	if jsonFlag {
		return FormatJSON
	}
	if compactFlag {
		return FormatCompact
	}
	if tableFlag {
		return FormatTable
	}

	switch os.Getenv(EnvVar) {
	case "json":
		return FormatJSON
	case "compact", "oneline":
		return FormatCompact
	case "table":
		return FormatTable
	}

	return FormatAuto
}

// Or returns f, or def when f is FormatAuto.
func (f Format) Or(def Format) Format {
	if f == FormatAuto {
		return def
	}
	return f
}
