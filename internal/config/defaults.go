// Package config handles roadmap tool configuration.
package config

import "github.com/twiced-technology-gmbh/roadmap/internal/roadmap"

const (
	// DefaultDir is the name of the configuration directory.
	DefaultDir = ".roadmap"

	// ConfigFileName is the YAML config file within the configuration directory.
	ConfigFileName = "config.yml"
	// TOMLFileName is the TOML alternative to ConfigFileName.
	TOMLFileName = "config.toml"
	// ActivityLogFileName is the JSONL audit log within the configuration directory.
	ActivityLogFileName = "activity.jsonl"

	// DefaultRequirementsLanguage tags the fenced blocks scanned for requirement comments.
	DefaultRequirementsLanguage = "swift"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 2
)

// Default slice values (slices cannot be const).
var (
	DefaultFidelityPhrases = []string{
		"FIDELITY REMINDER",
		"Maintain 100% functionality",
	}

	// DefaultStopTasks are the tasks that close a functional milestone and
	// need a human build-and-test pass before work continues.
	DefaultStopTasks = []string{
		"1.1", "1.2", "1.3", "1.4", "1.5", "1.6", "1.7", "1.8", "1.9",
		"2.1", "2.2", "2.7",
		"3.1", "3.2", "3.2a", "3.3",
		"4.1", "4.2",
		"5.1", "5.2",
		"6.1", "6.2", "6.3", "6.4",
	}
)

// DefaultPriorities returns the default symbol to level mapping.
func DefaultPriorities() map[string]string {
	m := make(map[string]string)
	for sym, level := range roadmap.DefaultPriorityMap() {
		m[sym] = string(level)
	}
	return m
}

// DefaultMarkerBlock returns the default stop marker as a single block of text.
func DefaultMarkerBlock() string {
	return joinLines(roadmap.DefaultMarkerBlock)
}

func boolPtr(v bool) *bool { return &v }
