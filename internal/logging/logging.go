// Package logging builds the diagnostic logger shared by all commands.
package logging

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/twiced-technology-gmbh/roadmap/internal/clierr"
)

// Prefix labels every log line.
const Prefix = "roadmap"

// DefaultLevel keeps routine runs quiet.
const DefaultLevel = log.WarnLevel

// New returns a text logger writing to w at the given level. With json set,
// lines are JSON objects instead, for machine consumers.
func New(w io.Writer, level log.Level, json bool) *log.Logger {
	formatter := log.TextFormatter
	if json {
		formatter = log.JSONFormatter
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       formatter,
		Prefix:          Prefix,
		ReportTimestamp: level <= log.DebugLevel,
	})
}

// Level is a pflag.Value for --log-level.
type Level struct {
	log.Level
}

var _ pflag.Value = (*Level)(nil)

// String implements pflag.Value.
func (l *Level) String() string {
	return l.Level.String()
}

// Set implements pflag.Value.
func (l *Level) Set(s string) error {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return clierr.Newf(clierr.InvalidInput, "invalid log level %q (use debug, info, warn, error)", s)
	}
	l.Level = lvl
	return nil
}

// Type implements pflag.Value.
func (l *Level) Type() string {
	return "level"
}
