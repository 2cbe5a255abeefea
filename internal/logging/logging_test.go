package logging

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, log.WarnLevel, false)

	logger.Debug("hidden")
	logger.Warn("duplicate task heading", "id", "2.1")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "duplicate task heading")
	assert.Contains(t, out, "roadmap")
	assert.Contains(t, out, "id=2.1")
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, log.InfoLevel, true).Info("queue built", "tasks", 3)
	assert.Contains(t, buf.String(), `"msg":"queue built"`)
}

func TestLevelFlag(t *testing.T) {
	l := Level{DefaultLevel}
	assert.Equal(t, "warn", l.String())
	assert.Equal(t, "level", l.Type())

	require.NoError(t, l.Set("DEBUG"))
	assert.Equal(t, log.DebugLevel, l.Level)

	assert.Error(t, l.Set("loud"))
}
