package activity

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.jsonl")

	first := NewEntry(ActionStopMarkers, "ROADMAP.md", "2 inserted, 7 skipped", "aa", "bb")
	second := NewEntry(ActionDryRun, "ROADMAP.md", "0 inserted, 9 skipped", "bb", "bb")
	require.NoError(t, Append(path, first))
	require.NoError(t, Append(path, second))

	entries, err := Read(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ActionStopMarkers, entries[0].Action)
	assert.Equal(t, "bb", entries[0].After)
	assert.NotEqual(t, entries[0].RunID, entries[1].RunID)
	_, err = uuid.Parse(entries[0].RunID)
	assert.NoError(t, err)
}

func TestRecordIgnoresEmptyPathAndErrors(t *testing.T) {
	Record("", NewEntry(ActionStopMarkers, "x", "", "", ""))
	Record(filepath.Join(t.TempDir(), "missing", "activity.jsonl"), NewEntry(ActionStopMarkers, "x", "", "", ""))
}

func TestTruncateIfNeeded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.jsonl")
	var b strings.Builder
	for i := range 12 {
		b.WriteString(strings.Repeat("x", i+1))
		b.WriteByte('\n')
	}
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))

	require.NoError(t, truncateIfNeeded(path, 5))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, strings.Repeat("x", 8), lines[0])
	assert.Equal(t, strings.Repeat("x", 12), lines[4])
}
