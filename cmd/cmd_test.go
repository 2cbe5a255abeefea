package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/roadmap/internal/clierr"
	"github.com/twiced-technology-gmbh/roadmap/internal/roadmap"
)

const sampleRoadmap = `# Roadmap

## Stage 1: Foundation

### Task 1.1: Parse input
**File:** ` + "`Parser.swift`" + `
**Priority:** 🔴 Critical

Port lines 10-40 of the legacy parser, then lines 50-60.

**Validation:**
- [ ] Builds
- [ ] Tests pass

---

### Task 1.2: Render output
**File:** ` + "`Renderer.swift`" + `
**Priority:** 🟡 High

**Validation:**
- [ ] Renders

---

## Stage 2: Polish

### Task 2.1: Ship it
**File:** ` + "`Main.swift`" + `
**Priority:** 🟢 Medium
`

func writeDoc(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ROADMAP.md")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
	return path
}

// resetFlags restores every flag to its default so runs don't leak state.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("ROADMAP_OUTPUT", "")
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	_, err := rootCmd.ExecuteC()
	return stdout.String(), stderr.String(), err
}

func TestTaskCommand(t *testing.T) {
	path := writeDoc(t, sampleRoadmap)

	out, _, err := run(t, "task", path, "1.1")
	require.NoError(t, err)
	assert.Equal(t,
		"TASK_NAME=\"Parse input\"\nFILE_NAME=\"Parser.swift\"\nLEGACY_START=10\nLEGACY_END=40\nFIDELITY=false\n",
		out)

	_, _, err = run(t, "task", path, "9.9")
	require.Error(t, err)
	assert.Equal(t, clierr.TaskNotFound, clierr.CodeOf(err))

	_, _, err = run(t, "task", path, "one")
	assert.Equal(t, clierr.InvalidTaskID, clierr.CodeOf(err))
}

func TestUsageError(t *testing.T) {
	_, _, err := run(t, "task", writeDoc(t, sampleRoadmap))
	require.Error(t, err)
	assert.Equal(t, clierr.InvalidInput, clierr.CodeOf(err))
	assert.Contains(t, err.Error(), "usage: roadmap task FILE ID")
}

func TestChecklistCommand(t *testing.T) {
	out, _, err := run(t, "checklist", writeDoc(t, sampleRoadmap), "1.1")
	require.NoError(t, err)
	assert.Equal(t, "Builds\nTests pass\n", out)
}

func TestLineRefsCommand(t *testing.T) {
	path := writeDoc(t, sampleRoadmap)

	out, errOut, err := run(t, "line-refs", path, "1.1")
	require.NoError(t, err)
	assert.Equal(t, "10 40\n", out)
	assert.Contains(t, errOut, "found 2 line references")

	out, _, err = run(t, "line-refs", path, "1.1", "--all")
	require.NoError(t, err)
	assert.Equal(t, "10 40\n50 60\n", out)

	_, _, err = run(t, "line-refs", path, "1.2")
	assert.Equal(t, clierr.NoLineReferences, clierr.CodeOf(err))
}

func TestQueueCommand(t *testing.T) {
	out, _, err := run(t, "queue", writeDoc(t, sampleRoadmap), "--validate")
	require.NoError(t, err)

	var q roadmap.Queue
	require.NoError(t, json.Unmarshal([]byte(out), &q))
	require.Len(t, q.Tasks, 3)
	assert.Equal(t, roadmap.PriorityCritical, q.Tasks[0].Priority)
	assert.Equal(t, []roadmap.TaskID{{Stage: 1, Sequence: 1}}, q.Tasks[1].Dependencies)
	assert.Equal(t, "pending", string(q.Tasks[2].Status))
}

func TestListCommandFilters(t *testing.T) {
	path := writeDoc(t, sampleRoadmap)

	out, _, err := run(t, "list", path, "--compact", "--priority", "critical,high")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "1.1 [CRITICAL]"))

	out, _, err = run(t, "list", path, "--compact", "--unblocked", "--done", "1.1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "1.2 "), out)

	_, _, err = run(t, "list", path, "--sort", "due")
	assert.Equal(t, clierr.InvalidInput, clierr.CodeOf(err))
}

func TestBoardCommand(t *testing.T) {
	out, _, err := run(t, "summary", writeDoc(t, sampleRoadmap), "--json")
	require.NoError(t, err)

	var overview struct {
		TotalTasks int `json:"total_tasks"`
		Stages     []struct {
			Stage int `json:"stage"`
			Count int `json:"count"`
		} `json:"stages"`
		Roots []string `json:"roots"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &overview))
	assert.Equal(t, 3, overview.TotalTasks)
	require.Len(t, overview.Stages, 2)
	assert.Equal(t, 2, overview.Stages[0].Count)
	// 2.1 waits on 1.9, which the document never defines.
	assert.Equal(t, []string{"1.1", "2.1"}, overview.Roots)
}

func TestStopMarkersCommand(t *testing.T) {
	path := writeDoc(t, sampleRoadmap)
	marker := roadmap.DefaultMarkerBlock[0]

	out, _, err := run(t, "stop-markers", path, "--task", "1.1", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Would insert 1 stop marker(s)")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleRoadmap, string(data), "dry run leaves the file alone")

	_, _, err = run(t, "stop-markers", path, "--task", "1.1")
	require.NoError(t, err)
	once, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(once), marker))

	out, _, err = run(t, "stop-markers", path, "--task", "1.1", "--json")
	require.NoError(t, err)
	var summary stopMarkerSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.False(t, summary.Changed)
	assert.Empty(t, summary.Insertions)
	assert.Equal(t, summary.Before, summary.After)

	twice, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(once), string(twice))
}

func TestStopMarkersWritesOutputFile(t *testing.T) {
	path := writeDoc(t, sampleRoadmap)
	dest := filepath.Join(t.TempDir(), "OUT.md")

	_, _, err := run(t, "stop-markers", path, "--task", "1.*", "-o", dest)
	require.NoError(t, err)

	src, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleRoadmap, string(src))

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(got), roadmap.DefaultMarkerBlock[0]))
}

func TestCheckCommand(t *testing.T) {
	good := writeDoc(t, sampleRoadmap)
	bad := writeDoc(t, sampleRoadmap+"\n### Task 2.2: Broken\nno labels here\n")

	out, _, err := run(t, "check", good)
	require.NoError(t, err)
	assert.Contains(t, out, "ok")

	out, _, err = run(t, "check", good, bad, "--compact")
	var silent *clierr.SilentError
	require.True(t, errors.As(err, &silent))
	assert.Equal(t, 1, silent.Code)
	assert.Contains(t, out, good+": ok (3 tasks)")
	assert.Contains(t, out, clierr.MalformedHeader)
}

func TestReportError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := reportError(&stdout, &stderr, clierr.New(clierr.TaskNotFound, "task 9.9 not found in roadmap"), false)
	assert.Equal(t, 1, code)
	assert.Equal(t, "Error: task 9.9 not found in roadmap\n", stderr.String())
	assert.Empty(t, stdout.String())

	stderr.Reset()
	assert.Equal(t, 1, reportError(&stdout, &stderr, errors.New("disk on fire"), false))
	assert.Equal(t, "Error: disk on fire\n", stderr.String())

	stderr.Reset()
	assert.Equal(t, 2, reportError(&stdout, &stderr, errors.New("disk on fire"), true))
	assert.Contains(t, stdout.String(), `"code": "INTERNAL_ERROR"`)
	assert.Empty(t, stderr.String())

	stdout.Reset()
	assert.Equal(t, 3, reportError(&stdout, &stderr, &clierr.SilentError{Code: 3}, false))
	assert.Empty(t, stdout.String())
	assert.Empty(t, stderr.String())
}

func TestHistoryCommand(t *testing.T) {
	dir := t.TempDir()
	_, _, err := run(t, "init", dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "ROADMAP.md")
	require.NoError(t, os.WriteFile(path, []byte(sampleRoadmap), 0o600))

	out, _, err := run(t, "history", path, "--json")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out, "no runs yet")

	_, _, err = run(t, "stop-markers", path, "--task", "1.1")
	require.NoError(t, err)
	_, _, err = run(t, "stop-markers", path, "--task", "1.1", "--dry-run")
	require.NoError(t, err)

	out, _, err = run(t, "history", path, "--json")
	require.NoError(t, err)
	var entries []struct {
		Action string `json:"action"`
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "stop-markers", entries[0].Action)
	assert.Equal(t, "stop-markers-dry-run", entries[1].Action)

	out, _, err = run(t, "history", path, "-n", "1")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.Contains(t, out, "stop-markers-dry-run")

	_, _, err = run(t, "history", writeDoc(t, sampleRoadmap))
	assert.Equal(t, clierr.ConfigNotFound, clierr.CodeOf(err))
}
