package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/roadmap/internal/board"
	"github.com/twiced-technology-gmbh/roadmap/internal/roadmap"
)

func TestDetect(t *testing.T) {
	t.Setenv(EnvVar, "")
	assert.Equal(t, FormatAuto, Detect(false, false, false))
	assert.Equal(t, FormatJSON, Detect(true, true, true))
	assert.Equal(t, FormatCompact, Detect(false, true, true))
	assert.Equal(t, FormatTable, Detect(false, true, false))

	t.Setenv(EnvVar, "oneline")
	assert.Equal(t, FormatCompact, Detect(false, false, false))
	assert.Equal(t, FormatTable, Detect(false, true, false), "flags beat the environment")

	assert.Equal(t, FormatJSON, FormatAuto.Or(FormatJSON))
	assert.Equal(t, FormatTable, FormatTable.Or(FormatJSON))
}

func sampleTasks() []*roadmap.TaskRecord {
	return []*roadmap.TaskRecord{
		{
			ID: roadmap.TaskID{Stage: 1, Sequence: 1}, Name: "PromptSegment", File: "Sources/PromptSegment.swift",
			Priority: roadmap.PriorityCritical, Status: roadmap.StatusPending, Dependencies: []roadmap.TaskID{},
		},
		{
			ID: roadmap.TaskID{Stage: 1, Sequence: 2}, Name: "PipelineContext", File: roadmap.UnknownFile,
			Priority: roadmap.PriorityMedium, Status: roadmap.StatusPending,
			Dependencies: []roadmap.TaskID{{Stage: 1, Sequence: 1}},
		},
	}
}

func TestQueueTableAndCompact(t *testing.T) {
	DisableColor()

	var buf bytes.Buffer
	QueueTable(&buf, sampleTasks())
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "CRITICAL")
	assert.True(t, strings.HasSuffix(lines[1], "--"))
	assert.True(t, strings.HasSuffix(lines[2], "1.1"))

	buf.Reset()
	QueueCompact(&buf, sampleTasks())
	assert.Equal(t,
		"1.1 [CRITICAL] PromptSegment (Sources/PromptSegment.swift)\n"+
			"1.2 [MEDIUM] PipelineContext (unknown) after:1.1\n",
		buf.String())
}

func TestDetailCompact(t *testing.T) {
	d := roadmap.Details{
		ID: roadmap.TaskID{Stage: 3, Sequence: 2, Suffix: "a"}, Name: `Image "Gen"`, File: "Img.swift",
		LineRef: &roadmap.LineRef{Start: 10, End: 20}, Fidelity: true,
	}
	var buf bytes.Buffer
	DetailCompact(&buf, d)
	assert.Equal(t,
		"TASK_NAME=\"Image \\\"Gen\\\"\"\nFILE_NAME=\"Img.swift\"\nLEGACY_START=10\nLEGACY_END=20\nFIDELITY=true\n",
		buf.String())

	d.LineRef = nil
	buf.Reset()
	DetailCompact(&buf, d)
	assert.NotContains(t, buf.String(), "LEGACY_")
}

func TestJSONQueueKeepsEmoji(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, map[string]string{"symbol": "🔴 <critical>"}))
	assert.Contains(t, buf.String(), "🔴 <critical>")
}

func TestCheckCompact(t *testing.T) {
	var buf bytes.Buffer
	CheckCompact(&buf, []CheckResult{
		{File: "a.md", OK: true, Tasks: 3},
		{File: "b.md", Tasks: 1, Problems: []Problem{{Line: 7, TaskID: "1.2", Code: "MALFORMED_HEADER", Message: "missing"}}},
	})
	assert.Equal(t, "a.md: ok (3 tasks)\nb.md:7: MALFORMED_HEADER missing\n", buf.String())
}

func TestOverviewRenderers(t *testing.T) {
	DisableColor()
	s := board.Summary("ROADMAP.md", &roadmap.Queue{Tasks: sampleTasks()}, 2)

	var buf bytes.Buffer
	OverviewCompact(&buf, s)
	assert.Equal(t,
		"ROADMAP.md (2 tasks, 2 problems)\n"+
			"  stage 1: 2 (1.1..1.2)\n"+
			"Priority: CRITICAL=1 HIGH=0 MEDIUM=1\n",
		buf.String())

	buf.Reset()
	OverviewTable(&buf, s)
	out := buf.String()
	assert.Contains(t, out, "Total: 2 tasks, 2 problems")
	assert.Contains(t, out, "STAGE")
	assert.Contains(t, out, "Ready: 1.1")

	buf.Reset()
	GroupedTable(&buf, board.GroupBy(sampleTasks(), board.FieldFile))
	assert.Contains(t, buf.String(), "file Sources/PromptSegment.swift (1 tasks)")
	assert.Contains(t, buf.String(), "file unknown (1 tasks)")
}

func TestRenderMarkdown(t *testing.T) {
	out, err := RenderMarkdown("### Task 1.1: X\n\n- [ ] Builds\n", 60, false)
	require.NoError(t, err)
	assert.Contains(t, out, "Task 1.1: X")
	assert.Contains(t, out, "Builds")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
