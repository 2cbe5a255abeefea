package roadmap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeClassifiesLines(t *testing.T) {
	tests := []struct {
		text    string
		kind    Kind
		level   int
		label   string
		value   string
		checked bool
	}{
		{text: "", kind: KindBlank},
		{text: "   \t", kind: KindBlank},
		{text: "---", kind: KindSeparator},
		{text: "  ---  ", kind: KindSeparator},
		{text: "```swift", kind: KindFence, value: "swift"},
		{text: "```", kind: KindFence},
		{text: "# Roadmap", kind: KindHeading, level: 1, value: "Roadmap"},
		{text: "## Stage 2", kind: KindHeading, level: 2, value: "Stage 2"},
		{text: "### Task 1.1: Segment", kind: KindTaskHeading, level: 3, value: "Task 1.1: Segment"},
		{text: "#### Task 1.1: Nested", kind: KindHeading, level: 4, value: "Task 1.1: Nested"},
		{text: "### Notes", kind: KindHeading, level: 3, value: "Notes"},
		{text: "#nospace", kind: KindText},
		{text: "**File:** `Sources/A.swift`", kind: KindLabel, label: "File", value: "`Sources/A.swift`"},
		{text: "**Validation:**", kind: KindLabel, label: "Validation"},
		{text: "**Priority:**   🔴 Critical", kind: KindLabel, label: "Priority", value: "🔴 Critical"},
		{text: "- [ ] Builds", kind: KindChecklistItem, value: "Builds"},
		{text: "- [x] Done", kind: KindChecklistItem, value: "Done", checked: true},
		{text: "- [X] Done", kind: KindChecklistItem, value: "Done", checked: true},
		{text: "- plain bullet", kind: KindText},
		{text: "some prose", kind: KindText},
		{text: "**Validation:**\r", kind: KindLabel, label: "Validation"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			lines := Tokenize(tt.text)
			require.Len(t, lines, 1)
			l := lines[0]
			assert.Equal(t, tt.kind, l.Kind, "kind %s", l.Kind)
			assert.Equal(t, tt.level, l.Level)
			assert.Equal(t, tt.label, l.Label)
			assert.Equal(t, tt.value, l.Value)
			assert.Equal(t, tt.checked, l.Checked)
			assert.Equal(t, tt.text, l.Text)
		})
	}
}

func TestTokenizePreservesText(t *testing.T) {
	text := stageDoc(3) + "trailing\r\nline"
	lines := Tokenize(text)

	parts := make([]string, len(lines))
	for i, l := range lines {
		assert.Equal(t, i, l.Number)
		parts[i] = l.Text
	}
	assert.Equal(t, text, strings.Join(parts, "\n"))
}

func TestLineEndsSection(t *testing.T) {
	assert.True(t, Tokenize("---")[0].endsSection())
	assert.True(t, Tokenize("## Stage 2")[0].endsSection())
	assert.True(t, Tokenize("### Task 2.1: X")[0].endsSection())
	assert.False(t, Tokenize("#### Details")[0].endsSection())
	assert.False(t, Tokenize("**Validation:**")[0].endsSection())
}
