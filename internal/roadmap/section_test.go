package roadmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/roadmap/internal/clierr"
)

const segmenterDoc = `# Roadmap

### Task 1.1: First
**File:** ` + "`A.swift`" + `
**Priority:** 🔴 Critical
first body
#### Notes
still first
### Task 1.2: Second
**File:** ` + "`B.swift`" + `
**Priority:** 🟡 High
second body
---
between tasks
### Task 1.10: Tenth
**File:** ` + "`J.swift`" + `
**Priority:** 🟢 Medium
tenth body
`

func TestFindSectionBoundaries(t *testing.T) {
	doc := Parse(segmenterDoc)

	s, err := doc.FindSectionByLabel("1.2")
	require.NoError(t, err)
	assert.Equal(t, "Second", s.Name)
	text := s.Text()
	assert.Contains(t, text, "second body")
	assert.NotContains(t, text, "---")
	assert.NotContains(t, text, "between tasks")
	assert.NotContains(t, text, "Task 1.10")
	assert.NotContains(t, text, "first body")

	first, err := doc.FindSectionByLabel("1.1")
	require.NoError(t, err)
	assert.Contains(t, first.Text(), "still first", "level-4 headings stay inside the section")
	assert.NotContains(t, first.Text(), "Task 1.2")
	assert.Equal(t, first.End(), s.Start())

	tenth, err := doc.FindSectionByLabel("1.10")
	require.NoError(t, err)
	assert.Equal(t, "Tenth", tenth.Name)
	assert.Contains(t, tenth.Text(), "tenth body")
	assert.NotContains(t, tenth.Text(), "first body")
}

func TestFindSectionNotFound(t *testing.T) {
	doc := Parse(segmenterDoc)

	_, err := doc.FindSectionByLabel("1.3")
	require.Error(t, err)
	assert.Equal(t, clierr.TaskNotFound, clierr.CodeOf(err))

	_, err = doc.FindSectionByLabel("one")
	require.Error(t, err)
	assert.Equal(t, clierr.InvalidTaskID, clierr.CodeOf(err))
}

func TestFindSectionFirstMatchWins(t *testing.T) {
	doc := Parse("### Task 2.1: Original\nkeep\n---\n### Task 2.1: Copy\ndrop\n")

	s, err := doc.FindSectionByLabel("2.1")
	require.NoError(t, err)
	assert.Equal(t, "Original", s.Name)
	assert.Len(t, doc.Sections(), 2)
}

func TestSectionsSkipUnparseableHeadings(t *testing.T) {
	doc := Parse("### Task TBD: Later\n### Task 1.1: Real\n")

	sections := doc.Sections()
	require.Len(t, sections, 1)
	assert.Equal(t, "1.1", sections[0].ID.String())
	assert.Equal(t, 1, sections[0].Start())
	assert.Equal(t, 3, sections[0].End())
}
