package roadmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/roadmap/internal/clierr"
)

const fieldsDoc = `### Task 3.2a 🔴: ImageGenerationService
**File:** ` + "`Sources/Services/ImageGenerationService.swift`" + ` (new)
**Priority:** 🔴 Critical

FIDELITY REMINDER: port lines 120-180 of legacy.py, then Lines 200-215.

**Implementation:**
- Create the service protocol
• Add a retry policy
  * Log every request
- [ ] not a requirement
**Notes:** later
- outside the block

` + "```swift" + `
// Must be Sendable
let timeout = 30 // seconds
` + "```" + `

` + "```swift" + `
// second block is ignored
` + "```" + `

**Validation:**
- [ ] Builds
- [x] Unit tests pass

- [ ] Handles rate limits
Trailing prose
- [ ] not in the checklist
`

func fieldsSection(t *testing.T) *Section {
	t.Helper()
	s, err := Parse(fieldsDoc).FindSectionByLabel("3.2a")
	require.NoError(t, err)
	return s
}

func TestSectionFile(t *testing.T) {
	assert.Equal(t, "Sources/Services/ImageGenerationService.swift", fieldsSection(t).File())

	s, err := Parse("### Task 1.1: Bare\nno labels\n").FindSectionByLabel("1.1")
	require.NoError(t, err)
	assert.Equal(t, UnknownFile, s.File())
}

func TestSectionPriority(t *testing.T) {
	tests := []struct {
		value string
		want  Priority
	}{
		{"🔴 Critical", PriorityCritical},
		{"🟡 High", PriorityHigh},
		{"🟢", PriorityMedium},
		{"⚪ Low", PriorityMedium},
		{"HIGH", PriorityMedium},
		{"critical - blocks release", PriorityMedium},
		{"", PriorityMedium},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			s, err := Parse("### Task 1.1: X\n**Priority:** " + tt.value + "\n").FindSectionByLabel("1.1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Priority(DefaultPriorityMap()))
		})
	}

	words := PriorityMap{"HIGH": PriorityHigh, "🔴": PriorityCritical}
	assert.Equal(t, PriorityHigh, words.Lookup("HIGH"), "level words count once configured as symbols")
	assert.Equal(t, PriorityMedium, words.Lookup("critical stuff"))

	s, err := Parse("### Task 1.1: X\n").FindSectionByLabel("1.1")
	require.NoError(t, err)
	assert.Equal(t, PriorityMedium, s.Priority(DefaultPriorityMap()), "absent label")
}

func TestPriorityMapCustomSymbols(t *testing.T) {
	m := PriorityMap{"P0": PriorityCritical, "P": PriorityHigh}
	assert.Equal(t, PriorityCritical, m.Lookup("P0 now"), "longest symbol wins")
	assert.Equal(t, PriorityHigh, m.Lookup("P1"))
	assert.Equal(t, PriorityMedium, m.Lookup("🔴"))
}

func TestSectionLineRefs(t *testing.T) {
	s := fieldsSection(t)
	assert.Equal(t, []LineRef{{Start: 120, End: 180}, {Start: 200, End: 215}}, s.LineRefs())

	ref, err := s.PrimaryLineRef()
	require.NoError(t, err)
	assert.Equal(t, LineRef{Start: 120, End: 180}, ref)

	bare, err := Parse("### Task 1.1: X\nno refs\n").FindSectionByLabel("1.1")
	require.NoError(t, err)
	_, err = bare.PrimaryLineRef()
	require.Error(t, err)
	assert.Equal(t, clierr.NoLineReferences, clierr.CodeOf(err))
}

func TestSectionRequirements(t *testing.T) {
	assert.Equal(t, []string{
		"Create the service protocol",
		"Add a retry policy",
		"Log every request",
		"Must be Sendable",
		"seconds",
	}, fieldsSection(t).Requirements("swift"))

	assert.Equal(t, []string{
		"Create the service protocol",
		"Add a retry policy",
		"Log every request",
	}, fieldsSection(t).Requirements("kotlin"))
}

func TestSectionChecklist(t *testing.T) {
	assert.Equal(t, []string{"Builds", "Unit tests pass", "Handles rate limits"}, fieldsSection(t).Checklist())

	s, err := Parse("### Task 1.1: X\n").FindSectionByLabel("1.1")
	require.NoError(t, err)
	assert.Empty(t, s.Checklist())
}

func TestSectionFidelity(t *testing.T) {
	s := fieldsSection(t)
	assert.True(t, s.Fidelity([]string{"FIDELITY REMINDER"}))
	assert.False(t, s.Fidelity([]string{"Maintain 100% functionality"}))
	assert.False(t, s.Fidelity(nil))
}

func TestSectionDetails(t *testing.T) {
	d := fieldsSection(t).Details(ExtractOptions{
		Priorities:      DefaultPriorityMap(),
		FidelityPhrases: []string{"FIDELITY REMINDER", "Maintain 100% functionality"},
	})
	assert.Equal(t, "3.2a", d.ID.String())
	assert.Equal(t, "ImageGenerationService", d.Name)
	assert.Equal(t, "Sources/Services/ImageGenerationService.swift", d.File)
	assert.Equal(t, PriorityCritical, d.Priority)
	require.NotNil(t, d.LineRef)
	assert.Equal(t, 120, d.LineRef.Start)
	assert.True(t, d.Fidelity)
}
