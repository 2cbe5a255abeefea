package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/roadmap/internal/clierr"
	"github.com/twiced-technology-gmbh/roadmap/internal/roadmap"
)

func TestValidateBuiltQueue(t *testing.T) {
	doc := roadmap.Parse("### Task 1.1: A\n**File:** `A.swift`\n**Priority:** 🔴\n---\n### Task 1.2: B\n**File:** `B.swift`\n**Priority:** 🟢\n")
	q, problems := roadmap.BuildQueue(doc, roadmap.BuildOptions{})
	require.Empty(t, problems)

	assert.NoError(t, Validate(q))
	assert.NoError(t, Validate(&roadmap.Queue{Tasks: []*roadmap.TaskRecord{}}))
}

func TestValidateJSONRejectsInvalidQueues(t *testing.T) {
	tests := map[string]string{
		"invalid priority": `{"tasks":[{"id":"1.1","name":"A","file":"A.swift","priority":"LOW","status":"pending","dependencies":[],"assigned_to":null,"attempts":0}]}`,
		"bad id":           `{"tasks":[{"id":"1","name":"A","file":"A.swift","priority":"HIGH","status":"pending","dependencies":[],"assigned_to":null,"attempts":0}]}`,
		"missing field":    `{"tasks":[{"id":"1.1","name":"A","file":"A.swift","priority":"HIGH","status":"pending","dependencies":[],"attempts":0}]}`,
		"negative":         `{"tasks":[{"id":"1.1","name":"A","file":"A.swift","priority":"HIGH","status":"pending","dependencies":[],"assigned_to":null,"attempts":-1}]}`,
		"no tasks key":     `{}`,
		"not json":         `{`,
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			err := ValidateJSON([]byte(data))
			require.Error(t, err)
			assert.Equal(t, clierr.SchemaViolation, clierr.CodeOf(err))
		})
	}
}

func TestValidateJSONNamesField(t *testing.T) {
	err := ValidateJSON([]byte(`{"tasks":[{"id":"1.1","name":"A","file":"A.swift","priority":"LOW","status":"pending","dependencies":[],"assigned_to":null,"attempts":0}]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/tasks/0/priority")
}

func TestSource(t *testing.T) {
	assert.Contains(t, string(Source()), `"tasks"`)
}
