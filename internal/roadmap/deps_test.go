package roadmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDependencies(t *testing.T) {
	tests := []struct {
		id   string
		want []string
	}{
		{"1.1", []string{}},
		{"3.1", []string{"2.9"}},
		{"2.5", []string{"2.4"}},
		{"4.2a", []string{"4.1"}},
		{"3.10", []string{"3.9"}},
		{"2.1a", []string{"1.9"}},
		{"1.0", []string{}},
		{"5.0", []string{"4.9"}},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			id, err := ParseTaskID(tt.id)
			require.NoError(t, err)

			got := Dependencies(id, DefaultFinalSequence)
			require.NotNil(t, got)
			labels := make([]string, len(got))
			for i, d := range got {
				labels[i] = d.String()
			}
			assert.Equal(t, tt.want, labels)
		})
	}
}

func TestDependenciesFinalSequence(t *testing.T) {
	got := Dependencies(TaskID{Stage: 3, Sequence: 1}, 12)
	assert.Equal(t, []TaskID{{Stage: 2, Sequence: 12}}, got)
}

func TestDependenciesProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		id := TaskID{
			Stage:    rapid.IntRange(1, 40).Draw(t, "stage"),
			Sequence: rapid.IntRange(0, 40).Draw(t, "sequence"),
			Suffix:   rapid.SampledFrom([]string{"", "a", "b", "z"}).Draw(t, "suffix"),
		}
		final := rapid.IntRange(1, 40).Draw(t, "final")

		deps := Dependencies(id, final)
		if len(deps) > 1 {
			t.Fatalf("%s: more than one dependency: %v", id, deps)
		}
		for _, d := range deps {
			if d == id {
				t.Fatalf("%s depends on itself", id)
			}
			if !d.Less(id) {
				t.Fatalf("%s depends on later task %s", id, d)
			}
			if d.Suffix != "" {
				t.Fatalf("%s: dependency %s keeps a suffix", id, d)
			}
		}
		if id.Stage == 1 && id.Sequence <= 1 && len(deps) != 0 {
			t.Fatalf("%s should be a root, got %v", id, deps)
		}
	})
}
