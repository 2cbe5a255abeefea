package board

import (
	"slices"
	"sort"

	"github.com/twiced-technology-gmbh/roadmap/internal/roadmap"
)

// Sort and group fields.
const (
	FieldID       = "id"
	FieldStage    = "stage"
	FieldPriority = "priority"
	FieldFile     = "file"
	FieldName     = "name"
	FieldDeps     = "deps"
)

// ValidSortFields returns the list of valid --sort field names.
func ValidSortFields() []string {
	return []string{FieldID, FieldPriority, FieldFile, FieldName, FieldDeps}
}

func validSortField(field string) bool {
	return slices.Contains(ValidSortFields(), field)
}

// Sort sorts tasks by the given field. Priority sorts most severe first;
// ties keep their current relative order.
func Sort(tasks []*roadmap.TaskRecord, field string, reverse bool) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if reverse {
			return compareTasks(tasks[j], tasks[i], field)
		}
		return compareTasks(tasks[i], tasks[j], field)
	})
}

func compareTasks(a, b *roadmap.TaskRecord, field string) bool {
	switch field {
	case FieldPriority:
		return priorityIndex(a.Priority) < priorityIndex(b.Priority)
	case FieldFile:
		return a.File < b.File
	case FieldName:
		return a.Name < b.Name
	case FieldDeps:
		return len(a.Dependencies) < len(b.Dependencies)
	default:
		return a.ID.Less(b.ID)
	}
}

func priorityIndex(p roadmap.Priority) int {
	if i := slices.Index(roadmap.Priorities, p); i >= 0 {
		return i
	}
	return len(roadmap.Priorities)
}
