package board

import (
	"sort"
	"strconv"

	"github.com/twiced-technology-gmbh/roadmap/internal/roadmap"
)

// GroupedSummary holds tasks grouped by a field.
type GroupedSummary struct {
	Field  string         `json:"field"`
	Groups []GroupSummary `json:"groups"`
}

// GroupSummary is one group within a grouped view.
type GroupSummary struct {
	Key        string          `json:"key"`
	Tasks      []string        `json:"tasks"`
	Priorities []PriorityCount `json:"priorities"`
	Total      int             `json:"total"`
}

// GroupBy groups tasks by the specified field and returns summaries per group.
func GroupBy(tasks []*roadmap.TaskRecord, field string) GroupedSummary {
	groups := make(map[string][]*roadmap.TaskRecord)
	for _, t := range tasks {
		key := extractGroupKey(t, field)
		groups[key] = append(groups[key], t)
	}

	result := GroupedSummary{
		Field:  field,
		Groups: make([]GroupSummary, 0, len(groups)),
	}
	for _, key := range sortGroupKeys(groups, field) {
		groupTasks := groups[key]
		ids := make([]string, len(groupTasks))
		for i, t := range groupTasks {
			ids[i] = t.ID.String()
		}
		result.Groups = append(result.Groups, GroupSummary{
			Key:        key,
			Tasks:      ids,
			Priorities: countPriorities(groupTasks),
			Total:      len(groupTasks),
		})
	}
	return result
}

func extractGroupKey(t *roadmap.TaskRecord, field string) string {
	switch field {
	case FieldStage:
		return strconv.Itoa(t.ID.Stage)
	case FieldPriority:
		return string(t.Priority)
	case FieldFile:
		return t.File
	default:
		return "(all)"
	}
}

func sortGroupKeys(groups map[string][]*roadmap.TaskRecord, field string) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}

	switch field {
	case FieldStage:
		sort.SliceStable(keys, func(i, j int) bool {
			a, _ := strconv.Atoi(keys[i])
			b, _ := strconv.Atoi(keys[j])
			return a < b
		})
	case FieldPriority:
		sort.SliceStable(keys, func(i, j int) bool {
			return priorityIndex(roadmap.Priority(keys[i])) < priorityIndex(roadmap.Priority(keys[j]))
		})
	default:
		sort.Strings(keys)
	}
	return keys
}

// ValidGroupByFields returns the list of valid --group-by field names.
func ValidGroupByFields() []string {
	return []string{FieldStage, FieldPriority, FieldFile}
}
