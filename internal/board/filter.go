package board

import (
	"slices"
	"strings"

	"github.com/twiced-technology-gmbh/roadmap/internal/roadmap"
)

// FilterOptions defines which tasks to include.
type FilterOptions struct {
	Stages     []int
	Priorities []roadmap.Priority
	File       string          // exact match on the File label
	Search     string          // case-insensitive substring match across id, name and file
	DependsOn  *roadmap.TaskID // nil=no filter, non-nil=only direct dependents of this task
}

// Filter returns tasks matching all specified criteria (AND logic).
func Filter(tasks []*roadmap.TaskRecord, opts FilterOptions) []*roadmap.TaskRecord {
	result := []*roadmap.TaskRecord{}
	for _, t := range tasks {
		if matchesFilter(t, opts) {
			result = append(result, t)
		}
	}
	return result
}

func matchesFilter(t *roadmap.TaskRecord, opts FilterOptions) bool {
	if len(opts.Stages) > 0 && !slices.Contains(opts.Stages, t.ID.Stage) {
		return false
	}
	if len(opts.Priorities) > 0 && !slices.Contains(opts.Priorities, t.Priority) {
		return false
	}
	if opts.File != "" && t.File != opts.File {
		return false
	}
	if opts.DependsOn != nil && !slices.Contains(t.Dependencies, *opts.DependsOn) {
		return false
	}
	if opts.Search != "" && !matchesSearch(t, opts.Search) {
		return false
	}
	return true
}

// matchesSearch performs case-insensitive substring matching across id, name and file.
func matchesSearch(t *roadmap.TaskRecord, query string) bool {
	q := strings.ToLower(query)
	for _, field := range []string{t.ID.String(), t.Name, t.File} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// FilterUnblockedWithLookup returns tasks from candidates whose dependencies
// are all done. lookup is the whole queue: a dependency that is not in it
// cannot block anything and counts as satisfied.
func FilterUnblockedWithLookup(candidates, lookup []*roadmap.TaskRecord, done map[roadmap.TaskID]bool) []*roadmap.TaskRecord {
	inQueue := make(map[roadmap.TaskID]bool, len(lookup))
	for _, t := range lookup {
		inQueue[t.ID] = true
	}

	result := []*roadmap.TaskRecord{}
	for _, t := range candidates {
		if done[t.ID] {
			continue
		}
		if allDepsSatisfied(t.Dependencies, inQueue, done) {
			result = append(result, t)
		}
	}
	return result
}

func allDepsSatisfied(deps []roadmap.TaskID, inQueue, done map[roadmap.TaskID]bool) bool {
	for _, dep := range deps {
		if inQueue[dep] && !done[dep] {
			return false
		}
	}
	return true
}
