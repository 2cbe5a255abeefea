// Package board provides queue-level views: filtering, sorting, grouping and
// per-stage summaries of a built task queue.
package board

import (
	"slices"
	"sort"
	"strings"

	"github.com/twiced-technology-gmbh/roadmap/internal/clierr"
	"github.com/twiced-technology-gmbh/roadmap/internal/roadmap"
)

// ListOptions controls how tasks are listed.
type ListOptions struct {
	Filter    FilterOptions
	SortBy    string // empty keeps the queue order
	Reverse   bool
	Limit     int
	Unblocked bool                    // only tasks whose dependencies are all done
	Done      map[roadmap.TaskID]bool // completed tasks for the Unblocked filter
}

// List applies filters, sorting and the limit to a copy of tasks.
func List(tasks []*roadmap.TaskRecord, opts ListOptions) ([]*roadmap.TaskRecord, error) {
	if opts.SortBy != "" && !validSortField(opts.SortBy) {
		return nil, clierr.Newf(clierr.InvalidInput, "invalid sort field %q; valid: %s",
			opts.SortBy, strings.Join(ValidSortFields(), ", "))
	}

	result := Filter(tasks, opts.Filter)
	if opts.Unblocked {
		// Look dependencies up in the whole queue, not just the filtered view.
		result = FilterUnblockedWithLookup(result, tasks, opts.Done)
	}
	switch {
	case opts.SortBy != "":
		Sort(result, opts.SortBy, opts.Reverse)
	case opts.Reverse:
		slices.Reverse(result)
	}

	if opts.Limit > 0 && len(result) > opts.Limit {
		result = result[:opts.Limit]
	}
	return result, nil
}

// StageSummary holds metrics for a single stage.
type StageSummary struct {
	Stage      int             `json:"stage"`
	Count      int             `json:"count"`
	Priorities []PriorityCount `json:"priorities"`
	First      string          `json:"first"`
	Last       string          `json:"last"`
}

// PriorityCount holds a count for a priority level.
type PriorityCount struct {
	Priority roadmap.Priority `json:"priority"`
	Count    int              `json:"count"`
}

// Overview is the aggregate roadmap overview.
type Overview struct {
	File       string          `json:"file"`
	TotalTasks int             `json:"total_tasks"`
	Problems   int             `json:"problems"`
	Stages     []StageSummary  `json:"stages"`
	Priorities []PriorityCount `json:"priorities"`
	Roots      []string        `json:"roots"` // tasks with no dependencies in the queue
}

// Summary computes an overview of a queue.
func Summary(file string, q *roadmap.Queue, problems int) Overview {
	byStage := make(map[int][]*roadmap.TaskRecord)
	var stages []int
	for _, t := range q.Tasks {
		if _, ok := byStage[t.ID.Stage]; !ok {
			stages = append(stages, t.ID.Stage)
		}
		byStage[t.ID.Stage] = append(byStage[t.ID.Stage], t)
	}
	sort.Ints(stages)

	summaries := make([]StageSummary, 0, len(stages))
	for _, stage := range stages {
		tasks := byStage[stage]
		summaries = append(summaries, StageSummary{
			Stage:      stage,
			Count:      len(tasks),
			Priorities: countPriorities(tasks),
			First:      tasks[0].ID.String(),
			Last:       tasks[len(tasks)-1].ID.String(),
		})
	}

	roots := []string{}
	for _, t := range FilterUnblockedWithLookup(q.Tasks, q.Tasks, nil) {
		roots = append(roots, t.ID.String())
	}

	return Overview{
		File:       file,
		TotalTasks: len(q.Tasks),
		Problems:   problems,
		Stages:     summaries,
		Priorities: countPriorities(q.Tasks),
		Roots:      roots,
	}
}

func countPriorities(tasks []*roadmap.TaskRecord) []PriorityCount {
	counts := make(map[roadmap.Priority]int, len(roadmap.Priorities))
	for _, t := range tasks {
		counts[t.Priority]++
	}
	out := make([]PriorityCount, 0, len(roadmap.Priorities))
	for _, p := range roadmap.Priorities {
		out = append(out, PriorityCount{Priority: p, Count: counts[p]})
	}
	return out
}

// ParseIDs splits a comma-separated list into deduplicated task ids.
func ParseIDs(arg string) ([]roadmap.TaskID, error) {
	parts := strings.Split(arg, ",")
	seen := make(map[roadmap.TaskID]bool, len(parts))
	ids := make([]roadmap.TaskID, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := roadmap.ParseTaskID(p)
		if err != nil {
			return nil, err
		}
		if !seen[id] {
			ids = append(ids, id)
			seen[id] = true
		}
	}
	if len(ids) == 0 {
		return nil, clierr.New(clierr.InvalidTaskID, "no valid task IDs provided")
	}
	return ids, nil
}
