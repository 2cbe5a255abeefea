package roadmap

import (
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/gammazero/toposort"

	"github.com/twiced-technology-gmbh/roadmap/internal/clierr"
)

// Status is the lifecycle state of a queued task. The builder only ever
// produces StatusPending; the scheduler that consumes the queue owns the rest.
type Status string

// StatusPending is the initial status of every task.
const StatusPending Status = "pending"

// TaskRecord is one entry of the task queue. Field order is the wire order.
type TaskRecord struct {
	ID           TaskID   `json:"id"`
	Name         string   `json:"name"`
	File         string   `json:"file"`
	Priority     Priority `json:"priority"`
	Status       Status   `json:"status"`
	Dependencies []TaskID `json:"dependencies"`
	AssignedTo   *string  `json:"assigned_to"`
	Attempts     int      `json:"attempts"`
}

// Queue is the ordered task queue handed to the scheduler.
type Queue struct {
	Tasks []*TaskRecord `json:"tasks"`
}

// Find returns the record with the given id, or nil.
func (q *Queue) Find(id TaskID) *TaskRecord {
	for _, t := range q.Tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Problem describes a task heading that was left out of the queue.
type Problem struct {
	Line int    // one-based line of the heading
	ID   string // task identifier as written
	Err  *clierr.Error
}

// Error implements the error interface.
func (p Problem) Error() string {
	return fmt.Sprintf("line %d: %s", p.Line, p.Err.Message)
}

// BuildOptions configures BuildQueue.
type BuildOptions struct {
	Priorities    PriorityMap // nil means DefaultPriorityMap
	FinalSequence int         // <= 0 means DefaultFinalSequence
	Logger        *log.Logger // nil discards
}

// BuildQueue assembles a TaskRecord for every conforming task heading, in
// document order. A conforming heading has the "### Task <id>: <name>" shape
// and is followed by a File label and then a Priority label (blank lines
// allowed). Headings without that pair are reported as MALFORMED_HEADER
// problems; repeated identifiers keep their first heading and report the rest
// as DUPLICATE_TASK. Neither stops the build. Headings whose identifier does
// not parse, or that have no name, are skipped silently.
func BuildQueue(doc *Document, opts BuildOptions) (*Queue, []Problem) {
	logger := loggerOrDiscard(opts.Logger)
	symbols := opts.Priorities
	if symbols == nil {
		symbols = DefaultPriorityMap()
	}
	final := opts.FinalSequence
	if final <= 0 {
		final = DefaultFinalSequence
	}

	q := &Queue{Tasks: []*TaskRecord{}}
	seen := make(map[TaskID]int)
	var problems []Problem

	for _, s := range doc.Sections() {
		line := s.Start() + 1
		if !s.shaped || s.Name == "" {
			logger.Debug("skipping task heading without a name", "line", line, "heading", s.Heading.Value)
			continue
		}

		if first, dup := seen[s.ID]; dup {
			err := clierr.Newf(clierr.DuplicateTask, "task %s already defined on line %d", s.ID, first).
				WithDetails(map[string]any{"id": s.ID.String(), "line": line, "first_line": first})
			problems = append(problems, Problem{Line: line, ID: s.ID.String(), Err: err})
			logger.Warn("duplicate task heading", "id", s.ID, "line", line, "first_line", first)
			continue
		}
		seen[s.ID] = line

		if err := checkHeader(s); err != nil {
			problems = append(problems, Problem{Line: line, ID: s.ID.String(), Err: err})
			logger.Warn("malformed task header", "id", s.ID, "line", line)
			continue
		}

		q.Tasks = append(q.Tasks, s.Record(symbols, final))
		logger.Debug("task", "id", s.ID, "line", line)
	}

	return q, problems
}

// Record builds the queue entry for the section.
func (s *Section) Record(symbols PriorityMap, finalSequence int) *TaskRecord {
	return &TaskRecord{
		ID:           s.ID,
		Name:         s.Name,
		File:         s.File(),
		Priority:     s.Priority(symbols),
		Status:       StatusPending,
		Dependencies: Dependencies(s.ID, finalSequence),
		AssignedTo:   nil,
		Attempts:     0,
	}
}

// checkHeader verifies that the first two non-blank lines after the heading
// are the File and Priority labels.
func checkHeader(s *Section) *clierr.Error {
	var labels []string
	for _, l := range s.Body() {
		if l.Kind == KindBlank {
			continue
		}
		if l.Kind != KindLabel {
			break
		}
		labels = append(labels, l.Label)
		if len(labels) == 2 { //nolint:mnd // File + Priority
			break
		}
	}
	if len(labels) == 2 && labels[0] == "File" && labels[1] == "Priority" {
		return nil
	}
	return clierr.Newf(clierr.MalformedHeader,
		"task %s: heading must be followed by **File:** and **Priority:** lines", s.ID).
		WithDetails(map[string]any{"id": s.ID.String(), "line": s.Start() + 1})
}

// DependencyOrder returns the tasks ordered so that every task comes after
// the dependencies present in the queue. Tasks at the same depth keep their
// document order. Dependencies on tasks missing from the queue are ignored.
func (q *Queue) DependencyOrder() ([]*TaskRecord, error) {
	byID := make(map[TaskID]*TaskRecord, len(q.Tasks))
	for _, t := range q.Tasks {
		byID[t.ID] = t
	}

	edges := make([]toposort.Edge, 0, len(q.Tasks))
	for _, t := range q.Tasks {
		linked := false
		for _, dep := range t.Dependencies {
			if _, ok := byID[dep]; ok && dep != t.ID {
				edges = append(edges, toposort.Edge{dep, t.ID})
				linked = true
			}
		}
		if !linked {
			edges = append(edges, toposort.Edge{nil, t.ID})
		}
	}

	sorted, err := toposort.Toposort(edges)
	if err != nil {
		return nil, fmt.Errorf("ordering tasks: %w", err)
	}

	depth := make(map[TaskID]int, len(q.Tasks))
	for _, node := range sorted {
		id, ok := node.(TaskID)
		if !ok {
			continue
		}
		d := 0
		for _, dep := range byID[id].Dependencies {
			if dd, ok := depth[dep]; ok && dd+1 > d {
				d = dd + 1
			}
		}
		depth[id] = d
	}
	if len(depth) != len(q.Tasks) {
		return nil, fmt.Errorf("ordering tasks: sorted %d of %d tasks", len(depth), len(q.Tasks))
	}

	ordered := append([]*TaskRecord(nil), q.Tasks...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return depth[ordered[i].ID] < depth[ordered[j].ID]
	})
	return ordered, nil
}

func loggerOrDiscard(l *log.Logger) *log.Logger {
	if l != nil {
		return l
	}
	return log.New(io.Discard)
}
