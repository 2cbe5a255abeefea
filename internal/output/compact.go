package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/twiced-technology-gmbh/roadmap/internal/board"
	"github.com/twiced-technology-gmbh/roadmap/internal/roadmap"
)

// QueueCompact renders the task queue in one-line-per-record compact format.
func QueueCompact(w io.Writer, tasks []*roadmap.TaskRecord) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	for _, t := range tasks {
		fmt.Fprintln(w, formatTaskLine(t))
	}
}

// DetailCompact renders a task summary as KEY=value lines that shell
// scripts can source. Legacy line fields are omitted without a reference.
func DetailCompact(w io.Writer, d roadmap.Details) {
	fmt.Fprintf(w, "TASK_NAME=%s\n", strconv.Quote(d.Name))
	fmt.Fprintf(w, "FILE_NAME=%s\n", strconv.Quote(d.File))
	if d.LineRef != nil {
		fmt.Fprintf(w, "LEGACY_START=%d\n", d.LineRef.Start)
		fmt.Fprintf(w, "LEGACY_END=%d\n", d.LineRef.End)
	}
	fmt.Fprintf(w, "FIDELITY=%t\n", d.Fidelity)
}

// Lines writes each item on its own line.
func Lines(w io.Writer, items []string) {
	for _, item := range items {
		fmt.Fprintln(w, item)
	}
}

// formatTaskLine builds the one-line representation of a task.
func formatTaskLine(t *roadmap.TaskRecord) string {
	line := t.ID.String() + " [" + string(t.Priority) + "] " + t.Name + " (" + t.File + ")"
	if len(t.Dependencies) > 0 {
		line += " after:" + joinIDs(t.Dependencies)
	}
	return line
}

// CheckCompact renders check results as "file: ok" or one line per problem.
func CheckCompact(w io.Writer, results []CheckResult) {
	for _, r := range results {
		if r.OK {
			fmt.Fprintf(w, "%s: ok (%d tasks)\n", r.File, r.Tasks)
			continue
		}
		if r.Error != "" {
			fmt.Fprintf(w, "%s: %s %s\n", r.File, r.Code, r.Error)
		}
		for _, p := range r.Problems {
			fmt.Fprintf(w, "%s:%d: %s %s\n", r.File, p.Line, p.Code, strings.TrimSpace(p.Message))
		}
	}
}

// OverviewCompact renders a roadmap overview in a condensed format.
func OverviewCompact(w io.Writer, s board.Overview) {
	fmt.Fprintf(w, "%s (%d tasks, %d problems)\n", s.File, s.TotalTasks, s.Problems)

	for _, ss := range s.Stages {
		fmt.Fprintf(w, "  stage %d: %d (%s..%s)\n", ss.Stage, ss.Count, ss.First, ss.Last)
	}

	parts := make([]string, 0, len(s.Priorities))
	for _, pc := range s.Priorities {
		parts = append(parts, string(pc.Priority)+"="+strconv.Itoa(pc.Count))
	}
	fmt.Fprintln(w, "Priority: "+strings.Join(parts, " "))
}
