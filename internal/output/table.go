package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/twiced-technology-gmbh/roadmap/internal/board"
	"github.com/twiced-technology-gmbh/roadmap/internal/roadmap"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle  = lipgloss.NewStyle().Bold(true)

	// Priority colors matching the TUI palette.
	priorityStyles = map[string]lipgloss.Style{
		string(roadmap.PriorityCritical): lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		string(roadmap.PriorityHigh):     lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		string(roadmap.PriorityMedium):   lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
	}

	fileStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// DisableColor strips all styling from table output.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	titleStyle = lipgloss.NewStyle()
	priorityStyles = map[string]lipgloss.Style{}
	fileStyle = lipgloss.NewStyle()
	okStyle = lipgloss.NewStyle()
	failStyle = lipgloss.NewStyle()
}

// QueueTable renders the task queue as a formatted table.
func QueueTable(w io.Writer, tasks []*roadmap.TaskRecord) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	// Calculate column widths.
	const pad = 2
	idW, prioW, nameW, fileW := 4, 10, 6, 6
	for _, t := range tasks {
		idW = max(idW, len(t.ID.String())+pad)
		prioW = max(prioW, len(t.Priority)+pad)
		nameW = max(nameW, min(lipgloss.Width(t.Name)+pad, 40)) //nolint:mnd // max name column width
		fileW = max(fileW, min(len(t.File)+pad, 50))             //nolint:mnd // max file column width
	}

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %s",
		idW, "ID", prioW, "PRIORITY", nameW, "NAME", fileW, "FILE", "DEPENDS ON")
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	for _, t := range tasks {
		file := truncate(t.File, fileW-pad)
		if t.File == roadmap.UnknownFile {
			file = dimStyle.Render(file)
		} else {
			file = fileStyle.Render(file)
		}
		deps := dimStyle.Render("--")
		if len(t.Dependencies) > 0 {
			deps = joinIDs(t.Dependencies)
		}

		row := fmt.Sprintf("%-*s %s %s %s %s",
			idW, t.ID,
			padRight(styledValue(string(t.Priority), priorityStyles), prioW),
			padRight(truncate(t.Name, nameW-pad), nameW),
			padRight(file, fileW),
			deps)
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// DetailTable renders the summary of one task.
func DetailTable(w io.Writer, d roadmap.Details) {
	titleLine := fmt.Sprintf("Task %s: %s", d.ID, d.Name)
	fmt.Fprintln(w, titleStyle.Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", lipgloss.Width(titleLine)))

	printField(w, "File", fileStyle.Render(d.File))
	printField(w, "Priority", styledValue(string(d.Priority), priorityStyles))
	if d.LineRef != nil {
		printField(w, "Legacy", "lines "+strconv.Itoa(d.LineRef.Start)+"-"+strconv.Itoa(d.LineRef.End))
	} else {
		printField(w, "Legacy", dimStyle.Render("--"))
	}
	printField(w, "Fidelity", strconv.FormatBool(d.Fidelity))
}

// CheckTable renders check results, one block per file.
func CheckTable(w io.Writer, results []CheckResult) {
	for _, r := range results {
		status := okStyle.Render("ok")
		if !r.OK {
			status = failStyle.Render("FAIL")
		}
		fmt.Fprintf(w, "%s %s (%d tasks)\n", padRight(status, 4), r.File, r.Tasks) //nolint:mnd // status column width
		if r.Error != "" {
			fmt.Fprintf(w, "     %s %s\n", dimStyle.Render(r.Code), r.Error)
		}
		for _, p := range r.Problems {
			fmt.Fprintf(w, "     line %-5d %-6s %s %s\n", p.Line, p.TaskID, dimStyle.Render(p.Code), p.Message)
		}
	}
}

// OverviewTable renders a roadmap overview as per-stage and per-priority tables.
func OverviewTable(w io.Writer, s board.Overview) {
	fmt.Fprintln(w, titleStyle.Render(s.File))
	fmt.Fprintf(w, "Total: %d tasks, %d problems\n\n", s.TotalTasks, s.Problems)

	header := fmt.Sprintf("%-8s %6s  %-8s %-8s", "STAGE", "COUNT", "FIRST", "LAST")
	fmt.Fprintln(w, headerStyle.Render(header))
	for _, ss := range s.Stages {
		fmt.Fprintf(w, "%-8d %6d  %-8s %-8s\n", ss.Stage, ss.Count, ss.First, ss.Last)
	}

	fmt.Fprintln(w)
	prioHeader := fmt.Sprintf("%-16s %6s", "PRIORITY", "COUNT")
	fmt.Fprintln(w, headerStyle.Render(prioHeader))
	for _, pc := range s.Priorities {
		const prioColW = 16
		fmt.Fprintf(w, "%s %6d\n",
			padRight(styledValue(string(pc.Priority), priorityStyles), prioColW), pc.Count)
	}

	if len(s.Roots) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, dimStyle.Render("Ready: "+strings.Join(s.Roots, ", ")))
	}
}

// GroupedTable renders a grouped view with per-group priority breakdowns.
func GroupedTable(w io.Writer, gs board.GroupedSummary) {
	if len(gs.Groups) == 0 {
		fmt.Fprintln(os.Stderr, "No groups found.")
		return
	}

	for i, g := range gs.Groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		title := fmt.Sprintf("%s %s (%d tasks)", gs.Field, g.Key, g.Total)
		fmt.Fprintln(w, titleStyle.Render(title))

		for _, pc := range g.Priorities {
			if pc.Count == 0 {
				continue
			}
			const groupPrioW = 16
			fmt.Fprintf(w, "  %s %d\n",
				padRight(styledValue(string(pc.Priority), priorityStyles), groupPrioW), pc.Count)
		}
		fmt.Fprintln(w, "  "+dimStyle.Render(strings.Join(g.Tasks, " ")))
	}
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format+"\n", args...)
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

// truncate shortens s to at most n visible runes, ending in "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n || n < 4 { //nolint:mnd // room for the ellipsis
		return s
	}
	return string(r[:n-3]) + "..."
}

// styledValue renders s using a matching style from the map, or returns s unchanged.
func styledValue(s string, styles map[string]lipgloss.Style) string {
	if st, ok := styles[s]; ok {
		return st.Render(s)
	}
	return s
}

func joinIDs(ids []roadmap.TaskID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ",")
}
