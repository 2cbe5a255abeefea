// Package tui implements a terminal browser for roadmap documents.
package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/roadmap/internal/config"
	"github.com/twiced-technology-gmbh/roadmap/internal/document"
	"github.com/twiced-technology-gmbh/roadmap/internal/output"
	"github.com/twiced-technology-gmbh/roadmap/internal/roadmap"
)

// view represents the current screen state.
type view int

const (
	viewBoard view = iota
	viewDetail
)

// Layout constants.
const (
	boardChrome    = 2 // blank line + status bar below the column area
	errorChrome    = 1 // extra line when an error toast is displayed
	detailChrome   = 2 // title bar + help line around the viewport
	cardLines      = 4 // two content lines + top and bottom borders
	minColumnWidth = 26
	maxColumnWidth = 60
)

// Board is the top-level bubbletea model. Each stage of the roadmap is a
// column and each queued task a card.
type Board struct {
	path  string
	cfg   *config.Config
	color bool

	doc      *roadmap.Document
	queue    *roadmap.Queue
	problems []roadmap.Problem
	columns  []column

	activeCol int
	activeRow int
	colOff    int // first visible column
	view      view
	width     int
	height    int
	err       error

	detail viewport.Model
	help   help.Model
}

// column groups the tasks of one stage.
type column struct {
	stage     int
	tasks     []*roadmap.TaskRecord
	scrollOff int // first visible row index
}

// NewBoard creates a Board for the roadmap at path and loads it.
func NewBoard(path string, cfg *config.Config) *Board {
	b := &Board{
		path:   path,
		cfg:    cfg,
		color:  true,
		detail: viewport.New(0, 0),
		help:   help.New(),
	}
	b.load()
	return b
}

// SetColor toggles styled Markdown in the detail pane.
func (b *Board) SetColor(on bool) {
	b.color = on
}

// Init implements tea.Model.
func (b *Board) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (b *Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return b.handleKey(msg)
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.help.Width = msg.Width
		b.ensureVisible()
		if b.view == viewDetail {
			b.refreshDetail()
		}
		return b, nil
	case ReloadMsg:
		b.load()
		return b, nil
	case ErrMsg:
		b.err = msg.Err
		return b, nil
	}
	if b.view == viewDetail {
		var cmd tea.Cmd
		b.detail, cmd = b.detail.Update(msg)
		return b, cmd
	}
	return b, nil
}

// View implements tea.Model.
func (b *Board) View() string {
	if b.width == 0 {
		return "Loading..."
	}
	if b.view == viewDetail {
		return b.viewDetail()
	}
	return b.viewBoard()
}

// Selected returns the task under the cursor, or nil.
func (b *Board) Selected() *roadmap.TaskRecord {
	return b.selectedTask()
}

// WatchPaths returns the paths that should be watched for file changes.
func (b *Board) WatchPaths() []string {
	paths := []string{b.path}
	if p := b.cfg.Path(); p != "" {
		paths = append(paths, p)
	}
	return paths
}

func (b *Board) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.ForceQuit) {
		return b, tea.Quit
	}
	if b.view == viewDetail {
		return b.handleDetailKey(msg)
	}
	return b.handleBoardKey(msg)
}

func (b *Board) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit), key.Matches(msg, keys.Back):
		return b, tea.Quit
	case key.Matches(msg, keys.Left):
		if b.activeCol > 0 {
			b.activeCol--
			b.clampRow()
		}
	case key.Matches(msg, keys.Right):
		if b.activeCol < len(b.columns)-1 {
			b.activeCol++
			b.clampRow()
		}
	case key.Matches(msg, keys.Down):
		col := b.currentColumn()
		if col != nil && b.activeRow < len(col.tasks)-1 {
			b.activeRow++
			b.ensureVisible()
		}
	case key.Matches(msg, keys.Up):
		if b.activeRow > 0 {
			b.activeRow--
			b.ensureVisible()
		}
	case key.Matches(msg, keys.Open):
		if b.selectedTask() != nil {
			b.view = viewDetail
			b.refreshDetail()
			b.detail.GotoTop()
		}
	case key.Matches(msg, keys.Reload):
		b.load()
	}
	return b, nil
}

func (b *Board) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back), key.Matches(msg, keys.Quit):
		b.view = viewBoard
		return b, nil
	case key.Matches(msg, keys.Reload):
		b.load()
		return b, nil
	}
	var cmd tea.Cmd
	b.detail, cmd = b.detail.Update(msg)
	return b, cmd
}

// load reads the roadmap and organizes its queue into stage columns.
func (b *Board) load() {
	f, err := document.Read(b.path)
	if err != nil {
		b.err = err
		return
	}
	b.err = nil
	b.doc = f.Parse()
	b.queue, b.problems = roadmap.BuildQueue(b.doc, b.cfg.BuildOptions(nil))

	byStage := make(map[int]*column)
	var stages []int
	for _, t := range b.queue.Tasks {
		col, ok := byStage[t.ID.Stage]
		if !ok {
			col = &column{stage: t.ID.Stage}
			byStage[t.ID.Stage] = col
			stages = append(stages, t.ID.Stage)
		}
		col.tasks = append(col.tasks, t)
	}
	sort.Ints(stages)

	prev := b.currentColumn()
	b.columns = make([]column, len(stages))
	for i, stage := range stages {
		b.columns[i] = *byStage[stage]
		if prev != nil && prev.stage == stage {
			b.columns[i].scrollOff = prev.scrollOff
		}
	}
	if b.activeCol >= len(b.columns) {
		b.activeCol = max(len(b.columns)-1, 0)
	}
	b.clampRow()

	if b.view == viewDetail {
		b.refreshDetail()
	}
}

func (b *Board) currentColumn() *column {
	if b.activeCol >= 0 && b.activeCol < len(b.columns) {
		return &b.columns[b.activeCol]
	}
	return nil
}

func (b *Board) selectedTask() *roadmap.TaskRecord {
	col := b.currentColumn()
	if col == nil || len(col.tasks) == 0 {
		return nil
	}
	if b.activeRow >= 0 && b.activeRow < len(col.tasks) {
		return col.tasks[b.activeRow]
	}
	return nil
}

func (b *Board) clampRow() {
	col := b.currentColumn()
	if col == nil || len(col.tasks) == 0 {
		b.activeRow = 0
		return
	}
	if b.activeRow >= len(col.tasks) {
		b.activeRow = len(col.tasks) - 1
	}
	b.ensureVisible()
}

// chromeHeight returns the number of lines consumed by non-card elements below
// the column area: blank line + status bar (+ error line when an error is shown).
func (b *Board) chromeHeight() int {
	h := boardChrome
	if b.err != nil {
		h += errorChrome
	}
	return h
}

// visibleCards returns the number of cards that fit in the column,
// accounting for the "↑ N more" / "↓ N more" indicator lines.
func (b *Board) visibleCards(col *column) int {
	avail := b.height - b.chromeHeight() - 1 // column header
	if col.scrollOff > 0 {
		avail--
	}
	n := max(avail/cardLines, 1)
	if col.scrollOff+n < len(col.tasks) {
		n = max((avail-1)/cardLines, 1)
	}
	return n
}

// ensureVisible adjusts the scroll offsets so the selected card and its
// column are on screen.
func (b *Board) ensureVisible() {
	if fit := b.visibleColumns(); b.activeCol >= b.colOff+fit {
		b.colOff = b.activeCol - fit + 1
	} else if b.activeCol < b.colOff {
		b.colOff = b.activeCol
	}

	col := b.currentColumn()
	if col == nil || b.height == 0 {
		return
	}
	for range len(col.tasks) + 1 {
		maxVis := b.visibleCards(col)
		switch {
		case b.activeRow >= col.scrollOff+maxVis:
			col.scrollOff = b.activeRow - maxVis + 1
		case b.activeRow < col.scrollOff:
			col.scrollOff = b.activeRow
		default:
			return
		}
	}
}

// visibleColumns returns how many stage columns fit side by side.
func (b *Board) visibleColumns() int {
	if b.width == 0 {
		return max(len(b.columns), 1)
	}
	return max(b.width/minColumnWidth, 1)
}

func (b *Board) columnWidth() int {
	n := min(len(b.columns), b.visibleColumns())
	if b.width == 0 || n == 0 {
		return minColumnWidth
	}
	return min(b.width/n, maxColumnWidth)
}

// refreshDetail renders the selected task's section into the viewport.
func (b *Board) refreshDetail() {
	t := b.selectedTask()
	if t == nil || b.doc == nil {
		b.view = viewBoard
		return
	}
	s, err := b.doc.FindSection(t.ID)
	if err != nil {
		b.err = err
		b.view = viewBoard
		return
	}

	width := max(b.width-2, minColumnWidth) //nolint:mnd // viewport margin
	body, err := output.RenderMarkdown(s.Text(), width, b.color)
	if err != nil {
		body = s.Text()
	}

	d := s.Details(b.cfg.ExtractOptions())
	var meta []string
	meta = append(meta, priorityStyle(t.Priority).Render(string(t.Priority)), fileStyle.Render(d.File))
	if len(t.Dependencies) > 0 {
		meta = append(meta, dimStyle.Render("after "+joinIDs(t.Dependencies)))
	}
	if d.LineRef != nil {
		meta = append(meta, dimStyle.Render(fmt.Sprintf("legacy lines %d-%d", d.LineRef.Start, d.LineRef.End)))
	}
	if d.Fidelity {
		meta = append(meta, fidelityStyle.Render("fidelity"))
	}

	b.detail.Width = b.width
	b.detail.Height = max(b.height-detailChrome, 1)
	b.detail.SetContent(strings.Join(meta, "  ") + "\n" + body)
}

// --- Messages ---

// ReloadMsg is sent by the file watcher to trigger a board refresh.
type ReloadMsg struct{}

// ErrMsg surfaces a background error, such as a failing watcher, in the status bar.
type ErrMsg struct{ Err error }

// --- View rendering ---

func (b *Board) viewBoard() string {
	if len(b.columns) == 0 {
		empty := dimStyle.Render("No tasks found in " + b.path)
		return lipgloss.JoinVertical(lipgloss.Left, empty, "", b.renderStatusBar())
	}

	colWidth := b.columnWidth()
	last := min(b.colOff+b.visibleColumns(), len(b.columns))
	rendered := make([]string, 0, last-b.colOff)
	for i := b.colOff; i < last; i++ {
		rendered = append(rendered, b.renderColumn(i, b.columns[i], colWidth))
	}
	boardView := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)

	// Clamp from the bottom, keeping the headers, and pad to the full height.
	targetHeight := b.height - b.chromeHeight()
	if targetHeight > 0 {
		actual := strings.Count(boardView, "\n") + 1
		if actual > targetHeight {
			viewLines := strings.SplitN(boardView, "\n", targetHeight+1)
			boardView = strings.Join(viewLines[:targetHeight], "\n")
		} else if actual < targetHeight {
			boardView += strings.Repeat("\n", targetHeight-actual)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, boardView, "", b.renderStatusBar())
}

func (b *Board) renderColumn(colIdx int, col column, width int) string {
	headerText := truncate(fmt.Sprintf("Stage %d (%d)", col.stage, len(col.tasks)), width-2) //nolint:mnd // header padding

	var header string
	if colIdx == b.activeCol {
		header = activeColumnHeaderStyle.Width(width).Render(headerText)
	} else {
		header = columnHeaderStyle.Width(width).Render(headerText)
	}

	maxVis := b.visibleCards(&col)
	start := min(col.scrollOff, len(col.tasks))
	end := min(start+maxVis, len(col.tasks))

	parts := []string{header}
	if start > 0 {
		parts = append(parts, dimStyle.Width(width).Render(truncate(fmt.Sprintf("  ↑ %d more", start), width)))
	}
	for rowIdx := start; rowIdx < end; rowIdx++ {
		active := colIdx == b.activeCol && rowIdx == b.activeRow
		parts = append(parts, renderCard(col.tasks[rowIdx], active, width))
	}
	if end < len(col.tasks) {
		parts = append(parts, dimStyle.Width(width).Render(truncate(fmt.Sprintf("  ↓ %d more", len(col.tasks)-end), width)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderCard(t *roadmap.TaskRecord, active bool, width int) string {
	const cardChrome = 4 // border (2) + padding (2)
	inner := max(width-cardChrome, 1)

	first := t.ID.String() + " " + priorityStyle(t.Priority).Render(string(t.Priority))
	plain := t.ID.String() + " " + string(t.Priority)
	if len(t.Dependencies) > 0 {
		after := " after " + joinIDs(t.Dependencies)
		first += dimStyle.Render(after)
		plain += after
	}
	// Styled text cannot be cut by runes; fall back to plain when it overflows.
	if lipgloss.Width(plain) > inner {
		first = truncate(plain, inner)
	}
	content := first + "\n" + truncate(t.Name, inner)

	style := cardStyle
	if active {
		style = activeCardStyle
	}
	return style.Width(width - 2).Render(content) //nolint:mnd // border width
}

func (b *Board) renderStatusBar() string {
	status := fmt.Sprintf(" %d tasks", len(b.queueTasks()))
	if n := len(b.problems); n > 0 {
		status += fmt.Sprintf(" | %d problems", n)
	}
	status += " | " + b.path
	status = truncate(status, b.width)
	bar := statusBarStyle.Render(status) + "  " + b.help.ShortHelpView(keys.boardHelp())

	if b.err != nil {
		errStr := errorStyle.Render(truncate("Error: "+b.err.Error(), b.width))
		return errStr + "\n" + bar
	}
	return bar
}

func (b *Board) viewDetail() string {
	t := b.selectedTask()
	title := ""
	if t != nil {
		title = fmt.Sprintf("Task %s: %s", t.ID, t.Name)
	}
	bar := titleBarStyle.Width(b.width).Render(truncate(title, b.width-2)) //nolint:mnd // title padding
	footer := b.help.ShortHelpView(keys.detailHelp())
	if pct := b.detail.ScrollPercent(); b.detail.TotalLineCount() > b.detail.Height {
		footer = dimStyle.Render(fmt.Sprintf("%3.f%%  ", pct*100)) + footer //nolint:mnd // percent
	}
	return lipgloss.JoinVertical(lipgloss.Left, bar, b.detail.View(), footer)
}

func (b *Board) queueTasks() []*roadmap.TaskRecord {
	if b.queue == nil {
		return nil
	}
	return b.queue.Tasks
}

func joinIDs(ids []roadmap.TaskID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ",")
}

func truncate(s string, maxLen int) string {
	if maxLen < 4 { //nolint:mnd // minimum length for truncation
		maxLen = 4
	}
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	// Slice by runes to avoid breaking multi-byte UTF-8 characters.
	runes := []rune(s)
	target := min(maxLen-3, len(runes)) //nolint:mnd // room for "..."
	for target > 0 && lipgloss.Width(string(runes[:target])) > maxLen-3 {
		target--
	}
	return string(runes[:target]) + "..."
}
