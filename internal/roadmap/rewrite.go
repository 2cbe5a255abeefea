package roadmap

import (
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/twiced-technology-gmbh/roadmap/internal/clierr"
)

// DefaultLookback is how many lines the rewriter searches backward from a
// validation label for the task heading that owns it.
const DefaultLookback = 50

// DefaultMarkerBlock is the stop-for-approval block spliced after eligible
// validation checklists.
var DefaultMarkerBlock = []string{
	"**🛑 STOP FOR USER TESTING:**",
	"Once this task is complete, STOP development and notify user to:",
	"- [ ] Build project in Xcode",
	"- [ ] Run all compilation checks",
	"- [ ] Test functionality programmatically",
	"- [ ] Verify feature works as specified",
	"**⏸️ WAIT for user approval before proceeding to next task**",
}

// State is the rewriter's scanning state.
type State int

const (
	StateScanning State = iota
	StateInValidationBlock
	StateLookingBack
)

func (s State) String() string {
	switch s {
	case StateScanning:
		return "scanning"
	case StateInValidationBlock:
		return "in-validation-block"
	case StateLookingBack:
		return "looking-back"
	default:
		return "unknown"
	}
}

// AllowList selects the tasks that receive a stop marker.
//
// An entry is a task identifier ("1.1", "3.2a") or a stage wildcard ("4.*").
// An identifier entry covers itself and, when it has no suffix, the lettered
// variants of the same task: "3.2" covers "3.2a" but "1.1" never covers "1.10".
type AllowList struct {
	ids    map[TaskID]struct{}
	stages map[int]struct{}
}

// NewAllowList parses allow-list entries. A leading "Task " is tolerated.
func NewAllowList(entries []string) (AllowList, error) {
	a := AllowList{ids: make(map[TaskID]struct{}), stages: make(map[int]struct{})}
	for _, e := range entries {
		e = strings.TrimPrefix(strings.TrimSpace(e), "Task ")
		if stage, ok := strings.CutSuffix(e, ".*"); ok {
			n, err := strconv.Atoi(stage)
			if err != nil || n < 0 {
				return AllowList{}, clierr.Newf(clierr.InvalidInput, "invalid stop-marker entry %q", e).
					WithDetails(map[string]any{"entry": e})
			}
			a.stages[n] = struct{}{}
			continue
		}
		id, err := ParseTaskID(e)
		if err != nil {
			return AllowList{}, clierr.Newf(clierr.InvalidInput, "invalid stop-marker entry %q", e).
				WithDetails(map[string]any{"entry": e})
		}
		a.ids[id] = struct{}{}
	}
	return a, nil
}

// MustAllowList is NewAllowList for literal entries. It panics on error.
func MustAllowList(entries ...string) AllowList {
	a, err := NewAllowList(entries)
	if err != nil {
		panic(err)
	}
	return a
}

// Match reports whether id is eligible for a stop marker.
func (a AllowList) Match(id TaskID) bool {
	if _, ok := a.ids[id]; ok {
		return true
	}
	if id.Suffix != "" {
		if _, ok := a.ids[id.Base()]; ok {
			return true
		}
	}
	_, ok := a.stages[id.Stage]
	return ok
}

// Len returns the number of entries.
func (a AllowList) Len() int { return len(a.ids) + len(a.stages) }

// RewriteOptions configures InsertStopMarkers.
type RewriteOptions struct {
	AllowList AllowList
	Marker    []string    // nil means DefaultMarkerBlock
	Lookback  int         // <= 0 means DefaultLookback
	Logger    *log.Logger // nil discards
}

// SkipReason explains why a validation block received no marker.
type SkipReason string

const (
	SkipNoOwner       SkipReason = "no-owner"
	SkipNotEligible   SkipReason = "not-eligible"
	SkipAlreadyMarked SkipReason = "already-marked"
	SkipUnterminated  SkipReason = "unterminated"
)

// Insertion records one spliced marker.
type Insertion struct {
	ID   TaskID `json:"id"`
	Line int    `json:"line"` // one-based line of the marker's first line in the output
}

// Skip records a validation block left untouched.
type Skip struct {
	Line   int        `json:"line"` // one-based line of the validation label in the input
	ID     string     `json:"id,omitempty"`
	Reason SkipReason `json:"reason"`
}

// RewriteResult is the outcome of one rewrite pass.
type RewriteResult struct {
	Text       string      `json:"-"`
	Insertions []Insertion `json:"insertions"`
	Skips      []Skip      `json:"skips"`
}

// Changed reports whether any marker was inserted.
func (r *RewriteResult) Changed() bool { return len(r.Insertions) > 0 }

// ReverseScan yields lines[from], lines[from-1], ... for at most window
// lines, stopping after line 0.
func ReverseScan(lines []Line, from, window int) iter.Seq2[int, Line] {
	return func(yield func(int, Line) bool) {
		if from >= len(lines) {
			from = len(lines) - 1
		}
		stop := max(from-window, -1)
		for i := from; i > stop; i-- {
			if !yield(i, lines[i]) {
				return
			}
		}
	}
}

// validationBlock is the span being consumed in StateInValidationBlock.
type validationBlock struct {
	label    int      // index of the Validation label
	lines    []string // block lines after the label
	lastItem int      // index into lines of the last checklist item, -1 if none
}

type rewriter struct {
	lines    []Line
	allow    AllowList
	marker   []string
	first    string // trimmed first marker line
	lookback int
	logger   *log.Logger

	state State
	block validationBlock
	out   []string
	res   *RewriteResult
}

// InsertStopMarkers runs a single forward pass over text and splices the
// marker block after every validation checklist whose owning task is in the
// allow-list. A block gets a marker only when it is terminated by a "---"
// rule or a heading. The marker goes directly after the last checklist item,
// preceded by a blank line; trailing blank lines of the block follow it.
//
// Blocks are skipped, never failed: when no task heading lies within the
// lookback window, when the task is not eligible, when the marker is already
// present, or when the block is not terminated.
func InsertStopMarkers(text string, opts RewriteOptions) *RewriteResult {
	marker := trimBlank(opts.Marker)
	if len(marker) == 0 {
		marker = DefaultMarkerBlock
	}
	lookback := opts.Lookback
	if lookback <= 0 {
		lookback = DefaultLookback
	}
	lines := Tokenize(text)
	r := &rewriter{
		lines:    lines,
		allow:    opts.AllowList,
		marker:   marker,
		first:    strings.TrimSpace(marker[0]),
		lookback: lookback,
		logger:   loggerOrDiscard(opts.Logger),
		out:      make([]string, 0, len(lines)+len(marker)+1),
		res:      &RewriteResult{Insertions: []Insertion{}, Skips: []Skip{}},
	}
	r.run()
	r.res.Text = strings.Join(r.out, "\n")
	return r.res
}

func (r *rewriter) run() {
	for i := 0; i < len(r.lines); {
		l := r.lines[i]
		switch r.state {
		case StateScanning:
			r.out = append(r.out, l.Text)
			if isValidationLabel(l) {
				r.block = validationBlock{label: i, lastItem: -1}
				r.state = StateInValidationBlock
			}
			i++

		case StateInValidationBlock:
			switch {
			case l.Kind == KindChecklistItem:
				r.block.lines = append(r.block.lines, l.Text)
				r.block.lastItem = len(r.block.lines) - 1
				i++
			case l.Kind == KindBlank:
				r.block.lines = append(r.block.lines, l.Text)
				i++
			case strings.TrimSpace(l.Text) == r.first:
				r.flush("", SkipAlreadyMarked)
			case l.Kind == KindSeparator || l.IsHeading():
				r.state = StateLookingBack
			default:
				r.flush("", SkipUnterminated)
			}

		case StateLookingBack:
			// i is the terminator; scanning emits it on the next iteration.
			r.lookBack(i)
			r.state = StateScanning
		}
	}
	if r.state == StateInValidationBlock {
		r.flush("", SkipUnterminated)
	}
}

// flush emits the block unchanged, records why, and resumes scanning.
func (r *rewriter) flush(id string, reason SkipReason) {
	r.out = append(r.out, r.block.lines...)
	r.res.Skips = append(r.res.Skips, Skip{Line: r.block.label + 1, ID: id, Reason: reason})
	r.logger.Debug("stop marker skipped", "line", r.block.label+1, "id", id, "reason", reason)
	r.state = StateScanning
}

// lookBack finds the task owning the current block, terminated at term, and
// emits the block with or without a marker.
func (r *rewriter) lookBack(term int) {
	owner := -1
	for i, l := range ReverseScan(r.lines, r.block.label, r.lookback) {
		if l.Kind == KindTaskHeading {
			owner = i
			break
		}
	}
	if owner < 0 {
		r.flush("", SkipNoOwner)
		return
	}
	id, err := headingID(r.lines[owner])
	if err != nil {
		r.flush(r.lines[owner].Value, SkipNoOwner)
		return
	}
	if !r.allow.Match(id) {
		r.flush(id.String(), SkipNotEligible)
		return
	}
	for _, l := range r.lines[owner:term] {
		if strings.TrimSpace(l.Text) == r.first {
			r.flush(id.String(), SkipAlreadyMarked)
			return
		}
	}

	at := r.block.lastItem + 1
	r.out = append(r.out, r.block.lines[:at]...)
	r.out = append(r.out, "")
	r.res.Insertions = append(r.res.Insertions, Insertion{ID: id, Line: len(r.out) + 1})
	r.logger.Debug("stop marker inserted", "id", id, "line", len(r.out)+1)
	r.out = append(r.out, r.marker...)
	r.out = append(r.out, r.block.lines[at:]...)
}

func trimBlank(lines []string) []string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[start:end]
}

// String summarizes the result for log lines.
func (r *RewriteResult) String() string {
	return fmt.Sprintf("%d inserted, %d skipped", len(r.Insertions), len(r.Skips))
}
