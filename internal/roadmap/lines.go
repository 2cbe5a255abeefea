// Package roadmap models a Markdown execution roadmap made of "### Task N.M"
// sections. It segments the document into task sections, extracts typed
// fields from each one, infers the implicit dependency chain, builds the task
// queue, and inserts stop-for-approval markers after validation checklists.
//
// The package works on a flat sequence of classified lines. It is not a
// Markdown parser: there is no block nesting and fenced code is not skipped.
package roadmap

import (
	"regexp"
	"strings"
)

// Kind classifies a single roadmap line.
type Kind int

const (
	KindText          Kind = iota // anything else
	KindBlank                     // empty or whitespace only
	KindHeading                   // "#".."######" heading that is not a task heading
	KindTaskHeading               // "### Task ..."
	KindLabel                     // "**Name:** value"
	KindChecklistItem             // "- [ ] item" or "- [x] item"
	KindSeparator                 // "---"
	KindFence                     // "```lang"
)

var kindNames = [...]string{"text", "blank", "heading", "task-heading", "label", "checklist-item", "separator", "fence"}

// String returns a short name for the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// taskHeadingLevel is the heading level used for task sections.
const taskHeadingLevel = 3

var (
	headingRe   = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	labelRe     = regexp.MustCompile(`^\*\*([^*]+?):\*\*\s*(.*)$`)
	checklistRe = regexp.MustCompile(`^- \[([ xX])\]\s?(.*)$`)
)

// Line is one classified line of a roadmap document.
type Line struct {
	Number  int    // zero-based index in the document
	Text    string // raw text without the trailing newline
	Kind    Kind
	Level   int    // heading level for headings
	Label   string // label name for KindLabel
	Value   string // heading text, label remainder, checklist text or fence info string
	Checked bool   // checklist state
}

// Tokenize splits text on newlines and classifies every line.
// Joining the Text fields with "\n" reproduces the input exactly.
func Tokenize(text string) []Line {
	raw := strings.Split(text, "\n")
	lines := make([]Line, len(raw))
	for i, r := range raw {
		lines[i] = classify(i, r)
	}
	return lines
}

func classify(n int, text string) Line {
	ln := Line{Number: n, Text: text, Kind: KindText}
	s := strings.TrimRight(text, "\r")
	trimmed := strings.TrimSpace(s)

	switch {
	case trimmed == "":
		ln.Kind = KindBlank
	case trimmed == "---":
		ln.Kind = KindSeparator
	case strings.HasPrefix(trimmed, "```"):
		ln.Kind = KindFence
		ln.Value = strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
	default:
		if m := headingRe.FindStringSubmatch(s); m != nil {
			ln.Kind = KindHeading
			ln.Level = len(m[1])
			ln.Value = strings.TrimSpace(m[2])
			if ln.Level == taskHeadingLevel && strings.HasPrefix(ln.Value, "Task ") {
				ln.Kind = KindTaskHeading
			}
		} else if m := labelRe.FindStringSubmatch(s); m != nil {
			ln.Kind = KindLabel
			ln.Label = strings.TrimSpace(m[1])
			ln.Value = strings.TrimSpace(m[2])
		} else if m := checklistRe.FindStringSubmatch(s); m != nil {
			ln.Kind = KindChecklistItem
			ln.Checked = m[1] != " "
			ln.Value = strings.TrimSpace(m[2])
		}
	}
	return ln
}

// IsHeading reports whether the line is a heading of any kind.
func (l Line) IsHeading() bool {
	return l.Kind == KindHeading || l.Kind == KindTaskHeading
}

// IsLabel reports whether the line is the label with the given name.
func (l Line) IsLabel(name string) bool {
	return l.Kind == KindLabel && l.Label == name
}

// endsSection reports whether the line closes a task section: a heading at
// task level or above, or a horizontal rule.
func (l Line) endsSection() bool {
	if l.Kind == KindSeparator {
		return true
	}
	return l.IsHeading() && l.Level <= taskHeadingLevel
}
