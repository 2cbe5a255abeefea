package roadmap

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/twiced-technology-gmbh/roadmap/internal/clierr"
)

// Priority is the severity level of a task.
type Priority string

// Recognized priority levels.
const (
	PriorityCritical Priority = "CRITICAL"
	PriorityHigh     Priority = "HIGH"
	PriorityMedium   Priority = "MEDIUM"
)

// Priorities lists the recognized levels from most to least severe.
var Priorities = []Priority{PriorityCritical, PriorityHigh, PriorityMedium}

// ParsePriority validates a level name (case-insensitive).
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Priorities {
		if p == known {
			return p, nil
		}
	}
	return "", clierr.Newf(clierr.InvalidInput, "invalid priority %q", s).
		WithDetails(map[string]any{"priority": s, "allowed": Priorities})
}

// PriorityMap maps a priority symbol (usually an emoji) to its level.
type PriorityMap map[string]Priority

// DefaultPriorityMap is the conventional red/yellow/green circle mapping.
func DefaultPriorityMap() PriorityMap {
	return PriorityMap{
		"🔴": PriorityCritical,
		"🟡": PriorityHigh,
		"🟢": PriorityMedium,
	}
}

// Lookup maps the value of a Priority label to a level. Only a configured
// symbol at the start of the value counts; anything else, including a
// spelled-out level name, maps to PriorityMedium.
func (m PriorityMap) Lookup(value string) Priority {
	value = strings.TrimSpace(value)
	symbols := make([]string, 0, len(m))
	for sym := range m {
		symbols = append(symbols, sym)
	}
	// Longest symbol first so overlapping prefixes resolve the same way every run.
	sort.Slice(symbols, func(i, j int) bool {
		if len(symbols[i]) != len(symbols[j]) {
			return len(symbols[i]) > len(symbols[j])
		}
		return symbols[i] < symbols[j]
	})
	for _, sym := range symbols {
		if sym != "" && strings.HasPrefix(value, sym) {
			return m[sym]
		}
	}
	return PriorityMedium
}

// UnknownFile is reported when a section has no File label.
const UnknownFile = "unknown"

// LineRef is a "lines <start>-<end>" reference into a legacy source file.
type LineRef struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

var lineRefRe = regexp.MustCompile(`(?i)\blines? (\d+)-(\d+)`)

// codeCommentRe matches single-line comments inside fenced code.
var codeCommentRe = regexp.MustCompile(`// (.+)`)

// bulletRe matches "-", "•" and "*" bullets at any indentation.
var bulletRe = regexp.MustCompile(`^\s*(?:[-*]|•) (.+)$`)

// File returns the associated file path, with inline-code backticks removed.
// Returns UnknownFile when the section has no File label.
func (s *Section) File() string {
	for _, l := range s.Body() {
		if !l.IsLabel("File") {
			continue
		}
		v := strings.TrimPrefix(strings.TrimSpace(l.Value), "`")
		if i := strings.IndexByte(v, '`'); i >= 0 {
			v = v[:i]
		}
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
		return UnknownFile
	}
	return UnknownFile
}

// Priority returns the level of the section's Priority label, or
// PriorityMedium when the label is absent or its symbol is not mapped.
func (s *Section) Priority(symbols PriorityMap) Priority {
	for _, l := range s.Body() {
		if l.IsLabel("Priority") {
			return symbols.Lookup(l.Value)
		}
	}
	return PriorityMedium
}

// LineRefs returns every line-range reference in the section, in order.
func (s *Section) LineRefs() []LineRef {
	var refs []LineRef
	for _, m := range lineRefRe.FindAllStringSubmatch(s.Text(), -1) {
		start, err1 := strconv.Atoi(m[1])
		end, err2 := strconv.Atoi(m[2])
		if err1 != nil || err2 != nil {
			continue
		}
		refs = append(refs, LineRef{Start: start, End: end})
	}
	return refs
}

// PrimaryLineRef returns the first line-range reference of the section.
func (s *Section) PrimaryLineRef() (LineRef, error) {
	refs := s.LineRefs()
	if len(refs) == 0 {
		return LineRef{}, clierr.Newf(clierr.NoLineReferences, "no line references found for task %s", s.ID).
			WithDetails(map[string]any{"id": s.ID.String()})
	}
	return refs[0], nil
}

// Requirements returns the bullets of the Implementation block followed by
// the "// " comments of the first fenced code block tagged lang.
func (s *Section) Requirements(lang string) []string {
	var reqs []string
	body := s.Body()

	for i, l := range body {
		if !l.IsLabel("Implementation") {
			continue
		}
		for _, bl := range body[i+1:] {
			if bl.Kind == KindLabel || bl.Kind == KindFence || bl.Kind == KindSeparator || bl.IsHeading() {
				break
			}
			if bl.Kind == KindChecklistItem {
				continue
			}
			if m := bulletRe.FindStringSubmatch(bl.Text); m != nil {
				reqs = append(reqs, strings.TrimSpace(m[1]))
			}
		}
		break
	}

	inFence, collect := false, false
	for _, l := range body {
		if l.Kind == KindFence {
			if collect {
				break
			}
			if inFence {
				inFence = false
			} else {
				inFence, collect = true, lang != "" && strings.EqualFold(l.Value, lang)
			}
			continue
		}
		if !collect {
			continue
		}
		if m := codeCommentRe.FindStringSubmatch(l.Text); m != nil {
			reqs = append(reqs, strings.TrimSpace(m[1]))
		}
	}

	return reqs
}

// Checklist returns the item texts of the section's Validation block.
func (s *Section) Checklist() []string {
	body := s.Body()
	for i, l := range body {
		if !isValidationLabel(l) {
			continue
		}
		var items []string
		for _, bl := range body[i+1:] {
			if bl.Kind == KindBlank {
				continue
			}
			if bl.Kind != KindChecklistItem {
				break
			}
			items = append(items, bl.Value)
		}
		return items
	}
	return nil
}

// Fidelity reports whether the section contains any of the given phrases
// marking a strict-parity requirement with a legacy implementation.
func (s *Section) Fidelity(phrases []string) bool {
	text := s.Text()
	for _, p := range phrases {
		if p != "" && strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// Details is the per-task summary printed by the task command.
type Details struct {
	ID       TaskID   `json:"id"`
	Name     string   `json:"name"`
	File     string   `json:"file"`
	Priority Priority `json:"priority"`
	LineRef  *LineRef `json:"legacy_lines,omitempty"`
	Fidelity bool     `json:"fidelity"`
}

// ExtractOptions configures field extraction.
type ExtractOptions struct {
	Priorities      PriorityMap
	FidelityPhrases []string
}

// Details extracts the summary fields of the section.
func (s *Section) Details(opts ExtractOptions) Details {
	d := Details{
		ID:       s.ID,
		Name:     s.Name,
		File:     s.File(),
		Priority: s.Priority(opts.Priorities),
		Fidelity: s.Fidelity(opts.FidelityPhrases),
	}
	if ref, err := s.PrimaryLineRef(); err == nil {
		d.LineRef = &ref
	}
	return d
}

// isValidationLabel reports whether l is a bare "**Validation:**" line.
func isValidationLabel(l Line) bool {
	return l.IsLabel("Validation") && l.Value == ""
}
