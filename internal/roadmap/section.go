package roadmap

import (
	"strings"

	"github.com/twiced-technology-gmbh/roadmap/internal/clierr"
)

// Document is a tokenized roadmap.
type Document struct {
	Lines []Line
}

// Parse tokenizes roadmap text into a Document.
func Parse(text string) *Document {
	return &Document{Lines: Tokenize(text)}
}

// Section is the contiguous span of one task: its heading line up to, but
// excluding, the next heading at task level or above, the next "---", or the
// end of the document.
type Section struct {
	ID      TaskID
	Name    string
	Heading Line
	Lines   []Line // heading first

	// shaped is false when the heading lacks the "<id>: <name>" form.
	shaped bool
}

// Start returns the zero-based line index of the heading.
func (s *Section) Start() int { return s.Heading.Number }

// End returns the zero-based line index one past the last line of the section.
func (s *Section) End() int { return s.Heading.Number + len(s.Lines) }

// Text returns the raw section text.
func (s *Section) Text() string {
	parts := make([]string, len(s.Lines))
	for i, l := range s.Lines {
		parts[i] = l.Text
	}
	return strings.Join(parts, "\n")
}

// Body returns the section lines after the heading.
func (s *Section) Body() []Line {
	return s.Lines[1:]
}

// Sections returns every task section whose heading carries a parseable
// identifier, in document order. Duplicate identifiers are all returned.
func (d *Document) Sections() []*Section {
	var sections []*Section
	for i, l := range d.Lines {
		if l.Kind != KindTaskHeading {
			continue
		}
		if s, ok := d.sectionAt(i); ok {
			sections = append(sections, s)
		}
	}
	return sections
}

// FindSection returns the first section whose identifier equals id.
// Identifiers are compared as parsed values, so "1.1" never matches "1.10".
func (d *Document) FindSection(id TaskID) (*Section, error) {
	for i, l := range d.Lines {
		if l.Kind != KindTaskHeading {
			continue
		}
		s, ok := d.sectionAt(i)
		if ok && s.ID == id {
			return s, nil
		}
	}
	return nil, clierr.Newf(clierr.TaskNotFound, "task %s not found in roadmap", id).
		WithDetails(map[string]any{"id": id.String()})
}

// FindSectionByLabel parses label and returns the matching section.
func (d *Document) FindSectionByLabel(label string) (*Section, error) {
	id, err := ParseTaskID(strings.TrimSpace(label))
	if err != nil {
		return nil, err
	}
	return d.FindSection(id)
}

// sectionAt builds the section whose heading is at index i.
func (d *Document) sectionAt(i int) (*Section, bool) {
	heading := d.Lines[i]
	token, name, hasColon := parseTaskHeading(heading.Value)
	id, err := ParseTaskID(token)
	if err != nil {
		return nil, false
	}
	end := sectionEnd(d.Lines, i)
	return &Section{
		ID:      id,
		Name:    name,
		Heading: heading,
		Lines:   d.Lines[i:end],
		shaped:  hasColon,
	}, true
}

// sectionEnd returns the index of the first line after start that closes the section.
func sectionEnd(lines []Line, start int) int {
	for i := start + 1; i < len(lines); i++ {
		if lines[i].endsSection() {
			return i
		}
	}
	return len(lines)
}
