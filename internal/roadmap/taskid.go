package roadmap

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/twiced-technology-gmbh/roadmap/internal/clierr"
)

var taskIDRe = regexp.MustCompile(`^(\d+)\.(\d+)([a-z]?)$`)

// TaskID identifies a task as "<stage>.<sequence>[suffix]", e.g. "2.7" or "3.2a".
// The zero value is not a valid identifier.
type TaskID struct {
	Stage    int
	Sequence int
	Suffix   string // optional single lowercase letter
}

// ParseTaskID parses a dotted task identifier.
func ParseTaskID(s string) (TaskID, error) {
	m := taskIDRe.FindStringSubmatch(s)
	if m == nil {
		return TaskID{}, clierr.Newf(clierr.InvalidTaskID, "invalid task ID %q", s).
			WithDetails(map[string]any{"input": s})
	}
	stage, err := strconv.Atoi(m[1])
	if err != nil {
		return TaskID{}, clierr.Newf(clierr.InvalidTaskID, "invalid task ID %q: %v", s, err)
	}
	seq, err := strconv.Atoi(m[2])
	if err != nil {
		return TaskID{}, clierr.Newf(clierr.InvalidTaskID, "invalid task ID %q: %v", s, err)
	}
	return TaskID{Stage: stage, Sequence: seq, Suffix: m[3]}, nil
}

// String returns the canonical label.
func (id TaskID) String() string {
	return strconv.Itoa(id.Stage) + "." + strconv.Itoa(id.Sequence) + id.Suffix
}

// Base returns id without its letter suffix.
func (id TaskID) Base() TaskID {
	return TaskID{Stage: id.Stage, Sequence: id.Sequence}
}

// Less orders identifiers by stage, then sequence, then suffix,
// so "3.2" < "3.2a" < "3.10".
func (id TaskID) Less(other TaskID) bool {
	if id.Stage != other.Stage {
		return id.Stage < other.Stage
	}
	if id.Sequence != other.Sequence {
		return id.Sequence < other.Sequence
	}
	return id.Suffix < other.Suffix
}

// MarshalText implements encoding.TextMarshaler.
func (id TaskID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *TaskID) UnmarshalText(text []byte) error {
	parsed, err := ParseTaskID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// normalizeIDToken strips inline markup and trailing decoration (emoji,
// status words) from the identifier part of a task heading.
// "1.1 🔴" and "**1.1**⚠️" both normalize to "1.1".
func normalizeIDToken(s string) string {
	s = strings.TrimSpace(strings.Map(func(r rune) rune {
		switch r {
		case '*', '`', '_':
			return -1
		}
		return r
	}, s))
	end := strings.IndexFunc(s, func(r rune) bool {
		return !(r == '.' || unicode.IsDigit(r) || (r >= 'a' && r <= 'z'))
	})
	if end >= 0 {
		s = s[:end]
	}
	return s
}

// parseTaskHeading splits the text of a task heading ("Task 1.2: Name")
// into the normalized identifier token and the display name.
// hasColon is false when the heading has no "<id>: <name>" shape.
func parseTaskHeading(value string) (token, name string, hasColon bool) {
	rest := strings.TrimPrefix(value, "Task ")
	idPart, name, hasColon := strings.Cut(rest, ":")
	return normalizeIDToken(idPart), strings.TrimSpace(name), hasColon
}

// headingID returns the parsed identifier of a task heading line.
func headingID(l Line) (TaskID, error) {
	if l.Kind != KindTaskHeading {
		return TaskID{}, fmt.Errorf("line %d is not a task heading", l.Number+1)
	}
	token, _, _ := parseTaskHeading(l.Value)
	return ParseTaskID(token)
}
