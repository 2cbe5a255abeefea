package output

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// RenderMarkdown renders Markdown for a terminal of the given width.
// With color disabled the notty style is used.
func RenderMarkdown(text string, width int, color bool) (string, error) {
	style := "notty"
	if color {
		style = "dark"
	}
	opts := []glamour.TermRendererOption{glamour.WithStandardStyle(style)}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := r.Render(text)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}
