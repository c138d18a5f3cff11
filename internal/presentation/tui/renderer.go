package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders the final report markdown
// for the terminal. On renderer init failure the raw markdown is returned
// untouched so output is never lost.
func NewRenderer() func(string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	return func(markdown string) string {
		if err != nil || r == nil {
			return markdown
		}
		out, rerr := r.Render(markdown)
		if rerr != nil {
			return markdown
		}
		return out
	}
}
