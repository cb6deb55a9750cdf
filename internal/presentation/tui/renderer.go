package tui

import (
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// DefaultWidth is used when the terminal size is unknown.
const DefaultWidth = 80

// TerminalWidth returns the width of stdout, or DefaultWidth.
func TerminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return DefaultWidth
	}
	return w
}

// NewRenderer returns a function that renders markdown using glamour.
// style is a glamour standard style name ("dark", "light", "notty", ...);
// empty detects the terminal background.
func NewRenderer(width int, style string) (func(string) (string, error), error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle()) // Automatically detect light/dark background
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, err
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}, nil
}
