package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/zjrosen/glimpse/internal/scheme"
	"github.com/zjrosen/glimpse/internal/theme"
)

// printRendered renders the document once to stdout and exits. Used for
// --no-pager and whenever output is piped.
func printRendered(filePath, stdin string, s scheme.Scheme) error {
	markdown := stdin
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf("reading %s: %w", filePath, err)
		}
		markdown = string(data)
	}
	if markdown == "" {
		return fmt.Errorf("no input: provide a file or pipe markdown on stdin")
	}

	style := theme.Resolve(cfg.Theme.Name, s).GlamourStyle
	if termenv.EnvNoColor() || !term.IsTerminal(int(os.Stdout.Fd())) {
		style = "notty"
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(renderWidth()),
	)
	if err != nil {
		return fmt.Errorf("building renderer: %w", err)
	}

	out, err := r.Render(markdown)
	if err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}
	fmt.Fprint(os.Stdout, out)
	return nil
}

// renderWidth picks the word-wrap width: the flag, then the terminal,
// then a readable default.
func renderWidth() int {
	if flagWidth > 0 {
		return flagWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}
