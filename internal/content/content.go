// Package content turns a markdown document into styled terminal lines.
//
// A Content is owned by exactly one pager session. Reloads, edits, and
// theme swaps construct a new Content rather than mutating one in place;
// the per-width line cache is the only mutable state and is invalidated
// explicitly, never per frame, since re-rendering rich markdown is the most
// expensive step in the program.
package content

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	gocache "github.com/patrickmn/go-cache"

	"github.com/zjrosen/glimpse/internal/log"
	"github.com/zjrosen/glimpse/internal/theme"
)

// noMarginStyle removes glamour's document margin so the pager owns all
// horizontal layout, and pins the code block theme to the resolved palette.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	},
	"code_block": {
		"margin": 0,
		"theme": %q
	}
}`

// Content holds one markdown document and its rendered form per width.
type Content struct {
	path     string
	markdown string
	th       *theme.Resolved
	cache    *gocache.Cache
}

// New wraps raw markdown with the given palette.
func New(markdown string, th *theme.Resolved) *Content {
	return &Content{
		markdown: markdown,
		th:       th,
		cache:    gocache.New(gocache.NoExpiration, gocache.NoExpiration),
	}
}

// Load reads a markdown file from disk. The caller decides how to treat
// read failures; a file disappearing mid-save is expected and transient.
func Load(path string, th *theme.Resolved) (*Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	c := New(string(data), th)
	c.path = path
	return c, nil
}

// WithTheme returns a new Content over the same document rendered with a
// different palette. The rendered-line cache starts empty.
func (c *Content) WithTheme(th *theme.Resolved) *Content {
	next := New(c.markdown, th)
	next.path = c.path
	return next
}

// Path returns the source file path, or "" for stdin documents.
func (c *Content) Path() string { return c.path }

// Raw returns the markdown source.
func (c *Content) Raw() string { return c.markdown }

// Theme returns the palette this content was rendered with.
func (c *Content) Theme() *theme.Resolved { return c.th }

// Lines renders the document at the given width, memoized per width.
// Rendering is pure for a fixed width, which makes the cache safe.
func (c *Content) Lines(width int) []string {
	if width < 1 {
		width = 1
	}
	key := strconv.Itoa(width)
	if cached, found := c.cache.Get(key); found {
		if lines, ok := cached.([]string); ok {
			return lines
		}
	}

	lines := c.render(width)
	c.cache.Set(key, lines, gocache.NoExpiration)
	return lines
}

// Invalidate drops all cached renders. Call on resize or theme swap.
func (c *Content) Invalidate() {
	c.cache.Flush()
}

func (c *Content) render(width int) []string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(c.th.GlamourStyle),
		glamour.WithStylesFromJSONBytes([]byte(fmt.Sprintf(noMarginStyle, c.th.ChromaStyle))),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		log.ErrorErr(log.CatContent, "Building markdown renderer failed, falling back to raw text", err)
		return splitLines(c.markdown)
	}

	out, err := r.Render(c.markdown)
	if err != nil {
		log.ErrorErr(log.CatContent, "Markdown render failed, falling back to raw text", err)
		return splitLines(c.markdown)
	}
	return splitLines(out)
}

// splitLines splits rendered output into lines, dropping the single
// trailing newline glamour appends.
func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
