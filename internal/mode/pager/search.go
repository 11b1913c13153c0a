package pager

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// FindMatches returns the indexes of lines containing query,
// case-insensitively, in increasing order. Lines are stripped of ANSI
// styling first so escape sequences emitted by the renderer cannot split
// or fake a match.
func FindMatches(lines []string, query string) []int {
	if query == "" {
		return nil
	}
	needle := strings.ToLower(query)

	var matches []int
	for i, line := range lines {
		plain := strings.ToLower(ansi.Strip(line))
		if strings.Contains(plain, needle) {
			matches = append(matches, i)
		}
	}
	return matches
}
