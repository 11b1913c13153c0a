// Package editor builds the external editor command for edit round trips.
package editor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// fallback is used when neither $VISUAL nor $EDITOR is set.
const fallback = "vi"

// lineFlagEditors accept a "+N" argument to open at a 1-based line.
var lineFlagEditors = map[string]bool{
	"vi":    true,
	"vim":   true,
	"nvim":  true,
	"nano":  true,
	"emacs": true,
	"micro": true,
	"kak":   true,
	"hx":    true,
}

// Resolve returns the editor command name, honoring the override first,
// then $VISUAL, then $EDITOR.
func Resolve(override string) string {
	for _, candidate := range []string{override, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return fallback
}

// Command builds the exec.Cmd that opens path at the given 1-based line.
// The line argument is passed only to editors known to accept "+N"; other
// editors get the bare path. The command inherits the caller's terminal
// via tea.ExecProcess, which blocks the render loop until it exits.
func Command(editorCmd, path string, line int) *exec.Cmd {
	name := Resolve(editorCmd)

	// The configured editor may carry arguments ("code --wait").
	parts := strings.Fields(name)
	bin := parts[0]
	args := parts[1:]

	if line > 0 && lineFlagEditors[filepath.Base(bin)] {
		args = append(args, fmt.Sprintf("+%d", line))
	}
	args = append(args, path)

	cmd := exec.Command(bin, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd
}
