package browser

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/zjrosen/glimpse/internal/log"
)

// Entry is one discovered markdown file. Immutable once scanned; the
// browser re-orders and filters entries but never rewrites them.
type Entry struct {
	AbsolutePath string
	RelativePath string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreatedValid reports whether the creation timestamp is trustworthy.
// Some filesystems report epoch or clock-skewed values, so a creation
// time is only shown when it is positive and not after the update time.
func (e Entry) CreatedValid() bool {
	return e.CreatedAt.Unix() > 0 && !e.CreatedAt.After(e.UpdatedAt)
}

// markdownExts are the file extensions the scanner collects.
var markdownExts = map[string]bool{
	".md":       true,
	".markdown": true,
	".mdown":    true,
	".mdx":      true,
}

// Scan walks root up to maxDepth levels deep and collects markdown files.
// Hidden entries are skipped. Symlinked files are followed, symlinked
// directories are not; a visited set keyed on resolved real paths guards
// against symlink loops. The result is sorted by relative path.
func Scan(root string, maxDepth int) ([]Entry, error) {
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	visited := make(map[string]bool)
	if real, err := filepath.EvalSymlinks(rootAbs); err == nil {
		visited[real] = true
	}

	var entries []Entry
	walkDir(rootAbs, rootAbs, 0, maxDepth, visited, &entries)

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].RelativePath < entries[j].RelativePath
	})
	return entries, nil
}

func walkDir(dir, root string, depth, maxDepth int, visited map[string]bool, out *[]Entry) {
	items, err := os.ReadDir(dir)
	if err != nil {
		// Unreadable directories are skipped, not fatal.
		log.Warn(log.CatBrowser, "Skipping unreadable directory", "dir", dir, "error", err)
		return
	}

	for _, item := range items {
		name := item.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(dir, name)

		switch {
		case item.Type()&os.ModeSymlink != 0:
			// Follow symlinked files only; symlinked directories are
			// skipped outright so loops cannot form through them.
			info, err := os.Stat(path)
			if err != nil || info.IsDir() {
				continue
			}
			real, err := filepath.EvalSymlinks(path)
			if err != nil || visited[real] {
				continue
			}
			visited[real] = true
			collect(path, root, info, out)

		case item.IsDir():
			if depth+1 > maxDepth {
				continue
			}
			real, err := filepath.EvalSymlinks(path)
			if err != nil || visited[real] {
				continue
			}
			visited[real] = true
			walkDir(path, root, depth+1, maxDepth, visited, out)

		default:
			info, err := item.Info()
			if err != nil {
				continue
			}
			collect(path, root, info, out)
		}
	}
}

// collect appends path to out if it carries a markdown extension.
func collect(path, root string, info os.FileInfo, out *[]Entry) {
	if !markdownExts[strings.ToLower(filepath.Ext(path))] {
		return
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}

	created, updated := fileTimes(path, info)
	*out = append(*out, Entry{
		AbsolutePath: path,
		RelativePath: rel,
		CreatedAt:    created,
		UpdatedAt:    updated,
	})
}

// fileTimes extracts creation and modification times, falling back to the
// epoch when the platform or filesystem cannot provide them.
func fileTimes(path string, info os.FileInfo) (created, updated time.Time) {
	updated = info.ModTime()
	created = birthTime(path, info)
	return created, updated
}
