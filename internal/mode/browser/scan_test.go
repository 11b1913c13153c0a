package browser

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("# doc\n"), 0o644))
}

func relPaths(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.RelativePath
	}
	return out
}

func TestScanCollectsMarkdownOnly(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.md"))
	writeFile(t, filepath.Join(root, "upper.MDX"))
	writeFile(t, filepath.Join(root, "notes.txt"))
	writeFile(t, filepath.Join(root, "sub", "b.markdown"))
	writeFile(t, filepath.Join(root, ".hidden", "c.md"))
	writeFile(t, filepath.Join(root, ".secret.md"))

	entries, err := Scan(root, 6)
	require.NoError(t, err)
	require.Equal(t, []string{"a.md", "sub/b.markdown", "upper.MDX"}, relPaths(entries))

	for _, e := range entries {
		require.True(t, filepath.IsAbs(e.AbsolutePath))
		require.False(t, e.UpdatedAt.IsZero())
	}
}

func TestScanRespectsDepthLimit(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "top.md"))
	writeFile(t, filepath.Join(root, "l1", "one.md"))
	writeFile(t, filepath.Join(root, "l1", "l2", "two.md"))
	writeFile(t, filepath.Join(root, "l1", "l2", "l3", "three.md"))

	entries, err := Scan(root, 2)
	require.NoError(t, err)
	require.Equal(t, []string{"l1/l2/two.md", "l1/one.md", "top.md"}, relPaths(entries))
}

func TestScanFollowsSymlinkedFiles(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	writeFile(t, filepath.Join(outside, "elsewhere.md"))

	writeFile(t, filepath.Join(root, "local.md"))
	require.NoError(t, os.Symlink(filepath.Join(outside, "elsewhere.md"), filepath.Join(root, "alias.md")))

	entries, err := Scan(root, 6)
	require.NoError(t, err)
	require.Equal(t, []string{"alias.md", "local.md"}, relPaths(entries))
}

func TestScanSurvivesSymlinkLoop(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "doc.md"))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "nested"), 0o755))
	require.NoError(t, os.Symlink(root, filepath.Join(root, "nested", "loop")))

	done := make(chan []Entry, 1)
	go func() {
		entries, err := Scan(root, 10)
		require.NoError(t, err)
		done <- entries
	}()

	select {
	case entries := <-done:
		require.Equal(t, []string{"doc.md"}, relPaths(entries))
	case <-time.After(5 * time.Second):
		t.Fatal("scan did not terminate with a symlink loop present")
	}
}

func TestScanMissingRoot(t *testing.T) {
	entries, err := Scan(filepath.Join(t.TempDir(), "nope"), 6)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestCreatedValid(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		entry Entry
		want  bool
	}{
		{
			name:  "valid creation time",
			entry: Entry{CreatedAt: now.Add(-time.Hour), UpdatedAt: now},
			want:  true,
		},
		{
			name:  "epoch creation time",
			entry: Entry{CreatedAt: time.Unix(0, 0), UpdatedAt: now},
			want:  false,
		},
		{
			name:  "creation after update",
			entry: Entry{CreatedAt: now.Add(time.Hour), UpdatedAt: now},
			want:  false,
		},
		{
			name:  "creation equals update",
			entry: Entry{CreatedAt: now, UpdatedAt: now},
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.entry.CreatedValid())
		})
	}
}
