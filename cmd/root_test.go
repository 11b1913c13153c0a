package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/glimpse/internal/config"
	"github.com/zjrosen/glimpse/internal/scheme"
)

func TestResolveTargetFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("# x\n"), 0o644))

	filePath, workDir, err := resolveTarget(path)
	require.NoError(t, err)
	require.Equal(t, path, filePath)
	require.Equal(t, dir, workDir)
}

func TestResolveTargetDirectory(t *testing.T) {
	dir := t.TempDir()

	filePath, workDir, err := resolveTarget(dir)
	require.NoError(t, err)
	require.Empty(t, filePath)
	require.Equal(t, dir, workDir)
}

func TestResolveTargetMissing(t *testing.T) {
	_, _, err := resolveTarget(filepath.Join(t.TempDir(), "absent.md"))
	require.Error(t, err)
}

func TestResolveTargetEmptyUsesWorkingDirectory(t *testing.T) {
	filePath, workDir, err := resolveTarget("")
	require.NoError(t, err)
	require.Empty(t, filePath)
	require.NotEmpty(t, workDir)
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg = config.Defaults()
	flagStyle = "nord"
	flagLight = true
	flagDark = false
	flagLineNumbers = true
	flagDepth = 3
	flagNoWatch = true
	t.Cleanup(func() {
		cfg = config.Config{}
		flagStyle = ""
		flagLight = false
		flagLineNumbers = false
		flagDepth = 0
		flagNoWatch = false
	})

	applyFlagOverrides()

	require.Equal(t, "nord", cfg.Theme.Name)
	require.Equal(t, "light", cfg.Theme.Mode)
	require.True(t, cfg.UI.ShowLineNumbers)
	require.Equal(t, 3, cfg.Browser.Depth)
	require.False(t, cfg.Watch)
}

func TestDetectSchemeHonorsForcedMode(t *testing.T) {
	cfg = config.Defaults()
	t.Cleanup(func() { cfg = config.Config{} })

	cfg.Theme.Mode = "light"
	require.Equal(t, scheme.Light, detectScheme())

	cfg.Theme.Mode = "dark"
	require.Equal(t, scheme.Dark, detectScheme())
}
