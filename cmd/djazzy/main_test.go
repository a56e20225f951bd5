package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveProjectRoot_Valid(t *testing.T) {
	dir := t.TempDir()
	abs, err := resolveProjectRoot(dir)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(abs))
}

func TestResolveProjectRoot_Missing(t *testing.T) {
	_, err := resolveProjectRoot(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestResolveProjectRoot_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err := resolveProjectRoot(file)
	require.Error(t, err)
}

func TestRootCommand_RequiresProjectRoot(t *testing.T) {
	err := rootCmd.Args(rootCmd, nil)
	require.Error(t, err)
}

func TestScanCommand_WritesCache(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "app"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "app", "urls.py"),
		[]byte(`path("", views.home, name="home")`), 0o644))

	require.NoError(t, runScan(rootCmd, []string{root}))

	_, err := os.Stat(filepath.Join(root, ".djazzy_cache.json"))
	require.NoError(t, err)
}
