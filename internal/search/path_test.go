package search

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/launcher/internal/logging"
)

func writeFile(t *testing.T, path string, mode os.FileMode) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), mode))
}

func collect(p *PathMatcher, query string) []Result {
	var out []Result
	p.Match(context.Background(), query, func(r Result) bool {
		out = append(out, r)
		return true
	})
	return out
}

func staticDirs(dirs ...string) func() []string {
	return func() []string { return dirs }
}

func TestPathMatcher_Exact(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "gimp"), 0755)

	got := collect(NewPathMatcherDirs(staticDirs(dir), logging.Discard()), "GIMP")
	require.Len(t, got, 1)
	assert.Equal(t, KindPath, got[0].Kind)
	assert.Equal(t, filepath.Join(dir, "gimp"), got[0].Path)
	assert.InDelta(t, ExactBase*PathWeight, got[0].Score, 1e-9)
}

func TestPathMatcher_Fuzzy(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "firefox"), 0755)

	got := collect(NewPathMatcherDirs(staticDirs(dir), logging.Discard()), "firefo")
	require.Len(t, got, 1)
	assert.Less(t, got[0].Score, 1.0)
}

func TestPathMatcher_SkipsNonExecutables(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "notes"), 0644)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "notes2"), 0755))

	assert.Empty(t, collect(NewPathMatcherDirs(staticDirs(dir), logging.Discard()), "notes"))
}

func TestPathMatcher_FollowsSymlinks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "real", "python3.12")
	writeFile(t, target, 0755)
	bin := filepath.Join(dir, "bin")
	require.NoError(t, os.Mkdir(bin, 0755))
	require.NoError(t, os.Symlink(target, filepath.Join(bin, "python3")))

	got := collect(NewPathMatcherDirs(staticDirs(bin), logging.Discard()), "python3")
	require.Len(t, got, 1)
	assert.Equal(t, filepath.Join(bin, "python3"), got[0].Path)
}

func TestPathMatcher_ReportsEveryDirectory(t *testing.T) {
	t.Parallel()

	a, b := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(a, "tool"), 0755)
	writeFile(t, filepath.Join(b, "tool"), 0755)

	got := collect(NewPathMatcherDirs(staticDirs("", filepath.Join(a, "missing"), a, b), logging.Discard()), "tool")
	require.Len(t, got, 2)
	assert.Equal(t, filepath.Join(a, "tool"), got[0].Path)
	assert.Equal(t, filepath.Join(b, "tool"), got[1].Path)
}

func TestPathMatcher_StopsWhenEmitRefuses(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "tool1"), 0755)
	writeFile(t, filepath.Join(dir, "tool2"), 0755)

	calls := 0
	NewPathMatcherDirs(staticDirs(dir), logging.Discard()).Match(context.Background(), "tool", func(Result) bool {
		calls++
		return false
	})
	assert.Equal(t, 1, calls)
}

func TestPathMatcher_UsesPATH(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "launchme"), 0755)
	t.Setenv("PATH", dir)

	got := collect(NewPathMatcher(logging.Discard()), "launchme")
	require.Len(t, got, 1)
}
