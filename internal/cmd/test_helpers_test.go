package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/runger/launcher/internal/history"
	"github.com/runger/launcher/internal/storage"
)

// testEnv is an isolated XDG tree with two applications and one
// executable on $PATH.
type testEnv struct {
	configFile string
	dataHome   string
	appDir     string
	binDir     string
}

const firefoxDesktop = `[Desktop Entry]
Type=Application
Name=Firefox
GenericName=Web Browser
Exec=firefox %u
Icon=firefox
`

const filesDesktop = `[Desktop Entry]
Type=Application
Name=Files
Exec=nautilus --new-window %U
`

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	root := t.TempDir()
	env := &testEnv{
		configFile: filepath.Join(root, "config", "launcher", "config.yaml"),
		dataHome:   filepath.Join(root, "data"),
		appDir:     filepath.Join(root, "data", "applications"),
		binDir:     filepath.Join(root, "bin"),
	}

	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_DATA_HOME", env.dataHome)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(root, "cache"))
	t.Setenv("XDG_DATA_DIRS", filepath.Join(root, "system"))
	t.Setenv("PATH", env.binDir)
	t.Setenv("LANG", "C")
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LAUNCHER_DEFAULT_CURRENCY", "eur")
	t.Setenv("LAUNCHER_DEBUG", "")
	t.Setenv("LAUNCHER_LOG_LEVEL", "error")
	t.Setenv("NO_COLOR", "1")

	require.NoError(t, os.MkdirAll(env.appDir, 0o755))
	require.NoError(t, os.MkdirAll(env.binDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(env.appDir, "firefox.desktop"), []byte(firefoxDesktop), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(env.appDir, "org.gnome.Nautilus.desktop"), []byte(filesDesktop), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(env.binDir, "firetool"), []byte("#!/bin/sh\n"), 0o755))
	return env
}

// seedHistory writes history items straight to the database.
func (e *testEnv) seedHistory(t *testing.T, items ...history.Item) {
	t.Helper()
	store, err := storage.NewSQLiteStore(filepath.Join(e.dataHome, "launcher", "state.db"))
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.SaveHistory(context.Background(), items))
}

// resetFlags restores every command flag global to its default.
func resetFlags(t *testing.T) {
	t.Helper()
	reset := func() {
		configFile = ""
		debugMode = false
		colorMode = "auto"
		searchJSON = false
		searchLimit = 20
		classifyJSON = false
		classifyOffline = false
		convertOffline = false
		indexLimit = 0
		pickQuery = ""
	}
	reset()
	t.Cleanup(reset)
}

// runCLI executes the root command with args and returns what it wrote
// to stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(t)
	var err error
	out := captureStdout(t, func() {
		rootCmd.SetArgs(args)
		err = rootCmd.Execute()
	})
	return out, err
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() failed: %v", err)
	}
	os.Stdout = w

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	fn()
	_ = w.Close()
	os.Stdout = old
	out := <-outC
	_ = r.Close()
	return out
}
