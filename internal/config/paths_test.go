package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultPaths(t *testing.T) {
	paths := DefaultPaths()

	if paths.ConfigDir == "" {
		t.Error("ConfigDir is empty")
	}
	if paths.DataDir == "" {
		t.Error("DataDir is empty")
	}
	if paths.CacheDir == "" {
		t.Error("CacheDir is empty")
	}
	if !filepath.IsAbs(paths.ConfigDir) {
		t.Errorf("ConfigDir should be absolute: %s", paths.ConfigDir)
	}
}

func TestDefaultPaths_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	t.Setenv("XDG_DATA_HOME", "/custom/data")
	t.Setenv("XDG_CACHE_HOME", "/custom/cache")

	paths := DefaultPaths()

	if paths.ConfigDir != "/custom/config/launcher" {
		t.Errorf("ConfigDir should respect XDG_CONFIG_HOME: %s", paths.ConfigDir)
	}
	if paths.DataDir != "/custom/data/launcher" {
		t.Errorf("DataDir should respect XDG_DATA_HOME: %s", paths.DataDir)
	}
	if paths.CacheDir != "/custom/cache/launcher" {
		t.Errorf("CacheDir should respect XDG_CACHE_HOME: %s", paths.CacheDir)
	}
}

func TestPathHelpers(t *testing.T) {
	paths := &Paths{
		ConfigDir: "/c",
		DataDir:   "/d",
		CacheDir:  "/k",
	}

	if got := paths.ConfigFile(); got != "/c/config.yaml" {
		t.Errorf("ConfigFile() = %s", got)
	}
	if got := paths.DatabaseFile(); got != "/d/state.db" {
		t.Errorf("DatabaseFile() = %s", got)
	}
	if got := paths.LogFile(); got != "/d/logs/launcher.log" {
		t.Errorf("LogFile() = %s", got)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	paths := &Paths{
		ConfigDir: filepath.Join(base, "config"),
		DataDir:   filepath.Join(base, "data"),
		CacheDir:  filepath.Join(base, "cache"),
	}

	if err := paths.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories() error: %v", err)
	}

	for _, dir := range []string{paths.ConfigDir, paths.DataDir, paths.CacheDir, paths.LogDir()} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Errorf("directory %s not created: %v", dir, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", dir)
		}
	}
}

func TestApplicationDirs(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/home/u/.local/share")
	t.Setenv("XDG_DATA_DIRS", "/usr/share:/opt/share::/usr/share")

	got := ApplicationDirs()
	want := []string{
		"/home/u/.local/share/applications",
		"/usr/share/applications",
		"/opt/share/applications",
	}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("ApplicationDirs() = %v, want %v", got, want)
	}
}

func TestApplicationDirs_Defaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/h")
	t.Setenv("XDG_DATA_DIRS", "")

	got := ApplicationDirs()
	if len(got) != 3 || got[1] != "/usr/local/share/applications" || got[2] != "/usr/share/applications" {
		t.Errorf("ApplicationDirs() = %v", got)
	}
}

func TestExpandPath(t *testing.T) {
	if got := ExpandPath("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandPath(abs) = %s", got)
	}
	got := ExpandPath("~/x")
	if strings.HasPrefix(got, "~") {
		t.Errorf("ExpandPath(~/x) not expanded: %s", got)
	}
}
