// Package config provides configuration management for launcher.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// Paths holds all the path configurations for launcher.
type Paths struct {
	// ConfigDir is the directory for configuration files (~/.config/launcher)
	ConfigDir string

	// DataDir is the directory for data files (~/.local/share/launcher)
	DataDir string

	// CacheDir is the directory for cache files (~/.cache/launcher)
	CacheDir string
}

// DefaultPaths returns the default paths based on XDG Base Directory spec.
func DefaultPaths() *Paths {
	home := homeDir()

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(home, ".config")
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = filepath.Join(home, ".local", "share")
	}

	cacheHome := os.Getenv("XDG_CACHE_HOME")
	if cacheHome == "" {
		cacheHome = filepath.Join(home, ".cache")
	}

	return &Paths{
		ConfigDir: filepath.Join(configHome, "launcher"),
		DataDir:   filepath.Join(dataHome, "launcher"),
		CacheDir:  filepath.Join(cacheHome, "launcher"),
	}
}

// ConfigFile returns the path to the main configuration file.
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.ConfigDir, "config.yaml")
}

// DatabaseFile returns the path to the SQLite database holding history
// and the currency rate cache.
func (p *Paths) DatabaseFile() string {
	return filepath.Join(p.DataDir, "state.db")
}

// LogDir returns the path to the log directory.
func (p *Paths) LogDir() string {
	return filepath.Join(p.DataDir, "logs")
}

// LogFile returns the path to the default log file.
func (p *Paths) LogFile() string {
	return filepath.Join(p.LogDir(), "launcher.log")
}

// EnsureDirectories creates all necessary directories.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.ConfigDir,
		p.DataDir,
		p.CacheDir,
		p.LogDir(),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return nil
}

// ApplicationDirs returns the XDG application descriptor directories in
// precedence order: $XDG_DATA_HOME/applications first, then each entry of
// $XDG_DATA_DIRS (default /usr/local/share:/usr/share).
func ApplicationDirs() []string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = filepath.Join(homeDir(), ".local", "share")
	}

	dataDirs := os.Getenv("XDG_DATA_DIRS")
	if dataDirs == "" {
		dataDirs = "/usr/local/share:/usr/share"
	}

	dirs := []string{filepath.Join(dataHome, "applications")}
	seen := map[string]bool{dirs[0]: true}
	for _, d := range strings.Split(dataDirs, ":") {
		if d == "" {
			continue
		}
		dir := filepath.Join(d, "applications")
		if seen[dir] {
			continue
		}
		seen[dir] = true
		dirs = append(dirs, dir)
	}
	return dirs
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return path
	}
	return expanded
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := homedir.Dir()
	if err != nil {
		// Fallback
		return os.Getenv("HOME")
	}
	return home
}
