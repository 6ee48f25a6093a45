package desktop

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// IconResolver turns an Icon value into a file path.
type IconResolver interface {
	Resolve(name string) string
}

// ThemeIcons looks icons up in freedesktop icon theme directories. Results
// are memoized per resolver.
type ThemeIcons struct {
	roots  []string
	themes []string

	mu    sync.Mutex
	cache map[string]string
}

var iconSizes = []string{"scalable", "256x256", "128x128", "64x64", "48x48", "32x32", "24x24", "16x16"}

var iconExts = []string{".svg", ".png", ".xpm"}

// NewThemeIcons creates a resolver searching theme (when set) and then
// hicolor under each data dir, and finally the pixmaps directories.
func NewThemeIcons(theme string, dataDirs []string) *ThemeIcons {
	themes := []string{"hicolor"}
	if theme != "" && theme != "hicolor" {
		themes = append([]string{theme}, themes...)
	}
	return &ThemeIcons{
		roots:  dataDirs,
		themes: themes,
		cache:  make(map[string]string),
	}
}

// Resolve returns the icon file for name. Absolute paths are returned as
// is when they exist. Unresolvable names are returned unchanged.
func (t *ThemeIcons) Resolve(name string) string {
	if name == "" {
		return ""
	}
	if filepath.IsAbs(name) {
		if fileExists(name) {
			return name
		}
		return ""
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if path, ok := t.cache[name]; ok {
		return path
	}
	path := t.lookup(name)
	t.cache[name] = path
	return path
}

func (t *ThemeIcons) lookup(name string) string {
	hasExt := strings.Contains(name, ".")
	for _, root := range t.roots {
		for _, theme := range t.themes {
			for _, size := range iconSizes {
				dir := filepath.Join(root, "icons", theme, size, "apps")
				if p := probe(dir, name, hasExt); p != "" {
					return p
				}
			}
		}
	}
	for _, root := range t.roots {
		if p := probe(filepath.Join(root, "pixmaps"), name, hasExt); p != "" {
			return p
		}
	}
	return name
}

func probe(dir, name string, hasExt bool) string {
	if hasExt {
		p := filepath.Join(dir, name)
		if fileExists(p) {
			return p
		}
	}
	for _, ext := range iconExts {
		p := filepath.Join(dir, name+ext)
		if fileExists(p) {
			return p
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
