package search

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/runger/launcher/internal/match"
)

// PathMatcher matches queries against executable file names in the
// directories of $PATH.
type PathMatcher struct {
	dirs   func() []string
	logger *slog.Logger
}

// NewPathMatcher creates a matcher over $PATH as it is at each search.
func NewPathMatcher(logger *slog.Logger) *PathMatcher {
	return NewPathMatcherDirs(func() []string {
		return filepath.SplitList(os.Getenv("PATH"))
	}, logger)
}

// NewPathMatcherDirs creates a matcher over the directories returned by
// dirs.
func NewPathMatcherDirs(dirs func() []string, logger *slog.Logger) *PathMatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &PathMatcher{dirs: dirs, logger: logger}
}

// Match emits a Result for every executable whose lowercased file name
// matches query. Unreadable directories are skipped. A name present in
// several directories is reported once per directory, in $PATH order.
// Match stops early when ctx is done or emit returns false.
func (p *PathMatcher) Match(ctx context.Context, query string, emit func(Result) bool) {
	query = strings.ToLower(query)

	for _, dir := range p.dirs() {
		if dir == "" {
			continue
		}
		if ctx.Err() != nil {
			return
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			p.logger.Debug("path directory unreadable", "dir", dir, "error", err)
			continue
		}

		for _, e := range entries {
			name := e.Name()
			kind, ok := match.Get(query, strings.ToLower(name))
			if !ok {
				continue
			}

			path := filepath.Join(dir, name)
			if !isExecutable(path) {
				continue
			}

			if !emit(Result{Kind: KindPath, Path: path, Score: PathScore(kind)}) {
				return
			}
		}
	}
}

// isExecutable reports whether path is a regular file, after following
// symlinks, with any execute bit set.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0
}
