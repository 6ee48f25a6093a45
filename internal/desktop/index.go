package desktop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"

	"github.com/runger/launcher/internal/logging"
	"github.com/runger/launcher/internal/match"
)

// ErrNoDescriptorDirs is returned by Rebuild when none of the configured
// directories could be read.
var ErrNoDescriptorDirs = errors.New("no readable descriptor directories")

const descriptorExt = ".desktop"

// Config configures an Index.
type Config struct {
	// Dirs are scanned in order; an earlier directory shadows later ones
	// for the same file ID.
	Dirs []string

	// Locale overrides LC_MESSAGES / LANG when non-empty.
	Locale string

	// Icons resolves Icon values at load time. Nil leaves them raw.
	Icons IconResolver

	Logger *slog.Logger
}

// Index owns the current snapshot of parsed entries. Readers take a
// snapshot and use it for the whole search; Rebuild swaps in a new one.
type Index struct {
	dirs    []string
	locales []string
	icons   IconResolver
	logger  *slog.Logger

	mu         sync.RWMutex
	snap       *Snapshot
	generation atomic.Uint64
}

// Snapshot is an immutable set of entries. IDs are positions in the
// snapshot and are only valid against the snapshot that produced them.
type Snapshot struct {
	generation uint64
	entries    []Entry
	byFile     map[string]int
}

// New creates an empty Index. Call Rebuild to load entries.
func New(cfg Config) *Index {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Index{
		dirs:    cfg.Dirs,
		locales: Locales(cfg.Locale),
		icons:   cfg.Icons,
		logger:  logger,
		snap:    newSnapshot(0, nil),
	}
}

// NewSnapshot builds a snapshot from already parsed entries.
func NewSnapshot(entries []Entry) *Snapshot {
	return newSnapshot(0, entries)
}

func newSnapshot(generation uint64, entries []Entry) *Snapshot {
	byFile := make(map[string]int, len(entries))
	for i, e := range entries {
		byFile[e.FileID] = i
	}
	return &Snapshot{generation: generation, entries: entries, byFile: byFile}
}

// Locales returns the locale keys used for localized fields.
func (x *Index) Locales() []string {
	return x.locales
}

// Dirs returns the configured descriptor directories.
func (x *Index) Dirs() []string {
	return x.dirs
}

// Snapshot returns the current snapshot.
func (x *Index) Snapshot() *Snapshot {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.snap
}

// FindFile looks up an entry ID in the current snapshot.
func (x *Index) FindFile(fileID string) (int, bool) {
	return x.Snapshot().FindFile(fileID)
}

// Rebuild rescans every directory and replaces the snapshot. Unreadable
// directories and malformed descriptors are skipped. If no directory
// could be read the snapshot becomes empty and ErrNoDescriptorDirs is
// returned.
func (x *Index) Rebuild(ctx context.Context) error {
	var (
		entries  []Entry
		seenID   = make(map[string]bool)
		seenHash = make(map[uint64]string)
		readable int
		skipped  int
	)

	for _, dir := range x.dirs {
		if err := ctx.Err(); err != nil {
			return err
		}

		files, err := os.ReadDir(dir)
		if err != nil {
			x.logger.Debug("descriptor directory unreadable", "dir", dir, "error", err)
			continue
		}
		readable++

		for _, f := range files {
			if err := ctx.Err(); err != nil {
				return err
			}

			name := f.Name()
			if f.IsDir() || !strings.HasSuffix(name, descriptorExt) {
				continue
			}
			if seenID[name] {
				continue
			}

			path := filepath.Join(dir, name)
			data, err := os.ReadFile(path)
			if err != nil {
				logging.LogDescriptorSkipped(x.logger, path, err.Error())
				skipped++
				continue
			}

			sum := xxhash.Sum64(data)
			if prev, dup := seenHash[sum]; dup {
				logging.LogDescriptorSkipped(x.logger, path, "duplicate of "+prev)
				skipped++
				continue
			}

			entry, err := parseEntry(data, name, x.locales)
			if err != nil {
				logging.LogDescriptorSkipped(x.logger, path, err.Error())
				skipped++
				continue
			}

			seenID[name] = true
			seenHash[sum] = path
			entry.Path = path
			if x.icons != nil {
				entry.Icon = x.icons.Resolve(entry.Icon)
			}
			entries = append(entries, entry)
		}
	}

	gen := x.generation.Add(1)
	snap := newSnapshot(gen, entries)

	x.mu.Lock()
	x.snap = snap
	x.mu.Unlock()

	if readable == 0 && len(x.dirs) > 0 {
		return fmt.Errorf("%w: %s", ErrNoDescriptorDirs, strings.Join(x.dirs, ", "))
	}

	logging.LogIndexRebuilt(x.logger, len(entries), skipped, x.dirs)
	return nil
}

// Generation identifies the rebuild that produced the snapshot.
func (s *Snapshot) Generation() uint64 {
	return s.generation
}

// Len returns the number of entries.
func (s *Snapshot) Len() int {
	return len(s.entries)
}

// Entry returns the entry with the given ID, or nil when id is not in
// this snapshot.
func (s *Snapshot) Entry(id int) *Entry {
	if id < 0 || id >= len(s.entries) {
		return nil
	}
	return &s.entries[id]
}

// Entries returns all entries in ID order. The slice must not be
// modified.
func (s *Snapshot) Entries() []Entry {
	return s.entries
}

// FindFile returns the ID of the entry with the given file ID.
func (s *Snapshot) FindFile(fileID string) (int, bool) {
	id, ok := s.byFile[fileID]
	return id, ok
}

// FindAll matches query against every entry.
func (s *Snapshot) FindAll(query string) []Match {
	ids := make([]int, len(s.entries))
	for i := range ids {
		ids[i] = i
	}
	return s.FindSubset(query, ids)
}

// FindSubset matches query against the given entries, in the given order.
// Each entry contributes at most one Match: fields are tried in
// precedence order and the first one that matches is reported. IDs outside
// the snapshot are ignored.
func (s *Snapshot) FindSubset(query string, ids []int) []Match {
	query = strings.ToLower(query)

	var out []Match
	for _, id := range ids {
		if id < 0 || id >= len(s.entries) {
			continue
		}
		if m, ok := s.match(query, id); ok {
			out = append(out, m)
		}
	}
	return out
}

func (s *Snapshot) match(query string, id int) (Match, bool) {
	e := &s.entries[id]
	for _, f := range searchOrder {
		v := e.Value(f)
		if v == "" {
			continue
		}
		if kind, ok := match.Get(query, strings.ToLower(v)); ok {
			return Match{ID: id, Field: MatchField{Field: f, Kind: kind}}, true
		}
	}
	return Match{}, false
}
