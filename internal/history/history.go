// Package history keeps the most-recently-launched list used to boost
// search results and to fill the launcher when the query is empty.
package history

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

// DefaultMaxEntries is the default history capacity.
const DefaultMaxEntries = 100

// Kind identifies what a history item launches.
type Kind int

const (
	KindDesktop Kind = iota // application entry, referenced by file ID
	KindPath                // executable, referenced by absolute path
)

func (k Kind) String() string {
	switch k {
	case KindDesktop:
		return "desktop"
	case KindPath:
		return "path"
	default:
		return "unknown"
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "desktop":
		return KindDesktop, nil
	case "path":
		return KindPath, nil
	default:
		return 0, fmt.Errorf("unknown history item kind: %q", s)
	}
}

// Item is one launched target. Desktop items are stored by file ID so they
// survive index rebuilds.
type Item struct {
	Kind Kind
	Ref  string
}

// DesktopItem returns the item for an application entry.
func DesktopItem(fileID string) Item {
	return Item{Kind: KindDesktop, Ref: fileID}
}

// PathItem returns the item for an executable.
func PathItem(path string) Item {
	return Item{Kind: KindPath, Ref: path}
}

// Resolver maps desktop file IDs to entry IDs in the current index
// snapshot.
type Resolver interface {
	FindFile(fileID string) (int, bool)
}

// Store persists history items, most recent first.
type Store interface {
	LoadHistory(ctx context.Context) ([]Item, error)
	SaveHistory(ctx context.Context, items []Item) error
}

type entry struct {
	item Item
	id   int // entry ID for desktop items, -1 for paths
}

// History is an ordered, capacity-bounded list of launched items, most
// recent first, with a derived map from desktop entry ID to recency rank.
// Ranks run from 1 for the oldest item to Len() for the most recent and
// are recomputed on every mutation, so every desktop item has exactly one
// rank and every rank belongs to a desktop item.
//
// History is not safe for concurrent use.
type History struct {
	entries []entry
	ranks   map[int]int
	max     int
}

// New creates an empty History holding at most max items.
func New(max int) *History {
	if max <= 0 {
		max = DefaultMaxEntries
	}
	return &History{ranks: make(map[int]int), max: max}
}

// Load reads items from store and keeps those that still exist: paths must
// be present on disk and desktop items must resolve in r. Load never
// fails; a store error is logged and yields an empty history.
func Load(ctx context.Context, store Store, r Resolver, max int, logger *slog.Logger) *History {
	if logger == nil {
		logger = slog.Default()
	}
	h := New(max)

	items, err := store.LoadHistory(ctx)
	if err != nil {
		logger.Warn("failed to load history", "error", err)
		return h
	}

	seen := make(map[Item]bool, len(items))
	for _, it := range items {
		if len(h.entries) == h.max {
			break
		}
		if seen[it] {
			continue
		}
		seen[it] = true

		id, ok := resolve(it, r)
		if !ok {
			logger.Debug("dropping stale history item", "kind", it.Kind.String(), "ref", it.Ref)
			continue
		}
		h.entries = append(h.entries, entry{item: it, id: id})
	}
	h.reindex()
	return h
}

func resolve(it Item, r Resolver) (int, bool) {
	switch it.Kind {
	case KindDesktop:
		if r == nil {
			return 0, false
		}
		return r.FindFile(it.Ref)
	case KindPath:
		if _, err := os.Stat(it.Ref); err != nil {
			return 0, false
		}
		return -1, true
	default:
		return 0, false
	}
}

// Save writes the items to store.
func (h *History) Save(ctx context.Context, store Store) error {
	return store.SaveHistory(ctx, h.Items())
}

// Len returns the number of items.
func (h *History) Len() int {
	return len(h.entries)
}

// IsEmpty reports whether the history has no items.
func (h *History) IsEmpty() bool {
	return len(h.entries) == 0
}

// Max returns the capacity.
func (h *History) Max() int {
	return h.max
}

// At returns the item at pos, 0 being the most recent.
func (h *History) At(pos int) Item {
	h.checkPos(pos)
	return h.entries[pos].item
}

// EntryID returns the desktop entry ID of the item at pos. ok is false for
// path items.
func (h *History) EntryID(pos int) (id int, ok bool) {
	h.checkPos(pos)
	e := h.entries[pos]
	return e.id, e.item.Kind == KindDesktop
}

// Items returns a copy of the items, most recent first.
func (h *History) Items() []Item {
	out := make([]Item, len(h.entries))
	for i, e := range h.entries {
		out[i] = e.item
	}
	return out
}

// Ranks returns the recency rank of each desktop entry ID in the history.
// The map must not be modified.
func (h *History) Ranks() map[int]int {
	return h.ranks
}

// AddDesktop records a launch of the entry with the given file ID and ID.
func (h *History) AddDesktop(fileID string, id int) {
	h.add(entry{item: DesktopItem(fileID), id: id})
}

// AddPath records a launch of the executable at path.
func (h *History) AddPath(path string) {
	h.add(entry{item: PathItem(path), id: -1})
}

// add puts e at the front. An equal item already present is removed first;
// otherwise, at capacity, the oldest item is evicted.
func (h *History) add(e entry) {
	for i, existing := range h.entries {
		if existing.item == e.item {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			break
		}
	}
	if len(h.entries) >= h.max {
		h.entries = h.entries[:h.max-1]
	}
	h.entries = append([]entry{e}, h.entries...)
	h.reindex()
}

// Renew moves the item at pos to the front. It panics if pos is out of
// range.
func (h *History) Renew(pos int) {
	h.checkPos(pos)
	e := h.entries[pos]
	copy(h.entries[1:pos+1], h.entries[:pos])
	h.entries[0] = e
	h.reindex()
}

// Delete removes the item at pos. It panics if pos is out of range.
func (h *History) Delete(pos int) {
	h.checkPos(pos)
	h.entries = append(h.entries[:pos], h.entries[pos+1:]...)
	h.reindex()
}

// Clear removes every item.
func (h *History) Clear() {
	h.entries = nil
	h.reindex()
}

// Remap re-resolves desktop items against r after an index rebuild. Items
// whose entry disappeared are dropped; the number dropped is returned.
func (h *History) Remap(r Resolver) int {
	kept := h.entries[:0]
	dropped := 0
	for _, e := range h.entries {
		if e.item.Kind == KindDesktop {
			id, ok := r.FindFile(e.item.Ref)
			if !ok {
				dropped++
				continue
			}
			e.id = id
		}
		kept = append(kept, e)
	}
	h.entries = kept
	h.reindex()
	return dropped
}

func (h *History) reindex() {
	ranks := make(map[int]int, len(h.entries))
	n := len(h.entries)
	for pos, e := range h.entries {
		if e.item.Kind == KindDesktop {
			ranks[e.id] = n - pos
		}
	}
	h.ranks = ranks
}

func (h *History) checkPos(pos int) {
	if pos < 0 || pos >= len(h.entries) {
		panic(fmt.Sprintf("history: position %d out of range [0, %d)", pos, len(h.entries)))
	}
}
