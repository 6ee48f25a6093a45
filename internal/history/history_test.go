package history

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/launcher/internal/logging"
)

type mapResolver map[string]int

func (m mapResolver) FindFile(fileID string) (int, bool) {
	id, ok := m[fileID]
	return id, ok
}

type memStore struct {
	items []Item
	err   error
	saved [][]Item
}

func (s *memStore) LoadHistory(context.Context) ([]Item, error) {
	return s.items, s.err
}

func (s *memStore) SaveHistory(_ context.Context, items []Item) error {
	s.saved = append(s.saved, items)
	return nil
}

// assertConsistent checks the rank map against the item list.
func assertConsistent(t *testing.T, h *History) {
	t.Helper()
	desktop := 0
	for pos := 0; pos < h.Len(); pos++ {
		id, ok := h.EntryID(pos)
		if !ok {
			continue
		}
		desktop++
		assert.Equal(t, h.Len()-pos, h.Ranks()[id], "rank of position %d", pos)
	}
	assert.Len(t, h.Ranks(), desktop)
	assert.LessOrEqual(t, h.Len(), h.Max())
}

func TestAdd_FrontAndRanks(t *testing.T) {
	t.Parallel()

	h := New(10)
	h.AddDesktop("a.desktop", 0)
	h.AddPath("/bin/b")
	h.AddDesktop("c.desktop", 2)

	assert.Equal(t, []Item{DesktopItem("c.desktop"), PathItem("/bin/b"), DesktopItem("a.desktop")}, h.Items())
	assert.Equal(t, map[int]int{2: 3, 0: 1}, h.Ranks())
	assertConsistent(t, h)
}

func TestAdd_DuplicateMovesToFront(t *testing.T) {
	t.Parallel()

	h := New(10)
	h.AddDesktop("a.desktop", 0)
	h.AddDesktop("b.desktop", 1)
	h.AddDesktop("a.desktop", 0)

	assert.Equal(t, 2, h.Len())
	assert.Equal(t, DesktopItem("a.desktop"), h.At(0))
	assertConsistent(t, h)
}

func TestAdd_EvictsOldestAtCapacity(t *testing.T) {
	t.Parallel()

	h := New(2)
	h.AddDesktop("a.desktop", 0)
	h.AddDesktop("b.desktop", 1)
	h.AddDesktop("c.desktop", 2)

	assert.Equal(t, []Item{DesktopItem("c.desktop"), DesktopItem("b.desktop")}, h.Items())
	_, stillRanked := h.Ranks()[0]
	assert.False(t, stillRanked, "evicted entry must lose its rank")
	assertConsistent(t, h)
}

func TestAdd_DuplicateAtCapacityDoesNotEvict(t *testing.T) {
	t.Parallel()

	h := New(2)
	h.AddPath("/bin/a")
	h.AddPath("/bin/b")
	h.AddPath("/bin/a")

	assert.Equal(t, []Item{PathItem("/bin/a"), PathItem("/bin/b")}, h.Items())
}

func TestRenew(t *testing.T) {
	t.Parallel()

	h := New(10)
	h.AddDesktop("a.desktop", 0)
	h.AddDesktop("b.desktop", 1)
	h.AddDesktop("c.desktop", 2)

	h.Renew(2)
	assert.Equal(t, []Item{DesktopItem("a.desktop"), DesktopItem("c.desktop"), DesktopItem("b.desktop")}, h.Items())
	assert.Equal(t, 3, h.Ranks()[0])
	assertConsistent(t, h)

	h.Renew(0)
	assert.Equal(t, DesktopItem("a.desktop"), h.At(0))
}

func TestDelete(t *testing.T) {
	t.Parallel()

	h := New(10)
	h.AddDesktop("a.desktop", 0)
	h.AddPath("/bin/b")

	h.Delete(1)
	assert.Equal(t, []Item{PathItem("/bin/b")}, h.Items())
	assert.Empty(t, h.Ranks())
	assertConsistent(t, h)
}

func TestOutOfRangePanics(t *testing.T) {
	t.Parallel()

	h := New(10)
	h.AddPath("/bin/a")

	assert.Panics(t, func() { h.Renew(1) })
	assert.Panics(t, func() { h.Delete(-1) })
	assert.Panics(t, func() { h.At(5) })
}

func TestClear(t *testing.T) {
	t.Parallel()

	h := New(10)
	h.AddDesktop("a.desktop", 0)
	h.Clear()
	assert.True(t, h.IsEmpty())
	assert.Empty(t, h.Ranks())
}

func TestLoad_FiltersStale(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	exe := filepath.Join(dir, "tool")
	require.NoError(t, os.WriteFile(exe, nil, 0755))

	store := &memStore{items: []Item{
		DesktopItem("gone.desktop"),
		PathItem(exe),
		DesktopItem("gimp.desktop"),
		PathItem(filepath.Join(dir, "missing")),
		DesktopItem("gimp.desktop"),
	}}

	h := Load(context.Background(), store, mapResolver{"gimp.desktop": 4}, 10, logging.Discard())
	assert.Equal(t, []Item{PathItem(exe), DesktopItem("gimp.desktop")}, h.Items())
	assert.Equal(t, map[int]int{4: 1}, h.Ranks())
	assertConsistent(t, h)
}

func TestLoad_Truncates(t *testing.T) {
	t.Parallel()

	store := &memStore{items: []Item{
		DesktopItem("a.desktop"), DesktopItem("b.desktop"), DesktopItem("c.desktop"),
	}}
	h := Load(context.Background(), store, mapResolver{"a.desktop": 0, "b.desktop": 1, "c.desktop": 2}, 2, logging.Discard())
	assert.Equal(t, 2, h.Len())
	assert.Equal(t, DesktopItem("a.desktop"), h.At(0))
}

func TestLoad_StoreError(t *testing.T) {
	t.Parallel()

	h := Load(context.Background(), &memStore{err: errors.New("disk on fire")}, mapResolver{}, 10, logging.Discard())
	assert.True(t, h.IsEmpty())
}

func TestSave(t *testing.T) {
	t.Parallel()

	store := &memStore{}
	h := New(10)
	h.AddPath("/bin/a")
	require.NoError(t, h.Save(context.Background(), store))
	require.Len(t, store.saved, 1)
	assert.Equal(t, []Item{PathItem("/bin/a")}, store.saved[0])
}

func TestRemap(t *testing.T) {
	t.Parallel()

	h := New(10)
	h.AddDesktop("a.desktop", 0)
	h.AddPath("/bin/p")
	h.AddDesktop("b.desktop", 1)

	dropped := h.Remap(mapResolver{"b.desktop": 7})
	assert.Equal(t, 1, dropped)
	assert.Equal(t, []Item{DesktopItem("b.desktop"), PathItem("/bin/p")}, h.Items())
	assert.Equal(t, map[int]int{7: 2}, h.Ranks())
	assertConsistent(t, h)
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	for _, k := range []Kind{KindDesktop, KindPath} {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKind("bogus")
	assert.Error(t, err)
}

func TestNew_DefaultCapacity(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultMaxEntries, New(0).Max())
}
