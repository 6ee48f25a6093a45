package search

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/launcher/internal/desktop"
	"github.com/runger/launcher/internal/logging"
)

func testEntries() *desktop.Snapshot {
	return desktop.NewSnapshot([]desktop.Entry{
		{Name: "GIMP", GenericName: "Image Editor", FileID: "gimp.desktop"},
		{Name: "Files", LocalizedName: "Dateien", FileID: "nautilus.desktop"},
		{Name: "Firefox", GenericName: "Web Browser", FileID: "firefox.desktop"},
	})
}

func newTestSearcher(t *testing.T, dirs ...string) *Searcher {
	t.Helper()
	pool, err := NewPool(4)
	require.NoError(t, err)
	t.Cleanup(pool.Release)

	return NewSearcher(Config{
		Paths:  NewPathMatcherDirs(staticDirs(dirs...), logging.Discard()),
		Pool:   pool,
		Logger: logging.Discard(),
	})
}

func TestSearch_CombinesMatchers(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "gimp"), 0755)

	s := newTestSearcher(t, dir)
	results, err := s.Search(context.Background(), Request{Query: "Gimp", Snapshot: testEntries()})
	require.NoError(t, err)

	kinds := map[Kind]int{}
	for _, r := range results {
		kinds[r.Kind]++
	}
	assert.Equal(t, 1, kinds[KindDesktop])
	assert.Equal(t, 1, kinds[KindPath])
}

func TestSearch_MatchedTextOnlyWhenDifferent(t *testing.T) {
	t.Parallel()

	s := newTestSearcher(t)
	results, err := s.Search(context.Background(), Request{Query: "dateien", Snapshot: testEntries()})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Files", results[0].Name)
	assert.Equal(t, "Dateien", results[0].MatchedText)

	results, err = s.Search(context.Background(), Request{Query: "files", Snapshot: testEntries()})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Empty(t, results[0].MatchedText)
}

func TestSearch_Subset(t *testing.T) {
	t.Parallel()

	s := newTestSearcher(t)
	snap := testEntries()

	results, err := s.Search(context.Background(), Request{Query: "firefox", Snapshot: snap, Subset: []int{0, 1}})
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = s.Search(context.Background(), Request{Query: "firefox", Snapshot: snap, Subset: []int{2}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].ID)
}

func TestSearch_EmptySubsetIsNotFull(t *testing.T) {
	t.Parallel()

	s := newTestSearcher(t)
	results, err := s.Search(context.Background(), Request{Query: "firefox", Snapshot: testEntries(), Subset: []int{}})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_NoMatchersCompletes(t *testing.T) {
	t.Parallel()

	s := NewSearcher(Config{Logger: logging.Discard()})
	results, err := s.Search(context.Background(), Request{Query: "x"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_WithoutPool(t *testing.T) {
	t.Parallel()

	s := NewSearcher(Config{Logger: logging.Discard()})
	results, err := s.Search(context.Background(), Request{Query: "gimp", Snapshot: testEntries()})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearch_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	blocking := NewPathMatcherDirs(func() []string {
		<-ctx.Done()
		return nil
	}, logging.Discard())

	s := NewSearcher(Config{Paths: blocking, Logger: logging.Discard()})
	_, err := s.Search(ctx, Request{Query: "x"})
	// Either the matcher finished first or the cancellation won; both are
	// valid, but a cancellation must be reported as incomplete.
	if err != nil {
		assert.ErrorIs(t, err, ErrIncomplete)
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestSearch_MatcherPanicStillCompletes(t *testing.T) {
	t.Parallel()

	panicky := NewPathMatcherDirs(func() []string { panic("boom") }, logging.Discard())
	s := NewSearcher(Config{Paths: panicky, Logger: logging.Discard()})

	results, err := s.Search(context.Background(), Request{Query: "gimp", Snapshot: testEntries()})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearch_ManyResultsExceedBuffer(t *testing.T) {
	t.Parallel()

	entries := make([]desktop.Entry, resultBuffer*3)
	for i := range entries {
		entries[i] = desktop.Entry{Name: "app", FileID: filepath.Join("x", string(rune('a'+i%26)))}
	}
	s := newTestSearcher(t)
	results, err := s.Search(context.Background(), Request{Query: "app", Snapshot: desktop.NewSnapshot(entries)})
	require.NoError(t, err)
	assert.Len(t, results, len(entries))
}

func TestDesktopIDs(t *testing.T) {
	t.Parallel()

	ids := DesktopIDs([]Result{
		{Kind: KindDesktop, ID: 3},
		{Kind: KindPath, Path: "/bin/x"},
		{Kind: KindDesktop, ID: 1},
	})
	assert.Equal(t, []int{3, 1}, ids)
}

func TestResultDisplay(t *testing.T) {
	t.Parallel()

	p := Result{Kind: KindPath, Path: "/usr/bin/gimp"}
	assert.Equal(t, "gimp", p.Title())
	assert.Equal(t, "/usr/bin/gimp", p.Detail())

	d := Result{Kind: KindDesktop, Name: "Files", MatchedText: "Dateien"}
	assert.Equal(t, "Files", d.Title())
	assert.Equal(t, "Dateien", d.Detail())
}
