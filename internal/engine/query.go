package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/runger/launcher/internal/content"
	"github.com/runger/launcher/internal/desktop"
	"github.com/runger/launcher/internal/history"
	"github.com/runger/launcher/internal/search"
)

// View says what the result list shows.
type View int

const (
	ViewHistory View = iota // empty query, recent launches
	ViewSearch
)

func (v View) String() string {
	if v == ViewSearch {
		return "search"
	}
	return "history"
}

// Session carries what a query needs from the one before it. The zero
// Session starts fresh.
type Session struct {
	query      string
	results    []search.Result
	generation uint64
}

// Query returns the search text the session was produced for.
func (s Session) Query() string {
	return s.query
}

// Item is one row of the result list.
type Item struct {
	search.Result
	Icon string
}

// Result is the answer to one query.
type Result struct {
	Text    string
	View    View
	Items   []Item
	Content content.Ready
	Session Session

	// Generation is the index snapshot the entry IDs in Items refer to.
	// For the history view it is the snapshot the history was resolved
	// against.
	Generation uint64

	// Err is set when the search ended early; Items holds what was found.
	Err error
}

// SearchText strips a leading '$' so commands still find their programs.
func SearchText(text string) string {
	q := strings.TrimSpace(text)
	if strings.HasPrefix(q, "$") {
		q = strings.TrimSpace(q[1:])
	}
	return q
}

// Query classifies text and searches for it. An empty search text shows
// the history. When prev's query is at least the minimum incremental
// prefix, text extends it, and the index has not been rebuilt since, only
// prev's desktop matches are searched again.
func (e *Engine) Query(ctx context.Context, prev Session, text string) Result {
	res := Result{Text: text, Content: e.Classify(text)}

	q := SearchText(text)
	if q == "" {
		res.View = ViewHistory
		res.Items, res.Generation = e.historyItems()
		return res
	}
	res.View = ViewSearch

	var snap *desktop.Snapshot
	if e.index != nil {
		snap = e.index.Snapshot()
	}
	if snap != nil {
		res.Generation = snap.Generation()
	}
	req := search.Request{Query: q, Snapshot: snap}
	if snap != nil && e.incremental(prev, q, snap.Generation()) {
		req.Subset = search.DesktopIDs(prev.results)
	}

	results, err := e.searcher.Search(ctx, req)
	if err != nil {
		e.logger.Debug("search incomplete", "query", q, "error", err)
		res.Err = err
	}

	e.mu.Lock()
	var recency map[int]int
	if snap != nil && snap.Generation() == e.historyGen {
		recency = e.history.Ranks()
	}
	e.mu.Unlock()
	search.Sort(results, recency)

	if err == nil {
		res.Session = Session{query: q, results: results, generation: res.Generation}
	}

	shown := results
	if len(shown) > e.maxResults {
		shown = shown[:e.maxResults]
	}
	res.Items = make([]Item, len(shown))
	for i, r := range shown {
		res.Items[i] = e.item(snap, r)
	}
	return res
}

func (e *Engine) incremental(prev Session, q string, gen uint64) bool {
	return prev.results != nil &&
		len(prev.query) >= e.minPrefix &&
		strings.HasPrefix(strings.ToLower(q), strings.ToLower(prev.query)) &&
		prev.generation == gen
}

// Classify runs the content classifier and resolves the result for
// display.
func (e *Engine) Classify(text string) content.Ready {
	c, err := e.classifier.Classify(text)
	e.mu.Lock()
	mapping := e.mapping
	e.mu.Unlock()
	return content.Prepare(c, err, mapping, e.classifier.Currencies())
}

func (e *Engine) item(snap *desktop.Snapshot, r search.Result) Item {
	it := Item{Result: r}
	if r.Kind == search.KindDesktop && snap != nil {
		if entry := snap.Entry(r.ID); entry != nil {
			it.Icon = entry.Icon
		}
	}
	return it
}

// historyItems lists the history as results, most recent first, with the
// generation its entry IDs belong to.
func (e *Engine) historyItems() ([]Item, uint64) {
	var snap *desktop.Snapshot
	if e.index != nil {
		snap = e.index.Snapshot()
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	items := make([]Item, 0, e.history.Len())
	for pos := 0; pos < e.history.Len(); pos++ {
		it := e.history.At(pos)
		switch it.Kind {
		case history.KindPath:
			items = append(items, Item{Result: search.Result{Kind: search.KindPath, Path: it.Ref, InHistory: true}})
		case history.KindDesktop:
			id, _ := e.history.EntryID(pos)
			r := search.Result{Kind: search.KindDesktop, ID: id, Name: it.Ref, InHistory: true}
			var icon string
			if snap != nil && snap.Generation() == e.historyGen {
				if entry := snap.Entry(id); entry != nil {
					r.Name = entry.Name
					icon = entry.Icon
				}
			}
			items = append(items, Item{Result: r, Icon: icon})
		}
	}
	return items, e.historyGen
}

// Launch describes what committing a result starts.
type Launch struct {
	Kind    search.Kind
	Name    string
	Command string // shell command line
	Path    string // executable path, or descriptor path for desktop entries
}

// Commit records the launch of item at pos in res and returns what to
// start. Committing from the history view moves the item to the front;
// committing a search result adds it.
func (e *Engine) Commit(res Result, pos int) (Launch, error) {
	if pos < 0 || pos >= len(res.Items) {
		return Launch{}, fmt.Errorf("%w: %d", ErrOutOfRange, pos)
	}
	it := res.Items[pos]

	var snap *desktop.Snapshot
	if e.index != nil {
		snap = e.index.Snapshot()
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if res.View == ViewHistory && res.Generation != e.historyGen {
		return Launch{}, ErrStale
	}

	var launch Launch
	switch it.Kind {
	case search.KindPath:
		launch = Launch{Kind: search.KindPath, Name: it.Title(), Command: it.Path, Path: it.Path}
	case search.KindDesktop:
		if snap == nil {
			return Launch{}, fmt.Errorf("no index for entry %d", it.ID)
		}
		if res.Generation != snap.Generation() {
			return Launch{}, ErrStale
		}
		entry := snap.Entry(it.ID)
		if entry == nil {
			return Launch{}, fmt.Errorf("entry %d not in current index", it.ID)
		}
		launch = Launch{Kind: search.KindDesktop, Name: entry.Name, Command: entry.Exec, Path: entry.Path}
		if res.View == ViewSearch && snap.Generation() == e.historyGen {
			e.history.AddDesktop(entry.FileID, it.ID)
			return launch, nil
		}
	}

	if res.View == ViewHistory {
		if pos < e.history.Len() {
			e.history.Renew(pos)
		}
		return launch, nil
	}
	if it.Kind == search.KindPath {
		e.history.AddPath(it.Path)
	}
	return launch, nil
}

// Delete removes the history item at pos. It only applies to results in
// the history view.
func (e *Engine) Delete(res Result, pos int) error {
	if res.View != ViewHistory {
		return ErrNotHistory
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if res.Generation != e.historyGen {
		return ErrStale
	}
	if pos < 0 || pos >= e.history.Len() {
		return fmt.Errorf("%w: %d", ErrOutOfRange, pos)
	}
	e.history.Delete(pos)
	return nil
}

// ClearHistory removes every history item.
func (e *Engine) ClearHistory() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history.Clear()
}
