// Package engine turns keystrokes into launcher results: it runs the
// search pipeline and the content classifier over the same text, keeps
// the launch history, and resolves what committing a result launches.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/runger/launcher/internal/content"
	"github.com/runger/launcher/internal/desktop"
	"github.com/runger/launcher/internal/history"
	"github.com/runger/launcher/internal/search"
	"github.com/runger/launcher/internal/units"
)

// DefaultMinIncrementalPrefix is the shortest previous query whose
// results may be narrowed instead of searching the whole index.
const DefaultMinIncrementalPrefix = 3

// DefaultMaxResults caps the results shown for a query.
const DefaultMaxResults = 50

var (
	ErrOutOfRange = errors.New("position out of range")
	ErrNotHistory = errors.New("only history items can be deleted")
	ErrStale      = errors.New("result predates the current index")
)

// Index provides the current entry snapshot. *desktop.Index implements
// it.
type Index interface {
	Snapshot() *desktop.Snapshot
}

// Config configures an Engine.
type Config struct {
	Index      Index
	Searcher   *search.Searcher
	Classifier *content.Classifier
	History    *history.History
	Store      history.Store // nil disables persistence

	DefaultCurrency      string
	MinIncrementalPrefix int
	MaxResults           int
	Logger               *slog.Logger
}

// Engine answers queries. Query may be called from any goroutine; the
// history is guarded by a mutex.
type Engine struct {
	index      Index
	searcher   *search.Searcher
	classifier *content.Classifier
	store      history.Store
	logger     *slog.Logger

	defaultCurrency string
	minPrefix       int
	maxResults      int

	mu         sync.Mutex
	history    *history.History
	historyGen uint64 // snapshot generation the history IDs refer to
	mapping    units.Mapping
}

// New creates an Engine.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	h := cfg.History
	if h == nil {
		h = history.New(history.DefaultMaxEntries)
	}
	classifier := cfg.Classifier
	if classifier == nil {
		classifier = content.NewClassifier(content.DefaultOptions(), nil)
	}
	searcher := cfg.Searcher
	if searcher == nil {
		searcher = search.NewSearcher(search.Config{Logger: logger})
	}
	minPrefix := cfg.MinIncrementalPrefix
	if minPrefix <= 0 {
		minPrefix = DefaultMinIncrementalPrefix
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	defaultCurrency := strings.ToLower(cfg.DefaultCurrency)
	if defaultCurrency == "" {
		defaultCurrency = units.LocaleCurrency()
	}

	e := &Engine{
		index:           cfg.Index,
		searcher:        searcher,
		classifier:      classifier,
		store:           cfg.Store,
		logger:          logger,
		defaultCurrency: defaultCurrency,
		minPrefix:       minPrefix,
		maxResults:      maxResults,
		history:         h,
	}
	if e.index != nil {
		e.historyGen = e.index.Snapshot().Generation()
	}
	e.mapping = units.DefaultMapping(classifier.Currencies(), defaultCurrency)
	return e
}

// DefaultCurrency returns the currency other currencies convert to.
func (e *Engine) DefaultCurrency() string {
	return e.defaultCurrency
}

// SetCurrencies installs a freshly loaded currency table.
func (e *Engine) SetCurrencies(c *units.Currencies) {
	m := units.DefaultMapping(c, e.defaultCurrency)
	e.mu.Lock()
	e.mapping = m
	e.mu.Unlock()
	e.classifier.SetCurrencies(c)
}

// OnRebuild rebinds history items to the IDs of a new snapshot. Items
// whose entries disappeared are dropped.
func (e *Engine) OnRebuild(snap *desktop.Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()
	dropped := e.history.Remap(snap)
	e.historyGen = snap.Generation()
	if dropped > 0 {
		e.logger.Info("history items dropped after rebuild", "dropped", dropped)
	}
}

// Save persists the history.
func (e *Engine) Save(ctx context.Context) error {
	if e.store == nil {
		return nil
	}
	e.mu.Lock()
	items := e.history.Items()
	e.mu.Unlock()
	if err := e.store.SaveHistory(ctx, items); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

// Close saves the history.
func (e *Engine) Close(ctx context.Context) error {
	return e.Save(ctx)
}

// HistoryLen returns the number of history items.
func (e *Engine) HistoryLen() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Len()
}
