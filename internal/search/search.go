package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/runger/launcher/internal/desktop"
)

// ErrIncomplete is returned, wrapped with the cause, when a search ends
// before every matcher reported completion. The partial results are still
// returned.
var ErrIncomplete = errors.New("search incomplete")

// resultBuffer sizes the channel shared by the matchers.
const resultBuffer = 64

// Config configures a Searcher.
type Config struct {
	// Paths matches executables. Nil disables the executable matcher.
	Paths *PathMatcher

	// Pool runs matchers. When nil or saturated, matchers run on their
	// own goroutines.
	Pool *ants.Pool

	Logger *slog.Logger
}

// Searcher fans a query out to the matchers and collects their results.
type Searcher struct {
	paths  *PathMatcher
	pool   *ants.Pool
	logger *slog.Logger
}

// NewSearcher creates a Searcher.
func NewSearcher(cfg Config) *Searcher {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Searcher{
		paths:  cfg.Paths,
		pool:   cfg.Pool,
		logger: logger,
	}
}

// NewPool creates a non-blocking matcher pool of the given size.
func NewPool(size int) (*ants.Pool, error) {
	if size <= 0 {
		return nil, nil
	}
	return ants.NewPool(size, ants.WithNonblocking(true))
}

// Request describes one search.
type Request struct {
	Query string

	// Snapshot is the index snapshot to match application entries in.
	Snapshot *desktop.Snapshot

	// Subset, when non-nil, restricts the application matcher to these
	// entry IDs (incremental narrowing). Executables are always searched
	// in full.
	Subset []int
}

// message is what matchers send to the collector. done marks the
// completion sentinel; every matcher sends exactly one after its last
// result.
type message struct {
	result Result
	done   bool
}

// sender is a matcher's handle on the shared channel. stop is closed when
// the collector stops receiving.
type sender struct {
	out  chan<- message
	stop <-chan struct{}
}

func (s sender) send(r Result) bool {
	select {
	case s.out <- message{result: r}:
		return true
	case <-s.stop:
		return false
	}
}

func (s sender) finish() bool {
	select {
	case s.out <- message{done: true}:
		return true
	case <-s.stop:
		return false
	}
}

// Search runs the matchers for req concurrently and returns their results
// unsorted. It returns once every matcher has sent its completion
// sentinel. If ctx ends first the results gathered so far are returned
// with an error wrapping ErrIncomplete.
func (s *Searcher) Search(ctx context.Context, req Request) ([]Result, error) {
	start := time.Now()
	query := strings.ToLower(req.Query)

	out := make(chan message, resultBuffer)
	stop := make(chan struct{})
	defer close(stop)
	snd := sender{out: out, stop: stop}

	pending := 0
	launch := func(name string, fn func(context.Context, sender)) {
		pending++
		s.submit(func() {
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("matcher panicked", "matcher", name, "panic", r)
				}
				if !snd.finish() {
					s.logger.Error("search receiver gone before completion signal", "matcher", name)
				}
			}()
			fn(ctx, snd)
		})
	}

	if req.Snapshot != nil {
		launch("desktop", func(ctx context.Context, snd sender) {
			searchDesktop(ctx, req.Snapshot, query, req.Subset, snd)
		})
	}
	if s.paths != nil {
		launch("path", func(ctx context.Context, snd sender) {
			s.paths.Match(ctx, query, snd.send)
		})
	}

	var results []Result
	for pending > 0 {
		select {
		case msg := <-out:
			if msg.done {
				pending--
				continue
			}
			results = append(results, msg.result)
		case <-ctx.Done():
			return results, fmt.Errorf("%w: %w", ErrIncomplete, ctx.Err())
		}
	}

	s.logger.Debug("search done",
		"query", query,
		"incremental", req.Subset != nil,
		"results", len(results),
		"elapsed", time.Since(start),
	)
	return results, nil
}

func (s *Searcher) submit(task func()) {
	if s.pool != nil {
		if err := s.pool.Submit(task); err == nil {
			return
		}
	}
	go task()
}

func searchDesktop(ctx context.Context, snap *desktop.Snapshot, query string, subset []int, snd sender) {
	var matches []desktop.Match
	if subset != nil {
		matches = snap.FindSubset(query, subset)
	} else {
		matches = snap.FindAll(query)
	}

	for _, m := range matches {
		if ctx.Err() != nil {
			return
		}
		e := snap.Entry(m.ID)
		r := Result{
			Kind:  KindDesktop,
			ID:    m.ID,
			Name:  e.Name,
			Score: Score(m.Field),
		}
		if v := e.Value(m.Field.Field); v != e.Name {
			r.MatchedText = v
		}
		if !snd.send(r) {
			return
		}
	}
}

// DesktopIDs returns the entry IDs of the desktop results, in order.
func DesktopIDs(results []Result) []int {
	ids := make([]int, 0, len(results))
	for _, r := range results {
		if r.Kind == KindDesktop {
			ids = append(ids, r.ID)
		}
	}
	return ids
}
