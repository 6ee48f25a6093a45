package picker

import (
	"context"
	"errors"
	"sync"

	"github.com/runger/launcher/internal/content"
	"github.com/runger/launcher/internal/engine"
	"github.com/runger/launcher/internal/search"
)

// ActionLaunch starts an application or executable.
const ActionLaunch = "launch"

// errNoContent is returned when the content row cannot be committed.
var errNoContent = errors.New("nothing to do for this input")

// EngineBackend serves picker rows from a launcher engine. Classified
// content, when there is any, is the first row.
type EngineBackend struct {
	engine *engine.Engine

	mu      sync.Mutex
	session engine.Session
}

var _ Backend = (*EngineBackend)(nil)

// NewEngineBackend creates a backend for e.
func NewEngineBackend(e *engine.Engine) *EngineBackend {
	return &EngineBackend{engine: e}
}

// Fetch implements Backend.
func (b *EngineBackend) Fetch(ctx context.Context, req Request) (Response, error) {
	b.mu.Lock()
	prev := b.session
	b.mu.Unlock()

	res := b.engine.Query(ctx, prev, req.Query)
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	b.mu.Lock()
	b.session = res.Session
	b.mu.Unlock()

	rows := make([]Row, 0, len(res.Items)+1)
	if !res.Content.IsNone() {
		rows = append(rows, Row{
			Title:  res.Content.Text(),
			Notice: true,
			Error:  res.Content.Kind == content.ReadyError,
		})
	}

	query := engine.SearchText(req.Query)
	for i := range res.Items {
		it := &res.Items[i]
		row := Row{
			Title:  it.Title(),
			Detail: it.Detail(),
			Marked: it.InHistory,
		}
		if res.View == engine.ViewSearch {
			row.Highlight = search.Highlight(row.Title, query)
		}
		rows = append(rows, row)
	}
	if req.Limit > 0 && len(rows) > req.Limit {
		rows = rows[:req.Limit]
	}

	return Response{
		RequestID: req.RequestID,
		Rows:      rows,
		Deletable: res.View == engine.ViewHistory,
		State:     res,
	}, nil
}

// Commit implements Backend.
func (b *EngineBackend) Commit(resp Response, index int) (Selection, error) {
	res, pos, isContent, err := b.locate(resp, index)
	if err != nil {
		return Selection{}, err
	}
	if isContent {
		action, value := res.Content.Commit()
		if action == content.ActionNone {
			return Selection{}, errNoContent
		}
		return Selection{Action: action.String(), Value: value}, nil
	}

	launch, err := b.engine.Commit(res, pos)
	if err != nil {
		return Selection{}, err
	}
	return Selection{Action: ActionLaunch, Value: launch.Command, Name: launch.Name}, nil
}

// Delete implements Backend.
func (b *EngineBackend) Delete(resp Response, index int) error {
	res, pos, isContent, err := b.locate(resp, index)
	if err != nil {
		return err
	}
	if isContent {
		return engine.ErrNotHistory
	}
	return b.engine.Delete(res, pos)
}

// locate maps a row index to the engine result position, accounting for
// the content row.
func (b *EngineBackend) locate(resp Response, index int) (engine.Result, int, bool, error) {
	res, ok := resp.State.(engine.Result)
	if !ok {
		return engine.Result{}, 0, false, errors.New("response not produced by this backend")
	}
	if !res.Content.IsNone() {
		if index == 0 {
			return res, 0, true, nil
		}
		index--
	}
	return res, index, false, nil
}
