package picker

import "context"

// Backend supplies rows to the picker and acts on the chosen one.
type Backend interface {
	Fetch(ctx context.Context, req Request) (Response, error)

	// Commit resolves what choosing row index of resp does.
	Commit(resp Response, index int) (Selection, error)

	// Delete removes row index of resp. Only valid when resp.Deletable.
	Delete(resp Response, index int) error
}

// Request describes what rows the picker wants.
type Request struct {
	RequestID uint64 // Monotonically increasing, for stale response detection
	Query     string
	Limit     int
}

// Row is one line of the list.
type Row struct {
	Title     string
	Detail    string
	Highlight []int // byte offsets into Title
	Marked    bool  // recently launched

	// Notice rows show classified input (a result, an action or an
	// error) above the search results.
	Notice bool
	Error  bool
}

// Response carries rows back from a Backend.
type Response struct {
	RequestID uint64 // Must match Request.RequestID to be accepted
	Rows      []Row
	Deletable bool // rows are history and may be deleted
	State     any  // backend data needed by Commit and Delete
}

// Selection is what the user chose.
type Selection struct {
	Action string // "launch", "copy", "open-path", "open-url" or "run"
	Value  string
	Name   string
}

// IsZero reports whether nothing was chosen.
func (s Selection) IsZero() bool {
	return s.Action == ""
}

// ActionCopy is handled by the picker itself instead of ending it.
const ActionCopy = "copy"
