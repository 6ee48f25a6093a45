// Package search runs the application and executable matchers
// concurrently and ranks their combined results.
package search

import "path/filepath"

// Kind identifies which matcher produced a Result.
type Kind int

const (
	KindDesktop Kind = iota // application entry
	KindPath                // executable on $PATH
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

// Result is one search hit.
type Result struct {
	Kind Kind

	// Desktop results.
	ID          int    // entry ID in the snapshot searched
	Name        string // entry display name
	MatchedText string // matched field value when it differs from Name

	// Path results.
	Path string // absolute path to the executable

	Score     float64
	InHistory bool
}

// Title returns the primary display text.
func (r *Result) Title() string {
	if r.Kind == KindPath {
		return filepath.Base(r.Path)
	}
	return r.Name
}

// Detail returns the secondary display text, or "".
func (r *Result) Detail() string {
	if r.Kind == KindPath {
		return r.Path
	}
	return r.MatchedText
}
