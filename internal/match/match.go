// Package match implements the similarity test shared by the application
// and executable matchers.
package match

import "github.com/xrash/smetrics"

// Threshold is the minimum Jaro-Winkler similarity accepted as a match.
// A similarity exactly equal to Threshold is accepted.
const Threshold = 0.75

const (
	winklerBoostThreshold = 0.7
	winklerPrefixSize     = 4
)

// Kind describes how a query matched a value.
type Kind struct {
	Exact      bool
	Similarity float64 // only meaningful when Exact is false
}

// Exact returns an exact match kind.
func Exact() Kind {
	return Kind{Exact: true}
}

// Similar returns a fuzzy match kind with the given similarity.
func Similar(similarity float64) Kind {
	return Kind{Similarity: similarity}
}

// Similarity returns the Jaro-Winkler similarity of a and b in [0, 1].
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	return smetrics.JaroWinkler(a, b, winklerBoostThreshold, winklerPrefixSize)
}

// Accept reports whether a similarity clears Threshold.
func Accept(similarity float64) bool {
	return similarity >= Threshold
}

// Get matches an already lowercased query against a value. Equality is an
// exact match; otherwise the value matches when its similarity to the
// query clears Threshold.
func Get(query, value string) (Kind, bool) {
	if query == value {
		return Exact(), true
	}
	sim := Similarity(query, value)
	if !Accept(sim) {
		return Kind{}, false
	}
	return Similar(sim), true
}
