package search

import (
	"cmp"
	"slices"

	"github.com/runger/launcher/internal/desktop"
	"github.com/runger/launcher/internal/match"
)

// Field weights. Localized and primary names outrank generic names, and
// the descriptor file name is a weak signal.
const (
	LocalizedNameWeight        = 1.4
	NameWeight                 = 1.2
	LocalizedGenericNameWeight = 1.3
	GenericNameWeight          = 1.1
	FileIDWeight               = 0.8

	// PathWeight weights executable matches.
	PathWeight = 1.0

	// ExactBase is the score of an exact match regardless of field.
	ExactBase = 1.2

	// EqualThreshold is the score difference below which two results are
	// ordered by name.
	EqualThreshold = 1e-3
)

// FieldWeight returns the weight of a desktop entry field.
func FieldWeight(f desktop.Field) float64 {
	switch f {
	case desktop.FieldLocalizedName:
		return LocalizedNameWeight
	case desktop.FieldName:
		return NameWeight
	case desktop.FieldLocalizedGenericName:
		return LocalizedGenericNameWeight
	case desktop.FieldGenericName:
		return GenericNameWeight
	case desktop.FieldFileID:
		return FileIDWeight
	default:
		return 0
	}
}

func base(k match.Kind) float64 {
	if k.Exact {
		return ExactBase
	}
	return k.Similarity
}

// Score scores a desktop entry match. Field weights only apply to
// similar matches.
func Score(m desktop.MatchField) float64 {
	if m.Kind.Exact {
		return ExactBase
	}
	return m.Kind.Similarity * FieldWeight(m.Field)
}

// PathScore scores an executable match.
func PathScore(k match.Kind) float64 {
	return base(k) * PathWeight
}

// Sort applies the recency boost and orders results by descending score.
// recency maps entry IDs to their history rank, 1 for the oldest retained
// launch up to N for the most recent; matching results have their score
// multiplied by twice the rank and are marked InHistory. Results whose
// scores differ by at most EqualThreshold are ordered by title (the file
// name for executables), then by kind. The sort is stable, so identical input yields identical output.
func Sort(results []Result, recency map[int]int) {
	for i := range results {
		r := &results[i]
		if r.Kind != KindDesktop {
			continue
		}
		if rank, ok := recency[r.ID]; ok {
			r.Score *= 2 * float64(rank)
			r.InHistory = true
		}
	}
	slices.SortStableFunc(results, compare)
}

func compare(a, b Result) int {
	if d := a.Score - b.Score; d > EqualThreshold || d < -EqualThreshold {
		// Higher score first.
		return cmp.Compare(b.Score, a.Score)
	}
	if c := cmp.Compare(a.Title(), b.Title()); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
		return c
	}
	if c := cmp.Compare(a.ID, b.ID); c != 0 {
		return c
	}
	return cmp.Compare(a.Path, b.Path)
}
