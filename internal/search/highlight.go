package search

import (
	"strings"
	"unicode"

	"github.com/sahilm/fuzzy"
)

// Highlight returns the byte offsets in text of the characters to
// emphasize for query. Spaces in the query are ignored. When the query is
// a case-insensitive subsequence of text the best subsequence match is
// used; otherwise the longest greedy in-order prefix of the query is
// highlighted, so similar-but-not-subsequence results still get a partial
// highlight.
func Highlight(text, query string) []int {
	pattern := strings.ReplaceAll(query, " ", "")
	if pattern == "" || text == "" {
		return nil
	}

	if found := fuzzy.Find(pattern, []string{text}); len(found) > 0 {
		return found[0].MatchedIndexes
	}
	return greedy(text, pattern)
}

func greedy(text, pattern string) []int {
	want := []rune(strings.ToLower(pattern))
	var out []int
	j := 0
	for i, r := range text {
		if j == len(want) {
			break
		}
		if unicode.ToLower(r) == want[j] {
			out = append(out, i)
			j++
		}
	}
	return out
}
