package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHighlight_Subsequence(t *testing.T) {
	t.Parallel()

	got := Highlight("Firefox", "ffx")
	assert.Len(t, got, 3)
	assert.Equal(t, 0, got[0])
	assert.Equal(t, 6, got[2])
}

func TestHighlight_IgnoresSpaces(t *testing.T) {
	t.Parallel()

	assert.Len(t, Highlight("Web Browser", "web b"), 4)
}

func TestHighlight_PartialWhenNotSubsequence(t *testing.T) {
	t.Parallel()

	// "firefxo" is not a subsequence of "firefox"; the prefix "firefx" is.
	got := Highlight("firefox", "firefxo")
	assert.Equal(t, []int{0, 1, 2, 3, 4, 6}, got)
}

func TestHighlight_Empty(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Highlight("firefox", ""))
	assert.Nil(t, Highlight("firefox", "   "))
	assert.Nil(t, Highlight("", "fire"))
}
