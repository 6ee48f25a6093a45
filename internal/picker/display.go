package picker

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// escapeRE matches terminal escape sequences: CSI, OSC (ended by ST or
// BEL) and two-byte charset designations.
var escapeRE = regexp.MustCompile(`\x1b(?:\[[0-9;?]*[A-Za-z]|\].*?(?:\x1b\\|\x07)|[()#*+\-./][A-Za-z0-9])`)

// escapeSpellings turns literal escape spellings in command lines into a
// readable token. Display only.
var escapeSpellings = strings.NewReplacer(
	`\033[`, "<ESC>[",
	`\033]`, "<ESC>]",
	`\x1b[`, "<ESC>[",
	`\x1B[`, "<ESC>[",
	`\e[`, "<ESC>[",
)

// Clean makes text from descriptors and file names safe to print on one
// line: escape sequences are removed, invalid UTF-8 becomes U+FFFD and
// other control characters become spaces.
func Clean(s string) string {
	s = escapeRE.ReplaceAllString(s, "")
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "�")
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
}

// CleanCommand is Clean for command lines, also spelling out literal
// escape sequences.
func CleanCommand(s string) string {
	return Clean(escapeSpellings.Replace(s))
}

// MiddleTruncate shortens s to maxWidth display columns by replacing its
// middle with an ellipsis. Wide runes count as two columns.
func MiddleTruncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth < 3 {
		return truncateHead(s, maxWidth)
	}

	remaining := maxWidth - 1
	return truncateHead(s, (remaining+1)/2) + "…" + truncateTail(s, remaining/2)
}

// truncateHead returns the longest prefix of s at most width columns wide.
func truncateHead(s string, width int) string {
	w := 0
	for i, r := range s {
		w += runewidth.RuneWidth(r)
		if w > width {
			return s[:i]
		}
	}
	return s
}

// truncateTail returns the longest suffix of s at most width columns wide.
func truncateTail(s string, width int) string {
	w := 0
	start := len(s)
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(s[:start])
		w += runewidth.RuneWidth(r)
		if w > width {
			break
		}
		start -= size
	}
	return s[start:]
}
