package content

import (
	"strconv"
	"unicode/utf8"
)

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokText
	tokSymbol
)

type token struct {
	kind tokenKind
	num  float64
	text string
	sym  rune
}

func (t token) isText() bool {
	return t.kind == tokText
}

func (t token) isSymbol(r rune) bool {
	return t.kind == tokSymbol && t.sym == r
}

// isLetter treats '/' as a letter so "km/h" stays one token. Every byte of
// a multi-byte sequence counts as a letter, so "m²" is one token too.
func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '/' || b >= utf8.RuneSelf
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// lex splits s into numbers, letter runs and single-rune symbols. Spaces
// separate tokens and are dropped.
//
// In a number the first '.' or ',' is the decimal point; any later '.',
// ',' or '_' is grouping noise and skipped.
func lex(s string) []token {
	var tokens []token
	for i := 0; i < len(s); {
		b := s[i]
		switch {
		case isDigit(b):
			digits := make([]byte, 0, 16)
			sawPoint := false
			j := i
		number:
			for ; j < len(s); j++ {
				switch c := s[j]; {
				case isDigit(c):
					digits = append(digits, c)
				case c == '.' || c == ',':
					if sawPoint {
						continue
					}
					sawPoint = true
					digits = append(digits, '.')
				case c == '_':
				default:
					break number
				}
			}
			if digits[len(digits)-1] == '.' {
				digits = digits[:len(digits)-1]
			}
			// out of range values parse as +Inf
			n, _ := strconv.ParseFloat(string(digits), 64)
			tokens = append(tokens, token{kind: tokNumber, num: n})
			i = j
		case isLetter(b):
			j := i
			for j < len(s) && isLetter(s[j]) {
				j++
			}
			tokens = append(tokens, token{kind: tokText, text: s[i:j]})
			i = j
		case b == ' ' || b == '\t':
			i++
		default:
			r, size := utf8.DecodeRuneInString(s[i:])
			tokens = append(tokens, token{kind: tokSymbol, sym: r})
			i += size
		}
	}
	return tokens
}
