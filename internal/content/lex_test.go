package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func num(n float64) token { return token{kind: tokNumber, num: n} }
func text(s string) token { return token{kind: tokText, text: s} }
func sym(r rune) token { return token{kind: tokSymbol, sym: r} }

func TestLex(t *testing.T) {
	tests := []struct {
		in   string
		want []token
	}{
		{"", nil},
		{"   ", nil},
		{"123", []token{num(123)}},
		{"123cm", []token{num(123), text("cm")}},
		{"1.5 km/h to mph", []token{num(1.5), text("km/h"), text("to"), text("mph")}},
		{"1,5", []token{num(1.5)}},
		{"1.234.567", []token{num(1.234567)}},
		{"1_000", []token{num(1000)}},
		{"5.", []token{num(5)}},
		{"10 m²", []token{num(10), text("m²")}},
		{"5'11\"", []token{num(5), sym('\''), num(11), sym('"')}},
		{"(1+2)", []token{sym('('), num(1), sym('+'), num(2), sym(')')}},
		{"über", []token{text("über")}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, lex(tt.in))
		})
	}
}
