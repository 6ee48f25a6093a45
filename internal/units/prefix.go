package units

import (
	"math"
	"strings"
)

// Prefix is an SI prefix. PrefixNone is the zero value.
type Prefix int

const (
	PrefixNone Prefix = iota
	Yotta
	Zetta
	Exa
	Peta
	Tera
	Giga
	Mega
	Kilo
	Hecto
	Deka
	Deci
	Centi
	Milli
	Micro
	Nano
	Pico
	Femto
	Atto
	Zepto
	Yocto
)

var prefixExp = [...]int{
	PrefixNone: 0,
	Yotta:      24,
	Zetta:      21,
	Exa:        18,
	Peta:       15,
	Tera:       12,
	Giga:       9,
	Mega:       6,
	Kilo:       3,
	Hecto:      2,
	Deka:       1,
	Deci:       -1,
	Centi:      -2,
	Milli:      -3,
	Micro:      -6,
	Nano:       -9,
	Pico:       -12,
	Femto:      -15,
	Atto:       -18,
	Zepto:      -21,
	Yocto:      -24,
}

var prefixSymbol = [...]string{
	PrefixNone: "",
	Yotta:      "Y",
	Zetta:      "Z",
	Exa:        "E",
	Peta:       "P",
	Tera:       "T",
	Giga:       "G",
	Mega:       "M",
	Kilo:       "k",
	Hecto:      "h",
	Deka:       "da",
	Deci:       "d",
	Centi:      "c",
	Milli:      "m",
	Micro:      "µ",
	Nano:       "n",
	Pico:       "p",
	Femto:      "f",
	Atto:       "a",
	Zepto:      "z",
	Yocto:      "y",
}

// prefixSpellings is searched in order; long names come first so "milli"
// is not read as "m" + "illi".
var prefixSpellings = []struct {
	text   string
	prefix Prefix
}{
	{"zepto", Zepto}, {"yocto", Yocto}, {"femto", Femto}, {"centi", Centi},
	{"milli", Milli}, {"micro", Micro}, {"hecto", Hecto}, {"yotta", Yotta},
	{"zetta", Zetta}, {"peta", Peta}, {"tera", Tera}, {"giga", Giga},
	{"mega", Mega}, {"kilo", Kilo}, {"deka", Deka}, {"deci", Deci},
	{"nano", Nano}, {"pico", Pico}, {"atto", Atto}, {"exa", Exa},
	{"da", Deka},
	{"Y", Yotta}, {"Z", Zetta}, {"E", Exa}, {"P", Peta}, {"T", Tera},
	{"G", Giga}, {"M", Mega}, {"k", Kilo}, {"h", Hecto}, {"d", Deci},
	{"c", Centi}, {"m", Milli}, {"µ", Micro}, {"u", Micro}, {"n", Nano},
	{"p", Pico}, {"f", Femto}, {"a", Atto}, {"z", Zepto}, {"y", Yocto},
}

// Factor returns 10^exponent of the prefix.
func (p Prefix) Factor() float64 {
	return math.Pow10(prefixExp[p])
}

func (p Prefix) String() string {
	return prefixSymbol[p]
}

// splitPrefix returns the first prefix spelling s starts with and the
// remainder.
func splitPrefix(s string) (Prefix, string, bool) {
	for _, sp := range prefixSpellings {
		if rest, ok := strings.CutPrefix(s, sp.text); ok {
			return sp.prefix, rest, true
		}
	}
	return PrefixNone, s, false
}
