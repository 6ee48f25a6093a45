// Package content interprets launcher input as something other than a
// search: arithmetic, unit and currency conversions, paths, URLs and
// shell commands.
package content

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/runger/launcher/internal/units"
)

// Classification errors. They mean the input was recognized but is wrong,
// as opposed to a None result which means it wasn't recognized.
var (
	ErrInvalidUnit       = errors.New("Invalid unit")
	ErrInvalidToUnit     = errors.New("Invalid `to` unit")
	ErrInvalidConversion = errors.New("Invalid conversion")
	ErrMissingToUnit     = errors.New("Missing or invalid `to` unit")
)

// Kind identifies the interpretation of the input.
type Kind int

const (
	KindNone Kind = iota
	KindExpression
	KindLeadExpression
	KindDefaultConversion
	KindConversion
	KindPath
	KindURL
	KindCommand
)

func (k Kind) String() string {
	switch k {
	case KindExpression:
		return "expression"
	case KindLeadExpression:
		return "lead-expression"
	case KindDefaultConversion:
		return "default-conversion"
	case KindConversion:
		return "conversion"
	case KindPath:
		return "path"
	case KindURL:
		return "url"
	case KindCommand:
		return "command"
	default:
		return "none"
	}
}

// Content is a classification result. Which fields are set depends on
// Kind:
//
//	KindExpression         Value
//	KindLeadExpression     Value or EvalErr
//	KindDefaultConversion  Value, From
//	KindConversion         Value, To, and From unless the input had none
//	KindPath               Target (expanded path)
type Content struct {
	Kind    Kind
	Value   float64
	EvalErr error
	From    units.Unit
	To      units.Unit
	Target  string
}

// IsNone reports whether the input was not recognized.
func (c Content) IsNone() bool {
	return c.Kind == KindNone
}

// Options configures a Classifier.
type Options struct {
	URLMode            URLMode
	DynamicConversions bool // allow currency conversions
}

// DefaultOptions enables everything.
func DefaultOptions() Options {
	return Options{URLMode: URLLoose, DynamicConversions: true}
}

// Classifier classifies input strings. It is safe for concurrent use; the
// currency table can be swapped while classifications are running.
type Classifier struct {
	opts       Options
	currencies atomic.Pointer[units.Currencies]
}

// NewClassifier creates a Classifier. currencies may be nil until rates
// are loaded.
func NewClassifier(opts Options, currencies *units.Currencies) *Classifier {
	c := &Classifier{opts: opts}
	c.currencies.Store(currencies)
	return c
}

// SetCurrencies replaces the currency table.
func (c *Classifier) SetCurrencies(cur *units.Currencies) {
	c.currencies.Store(cur)
}

// Currencies returns the current currency table, or nil.
func (c *Classifier) Currencies() *units.Currencies {
	return c.currencies.Load()
}

// Options returns the classifier options.
func (c *Classifier) Options() Options {
	return c.opts
}

// Classify interprets s. A zero Content with a nil error means s isn't
// smart content. Conversions involving a currency are dropped when
// dynamic conversions are disabled, and conversions between unrelated
// families are reported as ErrInvalidConversion.
func (c *Classifier) Classify(s string) (Content, error) {
	res, err := c.classify(s)
	if err != nil {
		return Content{}, err
	}
	switch res.Kind {
	case KindDefaultConversion:
		if !c.allowed(res.From) {
			return Content{}, nil
		}
	case KindConversion:
		if !res.From.IsZero() {
			if !c.allowed(res.From) {
				return Content{}, nil
			}
			if !res.From.Compatible(res.To) {
				return Content{}, ErrInvalidConversion
			}
		}
		if !c.allowed(res.To) {
			return Content{}, nil
		}
	}
	return res, nil
}

func (c *Classifier) allowed(u units.Unit) bool {
	return c.opts.DynamicConversions || u.Family() != units.FamilyCurrency
}

func (c *Classifier) classify(s string) (Content, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return Content{}, nil
	case s[0] == '=':
		v, err := Evaluate(strings.TrimSpace(s[1:]))
		return Content{Kind: KindLeadExpression, Value: v, EvalErr: err}, nil
	case s[0] == '$':
		return Content{Kind: KindCommand, Target: strings.TrimSpace(s[1:])}, nil
	}
	if p, ok := readablePath(s); ok {
		return Content{Kind: KindPath, Target: p}, nil
	}
	if isURL(s, c.opts.URLMode) {
		return Content{Kind: KindURL, Target: openTarget(s)}, nil
	}
	if !allDigits(s) {
		if v, err := Evaluate(s); err == nil {
			return Content{Kind: KindExpression, Value: v}, nil
		}
	}
	return c.classifyUnits(lex(s))
}

// allDigits filters plain numbers, which evaluate fine but aren't useful
// as expressions.
func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isConversionWord(s string) bool {
	return s == "to" || s == "in" || s == "as"
}

// classifyUnits parses [number] [unit] [to|in|as [unit]].
func (c *Classifier) classifyUnits(tokens []token) (Content, error) {
	if len(tokens) == 0 {
		return Content{}, nil
	}
	cur := c.Currencies()

	value := 1.0
	hasNumber := false
	i := 0
	if tokens[0].kind == tokNumber {
		value = tokens[0].num
		hasNumber = true
		i = 1
	}

	// 6' is feet, 6'2" is inches
	if hasNumber && len(tokens) > 1 && tokens[1].isSymbol('\'') {
		switch {
		case len(tokens) == 2:
			return Content{Kind: KindDefaultConversion, Value: value, From: units.Of(units.Foot)}, nil
		case len(tokens) == 4 && tokens[2].kind == tokNumber && tokens[3].isSymbol('"'):
			return Content{Kind: KindDefaultConversion, Value: value*12 + tokens[2].num, From: units.Of(units.Inch)}, nil
		default:
			return Content{}, nil
		}
	}

	unitAt := func(i int) (units.Unit, bool) {
		if i >= len(tokens) || !tokens[i].isText() {
			return units.Unit{}, false
		}
		return units.Parse(tokens[i].text, cur)
	}

	potentialFrom := hasNumber && i < len(tokens) && tokens[i].isText() && !isConversionWord(tokens[i].text)
	from, okFrom := unitAt(i)
	if okFrom {
		i++
	}

	var (
		to          units.Unit
		okTo        bool
		keyword     bool
		potentialTo bool
	)
	if i < len(tokens) && tokens[i].isText() {
		t := tokens[i].text
		switch {
		case t == "in" && i == len(tokens)-1:
			// a trailing "in" is the unit, not the preposition
			to, okTo = units.Of(units.Inch), true
		case isConversionWord(t):
			// an unresolvable word after the keyword is a missing "to" unit
			keyword = true
			i++
			to, okTo = unitAt(i)
		default:
			to, okTo = unitAt(i)
			potentialTo = okFrom
		}
	}

	switch {
	case potentialFrom && !okFrom && !okTo:
		return Content{}, ErrInvalidUnit
	case okFrom && !okTo && potentialTo:
		return Content{}, ErrInvalidToUnit
	case keyword && !okTo && (okFrom || hasNumber):
		return Content{}, ErrMissingToUnit
	}

	expected := 0
	for _, b := range []bool{hasNumber, okFrom, okTo, keyword} {
		if b {
			expected++
		}
	}
	if len(tokens) != expected {
		return Content{}, nil
	}

	switch {
	case okTo:
		res := Content{Kind: KindConversion, Value: value, To: to}
		if okFrom {
			res.From = from
		}
		return res, nil
	case okFrom:
		return Content{Kind: KindDefaultConversion, Value: value, From: from}, nil
	default:
		return Content{}, nil
	}
}
