package content

import (
	"fmt"
	"strconv"

	"github.com/runger/launcher/internal/units"
)

// ReadyKind is what the launcher shows for classified content.
type ReadyKind int

const (
	ReadyNone ReadyKind = iota
	ReadyError
	ReadyExpression
	ReadyConversion
	ReadyAction
)

// Action is what committing the content does.
type Action int

const (
	ActionNone Action = iota
	ActionCopy
	ActionOpenPath
	ActionOpenURL
	ActionRun
)

func (a Action) String() string {
	switch a {
	case ActionCopy:
		return "copy"
	case ActionOpenPath:
		return "open-path"
	case ActionOpenURL:
		return "open-url"
	case ActionRun:
		return "run"
	default:
		return "none"
	}
}

// Ready is classified content with conversions resolved and computed,
// ready to display and commit.
type Ready struct {
	Kind    ReadyKind
	Message string // ReadyError

	Value    float64 // expression result or converted value
	Input    float64 // conversion input
	From, To units.Unit
	FromText string // display names, currencies use their full name
	ToText   string

	Action Action
	Verb   string // "Open" or "Run"
	Target string
}

// IsNone reports whether there is nothing to show.
func (r Ready) IsNone() bool {
	return r.Kind == ReadyNone
}

// Text is the single line shown to the user.
func (r Ready) Text() string {
	switch r.Kind {
	case ReadyError:
		return r.Message
	case ReadyExpression:
		return FormatNumber(r.Value)
	case ReadyConversion:
		return strconv.FormatFloat(r.Value, 'f', 6, 64) + " " + r.ToText
	case ReadyAction:
		return r.Verb + " " + r.Target
	default:
		return ""
	}
}

// Commit returns the action to take and its argument. Errors commit
// nothing.
func (r Ready) Commit() (Action, string) {
	switch r.Kind {
	case ReadyExpression, ReadyConversion:
		return ActionCopy, FormatNumber(r.Value)
	case ReadyAction:
		return r.Action, r.Target
	default:
		return ActionNone, ""
	}
}

// FormatNumber prints v in the shortest form that round-trips.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Prepare turns a classification into displayable content. Default
// conversions look up their target in mapping; conversions without a
// source unit use the target's mapping entry as the source.
func Prepare(c Content, err error, mapping units.Mapping, currencies *units.Currencies) Ready {
	if err != nil {
		return Ready{Kind: ReadyError, Message: err.Error()}
	}

	switch c.Kind {
	case KindExpression:
		return Ready{Kind: ReadyExpression, Value: c.Value}
	case KindLeadExpression:
		if c.EvalErr != nil {
			return Ready{Kind: ReadyError, Message: c.EvalErr.Error()}
		}
		return Ready{Kind: ReadyExpression, Value: c.Value}
	case KindDefaultConversion:
		to, ok := mapping.Target(c.From)
		if !ok {
			return Ready{Kind: ReadyError, Message: fmt.Sprintf("No default conversion for %s", currencies.Display(c.From))}
		}
		return convert(c.Value, c.From, to, currencies)
	case KindConversion:
		from := c.From
		if from.IsZero() {
			var ok bool
			if from, ok = mapping.Target(c.To); !ok {
				return Ready{Kind: ReadyError, Message: fmt.Sprintf("No default conversion for %s", currencies.Display(c.To))}
			}
		}
		return convert(c.Value, from, c.To, currencies)
	case KindPath:
		return Ready{Kind: ReadyAction, Action: ActionOpenPath, Verb: "Open", Target: c.Target}
	case KindURL:
		return Ready{Kind: ReadyAction, Action: ActionOpenURL, Verb: "Open", Target: c.Target}
	case KindCommand:
		return Ready{Kind: ReadyAction, Action: ActionRun, Verb: "Run", Target: c.Target}
	default:
		return Ready{}
	}
}

func convert(value float64, from, to units.Unit, currencies *units.Currencies) Ready {
	out, err := units.Convert(value, from, to, currencies)
	if err != nil {
		return Ready{Kind: ReadyError, Message: err.Error()}
	}
	return Ready{
		Kind:     ReadyConversion,
		Value:    out,
		Input:    value,
		From:     from,
		To:       to,
		FromText: currencies.Display(from),
		ToText:   currencies.Display(to),
	}
}
