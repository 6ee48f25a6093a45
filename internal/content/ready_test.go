package content

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/runger/launcher/internal/units"
)

func TestPrepare(t *testing.T) {
	cur := testCurrencies()
	mapping := units.DefaultMapping(cur, "eur")
	c := NewClassifier(DefaultOptions(), cur)

	prepare := func(s string) Ready {
		res, err := c.Classify(s)
		return Prepare(res, err, mapping, cur)
	}

	r := prepare("1 + 2")
	assert.Equal(t, ReadyExpression, r.Kind)
	assert.Equal(t, "3", r.Text())
	action, arg := r.Commit()
	assert.Equal(t, ActionCopy, action)
	assert.Equal(t, "3", arg)

	r = prepare("10 in")
	assert.Equal(t, ReadyConversion, r.Kind)
	assert.InDelta(t, 25.4, r.Value, 1e-9)
	assert.Equal(t, "25.400000 cm", r.Text())

	r = prepare("100 to in")
	assert.Equal(t, ReadyConversion, r.Kind, "source comes from the mapping of the target")
	assert.Equal(t, cm, r.From)
	assert.InDelta(t, 39.37007874, r.Value, 1e-6)

	r = prepare("11 US Dollar")
	assert.Equal(t, ReadyError, r.Kind, "multi-word names are not one token")

	r = prepare("11 usd")
	assert.Equal(t, ReadyConversion, r.Kind)
	assert.InDelta(t, 10, r.Value, 1e-9)
	assert.Equal(t, "US Dollar", r.FromText)
	assert.Equal(t, "Euro", r.ToText)

	r = prepare("1 nm")
	assert.Equal(t, ReadyError, r.Kind)
	assert.Equal(t, "No default conversion for nm", r.Message)

	r = prepare("123cm to")
	assert.Equal(t, ReadyError, r.Kind)
	assert.Equal(t, "Missing or invalid `to` unit", r.Text())
	action, _ = r.Commit()
	assert.Equal(t, ActionNone, action)

	r = prepare("= nope")
	assert.Equal(t, ReadyError, r.Kind)

	r = prepare("$ echo hi")
	assert.Equal(t, "Run echo hi", r.Text())
	action, arg = r.Commit()
	assert.Equal(t, ActionRun, action)
	assert.Equal(t, "echo hi", arg)

	r = prepare("example.com")
	action, arg = r.Commit()
	assert.Equal(t, ActionOpenURL, action)
	assert.Equal(t, "https://example.com", arg)

	assert.True(t, prepare("firefox").IsNone())
}

func TestPrepare_Error(t *testing.T) {
	r := Prepare(Content{}, errors.New("boom"), nil, nil)
	assert.Equal(t, Ready{Kind: ReadyError, Message: "boom"}, r)
}
