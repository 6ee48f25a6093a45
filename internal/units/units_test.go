package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCurrencies() *Currencies {
	return NewCurrencies("eur", []CurrencyRate{
		{Code: "eur", Name: "Euro", Rate: 1},
		{Code: "usd", Name: "US Dollar", Rate: 1.1},
		{Code: "gbp", Name: "British Pound", Rate: 0.85},
		{Code: "xxx", Name: "Broken", Rate: 0},
	})
}

func TestParseStatic(t *testing.T) {
	tests := []struct {
		in   string
		want Unit
	}{
		{"cm", Prefixed(Meter, Centi)},
		{"centimeter", Prefixed(Meter, Centi)},
		{"km", Prefixed(Meter, Kilo)},
		{"m", Of(Meter)},
		{"in", Of(Inch)},
		{"inches", Of(Inch)},
		{"mm", Prefixed(Meter, Milli)},
		{"µm", Prefixed(Meter, Micro)},
		{"dam", Prefixed(Meter, Deka)},
		{"kg", Prefixed(Gram, Kilo)},
		{"tonnes", Ton},
		{"lb", Of(Pound)},
		{"cm2", Prefixed(SquareMeter, Centi)},
		{"m²", Of(SquareMeter)},
		{"ha", Of(Hectare)},
		{"mL", Prefixed(Liter, Milli)},
		{"ml", Prefixed(Liter, Milli)},
		{"floz", Of(FluidOunce)},
		{"C", Of(Celsius)},
		{"K", Of(Kelvin)},
		{"kph", KPH},
		{"mph", MPH},
		{"m/s", MPS},
		{"km/h", KPH},
		{"ft/min", Speed(Of(Foot), Minute)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseStatic(tt.in)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStatic_Rejects(t *testing.T) {
	for _, in := range []string{"", "xyz", "min", "kin", "kft", "g/h", "m/day", "c"} {
		_, ok := ParseStatic(in)
		assert.False(t, ok, in)
	}
}

func TestParse_Currency(t *testing.T) {
	c := testCurrencies()

	for _, in := range []string{"usd", "USD", "US Dollar", "us dollar"} {
		u, ok := Parse(in, c)
		require.True(t, ok, in)
		assert.Equal(t, Currency("usd"), u, in)
	}

	_, ok := Parse("usd", nil)
	assert.False(t, ok)

	_, ok = Parse("xxx", c)
	assert.False(t, ok, "rows without a rate are dropped")
}

func TestString(t *testing.T) {
	assert.Equal(t, "cm", Prefixed(Meter, Centi).String())
	assert.Equal(t, "µm", Prefixed(Meter, Micro).String())
	assert.Equal(t, "dam", Prefixed(Meter, Deka).String())
	assert.Equal(t, "ton", Ton.String())
	assert.Equal(t, "kg", Prefixed(Gram, Kilo).String())
	assert.Equal(t, "km²", Prefixed(SquareMeter, Kilo).String())
	assert.Equal(t, "mL", Prefixed(Liter, Milli).String())
	assert.Equal(t, "°F", Of(Fahrenheit).String())
	assert.Equal(t, "km/h", KPH.String())
	assert.Equal(t, "mi/h", MPH.String())
	assert.Equal(t, "USD", Currency("usd").String())
	assert.Equal(t, "US Dollar", testCurrencies().Display(Currency("usd")))
	assert.Equal(t, "cm", testCurrencies().Display(Prefixed(Meter, Centi)))
}

func TestPrefixDroppedForImperialUnits(t *testing.T) {
	assert.Equal(t, Of(Inch), Prefixed(Inch, Kilo))
}

func TestConvert(t *testing.T) {
	c := testCurrencies()
	tests := []struct {
		name     string
		value    float64
		from, to Unit
		want     float64
	}{
		{"inch to cm", 1, Of(Inch), Prefixed(Meter, Centi), 2.54},
		{"mile to km", 1, Of(Mile), Prefixed(Meter, Kilo), 1.609344},
		{"pound to kg", 1, Of(Pound), Prefixed(Gram, Kilo), 0.45359237},
		{"ton to kg", 1, Ton, Prefixed(Gram, Kilo), 1000},
		{"acre to m2", 1, Of(Acre), Of(SquareMeter), 4046.8564224},
		{"gallon to liter", 1, Of(Gallon), Of(Liter), 3.785411784},
		{"c to f", 100, Of(Celsius), Of(Fahrenheit), 212},
		{"f to c", 32, Of(Fahrenheit), Of(Celsius), 0},
		{"k to c", 0, Of(Kelvin), Of(Celsius), -273.15},
		{"f to k", 32, Of(Fahrenheit), Of(Kelvin), 273.15},
		{"m/s to km/h", 1, MPS, KPH, 3.6},
		{"mph to kph", 1, MPH, KPH, 1.609344},
		{"eur to usd", 10, Currency("eur"), Currency("usd"), 11},
		{"usd to gbp", 11, Currency("usd"), Currency("gbp"), 8.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(tt.value, tt.from, tt.to, c)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestConvert_Errors(t *testing.T) {
	_, err := Convert(1, Of(Meter), Of(Gram), nil)
	assert.ErrorIs(t, err, ErrIncompatible)

	_, err = Convert(1, Of(Meter), Unit{}, nil)
	assert.ErrorIs(t, err, ErrIncompatible)

	_, err = Convert(1, Currency("eur"), Currency("jpy"), testCurrencies())
	assert.ErrorIs(t, err, ErrUnknownCurrency)
}

func TestDefaultMapping(t *testing.T) {
	m := DefaultMapping(testCurrencies(), "eur")

	tests := []struct {
		from, want Unit
	}{
		{Of(Inch), Prefixed(Meter, Centi)},
		{Prefixed(Meter, Centi), Of(Inch)},
		{Prefixed(Meter, Milli), Of(Inch)},
		{Of(Fahrenheit), Of(Celsius)},
		{Of(Celsius), Of(Fahrenheit)},
		{Of(Kelvin), Of(Celsius)},
		{KPH, MPH},
		{MPH, KPH},
		{MPS, KPH},
		{Ton, Of(Pound)},
		{Currency("usd"), Currency("eur")},
		{Currency("gbp"), Currency("eur")},
		{Currency("eur"), Currency("usd")},
	}
	for _, tt := range tests {
		got, ok := m.Target(tt.from)
		require.True(t, ok, tt.from.String())
		assert.Equal(t, tt.want, got, tt.from.String())
	}

	_, ok := m.Target(Of(Stone))
	assert.True(t, ok)
	_, ok = m.Target(Prefixed(Gram, Kilo))
	assert.True(t, ok, "kg pairs with lb")
	_, ok = m.Target(Of(Hectare))
	assert.True(t, ok)
	_, ok = m.Target(Prefixed(Meter, Nano))
	assert.False(t, ok)
}

func TestDefaultMapping_UsdDefault(t *testing.T) {
	m := DefaultMapping(testCurrencies(), "usd")
	assert.Equal(t, Currency("eur"), m[Currency("usd")])
	assert.Equal(t, Currency("usd"), m[Currency("eur")])
}

func TestDefaultMapping_NoCurrencies(t *testing.T) {
	m := DefaultMapping(nil, "eur")
	_, ok := m.Target(Currency("eur"))
	assert.False(t, ok)
	assert.Equal(t, Prefixed(Meter, Centi), m[Of(Inch)])
}

func TestCurrencyForLocale(t *testing.T) {
	assert.Equal(t, "gbp", currencyForLocale("en_GB.UTF-8"))
	assert.Equal(t, "usd", currencyForLocale("en_US"))
	assert.Equal(t, "eur", currencyForLocale("de_DE@euro"))
	assert.Equal(t, FallbackCurrency, currencyForLocale("C"))
	assert.Equal(t, FallbackCurrency, currencyForLocale("xx_QQ"))
}

func TestLocaleCurrency(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MONETARY", "ja_JP.UTF-8")
	t.Setenv("LANG", "en_US.UTF-8")
	assert.Equal(t, "jpy", LocaleCurrency())
}
