package units

// Pairs convert to each other by default.
var Pairs = [][2]Unit{
	{Of(Inch), Prefixed(Meter, Centi)},
	{Of(Foot), Of(Meter)},
	{Of(Yard), Of(Meter)},
	{Of(Mile), Prefixed(Meter, Kilo)},

	{Of(Ounce), Of(Gram)},
	{Of(Pound), Prefixed(Gram, Kilo)},

	{Of(SquareInch), Prefixed(SquareMeter, Centi)},
	{Of(SquareFoot), Of(SquareMeter)},
	{Of(SquareMile), Prefixed(SquareMeter, Kilo)},

	{Of(Gallon), Of(Liter)},
	{Of(Tablespoon), Prefixed(Liter, Milli)},

	{Of(Fahrenheit), Of(Celsius)},

	{KPH, MPH},
}

// OneWay lists default targets that don't convert back.
var OneWay = [][2]Unit{
	{Prefixed(Meter, Milli), Of(Inch)},

	{Of(Stone), Prefixed(Gram, Kilo)},
	{Ton, Of(Pound)},

	{Of(SquareYard), Of(SquareMeter)},
	{Of(Hectare), Prefixed(SquareMeter, Kilo)},
	{Of(Acre), Prefixed(SquareMeter, Kilo)},

	{Of(Quart), Of(Liter)},
	{Of(Pint), Of(Liter)},
	{Of(Cup), Prefixed(Liter, Milli)},
	{Of(FluidOunce), Prefixed(Liter, Milli)},
	{Of(Teaspoon), Prefixed(Liter, Milli)},

	{Of(Kelvin), Of(Celsius)},

	{MPS, KPH},
}

// Mapping holds the default conversion target per unit.
type Mapping map[Unit]Unit

// DefaultMapping builds the static defaults plus, when c is non-nil,
// every currency mapped to defaultCurrency. The default currency itself
// maps to usd, or to eur when the default is usd.
func DefaultMapping(c *Currencies, defaultCurrency string) Mapping {
	m := make(Mapping, 2*len(Pairs)+len(OneWay)+c.Len())
	for _, p := range Pairs {
		m[p[0]] = p[1]
		m[p[1]] = p[0]
	}
	for _, p := range OneWay {
		m[p[0]] = p[1]
	}
	if c.Len() == 0 {
		return m
	}
	def, ok := c.Lookup(defaultCurrency)
	if !ok {
		return m
	}
	other := Currency("eur")
	if def.currency == "eur" {
		other = Currency("usd")
	}
	for _, code := range c.Codes() {
		u := Currency(code)
		if u == def {
			if _, ok := c.Get(other.currency); ok {
				m[u] = other
			}
			continue
		}
		m[u] = def
	}
	return m
}

// Target returns the default target for from.
func (m Mapping) Target(from Unit) (Unit, bool) {
	u, ok := m[from]
	return u, ok
}
