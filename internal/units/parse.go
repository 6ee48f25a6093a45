package units

import "strings"

var staticNames = map[string]Kind{
	"m": Meter, "meter": Meter, "meters": Meter,
	"in": Inch, "inch": Inch, "inches": Inch,
	"ft": Foot, "foot": Foot, "feet": Foot,
	"yd": Yard, "yard": Yard, "yards": Yard,
	"mi": Mile, "mile": Mile, "miles": Mile,

	"g": Gram, "gram": Gram, "grams": Gram,
	"oz": Ounce, "ounce": Ounce, "ounces": Ounce,
	"lb": Pound, "pound": Pound, "pounds": Pound,
	"st": Stone, "stone": Stone, "stones": Stone,

	"m2": SquareMeter, "m²": SquareMeter, "meter2": SquareMeter,
	"in2": SquareInch, "inch2": SquareInch,
	"ft2": SquareFoot, "feet2": SquareFoot,
	"yd2": SquareYard, "yard2": SquareYard,
	"mi2": SquareMile, "mile2": SquareMile, "miles2": SquareMile,
	"ha": Hectare, "hectare": Hectare,
	"ac": Acre, "acre": Acre,

	"l": Liter, "L": Liter, "liter": Liter, "liters": Liter,
	"gal": Gallon, "gallon": Gallon, "gallons": Gallon,
	"qt": Quart, "quart": Quart, "quarts": Quart,
	"pt": Pint, "pint": Pint, "pints": Pint,
	"cup": Cup, "cups": Cup,
	"floz": FluidOunce, "fluidounce": FluidOunce, "fluidounces": FluidOunce,
	"tbsp": Tablespoon, "tablespoon": Tablespoon, "tablespoons": Tablespoon,
	"tsp": Teaspoon, "teaspoon": Teaspoon, "teaspoons": Teaspoon,

	"C": Celsius, "F": Fahrenheit, "K": Kelvin,
}

var tonNames = map[string]bool{"ton": true, "tons": true, "tonne": true, "tonnes": true}

var timeNames = map[string]TimeUnit{"s": Second, "min": Minute, "h": Hour}

// ParseStatic parses a unit name that doesn't depend on currency data.
// SI prefixes are only accepted in front of metric units, so "min" is not
// read as milli-inch.
func ParseStatic(s string) (Unit, bool) {
	if s == "" {
		return Unit{}, false
	}
	if k, ok := staticNames[s]; ok {
		return Of(k), true
	}
	if tonNames[s] {
		return Ton, true
	}
	if p, rest, ok := splitPrefix(s); ok && rest != "" {
		if k, ok := staticNames[rest]; ok && kinds[k].prefixed {
			return Prefixed(k, p), true
		}
	}

	switch s {
	case "kph":
		return KPH, true
	case "mph":
		return MPH, true
	}

	dist, per, ok := strings.Cut(s, "/")
	if !ok {
		return Unit{}, false
	}
	d, ok := ParseStatic(dist)
	if !ok || d.Family() != FamilyDistance {
		return Unit{}, false
	}
	t, ok := timeNames[per]
	if !ok {
		return Unit{}, false
	}
	return Speed(d, t), true
}

// Parse parses a static unit name, then falls back to a currency name or
// code from c. c may be nil.
func Parse(s string, c *Currencies) (Unit, bool) {
	if u, ok := ParseStatic(s); ok {
		return u, true
	}
	if c == nil {
		return Unit{}, false
	}
	return c.Lookup(s)
}
