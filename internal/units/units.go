// Package units defines the measurement and currency units understood by
// the content classifier, their display forms, and conversions between
// them.
package units

import "strings"

// Family groups units that can be converted into one another.
type Family int

const (
	FamilyNone Family = iota
	FamilyDistance
	FamilyMass
	FamilyArea
	FamilyVolume
	FamilyTemperature
	FamilySpeed
	FamilyCurrency
)

func (f Family) String() string {
	switch f {
	case FamilyDistance:
		return "distance"
	case FamilyMass:
		return "mass"
	case FamilyArea:
		return "area"
	case FamilyVolume:
		return "volume"
	case FamilyTemperature:
		return "temperature"
	case FamilySpeed:
		return "speed"
	case FamilyCurrency:
		return "currency"
	default:
		return "none"
	}
}

// Kind is a concrete unit within a family. Speeds use a distance Kind
// combined with a TimeUnit.
type Kind int

const (
	KindNone Kind = iota

	Meter
	Inch
	Foot
	Yard
	Mile

	Gram
	Ounce
	Pound
	Stone

	SquareMeter
	SquareInch
	SquareFoot
	SquareYard
	SquareMile
	Hectare
	Acre

	Liter
	Gallon
	Quart
	Pint
	Cup
	FluidOunce
	Tablespoon
	Teaspoon

	Celsius
	Fahrenheit
	Kelvin

	KindCurrency
)

type kindInfo struct {
	family   Family
	rate     float64 // in the family base unit (m, g, m², L); 0 for affine and dynamic units
	symbol   string
	prefixed bool // accepts an SI prefix
}

var kinds = [...]kindInfo{
	KindNone: {family: FamilyNone},

	Meter: {FamilyDistance, 1, "m", true},
	Inch:  {FamilyDistance, 0.0254, "in", false},
	Foot:  {FamilyDistance, 0.3048, "ft", false},
	Yard:  {FamilyDistance, 0.9144, "yd", false},
	Mile:  {FamilyDistance, 1609.344, "mi", false},

	Gram:  {FamilyMass, 1, "g", true},
	Ounce: {FamilyMass, 28.349523125, "oz", false},
	Pound: {FamilyMass, 453.59237, "lb", false},
	Stone: {FamilyMass, 6350.29318, "st", false},

	SquareMeter: {FamilyArea, 1, "m²", true},
	SquareInch:  {FamilyArea, 0.00064516, "in²", false},
	SquareFoot:  {FamilyArea, 0.09290304, "ft²", false},
	SquareYard:  {FamilyArea, 0.83612736, "yd²", false},
	SquareMile:  {FamilyArea, 2589988.110336, "mi²", false},
	Hectare:     {FamilyArea, 10000, "ha", false},
	Acre:        {FamilyArea, 4046.8564224, "ac", false},

	Liter:      {FamilyVolume, 1, "L", true},
	Gallon:     {FamilyVolume, 3.785411784, "gal", false},
	Quart:      {FamilyVolume, 0.946352946, "qt", false},
	Pint:       {FamilyVolume, 0.473176473, "pt", false},
	Cup:        {FamilyVolume, 0.2365882365, "cup", false},
	FluidOunce: {FamilyVolume, 0.0295735295625, "floz", false},
	Tablespoon: {FamilyVolume, 0.01478676478125, "tbsp", false},
	Teaspoon:   {FamilyVolume, 0.00492892159375, "tsp", false},

	Celsius:    {FamilyTemperature, 0, "°C", false},
	Fahrenheit: {FamilyTemperature, 0, "°F", false},
	Kelvin:     {FamilyTemperature, 0, "K", false},

	KindCurrency: {family: FamilyCurrency},
}

// TimeUnit is the denominator of a speed.
type TimeUnit int

const (
	TimeNone TimeUnit = iota
	Second
	Minute
	Hour
)

func (t TimeUnit) seconds() float64 {
	switch t {
	case Second:
		return 1
	case Minute:
		return 60
	case Hour:
		return 3600
	default:
		return 0
	}
}

func (t TimeUnit) String() string {
	switch t {
	case Second:
		return "s"
	case Minute:
		return "min"
	case Hour:
		return "h"
	default:
		return ""
	}
}

// Unit is a comparable unit value, usable as a map key. The zero Unit is
// invalid.
type Unit struct {
	kind     Kind
	prefix   Prefix
	per      TimeUnit // set for speeds
	currency string   // lowercase ISO code for currencies
}

// Of returns the unprefixed unit of kind k.
func Of(k Kind) Unit {
	return Unit{kind: k}
}

// Prefixed returns kind k with an SI prefix. The prefix is dropped for
// kinds that don't take one.
func Prefixed(k Kind, p Prefix) Unit {
	if !kinds[k].prefixed {
		p = PrefixNone
	}
	return Unit{kind: k, prefix: p}
}

// Speed returns distance per time unit. dist must be a distance unit.
func Speed(dist Unit, per TimeUnit) Unit {
	return Unit{kind: dist.kind, prefix: dist.prefix, per: per}
}

// Currency returns the unit for an ISO currency code.
func Currency(code string) Unit {
	return Unit{kind: KindCurrency, currency: strings.ToLower(code)}
}

// Common units referenced by the default mapping and tests.
var (
	KPH = Speed(Prefixed(Meter, Kilo), Hour)
	MPH = Speed(Of(Mile), Hour)
	MPS = Speed(Of(Meter), Second)
	Ton = Prefixed(Gram, Mega)
)

// IsZero reports whether u is the invalid zero Unit.
func (u Unit) IsZero() bool {
	return u == Unit{}
}

// Kind returns the concrete unit kind.
func (u Unit) Kind() Kind {
	return u.kind
}

// Prefix returns the SI prefix.
func (u Unit) Prefix() Prefix {
	return u.prefix
}

// Per returns the time denominator of a speed.
func (u Unit) Per() TimeUnit {
	return u.per
}

// CurrencyCode returns the lowercase ISO code of a currency unit.
func (u Unit) CurrencyCode() string {
	return u.currency
}

// Family returns the unit's family.
func (u Unit) Family() Family {
	if u.per != TimeNone {
		return FamilySpeed
	}
	return kinds[u.kind].family
}

// Compatible reports whether values can be converted from u to other.
func (u Unit) Compatible(other Unit) bool {
	return !u.IsZero() && u.Family() == other.Family()
}

// String returns the display symbol. Currencies display as their upper
// case code; use Currencies.Name for the full name.
func (u Unit) String() string {
	switch {
	case u.kind == KindCurrency:
		return strings.ToUpper(u.currency)
	case u.per != TimeNone:
		return u.prefix.String() + kinds[u.kind].symbol + "/" + u.per.String()
	case u == Ton:
		return "ton"
	default:
		return u.prefix.String() + kinds[u.kind].symbol
	}
}

// factor returns the size of u in its family's base unit, for linear
// static units.
func (u Unit) factor() float64 {
	f := kinds[u.kind].rate * u.prefix.Factor()
	if u.per != TimeNone {
		f /= u.per.seconds()
	}
	return f
}
