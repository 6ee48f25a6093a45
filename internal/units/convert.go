package units

import (
	"errors"
	"fmt"
)

var (
	ErrIncompatible    = errors.New("incompatible units")
	ErrUnknownCurrency = errors.New("unknown currency")
)

// Convert converts value from one unit to another of the same family.
// Currencies need c; static units ignore it.
func Convert(value float64, from, to Unit, c *Currencies) (float64, error) {
	if !from.Compatible(to) {
		return 0, fmt.Errorf("%w: %s -> %s", ErrIncompatible, from, to)
	}
	switch from.Family() {
	case FamilyTemperature:
		return convertTemperature(value, from.kind, to.kind), nil
	case FamilyCurrency:
		fr, ok := c.Get(from.currency)
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrUnknownCurrency, from)
		}
		tr, ok := c.Get(to.currency)
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrUnknownCurrency, to)
		}
		return value * tr.Rate / fr.Rate, nil
	default:
		return value * from.factor() / to.factor(), nil
	}
}

func convertTemperature(v float64, from, to Kind) float64 {
	// normalize to celsius first
	var c float64
	switch from {
	case Fahrenheit:
		c = (v - 32) * 5 / 9
	case Kelvin:
		c = v - 273.15
	default:
		c = v
	}
	switch to {
	case Fahrenheit:
		return c*9/5 + 32
	case Kelvin:
		return c + 273.15
	default:
		return c
	}
}
