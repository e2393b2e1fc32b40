package info

import (
	"github.com/gscompat/formulacore/cellerr"
	"github.com/gscompat/formulacore/value"
)

// unit describes one CONVERT-recognized identifier: its dimension
// category and its factor relative to that category's base unit.
type unit struct {
	category string
	factor   float64
}

// unitTable is a closed, explicit map literal — CONVERT resolves
// against this table only, never against a host language's object
// properties, so a name like "toString" is rejected with #N/A rather
// than silently resolving to an inherited method (spec §4.15, Open
// Question log in DESIGN.md).
var unitTable = map[string]unit{
	"g": {"mass", 1}, "kg": {"mass", 1000}, "mg": {"mass", 0.001}, "lbm": {"mass", 453.59237}, "ozm": {"mass", 28.349523125},

	"m": {"length", 1}, "km": {"length", 1000}, "cm": {"length", 0.01}, "mm": {"length", 0.001},
	"mi": {"length", 1609.344}, "yd": {"length", 0.9144}, "ft": {"length", 0.3048}, "in": {"length", 0.0254},

	"sec": {"time", 1}, "mn": {"time", 60}, "hr": {"time", 3600}, "day": {"time", 86400},

	"m2": {"area", 1}, "km2": {"area", 1e6}, "ha": {"area", 1e4}, "ft2": {"area", 0.09290304}, "ac": {"area", 4046.8564224},

	"l": {"volume", 1}, "lt": {"volume", 1}, "m3": {"volume", 1000}, "tsp": {"volume", 0.0049289216}, "gal": {"volume", 3.785411784},

	"m/s": {"speed", 1}, "mph": {"speed", 0.44704}, "kmh": {"speed", 0.27777778},

	"pa": {"pressure", 1}, "atm": {"pressure", 101325}, "mmhg": {"pressure", 133.322},

	"j": {"energy", 1}, "cal": {"energy", 4.1868}, "ev": {"energy", 1.602176634e-19}, "wh": {"energy", 3600},

	"n": {"force", 1}, "dyn": {"force", 1e-5}, "lbf": {"force", 4.4482216152605},
}

const (
	celsius    = "c"
	fahrenheit = "f"
	kelvin     = "k"
)

func convert(v float64, from, to string) value.Value {
	if isTemperature(from) || isTemperature(to) {
		if !isTemperature(from) || !isTemperature(to) {
			return value.ErrKind(cellerr.NA)
		}
		return convertTemperature(v, from, to)
	}
	uf, ok := unitTable[from]
	if !ok {
		return value.ErrKind(cellerr.NA)
	}
	ut, ok := unitTable[to]
	if !ok {
		return value.ErrKind(cellerr.NA)
	}
	if uf.category != ut.category {
		return value.ErrKind(cellerr.NA)
	}
	return value.Number(v * uf.factor / ut.factor)
}

func isTemperature(u string) bool {
	switch u {
	case celsius, fahrenheit, kelvin:
		return true
	default:
		return false
	}
}

func convertTemperature(v float64, from, to string) value.Value {
	var c float64
	switch from {
	case celsius:
		c = v
	case fahrenheit:
		c = (v - 32) * 5 / 9
	case kelvin:
		c = v - 273.15
	}
	switch to {
	case celsius:
		return value.Number(c)
	case fahrenheit:
		return value.Number(c*9/5 + 32)
	case kelvin:
		return value.Number(c + 273.15)
	default:
		return value.ErrKind(cellerr.NA)
	}
}
