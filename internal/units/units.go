// Package units converts wire quantities into the canonical unit of their
// physical dimension. Conversions are exact rationals where possible and
// IEEE-754 doubles otherwise; unrecognized units are rejected, never
// defaulted.
package units

import (
	"fmt"

	"github.com/healthbridge/healthbridge/internal/model"
)

// Dimension names a physical dimension with a closed unit set.
type Dimension string

const (
	Mass             Dimension = "mass"
	Length           Dimension = "length"
	Energy           Dimension = "energy"
	Power            Dimension = "power"
	Volume           Dimension = "volume"
	Temperature      Dimension = "temperature"
	TemperatureDelta Dimension = "temperatureDelta"
	BloodGlucose     Dimension = "bloodGlucose"
	Velocity         Dimension = "velocity"
	Pressure         Dimension = "pressure"
)

// Canonical units per dimension: kg, m, kcal, W, L, celsius, delta-celsius,
// mmol/L, m/s, mmHg.
var canonical = map[Dimension]string{
	Mass:             "kg",
	Length:           "m",
	Energy:           "kcal",
	Power:            "W",
	Volume:           "L",
	Temperature:      "celsius",
	TemperatureDelta: "celsius",
	BloodGlucose:     "mmol/L",
	Velocity:         "m/s",
	Pressure:         "mmHg",
}

// mg/dL per mmol/L for glucose (molar mass 180.156 g/mol).
const mgdlPerMmoll = 18.0156

// Linear factors relative to the canonical unit. Temperature is handled
// separately because Fahrenheit and Kelvin are affine, not scalar.
var factors = map[Dimension]map[string]float64{
	Mass: {
		"kg": 1, "g": 0.001, "mg": 1e-6,
		"lb": 0.45359237, "oz": 0.028349523125,
	},
	Length: {
		"m": 1, "km": 1000, "cm": 0.01, "mm": 0.001,
		"mi": 1609.344, "yd": 0.9144, "ft": 0.3048, "in": 0.0254,
	},
	Energy: {
		"kcal": 1, "cal": 0.001, "kJ": 1.0 / 4.184, "J": 1.0 / 4184.0,
	},
	Power: {
		"W": 1, "kcal/day": 4184.0 / 86400.0,
	},
	Volume: {
		"L": 1, "mL": 0.001, "fl_oz_us": 0.0295735295625,
	},
	TemperatureDelta: {
		"celsius": 1, "fahrenheit": 5.0 / 9.0,
	},
	BloodGlucose: {
		"mmol/L": 1, "mg/dL": 1.0 / mgdlPerMmoll,
	},
	Velocity: {
		"m/s": 1, "km/h": 1.0 / 3.6, "mph": 0.44704,
	},
	Pressure: {
		"mmHg": 1, "kPa": 7.50061682704,
	},
}

// CanonicalUnit returns the unit symbol ToCanonical normalizes to.
func CanonicalUnit(d Dimension) string { return canonical[d] }

func invalid(d Dimension, unit string) error {
	return fmt.Errorf("%w: %q is not a recognized %s unit", model.ErrInvalidUnit, unit, d)
}

// ToCanonical converts value expressed in unit into the canonical unit of the
// dimension. The unit set per dimension is closed; anything else errors.
func ToCanonical(d Dimension, value float64, unit string) (float64, error) {
	if d == Temperature {
		switch unit {
		case "celsius":
			return value, nil
		case "fahrenheit":
			return (value - 32) * 5.0 / 9.0, nil
		case "kelvin":
			return value - 273.15, nil
		default:
			return 0, invalid(d, unit)
		}
	}
	table, ok := factors[d]
	if !ok {
		return 0, fmt.Errorf("%w: unknown dimension %q", model.ErrInvalidUnit, d)
	}
	f, ok := table[unit]
	if !ok {
		return 0, invalid(d, unit)
	}
	return value * f, nil
}

// FromCanonical is the inverse of ToCanonical, used by the read direction and
// by round-trip tests.
func FromCanonical(d Dimension, value float64, unit string) (float64, error) {
	if d == Temperature {
		switch unit {
		case "celsius":
			return value, nil
		case "fahrenheit":
			return value*9.0/5.0 + 32, nil
		case "kelvin":
			return value + 273.15, nil
		default:
			return 0, invalid(d, unit)
		}
	}
	table, ok := factors[d]
	if !ok {
		return 0, fmt.Errorf("%w: unknown dimension %q", model.ErrInvalidUnit, d)
	}
	f, ok := table[unit]
	if !ok {
		return 0, invalid(d, unit)
	}
	return value / f, nil
}

// Units lists the recognized unit symbols of a dimension, for diagnostics.
func Units(d Dimension) []string {
	if d == Temperature {
		return []string{"celsius", "fahrenheit", "kelvin"}
	}
	out := make([]string, 0, len(factors[d]))
	for u := range factors[d] {
		out = append(out, u)
	}
	return out
}
