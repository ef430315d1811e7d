// Package units provides angle conversions shared by the cleaning cuts and
// the display layers. Camera-plane coordinates are stored in meters; offset
// angles derived from them are expressed in degrees at the API surface.
package units

import "math"

// Angle unit names accepted by configuration.
const (
	Deg  = "deg"
	Rad  = "rad"
	MRad = "mrad"
)

// ValidAngleUnits contains all valid angle unit values.
var ValidAngleUnits = []string{Deg, Rad, MRad}

// IsValidAngleUnit checks if the given unit is in the list of valid units.
func IsValidAngleUnit(unit string) bool {
	for _, v := range ValidAngleUnits {
		if unit == v {
			return true
		}
	}
	return false
}

// RadToDeg converts an angle in radians to degrees.
func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// DegToRad converts an angle in degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// ToDeg converts an angle in the named unit to degrees.
// Unknown units are treated as degrees.
func ToDeg(value float64, unit string) float64 {
	switch unit {
	case Rad:
		return RadToDeg(value)
	case MRad:
		return RadToDeg(value / 1000)
	default:
		return value
	}
}
