package astro

import (
	"errors"
	"fmt"
	"math"
)

const (
	// SpeedOfLight is the speed of light in vacuum, km/s.
	SpeedOfLight = 299792.458

	// SecondsPerDay is the length of a day of SI seconds.
	SecondsPerDay = 86400.0
)

// ErrInvalidCoordinate is returned for target coordinates outside their domain.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// SkyCoord is an equatorial (ICRF / J2000) target position in degrees.
type SkyCoord struct {
	RAdeg  float64 // Right Ascension in degrees (0-360)
	DecDeg float64 // Declination in degrees (-90 to +90)
}

// String formats the coordinate for log lines.
func (c SkyCoord) String() string {
	return fmt.Sprintf("RA=%.6f Dec=%+.6f", c.RAdeg, c.DecDeg)
}

// Validate checks that the coordinate is finite and the declination in range.
func (c SkyCoord) Validate() error {
	if math.IsNaN(c.RAdeg) || math.IsInf(c.RAdeg, 0) {
		return fmt.Errorf("%w: right ascension %v", ErrInvalidCoordinate, c.RAdeg)
	}
	if math.IsNaN(c.DecDeg) || c.DecDeg < -90 || c.DecDeg > 90 {
		return fmt.Errorf("%w: declination %v outside [-90, 90]", ErrInvalidCoordinate, c.DecDeg)
	}
	return nil
}

// TargetUnitVector converts a target at effectively infinite distance into a
// Cartesian unit vector in the equatorial frame used by the ephemerides.
func TargetUnitVector(raDeg, decDeg float64) (Vec3, error) {
	c := SkyCoord{RAdeg: raDeg, DecDeg: decDeg}
	if err := c.Validate(); err != nil {
		return Vec3{}, err
	}
	return c.UnitVector(), nil
}

// UnitVector returns the direction of an already validated coordinate.
func (c SkyCoord) UnitVector() Vec3 {
	ra := degToRad(normalizeAngle360(c.RAdeg))
	dec := degToRad(c.DecDeg)
	cosDec := math.Cos(dec)

	v := Vec3{
		X: cosDec * math.Cos(ra),
		Y: cosDec * math.Sin(ra),
		Z: math.Sin(dec),
	}
	// Trig rounding can leave the norm a few ulps off 1.
	return v.Normalized()
}

// degToRad converts degrees to radians.
func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// normalizeAngle360 normalizes an angle to 0-360 degrees.
func normalizeAngle360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}
