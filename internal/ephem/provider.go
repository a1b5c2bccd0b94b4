// Package ephem provides the platform and solar-system positions needed for
// barycentric light-time corrections.
package ephem

import (
	"context"
	"errors"
	"fmt"

	"github.com/litescript/ls-barytime/internal/astro"
)

// ErrServiceUnavailable is returned when the precise ephemeris service cannot
// be used for this process.
var ErrServiceUnavailable = errors.New("precise ephemeris service unavailable")

// PreciseService returns light-time corrected TDB epochs directly. The caller
// does not see the position vectors the service uses.
type PreciseService interface {
	// Name returns the service name for display/logging.
	Name() string

	// Probe reports whether the service can be used. Errors wrap
	// ErrServiceUnavailable.
	Probe(ctx context.Context) error

	// ComputeBaryHelioTime returns barycentric and heliocentric TDB MJD
	// values, parallel to timesTT.
	ComputeBaryHelioTime(ctx context.Context, target astro.SkyCoord, timesTT []float64) (bary, helio []float64, err error)
}

// SolarSystem supplies Earth and Sun positions relative to the solar-system
// barycenter in the equatorial ICRF frame, km.
type SolarSystem interface {
	// Name returns the ephemeris name for display/logging.
	Name() string

	// BarycentricEarthSun returns the barycenter->Earth and barycenter->Sun
	// vectors at a TT MJD.
	BarycentricEarthSun(mjdTT float64) (earth, sun astro.Vec3, err error)
}

// Precision selects the solar-system ephemeris used by the fallback path.
type Precision int

const (
	PrecisionDefault Precision = iota // Built-in analytic ephemeris
	PrecisionJPL                      // JPL DE binary ephemeris file
)

// String returns the precision name.
func (p Precision) String() string {
	switch p {
	case PrecisionDefault:
		return "default"
	case PrecisionJPL:
		return "jpl"
	default:
		return "unknown"
	}
}

// ParsePrecision parses a precision name. Unknown names are an error.
func ParsePrecision(s string) (Precision, error) {
	switch s {
	case "", "default", "builtin":
		return PrecisionDefault, nil
	case "jpl":
		return PrecisionJPL, nil
	default:
		return PrecisionDefault, fmt.Errorf("unknown ephemeris precision %q (want default or jpl)", s)
	}
}

// OpenSolarSystem returns the solar-system ephemeris for a precision.
// jplPath is only used for PrecisionJPL.
func OpenSolarSystem(p Precision, jplPath string) (SolarSystem, error) {
	switch p {
	case PrecisionDefault:
		return NewBuiltinEphemeris(), nil
	case PrecisionJPL:
		return OpenJPLEphemeris(jplPath)
	default:
		return nil, fmt.Errorf("unsupported ephemeris precision %v", p)
	}
}
