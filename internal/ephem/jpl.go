package ephem

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mshafiee/jpleph"

	"github.com/litescript/ls-barytime/internal/astro"
)

// mjdOffset converts MJD to Julian Date.
const mjdOffset = 2400000.5

// JPLEphemeris reads Earth and Sun positions from a JPL DE binary file.
type JPLEphemeris struct {
	eph     *jpleph.Ephemeris
	path    string
	auKm    float64
	startJD float64
	endJD   float64
}

// OpenJPLEphemeris opens a DE binary ephemeris (de405.bin, de440.bin, ...).
// Close must be called when done.
func OpenJPLEphemeris(path string) (*JPLEphemeris, error) {
	if path == "" {
		return nil, errors.New("jpl ephemeris requires a file path")
	}

	eph, err := jpleph.NewEphemeris(path, false)
	if err != nil {
		return nil, fmt.Errorf("open jpl ephemeris %s: %w", path, err)
	}

	auKm := eph.GetEphemerisDouble(jpleph.AUinKM)
	if auKm <= 0 {
		auKm = astro.AU
	}

	return &JPLEphemeris{
		eph:     eph,
		path:    path,
		auKm:    auKm,
		startJD: eph.GetEphemerisDouble(jpleph.EphemerisStartJD),
		endJD:   eph.GetEphemerisDouble(jpleph.EphemerisEndJD),
	}, nil
}

// Name implements SolarSystem.
func (j *JPLEphemeris) Name() string {
	name := strings.TrimSpace(j.eph.GetEphemName())
	if name == "" {
		return "jpl"
	}
	return "jpl " + name
}

// BarycentricEarthSun implements SolarSystem. TT is used as the ephemeris
// time argument; TDB-TT is below 2 ms, far under the position precision
// that matters here.
func (j *JPLEphemeris) BarycentricEarthSun(mjdTT float64) (astro.Vec3, astro.Vec3, error) {
	jd := mjdTT + mjdOffset
	if jd < j.startJD || jd > j.endJD {
		return astro.Vec3{}, astro.Vec3{}, fmt.Errorf("MJD %.5f outside %s coverage (JD %.1f-%.1f): %w",
			mjdTT, j.path, j.startJD, j.endJD, jpleph.ErrOutsideRange)
	}

	earth, _, err := j.eph.CalculatePV(jd, jpleph.Earth, jpleph.CenterSolarSystemBarycenter, false)
	if err != nil {
		return astro.Vec3{}, astro.Vec3{}, fmt.Errorf("earth position at JD %.5f: %w", jd, err)
	}
	sun, _, err := j.eph.CalculatePV(jd, jpleph.Sun, jpleph.CenterSolarSystemBarycenter, false)
	if err != nil {
		return astro.Vec3{}, astro.Vec3{}, fmt.Errorf("sun position at JD %.5f: %w", jd, err)
	}

	return j.toKm(earth), j.toKm(sun), nil
}

// Close releases the ephemeris file.
func (j *JPLEphemeris) Close() error {
	return j.eph.Close()
}

func (j *JPLEphemeris) toKm(p jpleph.Position) astro.Vec3 {
	return astro.Vec3{X: p.X, Y: p.Y, Z: p.Z}.Scale(j.auKm)
}
