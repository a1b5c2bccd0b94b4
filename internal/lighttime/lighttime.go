// Package lighttime applies the light-travel-time correction that moves a
// platform timestamp to a reference body (barycenter or Sun).
package lighttime

import (
	"fmt"

	"github.com/litescript/ls-barytime/internal/astro"
)

// Delay returns the correction in days for a position vector v (km,
// relative to the reference body) and a target unit vector u. Positive when
// the platform is on the target-facing side of the reference body.
func Delay(u, v astro.Vec3) float64 {
	return astro.LightTimeSeconds(u.Dot(v)) / astro.SecondsPerDay
}

// Correct returns timesTT[i] + Delay(u, vectors[i]) for every epoch.
// The input slices are not modified.
func Correct(u astro.Vec3, timesTT []float64, vectors []astro.Vec3) ([]float64, error) {
	if len(vectors) != len(timesTT) {
		return nil, fmt.Errorf("light-time correction: %d vectors for %d epochs", len(vectors), len(timesTT))
	}

	out := make([]float64, len(timesTT))
	for i, t := range timesTT {
		out[i] = t + Delay(u, vectors[i])
	}
	return out, nil
}

// CorrectPair corrects the same epochs against barycentric and heliocentric
// vectors. The two channels are computed independently.
func CorrectPair(u astro.Vec3, timesTT []float64, bary, helio []astro.Vec3) (baryTDB, helioTDB []float64, err error) {
	baryTDB, err = Correct(u, timesTT, bary)
	if err != nil {
		return nil, nil, fmt.Errorf("barycentric: %w", err)
	}
	helioTDB, err = Correct(u, timesTT, helio)
	if err != nil {
		return nil, nil, fmt.Errorf("heliocentric: %w", err)
	}
	return baryTDB, helioTDB, nil
}
