package ephem

import (
	"github.com/litescript/ls-barytime/internal/astro"
)

// PlatformState is a single position/velocity fix of the observing platform,
// geocentric, used as the anchor for linear extrapolation.
type PlatformState struct {
	EpochTT  float64    // TT MJD of the fix
	Position astro.Vec3 // km
	Velocity astro.Vec3 // km/s
}

// Extrapolate returns the platform position at each TT epoch assuming
// constant velocity. This is a first-order model: it is exact at the epoch
// and degrades with distance from it, without any bound being enforced.
func Extrapolate(timesTT []float64, state PlatformState) []astro.Vec3 {
	out := make([]astro.Vec3, len(timesTT))
	for i, t := range timesTT {
		dtSec := (t - state.EpochTT) * astro.SecondsPerDay
		out[i] = state.Position.Add(state.Velocity.Scale(dtSec))
	}
	return out
}
