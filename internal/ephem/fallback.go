package ephem

import (
	"context"
	"fmt"

	"github.com/litescript/ls-barytime/internal/astro"
)

// FallbackProvider derives platform positions from a solar-system ephemeris
// and a linearly extrapolated geocentric platform state.
type FallbackProvider struct {
	solar SolarSystem
}

// NewFallbackProvider creates a fallback provider over a solar-system ephemeris.
func NewFallbackProvider(solar SolarSystem) *FallbackProvider {
	return &FallbackProvider{solar: solar}
}

// Name returns the provider name for display/logging.
func (p *FallbackProvider) Name() string {
	return "fallback/" + p.solar.Name()
}

// ComputePositions returns the platform position relative to the
// solar-system barycenter and to the center of the Sun at each TT epoch, km.
func (p *FallbackProvider) ComputePositions(ctx context.Context, timesTT []float64, state PlatformState) (bary, helio []astro.Vec3, err error) {
	return p.ComputePositionsFrom(ctx, timesTT, Extrapolate(timesTT, state))
}

// ComputePositionsFrom is ComputePositions with geocentric platform
// positions supplied by the caller, one per epoch.
func (p *FallbackProvider) ComputePositionsFrom(ctx context.Context, timesTT []float64, platform []astro.Vec3) (bary, helio []astro.Vec3, err error) {
	if len(platform) != len(timesTT) {
		return nil, nil, fmt.Errorf("platform positions: got %d for %d epochs", len(platform), len(timesTT))
	}

	bary = make([]astro.Vec3, len(timesTT))
	helio = make([]astro.Vec3, len(timesTT))

	for i, t := range timesTT {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		baryEarth, barySun, err := p.solar.BarycentricEarthSun(t)
		if err != nil {
			return nil, nil, fmt.Errorf("solar-system ephemeris: %w", err)
		}
		sunEarth := baryEarth.Sub(barySun)

		bary[i] = baryEarth.Add(platform[i])
		helio[i] = sunEarth.Add(platform[i])
	}

	return bary, helio, nil
}
