package tdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/litescript/ls-barytime/internal/astro"
	"github.com/litescript/ls-barytime/internal/ephem"
	"github.com/litescript/ls-barytime/internal/lighttime"
	"github.com/litescript/ls-barytime/internal/logging"
)

// ErrMissingPlatformState is returned by the fallback strategy when no
// platform position/velocity is available.
var ErrMissingPlatformState = errors.New("platform state required for fallback conversion")

// Strategy turns TT epochs into barycentric and heliocentric TDB epochs.
// One Strategy is selected at startup; a Converter may later switch from a
// precise strategy to its fallback.
type Strategy interface {
	// Name returns the strategy name for display/logging/metrics.
	Name() string

	// NeedsPlatformState reports whether Convert requires a PlatformState.
	NeedsPlatformState() bool

	// Convert returns TDB MJD values parallel to timesTT.
	Convert(ctx context.Context, target astro.SkyCoord, u astro.Vec3, timesTT []float64, state *ephem.PlatformState) (bary, helio []float64, err error)
}

// PreciseStrategy delegates to a precise ephemeris service.
type PreciseStrategy struct {
	Service ephem.PreciseService
}

// Name implements Strategy.
func (s *PreciseStrategy) Name() string {
	return s.Service.Name()
}

// NeedsPlatformState implements Strategy.
func (s *PreciseStrategy) NeedsPlatformState() bool {
	return false
}

// Convert implements Strategy.
func (s *PreciseStrategy) Convert(ctx context.Context, target astro.SkyCoord, _ astro.Vec3, timesTT []float64, _ *ephem.PlatformState) ([]float64, []float64, error) {
	bary, helio, err := s.Service.ComputeBaryHelioTime(ctx, target, timesTT)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", s.Service.Name(), err)
	}
	if len(bary) != len(timesTT) || len(helio) != len(timesTT) {
		return nil, nil, fmt.Errorf("%s: got %d/%d values for %d epochs",
			s.Service.Name(), len(bary), len(helio), len(timesTT))
	}
	return bary, helio, nil
}

// FallbackStrategy combines solar-system Earth vectors with a linearly
// extrapolated platform position and applies the light-time correction.
type FallbackStrategy struct {
	Provider *ephem.FallbackProvider
}

// Name implements Strategy.
func (s *FallbackStrategy) Name() string {
	return s.Provider.Name()
}

// NeedsPlatformState implements Strategy.
func (s *FallbackStrategy) NeedsPlatformState() bool {
	return true
}

// Convert implements Strategy.
func (s *FallbackStrategy) Convert(ctx context.Context, _ astro.SkyCoord, u astro.Vec3, timesTT []float64, state *ephem.PlatformState) ([]float64, []float64, error) {
	if state == nil {
		return nil, nil, ErrMissingPlatformState
	}

	baryVec, helioVec, err := s.Provider.ComputePositions(ctx, timesTT, *state)
	if err != nil {
		return nil, nil, err
	}
	return lighttime.CorrectPair(u, timesTT, baryVec, helioVec)
}

// SelectStrategy probes the precise service once. When it is nil or
// unavailable, a notice is emitted and the fallback is used for the rest of
// the process.
func SelectStrategy(ctx context.Context, precise ephem.PreciseService, fallback *FallbackStrategy, sink Sink) Strategy {
	if sink == nil {
		sink = logging.Discard()
	}

	if precise == nil {
		sink.Info("Precise ephemeris service disabled; using %s", fallback.Name())
		return fallback
	}

	if err := precise.Probe(ctx); err != nil {
		if !errors.Is(err, ephem.ErrServiceUnavailable) {
			err = fmt.Errorf("%w: %v", ephem.ErrServiceUnavailable, err)
		}
		sink.Warn("Couldn't use the %s service: %v", precise.Name(), err)
		sink.Warn("Using %s and platform position and velocity keywords.", fallback.Name())
		return fallback
	}

	sink.Debug("Using the %s service.", precise.Name())
	return &PreciseStrategy{Service: precise}
}
