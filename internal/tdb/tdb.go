// Package tdb converts exposure timestamps from UTC to barycentric TDB.
package tdb

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/litescript/ls-barytime/internal/astro"
	"github.com/litescript/ls-barytime/internal/ephem"
	"github.com/litescript/ls-barytime/internal/logging"
	"github.com/litescript/ls-barytime/internal/metrics"
	"github.com/litescript/ls-barytime/internal/timescale"
)

// Sink receives diagnostic notices for one conversion.
// *logging.Logger satisfies it.
type Sink interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
}

// Input holds the UTC MJD columns and keywords for one conversion.
type Input struct {
	Start, Mid, End []float64
	Target          astro.SkyCoord

	// Platform is the geocentric platform state with EpochTT in TT. It is
	// only required by strategies that extrapolate.
	Platform *ephem.PlatformState
}

// Columns holds one TDB series per timestamp column.
type Columns struct {
	Start, Mid, End timescale.Series
}

// Result is the outcome of a conversion. The zero Result (Applied false)
// means no correction was performed; its values are not epochs.
// Callers must check Applied before using Columns: there is no all-zero
// triple standing in for "nothing converted".
type Result struct {
	Columns

	// Helio holds the same epochs corrected to the center of the Sun.
	Helio Columns

	Applied  bool
	Written  bool
	Strategy string
}

// Rows returns the number of converted mid-exposure epochs.
func (r Result) Rows() int {
	return r.Mid.Len()
}

// Options configures a Converter.
type Options struct {
	// DryRun disables write-back in ProcessFile.
	DryRun bool

	// Fallback takes over for the rest of the process when the precise
	// strategy reports ephem.ErrServiceUnavailable mid-run.
	Fallback *FallbackStrategy

	Metrics *metrics.Recorder
}

// Converter runs conversions with the selected Strategy. The strategy only
// changes once, from precise to Options.Fallback.
type Converter struct {
	mu       sync.Mutex
	strategy Strategy
	opts     Options
}

// NewConverter creates a converter using strategy.
func NewConverter(strategy Strategy, opts Options) *Converter {
	return &Converter{strategy: strategy, opts: opts}
}

// Strategy returns the converter's current strategy.
func (c *Converter) Strategy() Strategy {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.strategy
}

// demote switches from failed to the fallback strategy. It returns nil when
// there is nothing to switch to.
func (c *Converter) demote(failed Strategy) Strategy {
	fb := c.opts.Fallback
	if fb == nil || failed == Strategy(fb) {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.strategy == failed {
		c.strategy = fb
		c.opts.Metrics.StrategySelected(fb.Name())
	}
	return fb
}

// Convert converts the three UTC columns to TDB. An input with no epochs
// yields the zero Result and a notice.
func (c *Converter) Convert(ctx context.Context, in Input, sink Sink) (Result, error) {
	if sink == nil {
		sink = logging.Discard()
	}
	start := time.Now()
	res, err := c.convert(ctx, in, sink)

	outcome := metrics.OutcomeConverted
	switch {
	case err != nil:
		outcome = metrics.OutcomeFailed
	case !res.Applied:
		outcome = metrics.OutcomeSkipped
	}
	name := res.Strategy
	if name == "" {
		name = c.Strategy().Name()
	}
	c.opts.Metrics.ObserveConversion(name, outcome, res.Rows(), time.Since(start))

	return res, err
}

func (c *Converter) convert(ctx context.Context, in Input, sink Sink) (Result, error) {
	if len(in.Start) == 0 && len(in.Mid) == 0 && len(in.End) == 0 {
		sink.Warn("No timestamps to convert; nothing was corrected.")
		return Result{}, nil
	}

	if err := in.Target.Validate(); err != nil {
		return Result{}, err
	}
	u := in.Target.UnitVector()

	strategy := c.Strategy()
	res, err := c.convertWith(ctx, strategy, in, u, sink)
	if err == nil || !errors.Is(err, ephem.ErrServiceUnavailable) {
		return res, err
	}

	fb := c.demote(strategy)
	if fb == nil {
		return Result{}, err
	}
	sink.Warn("The %s service stopped responding: %v", strategy.Name(), err)
	sink.Warn("Using %s and platform position and velocity keywords from now on.", fb.Name())
	return c.convertWith(ctx, fb, in, u, sink)
}

// convertWith converts all three columns with one strategy so a Result never
// mixes strategies.
func (c *Converter) convertWith(ctx context.Context, strategy Strategy, in Input, u astro.Vec3, sink Sink) (Result, error) {
	if strategy.NeedsPlatformState() && in.Platform == nil {
		return Result{}, ErrMissingPlatformState
	}

	sink.Debug("Target %s, strategy %s", in.Target, strategy.Name())

	res := Result{Applied: true, Strategy: strategy.Name()}
	columns := []struct {
		name  string
		utc   []float64
		bary  *timescale.Series
		helio *timescale.Series
	}{
		{ColStartUTC, in.Start, &res.Start, &res.Helio.Start},
		{ColMidUTC, in.Mid, &res.Mid, &res.Helio.Mid},
		{ColEndUTC, in.End, &res.End, &res.Helio.End},
	}
	for _, col := range columns {
		bary, helio, err := convertColumn(ctx, strategy, in, u, col.utc)
		if err != nil {
			return Result{}, fmt.Errorf("%s: %w", col.name, err)
		}
		*col.bary, *col.helio = bary, helio
	}

	return res, nil
}

// convertColumn runs UTC -> TT -> TDB for one column.
func convertColumn(ctx context.Context, strategy Strategy, in Input, u astro.Vec3, utc []float64) (bary, helio timescale.Series, err error) {
	tt, err := timescale.NewSeries(timescale.ScaleUTC, utc).ToTT()
	if err != nil {
		return bary, helio, err
	}

	b, h, err := strategy.Convert(ctx, in.Target, u, tt.Values(), in.Platform)
	if err != nil {
		return bary, helio, err
	}

	return timescale.NewSeries(timescale.ScaleTDB, b), timescale.NewSeries(timescale.ScaleTDB, h), nil
}
