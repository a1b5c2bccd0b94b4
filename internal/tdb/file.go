package tdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/litescript/ls-barytime/internal/astro"
	"github.com/litescript/ls-barytime/internal/ephem"
	"github.com/litescript/ls-barytime/internal/logging"
	"github.com/litescript/ls-barytime/internal/metrics"
	"github.com/litescript/ls-barytime/internal/table"
	"github.com/litescript/ls-barytime/internal/timescale"
)

// Exposure file layout.
const (
	TableName = "INT_TIMES"

	ColStartUTC = "int_start_MJD_UTC"
	ColMidUTC   = "int_mid_MJD_UTC"
	ColEndUTC   = "int_end_MJD_UTC"

	ColStartTDB = "int_start_BJD_TDB"
	ColMidTDB   = "int_mid_BJD_TDB"
	ColEndTDB   = "int_end_BJD_TDB"
)

// Header keywords.
const (
	KeyTargetRA  = "targ_ra"
	KeyTargetDec = "targ_dec"
	KeyEphTime   = "eph_time"
)

var (
	positionKeys = [3]string{"jwst_x", "jwst_y", "jwst_z"}
	velocityKeys = [3]string{"jwst_dx", "jwst_dy", "jwst_dz"}

	outputColumns = [3]string{ColStartTDB, ColMidTDB, ColEndTDB}
)

// ProcessFile converts the INT_TIMES table of an exposure file and writes
// the BJD_TDB columns back in place. A missing, empty or duplicated table
// yields the zero Result and a notice. The file is closed on every path.
func (c *Converter) ProcessFile(ctx context.Context, path string, sink Sink) (res Result, err error) {
	if sink == nil {
		sink = logging.Discard()
	}
	sink.Info("Processing file %s", path)

	mode := table.ModeUpdate
	if c.opts.DryRun {
		mode = table.ModeReadOnly
	}
	f, err := table.Open(path, mode)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	tbl, err := f.FindTable(TableName)
	if errors.Is(err, table.ErrMissingTable) {
		sink.Warn("%v", err)
		c.opts.Metrics.ObserveConversion(c.Strategy().Name(), metrics.OutcomeSkipped, 0, 0)
		return Result{}, nil
	}
	if err != nil {
		return Result{}, err
	}

	in, err := c.readInput(f.Header(), tbl, sink)
	if err != nil {
		c.opts.Metrics.ObserveConversion(c.Strategy().Name(), metrics.OutcomeFailed, 0, 0)
		return Result{}, err
	}

	var missing []string
	for _, name := range outputColumns {
		if !tbl.HasColumn(name) {
			missing = append(missing, name)
		}
	}

	res, err = c.Convert(ctx, in, sink)
	if err != nil || !res.Applied {
		return res, err
	}

	if c.opts.DryRun {
		sink.Info("Dry run; the %s table was not updated.", TableName)
		return res, nil
	}
	if len(missing) > 0 {
		sink.Warn("One or more of the *BJD_TDB columns do not exist (%s: %v),", table.ErrMissingOutputColumns, missing)
		sink.Warn("so the %s table was not updated.", TableName)
		return res, nil
	}

	err = tbl.SetColumns(map[string][]float64{
		ColStartTDB: res.Start.Values(),
		ColMidTDB:   res.Mid.Values(),
		ColEndTDB:   res.End.Values(),
	})
	if err != nil {
		return res, fmt.Errorf("update %s in %s: %w", TableName, f.Path(), err)
	}

	res.Written = true
	return res, nil
}

// readInput reads the target, the UTC columns and, when some strategy may
// need it, the platform state. With a fallback configured the platform
// keywords are optional until the precise service fails.
func (c *Converter) readInput(h table.Header, tbl *table.Table, sink Sink) (Input, error) {
	var in Input

	target, err := readTarget(h)
	if err != nil {
		return in, err
	}
	in.Target = target

	for _, col := range []struct {
		name string
		dst  *[]float64
	}{
		{ColStartUTC, &in.Start},
		{ColMidUTC, &in.Mid},
		{ColEndUTC, &in.End},
	} {
		v, err := tbl.Column(col.name)
		if err != nil {
			return in, err
		}
		*col.dst = v
	}

	switch {
	case c.Strategy().NeedsPlatformState():
		state, err := readPlatformState(h)
		if err != nil {
			return in, err
		}
		in.Platform = &state
	case c.opts.Fallback != nil && h.Has(KeyEphTime):
		state, err := readPlatformState(h)
		if err != nil {
			sink.Debug("Platform state unavailable: %v", err)
			break
		}
		in.Platform = &state
	}
	return in, nil
}

func readTarget(h table.Header) (astro.SkyCoord, error) {
	ra, err := h.Float(KeyTargetRA)
	if err != nil {
		return astro.SkyCoord{}, err
	}
	dec, err := h.Float(KeyTargetDec)
	if err != nil {
		return astro.SkyCoord{}, err
	}
	return astro.SkyCoord{RAdeg: ra, DecDeg: dec}, nil
}

// readPlatformState reads the platform keywords. eph_time is recorded in
// UTC and converted to TT.
func readPlatformState(h table.Header) (ephem.PlatformState, error) {
	var state ephem.PlatformState

	ephUTC, err := h.Float(KeyEphTime)
	if err != nil {
		return state, err
	}
	state.EpochTT, err = timescale.ToTTScalar(ephUTC)
	if err != nil {
		return state, fmt.Errorf("%s: %w", KeyEphTime, err)
	}

	pos, err := readVec3(h, positionKeys)
	if err != nil {
		return state, err
	}
	vel, err := readVec3(h, velocityKeys)
	if err != nil {
		return state, err
	}
	state.Position, state.Velocity = pos, vel
	return state, nil
}

func readVec3(h table.Header, keys [3]string) (astro.Vec3, error) {
	var v [3]float64
	for i, k := range keys {
		x, err := h.Float(k)
		if err != nil {
			return astro.Vec3{}, err
		}
		v[i] = x
	}
	return astro.Vec3{X: v[0], Y: v[1], Z: v[2]}, nil
}
