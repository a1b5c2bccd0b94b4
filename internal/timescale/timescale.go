// Package timescale converts MJD epochs between the UTC, TT and TDB scales.
package timescale

import (
	"errors"
	"fmt"
	"math"
)

const (
	// TTMinusTAI is the fixed TT-TAI offset in seconds.
	TTMinusTAI = 32.184

	// MinMJD and MaxMJD bound the epochs accepted as sane input.
	MinMJD = 0.0
	MaxMJD = 100000.0

	secondsPerDay = 86400.0
)

// ErrInvalidTimeValue is returned for NaN or out-of-range MJD values.
var ErrInvalidTimeValue = errors.New("invalid time value")

// Scale identifies the time scale of an MJD value.
type Scale int

const (
	ScaleUTC Scale = iota
	ScaleTT
	ScaleTDB
)

// String returns the scale name.
func (s Scale) String() string {
	switch s {
	case ScaleUTC:
		return "UTC"
	case ScaleTT:
		return "TT"
	case ScaleTDB:
		return "TDB"
	default:
		return "unknown"
	}
}

// Series is an ordered run of MJD values on one time scale.
// A Series is never modified after construction.
type Series struct {
	scale  Scale
	values []float64
}

// NewSeries copies values into a new Series tagged with scale.
func NewSeries(scale Scale, values []float64) Series {
	v := make([]float64, len(values))
	copy(v, values)
	return Series{scale: scale, values: v}
}

// Scale returns the time scale tag.
func (s Series) Scale() Scale { return s.scale }

// Len returns the number of epochs.
func (s Series) Len() int { return len(s.values) }

// At returns the i-th epoch.
func (s Series) At(i int) float64 { return s.values[i] }

// Values returns a copy of the epochs.
func (s Series) Values() []float64 {
	v := make([]float64, len(s.values))
	copy(v, s.values)
	return v
}

// ToTT converts a UTC Series to TT.
func (s Series) ToTT() (Series, error) {
	if s.scale != ScaleUTC {
		return Series{}, fmt.Errorf("convert %s series to TT: only UTC input is supported", s.scale)
	}
	tt, err := ToTT(s.values)
	if err != nil {
		return Series{}, err
	}
	return Series{scale: ScaleTT, values: tt}, nil
}

// ToTT converts UTC MJD values to TT MJD values. The output has the same
// length and order as the input.
func ToTT(utc []float64) ([]float64, error) {
	out := make([]float64, len(utc))
	for i, t := range utc {
		tt, err := ToTTScalar(t)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = tt
	}
	return out, nil
}

// ToTTScalar converts a single UTC MJD to TT MJD.
func ToTTScalar(utc float64) (float64, error) {
	if err := validateMJD(utc); err != nil {
		return 0, err
	}
	offset := TAIMinusUTC(utc) + TTMinusTAI
	return utc + offset/secondsPerDay, nil
}

func validateMJD(mjd float64) error {
	if math.IsNaN(mjd) || math.IsInf(mjd, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidTimeValue, mjd)
	}
	if mjd < MinMJD || mjd > MaxMJD {
		return fmt.Errorf("%w: MJD %v outside [%g, %g]", ErrInvalidTimeValue, mjd, MinMJD, MaxMJD)
	}
	return nil
}
