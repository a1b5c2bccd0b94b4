package lighttime

import (
	"math"
	"testing"

	"github.com/litescript/ls-barytime/internal/astro"
)

func TestCorrect_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		u    astro.Vec3
		v    astro.Vec3
		t    float64
	}{
		{"along x", astro.Vec3{X: 1}, astro.Vec3{X: 1.5e8}, 59000.0},
		{"against x", astro.Vec3{X: 1}, astro.Vec3{X: -1.5e8}, 59000.25},
		{"oblique", astro.Vec3{X: 0.6, Y: 0.8}, astro.Vec3{X: 1e6, Y: -2e7, Z: 3e5}, 60123.456},
		{"L2 distance", astro.Vec3{Z: 1}, astro.Vec3{Z: 1.5e6}, 59500.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Correct(tt.u, []float64{tt.t}, []astro.Vec3{tt.v})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want := tt.u.Dot(tt.v) / 299792.458 / 86400
			if math.Abs((got[0]-tt.t)-want) > 1e-12 {
				t.Errorf("correction = %.15f days, want %.15f", got[0]-tt.t, want)
			}
		})
	}
}

func TestCorrect_KnownValue(t *testing.T) {
	// One AU along the line of sight is 499.004784 light seconds.
	got, err := Correct(astro.Vec3{X: 1}, []float64{59000}, []astro.Vec3{{X: astro.AU}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sec := (got[0] - 59000) * 86400
	if math.Abs(sec-499.004784) > 1e-4 {
		t.Errorf("delay = %.6f s, want 499.004784 s", sec)
	}
}

func TestCorrect_ZeroVector(t *testing.T) {
	times := []float64{59000.0, 59000.123456789}
	got, err := Correct(astro.Vec3{X: 0.6, Y: 0.8}, times, make([]astro.Vec3, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range times {
		if got[i] != times[i] {
			t.Errorf("got[%d] = %v, want exactly %v", i, got[i], times[i])
		}
	}
}

func TestCorrect_Orthogonal(t *testing.T) {
	u := astro.Vec3{Z: 1}
	vectors := []astro.Vec3{
		{X: 1.5e8},
		{Y: -1.5e8},
		{X: 3e7, Y: 4e7},
	}
	times := []float64{59000, 59001, 59002}

	got, err := Correct(u, times, vectors)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range times {
		if got[i] != times[i] {
			t.Errorf("orthogonal vector %v shifted time by %v days", vectors[i], got[i]-times[i])
		}
	}
}

func TestCorrect_LengthMismatch(t *testing.T) {
	_, err := Correct(astro.Vec3{X: 1}, []float64{1, 2}, []astro.Vec3{{}})
	if err == nil {
		t.Error("expected error for mismatched lengths")
	}
}

func TestCorrect_DoesNotMutate(t *testing.T) {
	times := []float64{59000}
	_, err := Correct(astro.Vec3{X: 1}, times, []astro.Vec3{{X: 1e8}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if times[0] != 59000 {
		t.Errorf("input mutated: %v", times)
	}
}

func TestCorrectPair_IndependentChannels(t *testing.T) {
	u := astro.Vec3{X: 1}
	times := []float64{59000, 59001}
	bary := []astro.Vec3{{X: 1e8}, {X: 2e8}}
	helio := []astro.Vec3{{X: -1e8}, {X: 0}}

	b, h, err := CorrectPair(u, times, bary, helio)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range times {
		if math.Abs(b[i]-times[i]-Delay(u, bary[i])) > 1e-12 {
			t.Errorf("bary[%d] mixed channels", i)
		}
		if math.Abs(h[i]-times[i]-Delay(u, helio[i])) > 1e-12 {
			t.Errorf("helio[%d] mixed channels", i)
		}
	}

	if _, _, err := CorrectPair(u, times, bary, helio[:1]); err == nil {
		t.Error("expected error for short heliocentric array")
	}
}
