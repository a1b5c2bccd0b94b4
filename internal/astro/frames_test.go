package astro

import (
	"math"
	"testing"
)

func TestVec3Norm(t *testing.T) {
	tests := []struct {
		name string
		v    Vec3
		want float64
	}{
		{"zero", Vec3{0, 0, 0}, 0},
		{"unit x", Vec3{1, 0, 0}, 1},
		{"unit y", Vec3{0, 1, 0}, 1},
		{"unit z", Vec3{0, 0, 1}, 1},
		{"3-4-5", Vec3{3, 4, 0}, 5},
		{"negative", Vec3{-3, -4, 0}, 5},
		{"3D", Vec3{1, 2, 2}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.v.Norm()
			if math.Abs(got-tt.want) > 1e-10 {
				t.Errorf("Norm() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVec3Normalized(t *testing.T) {
	tests := []struct {
		name string
		v    Vec3
		want Vec3
	}{
		{"unit x", Vec3{5, 0, 0}, Vec3{1, 0, 0}},
		{"unit y", Vec3{0, 3, 0}, Vec3{0, 1, 0}},
		{"diagonal", Vec3{1, 1, 0}, Vec3{1 / math.Sqrt(2), 1 / math.Sqrt(2), 0}},
		{"zero", Vec3{0, 0, 0}, Vec3{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.v.Normalized()
			if math.Abs(got.X-tt.want.X) > 1e-10 ||
				math.Abs(got.Y-tt.want.Y) > 1e-10 ||
				math.Abs(got.Z-tt.want.Z) > 1e-10 {
				t.Errorf("Normalized() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVec3Dot(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, -5, 6}
	if got := a.Dot(b); got != 12 {
		t.Errorf("Dot() = %v, want 12", got)
	}
	if got := a.Dot(Vec3{}); got != 0 {
		t.Errorf("Dot(zero) = %v, want 0", got)
	}
}

func TestEclipticToEquatorial_Rotation(t *testing.T) {
	vectors := []Vec3{
		{1, 0, 0},
		{0, 1, 0},
		{0.3, -0.4, 0.866},
		{1.5e8, 2.0e7, -3.0e6},
	}

	for _, v := range vectors {
		got := EclipticToEquatorial(v)
		if math.Abs(got.Norm()-v.Norm()) > 1e-9*math.Max(1, v.Norm()) {
			t.Errorf("norm of %v changed: %v -> %v", v, v.Norm(), got.Norm())
		}
		if got.X != v.X {
			t.Errorf("X of %v changed to %v (rotation is about X)", v, got.X)
		}
	}
}

func TestEclipticPoleTilt(t *testing.T) {
	// The ecliptic north pole sits at Dec = 90 - obliquity.
	pole := EclipticToEquatorial(Vec3{0, 0, 1})
	dec := math.Asin(pole.Z) * 180 / math.Pi
	if math.Abs(dec-(90-23.4392794)) > 1e-5 {
		t.Errorf("ecliptic pole Dec = %v", dec)
	}
}

func TestLightTimeSeconds(t *testing.T) {
	// 1 AU is ~499.005 light seconds.
	got := LightTimeSeconds(AU)
	if math.Abs(got-499.004784) > 1e-5 {
		t.Errorf("LightTimeSeconds(AU) = %v", got)
	}
}
