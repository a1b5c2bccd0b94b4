package ephem

import (
	"math"
	"testing"

	"github.com/litescript/ls-barytime/internal/astro"
)

func TestBuiltinEphemeris_EarthSunDistance(t *testing.T) {
	b := NewBuiltinEphemeris()

	tests := []struct {
		name  string
		mjd   float64
		wantR float64 // AU
		tol   float64
	}{
		{"J2000 near perihelion", 51544.5, 0.98333, 0.0005},
		{"2020 aphelion", 59035.0, 1.01669, 0.0005},
		{"2024 perihelion", 60313.0, 0.98331, 0.0005},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			earth, sun, err := b.BarycentricEarthSun(tt.mjd)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			r := earth.Sub(sun).Norm() / astro.AU
			if math.Abs(r-tt.wantR) > tt.tol {
				t.Errorf("Sun-Earth distance = %.5f AU, want %.5f", r, tt.wantR)
			}
		})
	}
}

func TestBuiltinEphemeris_ReferenceVectors(t *testing.T) {
	// SOFA iauEpv00 at TDB JD 2400000.5 + 53411.52501161, equatorial BCRS, AU.
	const mjd = 53411.52501161
	wantBary := astro.Vec3{X: -0.7714104440491111971, Y: 0.5598412061824171323, Z: 0.2425996277722452400}.Scale(astro.AU)
	wantHelio := astro.Vec3{X: -0.7757238809297706813, Y: 0.5598052241363340596, Z: 0.2426998466481686993}.Scale(astro.AU)

	earth, sun, err := NewBuiltinEphemeris().BarycentricEarthSun(mjd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name  string
		got   astro.Vec3
		want  astro.Vec3
		tolKm float64
	}{
		{"barycentric Earth", earth, wantBary, 5000},
		{"heliocentric Earth", earth.Sub(sun), wantHelio, 6000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.got.Sub(tt.want).Norm()
			if d > tt.tolKm {
				t.Errorf("error = %.0f km (%.1f ms light time), want <= %.0f km",
					d, astro.LightTimeSeconds(d)*1000, tt.tolKm)
			}
		})
	}
}

func TestBuiltinEphemeris_EarthDirection(t *testing.T) {
	// At J2000 the Sun is at RA 281.3 Dec -23.0, so the Sun->Earth vector
	// points to RA 101.3 Dec +23.0.
	b := NewBuiltinEphemeris()
	earth, sun, _ := b.BarycentricEarthSun(51544.5)
	dir := earth.Sub(sun).Normalized()

	ra := math.Atan2(dir.Y, dir.X) * 180 / math.Pi
	if ra < 0 {
		ra += 360
	}
	dec := math.Asin(dir.Z) * 180 / math.Pi

	if math.Abs(ra-101.3) > 0.1 {
		t.Errorf("RA = %.3f, want ~101.3", ra)
	}
	if math.Abs(dec-23.0) > 0.1 {
		t.Errorf("Dec = %.3f, want ~23.0", dec)
	}
}

func TestBuiltinEphemeris_SunOffset(t *testing.T) {
	b := NewBuiltinEphemeris()

	for mjd := 50000.0; mjd < 62000; mjd += 500 {
		_, sun, err := b.BarycentricEarthSun(mjd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// The Sun never strays more than ~2.2 solar radii from the barycenter.
		r := sun.Norm()
		if r <= 0 || r > 1.6e6 {
			t.Errorf("MJD %v: |sun| = %.0f km", mjd, r)
		}
	}
}

func TestBuiltinEphemeris_Continuity(t *testing.T) {
	b := NewBuiltinEphemeris()
	e1, _, _ := b.BarycentricEarthSun(59000.0)
	e2, _, _ := b.BarycentricEarthSun(59000.0 + 1.0/1440)

	// Earth moves ~30 km/s, so ~1800 km per minute.
	d := e2.Sub(e1).Norm()
	if d < 1500 || d > 2100 {
		t.Errorf("one-minute displacement = %.1f km", d)
	}
}

func TestSolveKepler(t *testing.T) {
	for _, e := range []float64{0, 0.0167, 0.2, 0.6} {
		for M := -3.0; M <= 3.0; M += 0.5 {
			E := solveKepler(M, e)
			if math.Abs(E-e*math.Sin(E)-M) > 1e-10 {
				t.Errorf("solveKepler(%v, %v) = %v does not satisfy Kepler", M, e, E)
			}
		}
	}
}

func TestMoonDistance(t *testing.T) {
	for T := -0.5; T <= 0.5; T += 0.0137 {
		d := moonGeocentricKm(T).Norm()
		if d < 350000 || d > 420000 {
			t.Errorf("T=%v: Moon distance %.0f km out of range", T, d)
		}
	}
}
