package ephem

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/litescript/ls-barytime/internal/astro"
)

// fakeHorizons answers VECTORS requests with a fixed position per center.
func fakeHorizons(t *testing.T, vectors map[string]astro.Vec3, calls *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}
		q := r.URL.Query()
		center := strings.Trim(q.Get("CENTER"), "'")
		v, ok := vectors[center]
		if !ok {
			fmt.Fprintf(w, `{"error": "unknown center %s"}`, center)
			return
		}

		var rows strings.Builder
		for _, tok := range strings.Fields(strings.Trim(q.Get("TLIST"), "'")) {
			fmt.Fprintf(&rows, " %s, A.D. 2020-May-31 00:00:00.0000, %.9E, %.9E, %.9E,\\n", tok, v.X, v.Y, v.Z)
		}
		fmt.Fprintf(w, `{"signature":{"version":"1.2","source":"test"},"result":"header\n$$SOE\n%s$$EOE\nfooter"}`, rows.String())
	}))
}

func TestHorizonsService_ComputeBaryHelioTime(t *testing.T) {
	bary := astro.Vec3{X: 1.0e8, Y: 2.0e7, Z: -3.0e6}
	helio := astro.Vec3{X: 9.9e7, Y: 2.1e7, Z: -3.1e6}
	srv := fakeHorizons(t, map[string]astro.Vec3{"@0": bary, "@10": helio}, nil)
	defer srv.Close()

	svc := NewHorizonsService(HorizonsConfig{BaseURL: srv.URL, Timeout: 5 * time.Second})
	target := astro.SkyCoord{RAdeg: 30, DecDeg: 45}
	times := []float64{59000.0, 59000.5}

	b, h, err := svc.ComputeBaryHelioTime(context.Background(), target, times)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	u := target.UnitVector()
	for i, tt := range times {
		wantB := tt + u.Dot(bary)/astro.SpeedOfLight/astro.SecondsPerDay
		wantH := tt + u.Dot(helio)/astro.SpeedOfLight/astro.SecondsPerDay
		// Vectors travel through %.9E text, so allow ~1e-9 relative error.
		if math.Abs(b[i]-wantB) > 1e-9 {
			t.Errorf("bary[%d] = %.12f, want %.12f", i, b[i], wantB)
		}
		if math.Abs(h[i]-wantH) > 1e-9 {
			t.Errorf("helio[%d] = %.12f, want %.12f", i, h[i], wantH)
		}
	}
}

func TestHorizonsService_Cache(t *testing.T) {
	var calls int32
	srv := fakeHorizons(t, map[string]astro.Vec3{"@0": {X: 1}}, &calls)
	defer srv.Close()

	svc := NewHorizonsService(HorizonsConfig{BaseURL: srv.URL})
	ctx := context.Background()

	if _, err := svc.Vectors(ctx, "@0", []float64{59000, 59001}); err != nil {
		t.Fatalf("first query: %v", err)
	}
	if _, err := svc.Vectors(ctx, "@0", []float64{59001, 59000}); err != nil {
		t.Fatalf("second query: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("requests = %d, want 1 (second query should be cached)", got)
	}
}

func TestHorizonsService_Batches(t *testing.T) {
	var calls int32
	srv := fakeHorizons(t, map[string]astro.Vec3{"@0": {X: 1}}, &calls)
	defer srv.Close()

	svc := NewHorizonsService(HorizonsConfig{BaseURL: srv.URL})
	times := make([]float64, horizonsBatchSize*2+3)
	for i := range times {
		times[i] = 59000 + float64(i)/1440
	}

	vecs, err := svc.Vectors(context.Background(), "@0", times)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vecs) != len(times) {
		t.Fatalf("len = %d, want %d", len(vecs), len(times))
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("requests = %d, want 3", got)
	}
}

func TestHorizonsService_ProbeUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	svc := NewHorizonsService(HorizonsConfig{BaseURL: srv.URL})
	err := svc.Probe(context.Background())
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Errorf("err = %v, want ErrServiceUnavailable", err)
	}
}

func TestHorizonsService_ComputeFailuresAreUnavailable(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"status 503", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "maintenance", http.StatusServiceUnavailable)
		}},
		{"status 500", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"api error", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"error": "server busy"}`)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			svc := NewHorizonsService(HorizonsConfig{BaseURL: srv.URL})
			_, _, err := svc.ComputeBaryHelioTime(context.Background(), astro.SkyCoord{RAdeg: 30, DecDeg: 45}, []float64{59000})
			if !errors.Is(err, ErrServiceUnavailable) {
				t.Errorf("err = %v, want ErrServiceUnavailable", err)
			}
		})
	}

	t.Run("connection refused", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		addr := srv.URL
		srv.Close()

		svc := NewHorizonsService(HorizonsConfig{BaseURL: addr})
		_, _, err := svc.ComputeBaryHelioTime(context.Background(), astro.SkyCoord{RAdeg: 30, DecDeg: 45}, []float64{59000})
		if !errors.Is(err, ErrServiceUnavailable) {
			t.Errorf("err = %v, want ErrServiceUnavailable", err)
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		srv := fakeHorizons(t, map[string]astro.Vec3{"@0": {X: 1}}, nil)
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		svc := NewHorizonsService(HorizonsConfig{BaseURL: srv.URL})
		_, _, err := svc.ComputeBaryHelioTime(ctx, astro.SkyCoord{RAdeg: 30, DecDeg: 45}, []float64{59000})
		if errors.Is(err, ErrServiceUnavailable) || !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled only", err)
		}
	})
}

func TestHorizonsService_ProbeOK(t *testing.T) {
	srv := fakeHorizons(t, map[string]astro.Vec3{"@0": {X: 1}}, nil)
	defer srv.Close()

	svc := NewHorizonsService(HorizonsConfig{BaseURL: srv.URL})
	if err := svc.Probe(context.Background()); err != nil {
		t.Errorf("Probe() = %v, want nil", err)
	}
}

func TestHorizonsService_InvalidTarget(t *testing.T) {
	svc := NewHorizonsService(HorizonsConfig{BaseURL: "http://127.0.0.1:0"})
	_, _, err := svc.ComputeBaryHelioTime(context.Background(), astro.SkyCoord{DecDeg: 95}, []float64{59000})
	if !errors.Is(err, astro.ErrInvalidCoordinate) {
		t.Errorf("err = %v, want ErrInvalidCoordinate", err)
	}
}

func TestParseVectorResponse(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    int
		wantErr bool
	}{
		{
			name: "two rows",
			body: `{"result":"$$SOE\n2459000.5, A.D. 2020-May-31 00:00:00.0000, 1.0E+06, -2.0E+06, 3.0E+05,\n2459001.5, A.D. 2020-Jun-01 00:00:00.0000, 1.1E+06, -2.1E+06, 3.1E+05,\n$$EOE"}`,
			want: 2,
		},
		{name: "api error", body: `{"error":"No ephemeris for target"}`, wantErr: true},
		{name: "no markers", body: `{"result":"nothing"}`, wantErr: true},
		{name: "bad json", body: `not json`, wantErr: true},
		{
			name:    "bad number",
			body:    `{"result":"$$SOE\n2459000.5, A.D. x, abc, 1, 2,\n$$EOE"}`,
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			vecs, err := parseVectorResponse([]byte(tc.body))
			if tc.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(vecs) != tc.want {
				t.Errorf("len = %d, want %d", len(vecs), tc.want)
			}
		})
	}
}

func TestParseVectorCSV(t *testing.T) {
	v, err := parseVectorCSV("2459000.500800741, A.D. 2020-May-31 00:01:09.1840, -5.0E+07, 1.3E+08, 5.8E+07,")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := astro.Vec3{X: -5.0e7, Y: 1.3e8, Z: 5.8e7}
	if v != want {
		t.Errorf("parseVectorCSV() = %v, want %v", v, want)
	}

	if _, err := parseVectorCSV("2459000.5, A.D."); err == nil {
		t.Error("expected error for short row")
	}
}

func TestHorizonsService_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	svc := NewHorizonsService(HorizonsConfig{Platform: NAIFJWST})
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := svc.Probe(ctx); err != nil {
		t.Skipf("Horizons not reachable: %v", err)
	}

	b, h, err := svc.ComputeBaryHelioTime(ctx, astro.SkyCoord{RAdeg: 30, DecDeg: 45}, []float64{60000})
	if err != nil {
		t.Fatalf("ComputeBaryHelioTime: %v", err)
	}
	// Light time across 1 AU is at most ~0.0058 days.
	for _, v := range []float64{b[0], h[0]} {
		if math.Abs(v-60000) > 0.006 {
			t.Errorf("correction %.6f days too large", v-60000)
		}
	}
}
