package ephem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/litescript/ls-barytime/internal/astro"
	"github.com/litescript/ls-barytime/internal/lighttime"
)

const (
	// HorizonsAPIURL is the JPL Horizons JSON API endpoint.
	HorizonsAPIURL = "https://ssd.jpl.nasa.gov/api/horizons.api"

	// RequestTimeout is the default HTTP request timeout.
	RequestTimeout = 30 * time.Second

	// horizonsBatchSize bounds the TLIST length of one request.
	horizonsBatchSize = 50

	centerBarycenter = "@0"
	centerSun        = "@10"

	// probeMJD is a TT epoch inside the coverage of every supported platform
	// ephemeris (2023-02-25).
	probeMJD = 60000.0
)

// HorizonsConfig configures the Horizons precise service.
type HorizonsConfig struct {
	BaseURL  string
	Platform TargetID
	Timeout  time.Duration
}

// HorizonsService queries JPL Horizons for the platform's barycentric and
// heliocentric state vectors and applies the light-time correction.
type HorizonsService struct {
	client   *http.Client
	baseURL  string
	platform TargetID

	// Vector cache keyed by center and epoch
	mu    sync.RWMutex
	cache map[vectorKey]astro.Vec3
}

type vectorKey struct {
	center string
	mjdTT  float64
}

// NewHorizonsService creates a new Horizons API client.
func NewHorizonsService(cfg HorizonsConfig) *HorizonsService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = HorizonsAPIURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = RequestTimeout
	}
	if cfg.Platform == 0 {
		cfg.Platform = NAIFJWST
	}
	return &HorizonsService{
		client:   &http.Client{Timeout: cfg.Timeout},
		baseURL:  cfg.BaseURL,
		platform: cfg.Platform,
		cache:    make(map[vectorKey]astro.Vec3),
	}
}

// Name implements PreciseService.
func (s *HorizonsService) Name() string {
	return "Horizons"
}

// Probe implements PreciseService.
func (s *HorizonsService) Probe(ctx context.Context) error {
	if _, err := s.queryVectors(ctx, centerBarycenter, []float64{probeMJD}); err != nil {
		if !errors.Is(err, ErrServiceUnavailable) {
			err = fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
		}
		return err
	}
	return nil
}

// ComputeBaryHelioTime implements PreciseService.
func (s *HorizonsService) ComputeBaryHelioTime(ctx context.Context, target astro.SkyCoord, timesTT []float64) ([]float64, []float64, error) {
	if err := target.Validate(); err != nil {
		return nil, nil, err
	}
	u := target.UnitVector()

	baryVecs, err := s.Vectors(ctx, centerBarycenter, timesTT)
	if err != nil {
		return nil, nil, err
	}
	helioVecs, err := s.Vectors(ctx, centerSun, timesTT)
	if err != nil {
		return nil, nil, err
	}

	return lighttime.CorrectPair(u, timesTT, baryVecs, helioVecs)
}

// Vectors returns the platform position relative to center ("@0" or "@10")
// at each TT epoch, km, equatorial ICRF. Results are cached.
func (s *HorizonsService) Vectors(ctx context.Context, center string, timesTT []float64) ([]astro.Vec3, error) {
	out := make([]astro.Vec3, len(timesTT))
	var missing []int

	s.mu.RLock()
	for i, t := range timesTT {
		if v, ok := s.cache[vectorKey{center, t}]; ok {
			out[i] = v
		} else {
			missing = append(missing, i)
		}
	}
	s.mu.RUnlock()

	for start := 0; start < len(missing); start += horizonsBatchSize {
		end := start + horizonsBatchSize
		if end > len(missing) {
			end = len(missing)
		}
		idx := missing[start:end]

		batch := make([]float64, len(idx))
		for j, i := range idx {
			batch[j] = timesTT[i]
		}

		vecs, err := s.queryVectors(ctx, center, batch)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		for j, i := range idx {
			out[i] = vecs[j]
			s.cache[vectorKey{center, timesTT[i]}] = vecs[j]
		}
		s.mu.Unlock()
	}

	return out, nil
}

// queryVectors makes one VECTORS request to the Horizons API. Transport
// failures, non-200 replies and API errors wrap ErrServiceUnavailable;
// context cancellation does not.
func (s *HorizonsService) queryVectors(ctx context.Context, center string, timesTT []float64) ([]astro.Vec3, error) {
	tlist := make([]string, len(timesTT))
	for i, t := range timesTT {
		tlist[i] = strconv.FormatFloat(t, 'f', 9, 64)
	}

	// Values must be quoted with single quotes
	params := url.Values{}
	params.Set("format", "json")
	params.Set("COMMAND", fmt.Sprintf("'%d'", s.platform))
	params.Set("OBJ_DATA", "NO")
	params.Set("MAKE_EPHEM", "YES")
	params.Set("EPHEM_TYPE", "VECTORS")
	params.Set("CENTER", fmt.Sprintf("'%s'", center))
	params.Set("REF_SYSTEM", "ICRF")
	params.Set("REF_PLANE", "FRAME") // Earth mean equator, ICRF axes
	params.Set("VEC_TABLE", "'1'")   // Position only
	params.Set("VEC_CORR", "'NONE'") // Geometric states
	params.Set("VEC_LABELS", "NO")
	params.Set("CSV_FORMAT", "YES")
	params.Set("OUT_UNITS", "'KM-S'")
	params.Set("TIME_TYPE", "TT")
	params.Set("TLIST_TYPE", "MJD")
	params.Set("TLIST", fmt.Sprintf("'%s'", strings.Join(tlist, " ")))

	reqURL := s.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build horizons request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: horizons request failed: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrServiceUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: horizons returned status %d: %s",
			ErrServiceUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	vecs, err := parseVectorResponse(body)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(timesTT) {
		return nil, fmt.Errorf("horizons returned %d vectors for %d epochs", len(vecs), len(timesTT))
	}
	return vecs, nil
}

// horizonsResponse represents the JSON API response.
type horizonsResponse struct {
	Signature struct {
		Version string `json:"version"`
		Source  string `json:"source"`
	} `json:"signature"`
	Result string `json:"result"`
	Error  string `json:"error"`
}

// parseVectorResponse parses the Horizons JSON response for CSV vector data.
func parseVectorResponse(body []byte) ([]astro.Vec3, error) {
	var resp horizonsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("%w: horizons error: %s", ErrServiceUnavailable, strings.TrimSpace(resp.Error))
	}

	// Find the data section between $$SOE and $$EOE markers
	soeIdx := strings.Index(resp.Result, "$$SOE")
	eoeIdx := strings.Index(resp.Result, "$$EOE")
	if soeIdx == -1 || eoeIdx == -1 || soeIdx >= eoeIdx {
		return nil, fmt.Errorf("could not find vector data markers")
	}

	var vecs []astro.Vec3
	for _, line := range strings.Split(resp.Result[soeIdx+5:eoeIdx], "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		v, err := parseVectorCSV(line)
		if err != nil {
			return nil, err
		}
		vecs = append(vecs, v)
	}

	return vecs, nil
}

// parseVectorCSV parses one CSV row (VEC_TABLE='1', no labels):
// 2459000.500800741, A.D. 2020-May-31 00:01:09.1840, -5.0E+07, 1.3E+08, 5.8E+07,
func parseVectorCSV(line string) (astro.Vec3, error) {
	fields := strings.Split(line, ",")
	if len(fields) < 5 {
		return astro.Vec3{}, fmt.Errorf("insufficient fields: %d", len(fields))
	}

	var xyz [3]float64
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(fields[2+i]), 64)
		if err != nil {
			return astro.Vec3{}, fmt.Errorf("parse vector component %q: %w", fields[2+i], err)
		}
		xyz[i] = v
	}

	return astro.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}
