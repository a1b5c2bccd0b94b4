// Package config loads ls-barytime settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/litescript/ls-barytime/internal/ephem"
)

// Prefix is the environment variable prefix, e.g. BARYTIME_EPHEMERIS.
const Prefix = "BARYTIME"

// Precise-service modes.
const (
	ServiceAuto     = "auto"     // probe Horizons, fall back when unavailable
	ServiceHorizons = "horizons" // require Horizons; unavailability is fatal
	ServiceOff      = "off"      // always use the fallback
)

// Config holds all runtime settings.
type Config struct {
	Ephemeris   string        `envconfig:"EPHEMERIS" default:"default"`
	JPLFile     string        `envconfig:"JPL_FILE"`
	Service     string        `envconfig:"SERVICE" default:"auto"`
	HorizonsURL string        `envconfig:"HORIZONS_URL" default:"https://ssd.jpl.nasa.gov/api/horizons.api"`
	Platform    string        `envconfig:"PLATFORM" default:"JWST"`
	Timeout     time.Duration `envconfig:"TIMEOUT" default:"30s"`
	LogLevel    string        `envconfig:"LOG_LEVEL" default:"info"`
	MetricsFile string        `envconfig:"METRICS_FILE"`
}

// Load reads the configuration from BARYTIME_* environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// Precision returns the parsed ephemeris precision.
func (c Config) Precision() (ephem.Precision, error) {
	return ephem.ParsePrecision(strings.ToLower(c.Ephemeris))
}

// PlatformInfo resolves the configured platform.
func (c Config) PlatformInfo() (ephem.PlatformInfo, error) {
	info, ok := ephem.LookupPlatform(c.Platform)
	if !ok {
		return ephem.PlatformInfo{}, fmt.Errorf("unknown platform %q", c.Platform)
	}
	return info, nil
}

// Validate rejects inconsistent settings.
func (c Config) Validate() error {
	p, err := c.Precision()
	if err != nil {
		return err
	}
	if p == ephem.PrecisionJPL && c.JPLFile == "" {
		return fmt.Errorf("ephemeris %q requires %s_JPL_FILE or --jpl-file", p, Prefix)
	}

	switch c.Service {
	case ServiceAuto, ServiceHorizons:
		if c.HorizonsURL == "" {
			return fmt.Errorf("service %q requires a Horizons URL", c.Service)
		}
	case ServiceOff:
	default:
		return fmt.Errorf("unknown service mode %q (want auto, horizons or off)", c.Service)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if _, err := c.PlatformInfo(); err != nil {
		return err
	}
	return nil
}
