// Command ls-barytime converts exposure timestamps from UTC to barycentric
// TDB and writes the BJD_TDB columns back in place.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/ls-barytime/internal/config"
	"github.com/litescript/ls-barytime/internal/ephem"
	"github.com/litescript/ls-barytime/internal/logging"
	"github.com/litescript/ls-barytime/internal/metrics"
	"github.com/litescript/ls-barytime/internal/tdb"
	"github.com/litescript/ls-barytime/internal/ui"
	"github.com/litescript/ls-barytime/internal/version"
)

// CLI flags that are not part of the environment config
var (
	jsonPath    string
	interactive bool
	dryRun      bool
	showVersion bool
	maxRows     int
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}

	// Environment values become flag defaults
	flag.StringVar(&cfg.Ephemeris, "ephemeris", cfg.Ephemeris, "Solar-system ephemeris for the fallback path (default, jpl)")
	flag.StringVar(&cfg.JPLFile, "jpl-file", cfg.JPLFile, "JPL DE binary ephemeris file (for --ephemeris jpl)")
	flag.StringVar(&cfg.Service, "service", cfg.Service, "Precise service mode (auto, horizons, off)")
	flag.StringVar(&cfg.HorizonsURL, "horizons-url", cfg.HorizonsURL, "JPL Horizons API endpoint")
	flag.StringVar(&cfg.Platform, "platform", cfg.Platform, "Observing platform code, name or NAIF ID")
	flag.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Horizons request timeout")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flag.StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile, "Write Prometheus metrics to this textfile")
	flag.StringVar(&jsonPath, "json", "", "Export results as JSON to file (use - for stdout)")
	flag.BoolVar(&interactive, "interactive", false, "Browse results interactively (TTY only)")
	flag.BoolVar(&dryRun, "dry-run", false, "Convert without writing BJD_TDB columns back")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.IntVar(&maxRows, "max-rows", ui.DefaultMaxRows, "Rows printed per file in the report (0 for all)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: ls-barytime [flags] FILE...\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("ls-barytime v%s\n", version.Version)
		return
	}
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}
	if err := checkOutputFlags(jsonPath, interactive); err != nil {
		fatal(err)
	}

	logger := logging.New(logging.ParseLevel(cfg.LogLevel))

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	rec, err := metrics.NewRecorder(nil)
	if err != nil {
		fatal(err)
	}

	sel, err := buildStrategy(ctx, cfg, logger)
	if err != nil {
		fatal(err)
	}
	rec.StrategySelected(sel.strategy.Name())

	conv := tdb.NewConverter(sel.strategy, tdb.Options{DryRun: dryRun, Fallback: sel.fallback, Metrics: rec})
	reports, failed := processFiles(ctx, conv, flag.Args(), logger, rec)
	sel.close()

	if err := writeOutputs(reports, logger); err != nil {
		logger.Error("%v", err)
		failed = true
	}

	if err := rec.WriteTextfile(cfg.MetricsFile); err != nil {
		logger.Error("%v", err)
	}

	if failed {
		os.Exit(1)
	}
}

// checkOutputFlags rejects flag combinations that compete for stdout.
func checkOutputFlags(jsonPath string, interactive bool) error {
	if interactive && jsonPath == "-" {
		return errors.New("--interactive cannot be combined with --json - (both use stdout); write the JSON to a file instead")
	}
	return nil
}

// selection is the strategy used for this run. fallback is set when the
// precise strategy may hand over to it mid-run.
type selection struct {
	strategy tdb.Strategy
	fallback *tdb.FallbackStrategy
	close    func()
}

// buildStrategy opens the solar-system ephemeris and selects the strategy
// used for every file in this run. Horizons is queried at most once here.
func buildStrategy(ctx context.Context, cfg config.Config, logger *logging.Logger) (selection, error) {
	precision, err := cfg.Precision()
	if err != nil {
		return selection{}, err
	}
	solar, err := ephem.OpenSolarSystem(precision, cfg.JPLFile)
	if err != nil {
		return selection{}, err
	}
	closeSolar := func() {
		if c, ok := solar.(io.Closer); ok {
			_ = c.Close()
		}
	}
	fallback := &tdb.FallbackStrategy{Provider: ephem.NewFallbackProvider(solar)}

	if cfg.Service == config.ServiceOff {
		return selection{strategy: tdb.SelectStrategy(ctx, nil, fallback, logger), close: closeSolar}, nil
	}

	info, err := cfg.PlatformInfo()
	if err != nil {
		closeSolar()
		return selection{}, err
	}
	horizons := ephem.NewHorizonsService(ephem.HorizonsConfig{
		BaseURL:  cfg.HorizonsURL,
		Platform: info.NAIFID,
		Timeout:  cfg.Timeout,
	})
	logger.Debug("Platform %s (NAIF %d)", info.Name, info.NAIFID)

	if cfg.Service == config.ServiceHorizons {
		if err := horizons.Probe(ctx); err != nil {
			closeSolar()
			return selection{}, err
		}
		logger.Debug("Using the %s service.", horizons.Name())
		return selection{strategy: &tdb.PreciseStrategy{Service: horizons}, close: closeSolar}, nil
	}

	return selection{
		strategy: tdb.SelectStrategy(ctx, horizons, fallback, logger),
		fallback: fallback,
		close:    closeSolar,
	}, nil
}

func processFiles(ctx context.Context, conv *tdb.Converter, paths []string, logger *logging.Logger, rec *metrics.Recorder) ([]tdb.FileReport, bool) {
	reports := make([]tdb.FileReport, 0, len(paths))
	failed := false

	for _, path := range paths {
		if ctx.Err() != nil {
			logger.Warn("Interrupted; %d file(s) not processed", len(paths)-len(reports))
			failed = true
			break
		}

		sink := logger.Scoped(filepath.Base(path))
		res, err := conv.ProcessFile(ctx, path, sink)
		if err != nil {
			logger.Error("%s: %v", path, err)
			failed = true
		}

		rec.AddNotices(sink.Warnings())
		reports = append(reports, tdb.FileReport{
			Path:    path,
			Result:  res,
			Err:     err,
			Notices: sink.Warnings(),
		})
	}
	return reports, failed
}

func writeOutputs(reports []tdb.FileReport, logger *logging.Logger) error {
	if jsonPath != "" {
		if err := exportJSON(reports); err != nil {
			return err
		}
	}

	stdoutTTY := term.IsTerminal(int(os.Stdout.Fd()))
	if interactive {
		if stdoutTTY {
			p := tea.NewProgram(ui.NewBrowser(reports), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("running browser: %w", err)
			}
			return nil
		}
		logger.Warn("--interactive needs a terminal; printing the report instead")
	}

	// JSON on stdout replaces the report
	if jsonPath == "-" {
		return nil
	}
	report := ui.NewReport(os.Stdout)
	report.MaxRows = maxRows
	fmt.Print(report.Render(reports))
	return nil
}

func exportJSON(reports []tdb.FileReport) error {
	if jsonPath == "-" {
		return tdb.WriteJSON(os.Stdout, reports)
	}

	f, err := os.Create(jsonPath)
	if err != nil {
		return fmt.Errorf("create JSON export: %w", err)
	}
	if err := tdb.WriteJSON(f, reports); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close JSON export: %w", err)
	}
	return nil
}

func fatal(err error) {
	var unavailable string
	if errors.Is(err, ephem.ErrServiceUnavailable) {
		unavailable = " (use --service auto to fall back)"
	}
	fmt.Fprintf(os.Stderr, "Error: %v%s\n", err, unavailable)
	os.Exit(1)
}
