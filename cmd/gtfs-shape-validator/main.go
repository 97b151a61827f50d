package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/theoremus-urban-solutions/gtfs-shape-validator/config"
	"github.com/theoremus-urban-solutions/gtfs-shape-validator/formatter"
	"github.com/theoremus-urban-solutions/gtfs-shape-validator/geometry"
	"github.com/theoremus-urban-solutions/gtfs-shape-validator/gtfsrt"
	"github.com/theoremus-urban-solutions/gtfs-shape-validator/internal"
	"github.com/theoremus-urban-solutions/gtfs-shape-validator/server"
	"github.com/theoremus-urban-solutions/gtfs-shape-validator/tracking"
	"github.com/theoremus-urban-solutions/gtfs-shape-validator/validation"
)

type flags struct {
	config           string
	mode             string
	feed             string
	gtfs             string
	vehiclePositions string
	format           string
	port             int
}

func main() {
	var f flags
	flag.StringVar(&f.config, "config", "", "config file (default: search config.yml)")
	flag.StringVar(&f.mode, "mode", "oneshot", "oneshot|serve")
	flag.StringVar(&f.feed, "feed", "", "feed name from config.feeds[]")
	flag.StringVar(&f.gtfs, "gtfs", "", "GTFS zip path or URL (overrides config)")
	flag.StringVar(&f.vehiclePositions, "vehiclePositions", "", "GTFS-RT VehiclePositions URL or file (overrides config)")
	flag.StringVar(&f.format, "format", "json", "json|yaml|geojson (oneshot)")
	flag.IntVar(&f.port, "port", 0, "HTTP port (serve, overrides config)")
	flag.Parse()

	os.Exit(run(prometheus.NewRegistry(), f))
}

func run(reg *prometheus.Registry, f flags) int {
	cfg, err := loadConfig(f.config)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	log := internal.InitLogging(cfg.Logging.Level, cfg.Logging.Format)

	feed, ok := cfg.SelectFeed(f.feed)
	if !ok && f.feed != "" {
		log.Error().Str("feed", f.feed).Msg("unknown feed")
		return 2
	}
	gtfsPath := firstNonEmpty(f.gtfs, feed.GTFS.Path, feed.GTFS.StaticURL)
	vpPath := firstNonEmpty(f.vehiclePositions, feed.GTFSRT.VehiclePositionsURL)
	if gtfsPath == "" {
		log.Error().Str("feed", f.feed).Msg("no GTFS source configured; pass -gtfs")
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	validator := validation.NewValidator(validation.Options{
		Workers:                cfg.Validation.Workers,
		SinglePoint:            geometry.ParseSinglePointPolicy(cfg.Validation.SinglePointPolicy),
		MaxDistortionRatio:     cfg.Validation.MaxDistortionRatio,
		MaxVehicleOffsetMeters: cfg.Validation.MaxVehicleOffsetMeters,
		Logger:                 log,
		Metrics:                validation.NewMetrics(reg),
	})
	fe := newFetcher(time.Duration(feed.GTFSRT.TimeoutMS) * time.Millisecond)
	load := func(ctx context.Context) (*validation.Session, error) {
		if !isURL(gtfsPath) {
			return validator.ValidateFile(ctx, gtfsPath)
		}
		data, err := fe.fetch(ctx, gtfsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to download GTFS: %w", err)
		}
		return validator.ValidateBytes(ctx, gtfsPath, data)
	}
	var snapshot server.SnapshotFunc
	if vpPath != "" {
		snapshot = func(ctx context.Context) (*gtfsrt.Snapshot, error) {
			data, err := fe.fetch(ctx, vpPath)
			if err != nil {
				return nil, err
			}
			return gtfsrt.ParseVehiclePositions(data)
		}
	}

	switch f.mode {
	case "oneshot":
		return oneshot(ctx, log, validator, load, snapshot, f.format)
	case "serve":
		port := cfg.Server.Port
		if f.port > 0 {
			port = f.port
		}
		srv := server.New(server.Options{
			Port:      port,
			Validator: validator,
			Load:      load,
			Vehicles:  snapshot,
			Gatherer:  reg,
			Logger:    log,
		})
		if err := srv.Refresh(ctx); err != nil {
			log.Error().Err(err).Msg("initial validation failed")
			return 1
		}
		if err := srv.ListenAndServe(ctx); err != nil {
			log.Error().Err(err).Msg("server error")
			return 1
		}
		return 0
	default:
		log.Error().Str("mode", f.mode).Msg("unknown mode")
		return 2
	}
}

func oneshot(ctx context.Context, log zerolog.Logger, v *validation.Validator, load server.LoadFunc, snapshot server.SnapshotFunc, format string) int {
	outFormat, err := formatter.ParseFormat(format)
	if err != nil {
		log.Error().Err(err).Msg("bad -format")
		return 2
	}
	session, err := load(ctx)
	if err != nil {
		log.Error().Err(err).Msg("validation aborted")
		return 1
	}

	var vehicles []tracking.Result
	if snapshot != nil && session.Results.LoadStatus == validation.LoadSuccess {
		if snap, err := snapshot(ctx); err != nil {
			log.Warn().Err(err).Msg("skipping vehicle check")
		} else {
			vehicles = v.CheckVehicles(session, snap)
		}
	}

	var out []byte
	switch outFormat {
	case formatter.FormatYAML:
		out, err = formatter.BuildYAML(session.Results)
	case formatter.FormatGeoJSON:
		out, err = formatter.BuildGeoJSON(session, vehicles)
	default:
		out, err = formatter.BuildJSON(session.Results)
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to render results")
		return 1
	}
	fmt.Println(string(out))

	if session.Results.LoadStatus != validation.LoadSuccess {
		return 1
	}
	return 0
}

func loadConfig(path string) (*config.AppConfig, error) {
	if path != "" {
		return config.Load(path)
	}
	if err := config.LoadAppConfig(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config.Parse(nil)
		}
		return nil, err
	}
	return &config.Config, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
