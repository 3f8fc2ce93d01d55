package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zsiec/facet/internal/config"
	"github.com/zsiec/facet/internal/decode"
	"github.com/zsiec/facet/internal/filter"
	"github.com/zsiec/facet/internal/group"
	"github.com/zsiec/facet/internal/logger"
	"github.com/zsiec/facet/internal/media"
	"github.com/zsiec/facet/internal/source"
	"github.com/zsiec/facet/pkg/version"
)

func main() {
	var (
		configPath  string
		showVersion bool
	)

	flag.StringVar(&configPath, "config", "configs/default.yaml", "Path to configuration file")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.Parse()

	// Show version and exit if requested
	if showVersion {
		fmt.Println(version.GetInfo().String())
		os.Exit(0)
	}

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <file.ts>\n", os.Args[0])
		os.Exit(2)
	}
	path := flag.Arg(0)

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logrusLogger, err := logger.New(&cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	log := logger.NewLogrusAdapter(logger.WithComponent(logrusLogger, "main"))

	log.WithField("version", version.GetInfo().Short()).Info("Starting Facet packet pipeline")
	log.WithFields(logger.Fields{
		"config_path": configPath,
		"input":       path,
		"mode":        cfg.Filter.Mode,
	}).Debug("Configuration loaded")

	// Start metrics server if enabled
	if cfg.Metrics.Enabled {
		go startMetricsServer(cfg.Metrics, log)
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
	}()

	pred := buildPredicate(&cfg.Filter)
	engine := decode.NewEngine(decode.DelayFactory{Depth: cfg.Decode.DelayDepth}, log)

	switch cfg.Filter.Mode {
	case "runs":
		err = runConsecutive(ctx, path, pred, engine, cfg, log)
	case "keyframe":
		err = runKeyframe(ctx, path, pred, engine, log)
	case "boundaries":
		err = runBoundaries(ctx, path, pred, cfg, log)
	default:
		err = fmt.Errorf("unknown filter mode %q", cfg.Filter.Mode)
	}
	if err != nil {
		log.WithError(err).Fatal("Pipeline error")
	}

	log.Info("Pipeline complete")
}

// buildPredicate assembles the packet predicate from the filter config.
// Disabled criteria contribute nothing.
func buildPredicate(cfg *config.FilterConfig) media.Predicate {
	var preds []media.Predicate
	if cfg.MinSize > 0 {
		preds = append(preds, media.SizeOver(cfg.MinSize-1))
	}
	if cfg.MaxSize > 0 {
		preds = append(preds, media.SizeUnder(cfg.MaxSize+1))
	}
	if cfg.MaxPTS > 0 {
		preds = append(preds, media.PTSRange(cfg.MinPTS, cfg.MaxPTS))
	} else if cfg.MinPTS > 0 {
		preds = append(preds, media.PTSAtLeast(cfg.MinPTS))
	}
	if cfg.KeyframeOnly {
		preds = append(preds, media.KeyframeOnly())
	}
	if len(preds) == 0 {
		return media.MatchAll()
	}
	return media.All(preds...)
}

// runConsecutive streams consecutive matching runs and decodes each run
// with a trailing flush.
func runConsecutive(ctx context.Context, path string, pred media.Predicate, engine *decode.Engine, cfg *config.Config, log logger.Logger) error {
	src, err := source.OpenTS(path, log)
	if err != nil {
		return err
	}
	defer src.Close()

	runs := filter.FilterConsecutive(filter.SingleStream(src.Demux()), pred)
	runIndex := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		run, err := runs.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		frameCount := 0
		dec := engine.GroupWithFlush(run, cfg.Decode.MaxPackets)
		for {
			entry, err := dec.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return err
			}
			frameCount += len(entry.Frames)
		}

		log.WithFields(logger.Fields{
			"run":    runIndex,
			"frames": frameCount,
		}).Info("Run decoded")
		runIndex++
	}
}

// runKeyframe groups packets at keyframe anchors and decodes each group.
func runKeyframe(ctx context.Context, path string, pred media.Predicate, engine *decode.Engine, log logger.Logger) error {
	src, err := source.OpenTS(path, log)
	if err != nil {
		return err
	}
	defer src.Close()

	groups := filter.GroupByKeyframe(src.Demux(), pred)
	groupIndex := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		packets, err := groups.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		frames := engine.DecodeAll(packets)
		log.WithFields(logger.Fields{
			"group":   groupIndex,
			"packets": len(packets),
			"frames":  len(frames),
		}).Info("Keyframe group decoded")
		groupIndex++
	}
}

// runBoundaries runs the two-pass flow: boundaries are scanned on one
// file handle while frames are resolved by seeking a second handle.
func runBoundaries(ctx context.Context, path string, pred media.Predicate, cfg *config.Config, log logger.Logger) error {
	scanSrc, err := source.OpenTS(path, log)
	if err != nil {
		return err
	}
	defer scanSrc.Close()

	seekSrc, err := source.OpenTS(path, log)
	if err != nil {
		return err
	}
	defer seekSrc.Close()

	resolver := group.NewResolver(seekSrc, decode.DelayFactory{Depth: cfg.Decode.DelayDepth}, log)
	groups := resolver.StreamGroups(scanSrc.Demux(), pred)
	groupIndex := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		frames, err := groups.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		log.WithFields(logger.Fields{
			"group":  groupIndex,
			"frames": len(frames),
		}).Info("Boundary group resolved")
		groupIndex++
	}
}

// startMetricsServer starts the Prometheus metrics server
func startMetricsServer(cfg config.MetricsConfig, log logger.Logger) {
	startTime := time.Now()

	router := mux.NewRouter()
	router.Handle(cfg.Path, promhttp.Handler())
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		response := struct {
			Status    string    `json:"status"`
			Timestamp time.Time `json:"timestamp"`
			Version   string    `json:"version"`
			Uptime    string    `json:"uptime"`
		}{
			Status:    "healthy",
			Timestamp: time.Now(),
			Version:   version.Version,
			Uptime:    time.Since(startTime).Round(time.Second).String(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(response); err != nil {
			log.WithError(err).Error("Failed to encode health response")
		}
	}).Methods(http.MethodGet)

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.WithField("addr", addr).Info("Starting metrics server")

	if err := http.ListenAndServe(addr, router); err != nil {
		log.WithError(err).Error("Metrics server error")
	}
}
