package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joeycumines/go-eventfd"
	"github.com/joeycumines/go-eventfd/eventfdprom"
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

type config struct {
	logLevel    string
	metricsAddr string
	timeout     time.Duration
	writers     int
	readers     int
	posts       int
	capacity    int
	semaphore   bool
	poll        bool
}

func newRootCommand() *cobra.Command {
	var cfg config
	cmd := &cobra.Command{
		Use:   "eventfd-stress",
		Short: "Stress an event object with concurrent writers and readers",
		Long: `Create an event object, post to it from concurrent writers, and drain it
from concurrent readers, verifying that every posted unit is received exactly
once.

Readers either block in read, or (with --poll) switch the object to
non-blocking mode, and wait for readiness using the poll multiplexer.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfg)
		},
	}
	flags := cmd.Flags()
	flags.IntVar(&cfg.writers, "writers", 4, "number of concurrent writers")
	flags.IntVar(&cfg.readers, "readers", 2, "number of concurrent readers")
	flags.IntVar(&cfg.posts, "posts", 10000, "number of posts (of 1) per writer")
	flags.IntVar(&cfg.capacity, "capacity", eventfd.DefaultCapacity, "pool capacity")
	flags.BoolVar(&cfg.semaphore, "semaphore", false, "create the object in semaphore mode")
	flags.BoolVar(&cfg.poll, "poll", false, "readers wait using poll, in non-blocking mode")
	flags.DurationVar(&cfg.timeout, "timeout", time.Minute, "overall time limit")
	flags.StringVar(&cfg.metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address, and keep running after the stress completes")
	flags.StringVar(&cfg.logLevel, "log-level", "info", "log level (err|warning|info|debug|trace)")
	return cmd
}

func run(ctx context.Context, cfg config) error {
	if cfg.writers <= 0 || cfg.readers <= 0 || cfg.posts <= 0 {
		return errors.New("writers, readers, and posts must be positive")
	}

	level, err := parseLevel(cfg.logLevel)
	if err != nil {
		return err
	}
	logger := stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(os.Stderr)),
		stumpy.L.WithLevel(level),
	).Logger()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	pool, err := eventfd.NewPool(
		eventfd.WithCapacity(cfg.capacity),
		eventfd.WithLogger(logger),
		eventfd.WithMetrics(true),
	)
	if err != nil {
		return err
	}

	if cfg.metricsAddr != "" {
		registry := prometheus.NewRegistry()
		registry.MustRegister(eventfdprom.NewCollector(pool, "", nil))
		server := &http.Server{
			Addr:              cfg.metricsAddr,
			Handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Err().Err(err).Log("metrics server failed")
			}
		}()
		defer server.Close()
		logger.Info().Str("addr", cfg.metricsAddr).Log("serving metrics")
	}

	result, err := stress(ctx, pool, logger, cfg)
	if err != nil {
		return err
	}

	stats := pool.Stats()
	logger.Info().
		Uint64("posted", result.posted).
		Uint64("received", result.received).
		Int("reads", result.reads).
		Dur("elapsed", result.elapsed).
		Float64("posts_per_sec", float64(result.posted)/result.elapsed.Seconds()).
		Uint64("read_waits", stats.ReadWaits).
		Uint64("would_block", stats.WouldBlock).
		Dur("wait_p99", stats.Wait.P99).
		Log("stress complete")

	if result.posted != result.received {
		return fmt.Errorf("lost updates: posted %d, received %d", result.posted, result.received)
	}

	if cfg.metricsAddr != "" {
		<-ctx.Done()
	}
	return nil
}

func parseLevel(s string) (logiface.Level, error) {
	switch strings.ToLower(s) {
	case "err", "error":
		return logiface.LevelError, nil
	case "warning", "warn":
		return logiface.LevelWarning, nil
	case "info":
		return logiface.LevelInformational, nil
	case "debug":
		return logiface.LevelDebug, nil
	case "trace":
		return logiface.LevelTrace, nil
	default:
		return logiface.LevelDisabled, fmt.Errorf("unknown log level %q", s)
	}
}
