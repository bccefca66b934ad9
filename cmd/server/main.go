package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	router "github.com/dkeye/Sketch/internal/adapters/http"
	"github.com/dkeye/Sketch/internal/app"
	"github.com/dkeye/Sketch/internal/app/orch"
	"github.com/dkeye/Sketch/internal/auth"
	"github.com/dkeye/Sketch/internal/config"
	"github.com/dkeye/Sketch/internal/detect"
	"github.com/dkeye/Sketch/internal/store"
)

const shutdownTimeout = 5 * time.Second

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Logger first so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg)

	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
	log.Info().Msg("Server exited gracefully")
}

func setupLogger(cfg *config.Config) {
	if cfg.Mode == "release" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		log.Warn().Str("log_level", cfg.LogLevel).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

func run(ctx context.Context, cfg *config.Config) error {
	events, err := store.Open(cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := events.Close(); err != nil {
			log.Error().Err(err).Msg("close store")
		}
	}()

	policy, err := app.PolicyByName(cfg.Backpressure)
	if err != nil {
		return err
	}
	if cfg.JWTSecret == "" {
		log.Warn().Msg("jwt_secret is empty, every websocket handshake will be rejected")
	}

	reg := app.NewRegistry()
	metrics := app.NewMetrics(reg)
	o := &orch.Orchestrator{
		Registry:    reg,
		Rooms:       app.NewRoomManager(),
		Broadcaster: app.NewBroadcaster(reg),
		Policy:      policy,
		Store:       events,
		Detector: detect.NewClassifier(detect.Config{
			ResamplePoints: cfg.Detect.ResamplePoints,
			CanvasSize:     cfg.Detect.CanvasSize,
			Stroke:         cfg.Detect.Stroke,
		}),
		Metrics: metrics,
		Opts: orch.Options{
			PersistTimeout:      cfg.PersistTimeout,
			MinClassifyPoints:   cfg.Detect.MinPoints,
			CompletionThreshold: cfg.Detect.CompletionThreshold,
		},
	}

	api := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router.SetupRouter(ctx, cfg, o, auth.NewJWTVerifier(cfg.JWTSecret)),
	}
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", metrics.Handler())
	metricsSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.MetricsPort),
		Handler: metricsMux,
	}

	g, gctx := errgroup.WithContext(ctx)
	for name, srv := range map[string]*http.Server{"api": api, "metrics": metricsSrv} {
		name, srv := name, srv
		g.Go(func() error {
			log.Info().Str("server", name).Str("addr", srv.Addr).Msg("Sketch server started")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("%s server: %w", name, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		return errors.Join(api.Shutdown(shutdownCtx), metricsSrv.Shutdown(shutdownCtx))
	})
	return g.Wait()
}
