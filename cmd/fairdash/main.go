package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"fairdash/internal/amqp"
	"fairdash/internal/backend"
	"fairdash/internal/charts"
	"fairdash/internal/config"
	"fairdash/internal/core"
	apphttp "fairdash/internal/http"
	"fairdash/internal/log"
	"fairdash/internal/services"
	"fairdash/internal/source"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()

	logConfig := log.DefaultConfig()
	logConfig.Format = cfg.LogFormat
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logConfig.Level = level
	}
	logger := log.New(logConfig)
	log.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("Server stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

func run(cfg *config.Config, logger *log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backendConfig, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendConfig)
	if err != nil {
		return err
	}
	defer func() {
		if err := result.Close(); err != nil {
			logger.Warn("Failed to close summary source", log.FieldBackend, cfg.DataBackend, log.FieldError, err)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)

	var notifier services.FailureNotifier
	if cfg.AMQPEnabled() {
		client := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err := client.Connect(); err != nil {
			logger.Warn("AMQP broker unreachable at startup, will retry on first notice", log.FieldError, err)
		}
		defer client.Close()

		n := amqp.NewNotifier(client, cfg.DataBackend, logger)
		g.Go(func() error { return n.Run(gctx) })
		notifier = n
		logger.Info("Fetch failure notices enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	fetcher := services.NewFetcher(result.Reader, cfg.DataBackend, notifier, logger)
	dashboard := services.NewDashboardService(fetcher, charts.NewRenderer(logger), logger)

	var pinger source.Pinger
	if p, ok := result.Reader.(source.Pinger); ok {
		pinger = p
	}

	theme, _ := core.ParseTheme(cfg.DefaultTheme)
	srv := apphttp.NewServer(apphttp.Options{
		Addr:               ":" + cfg.Port,
		FairName:           cfg.FairName,
		FairTitle:          cfg.FairTitle,
		LogoURL:            cfg.FairLogoURL,
		EventStart:         cfg.EventStart,
		EventEnd:           cfg.EventEnd,
		DefaultTheme:       theme,
		RefreshInterval:    cfg.RefreshInterval,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	}, dashboard, pinger, logger)

	g.Go(func() error {
		logger.Info("Starting fairdash server",
			"port", cfg.Port,
			log.FieldBackend, cfg.DataBackend,
			"refresh_interval", cfg.RefreshInterval.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down", log.FieldOperation, log.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
