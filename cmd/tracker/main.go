package main

import (
	"context"
	"os"
	"time"

	"tracker/internal/amqp"
	"tracker/internal/backend"
	"tracker/internal/cache"
	"tracker/internal/cli"
	apphttp "tracker/internal/http"
	applog "tracker/internal/log"
	"tracker/internal/middleware/ratelimit"
	"tracker/internal/services"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), applog.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", applog.FieldError, err)
		os.Exit(1)
	}
	store, err := backend.NewFactory(logger).Open(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to open expense store", applog.FieldError, err, applog.FieldBackend, backendCfg.Type)
		os.Exit(1)
	}
	defer store.Close()

	opts := services.Options{
		CacheTTL:     cfg.ExpenseCacheTTL,
		StoreTimeout: cfg.StoreTimeout,
		Logger:       logger,
	}
	if cfg.AMQPURL != "" {
		publisher, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			// Expenses are still served without events.
			logger.Warn("AMQP unavailable, expense events disabled", applog.FieldError, err)
		} else {
			defer publisher.Close()
			opts.Publisher = publisher
		}
	}

	svc := services.NewExpenseService(store, opts)
	limiter := ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: cfg.RateLimitPerMinute})
	janitor := cache.NewJanitor(logger, svc.Cache())

	srv := apphttp.NewServer(":"+cfg.Port, svc, apphttp.Options{
		Logger:  logger,
		Limiter: limiter,
	})

	logger.Info("Starting tracker server", "port", cfg.Port, applog.FieldBackend, backendCfg.Type)
	err = cli.Serve(ctx, &srv.Server, 30*time.Second, logger,
		func(ctx context.Context) error { return limiter.Run(ctx, 5*time.Minute) },
		func(ctx context.Context) error { return janitor.Run(ctx, time.Minute) },
	)
	if err != nil {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
