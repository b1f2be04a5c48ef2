package main

import (
	"context"
	"fmt"
	"os"

	"tracker/internal/cli"
	"tracker/internal/config"
	"tracker/internal/ledger"
	applog "tracker/internal/log"
	"tracker/internal/storage"
	"tracker/internal/storage/file"
)

func main() {
	os.Exit(run())
}

func run() int {
	cli.LoadEnvFile()

	cfg := config.LoadLedger()
	// Diagnostics go to stderr so they never mix with command output.
	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(cfg.LogLevel),
		Component: applog.ComponentLedger,
		Output:    os.Stderr,
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	kv, closeStorage, err := openStorage(cfg)
	if err != nil {
		logger.Error("Failed to open ledger storage", applog.FieldError, err, "path", cfg.DBPath)
		fmt.Fprintf(os.Stderr, "could not open ledger at %s: %v\n", cfg.DBPath, err)
		return 1
	}
	defer closeStorage()

	store := ledger.Open(ctx, kv, ledger.Options{Logger: logger})
	app := cli.NewLedgerApp(store, os.Stdout, os.Stderr, colorEnabled())
	return app.Run(ctx, os.Args[1:])
}

func openStorage(cfg *config.LedgerConfig) (ledger.Storage, func() error, error) {
	if cfg.Store == "file" {
		fs, err := file.New(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() error { return nil }, nil
	}
	repo, err := storage.NewSQLiteRepository(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return repo, repo.Close, nil
}

// colorEnabled honours NO_COLOR and disables styling when stdout is not a terminal.
func colorEnabled() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
