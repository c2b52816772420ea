// Package main implements the entry point for the recipe API server, which
// lets users manage their own recipes, tags and ingredients over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phrazzld/recipe-api/internal/redact"
)

// dbPollInterval is the delay between database pings while waiting at startup.
const dbPollInterval = time.Second

// options holds the parsed command-line flags.
type options struct {
	migrate   string
	waitForDB bool
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&opts.migrate, "migrate", "", "run a migration command (up|down|reset|status|version) and exit")
	fs.BoolVar(&opts.waitForDB, "wait-for-db", false, "wait until the database accepts connections and exit")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		slog.Error("server exited with error", slog.String("error", redact.Error(err)))
		stop()
		os.Exit(1)
	}
}

// run loads configuration and either performs a one-shot command or serves
// HTTP until ctx is canceled.
func run(ctx context.Context, opts options) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	db, err := setupAppDatabase(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("error closing database connection", slog.String("error", redact.Error(err)))
		}
	}()

	waitTimeout := time.Duration(cfg.Database.WaitTimeoutSeconds) * time.Second
	if err := waitForDatabase(ctx, db, waitTimeout, dbPollInterval, logger); err != nil {
		return err
	}

	switch {
	case opts.waitForDB:
		return nil
	case opts.migrate != "":
		return handleMigrations(ctx, db, opts.migrate, logger)
	}

	app, err := newApplication(cfg, logger, db)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
