package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"

	"github.com/just-nibble/versioncontrol/internal/domain"
	"github.com/just-nibble/versioncontrol/internal/hooks"
	"github.com/just-nibble/versioncontrol/internal/seeder"
	"github.com/just-nibble/versioncontrol/internal/service"
	"github.com/just-nibble/versioncontrol/internal/storage"
	"github.com/just-nibble/versioncontrol/pkg/config"
	"github.com/just-nibble/versioncontrol/pkg/log"
)

func main() {
	app := cli.App{
		Name:  "versioncontrol",
		Usage: "version control repository, account and access service",
	}
	app.Commands = []*cli.Command{
		{
			Name:   "serve",
			Usage:  "run the HTTP API",
			Action: runServe,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "addr",
					Usage: "listen address, overrides HTTP_ADDR",
				},
				&cli.BoolFlag{
					Name:  "migrate",
					Usage: "migrate the schema before serving",
				},
			},
		},
		{
			Name:   "migrate",
			Usage:  "create or update the database schema",
			Action: runMigrate,
			Flags: []cli.Flag{
				&cli.StringSliceFlag{
					Name:  "seed",
					Usage: "repository to create on an empty database, as name or name:vcs",
				},
			},
		},
	}
	app.RunAndExitOnError()
}

func setup() (*config.Config, zerolog.Logger, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), nil, err
	}
	logger := log.New(cfg.Log.Level, cfg.Log.Format)

	db, err := storage.InitDB(cfg.Database, logger)
	if err != nil {
		return nil, logger, nil, err
	}
	return cfg, logger, db, nil
}

func runMigrate(cctx *cli.Context) error {
	cfg, logger, db, err := setup()
	if err != nil {
		return err
	}
	if err := storage.Migrate(db); err != nil {
		return err
	}
	logger.Info().Str("driver", cfg.Database.Driver).Msg("schema migrated")

	seeds := cctx.StringSlice("seed")
	if len(seeds) == 0 {
		return nil
	}
	svc := service.New(db, service.Options{DefaultBackend: cfg.DefaultBackend}, logger)
	_, err = seeder.SeedDatabase(cctx.Context, svc.Repositories, parseSeeds(seeds), logger)
	return err
}

// parseSeeds reads "name" or "name:vcs" values.
func parseSeeds(values []string) []domain.Repository {
	repos := make([]domain.Repository, 0, len(values))
	for _, v := range values {
		name, vcs, _ := strings.Cut(v, ":")
		repos = append(repos, domain.Repository{Name: name, VCS: vcs})
	}
	return repos
}

func runServe(cctx *cli.Context) error {
	cfg, logger, db, err := setup()
	if err != nil {
		return err
	}
	if cctx.Bool("migrate") {
		if err := storage.Migrate(db); err != nil {
			return err
		}
	}

	opts := service.Options{DefaultBackend: cfg.DefaultBackend}
	if cfg.NATS.URL != "" {
		observer, nc, err := hooks.ConnectNATS(cfg.NATS.URL, cfg.NATS.SubjectPrefix)
		if err != nil {
			return err
		}
		defer nc.Drain()
		opts.Observers = append(opts.Observers, observer)
		logger.Info().Str("url", cfg.NATS.URL).Msg("publishing entity events to nats")
	}

	svc := service.New(db, opts, logger)

	addr := cfg.HTTPAddr
	if cctx.String("addr") != "" {
		addr = cctx.String("addr")
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           svc.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cctx.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("server is running")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("could not start server: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Warn().Msg("shutting down on signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
