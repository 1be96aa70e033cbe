package command

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"filmshelf/internal/app"
	"filmshelf/internal/auth"
	"filmshelf/internal/config"
	"filmshelf/internal/server"
	"filmshelf/internal/session"
	"filmshelf/internal/storage"
	"filmshelf/internal/storage/memory"
	"filmshelf/internal/storage/mongodb"
	"filmshelf/internal/storage/postgres"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "serve the movie catalog Web App",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}

			grp, ctx := errgroup.WithContext(cmd.Context())

			users, mongoMovies, postgresMovies, closeStores, err := buildStores(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer closeStores()

			svc := auth.NewService(
				users,
				session.NewManager(session.NewMemoryStore(), cfg.SessionTTL),
				logger,
			)
			appServer := app.New(cfg, logger, svc, mongoMovies, postgresMovies)

			serveApp(ctx, grp, cfg, logger, appServer)
			return grp.Wait()
		},
	}
}

// buildStores connects the credential store and both movie adapters. In dev
// mode everything is served from seeded in-memory fakes and no datastore is
// touched.
func buildStores(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
) (storage.Users, storage.Movies, storage.Movies, func(), error) {
	if cfg.DevMode {
		seed := memory.Seed()
		logger.InfoContext(ctx,
			"dev mode, serving in-memory fakes",
			slog.Uint64("seed", seed),
		)
		return memory.NewUsers(),
			memory.NewMovies(seed, 200, memory.ObjectIDs),
			memory.NewMovies(seed, 200, memory.NumericIDs),
			func() {}, nil
	}

	conn, err := mongodb.Open(ctx, cfg, logger)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	pool, err := postgres.Open(ctx, cfg, logger)
	if err != nil {
		_ = conn.Close(ctx)
		return nil, nil, nil, nil, err
	}

	closeStores := func() {
		pool.Close()
		if err := conn.Close(context.Background()); err != nil {
			logger.Error("failed to close mongodb connection", slog.Any("error", err))
		}
	}
	return mongodb.NewUsers(conn),
		mongodb.NewMovies(conn),
		postgres.NewMovies(pool, logger),
		closeStores, nil
}

func serveApp(
	ctx context.Context,
	grp *errgroup.Group,
	cfg *config.Config,
	logger *slog.Logger,
	srv *echo.Echo,
) {
	addr := cfg.WebAddress
	if addr == "" {
		return
	}

	listener, err := server.Listen(ctx, addr)
	if err != nil {
		grp.Go(func() error { return err })
		return
	}

	logger.InfoContext(ctx,
		"starting app server...",
		slog.String("address", addr),
	)
	server.Serve(ctx, grp, srv.Server, listener, server.ShutdownTimeout)
}
