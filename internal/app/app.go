package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"github.com/manoj-yg/projectshowcase/internal/config"
	pgrepo "github.com/manoj-yg/projectshowcase/internal/database/postgres"
	"github.com/manoj-yg/projectshowcase/internal/service"
	"github.com/manoj-yg/projectshowcase/internal/sweeper"
	"github.com/manoj-yg/projectshowcase/pkg/postgres"
	"golang.org/x/sync/errgroup"

	api "github.com/manoj-yg/projectshowcase/internal/api/http"
)

// Run wires the storage layer, services and HTTP server together and blocks
// until the context is canceled or a component fails. A storage layer that
// can't be reached at startup is fatal.
func Run(ctx context.Context, cfg *config.Config) error {
	const op = "app.Run"

	db, err := postgres.New(ctx, cfg.Postgres.DSN(), postgres.Pool{
		ConnMaxIdleTime: cfg.Postgres.ConnMaxIdleTime,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
	})
	if err != nil {
		return fmt.Errorf("%s: failed to connect to database: %w", op, err)
	}
	defer db.Close()

	if err := postgres.RunMigrations("file://migrations", cfg.Postgres.DSN()); err != nil {
		return fmt.Errorf("%s: failed to run migrations: %w", op, err)
	}

	projectRepo := pgrepo.NewProjectRepository(db)
	shareRepo := pgrepo.NewShareRepository(db)

	projectSvc := service.NewProjectService(projectRepo, cfg.PageSize)
	shareSvc := service.NewShareService(shareRepo, projectRepo, service.ShareConfig{
		TTL:            cfg.Share.TTL,
		RecentProjects: cfg.Share.RecentProjects,
	})

	logger := httplog.NewLogger("projectshowcase", httplog.Options{
		Concise: true,
	})

	routerCfg := api.Config{Env: cfg.Env}
	if cfg.Env == config.EnvProd {
		routerCfg.StaticDir = cfg.StaticDir
	}

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        api.NewRouter(logger, projectSvc, shareSvc, db, routerCfg),
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	sweep := sweeper.New(shareSvc, logger.Logger, cfg.Share.SweepInterval)

	g.Go(func() error {
		if err := sweep.Start(ctx); err != nil {
			return fmt.Errorf("%s: failed to start share sweeper: %w", op, err)
		}

		<-ctx.Done()
		sweep.Stop()

		return nil
	})

	g.Go(func() error {
		var err error

		switch cfg.Env {
		case config.EnvProd:
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		if err := server.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}
