package app

import (
	"context"
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/elskow/homecook/internal/auth"
	"github.com/elskow/homecook/internal/database"
	"github.com/elskow/homecook/internal/mailer"
	"github.com/elskow/homecook/internal/migration"
	"github.com/elskow/homecook/internal/nutrition"
	"github.com/elskow/homecook/internal/pantry"
	"github.com/elskow/homecook/internal/server"
	"github.com/elskow/homecook/internal/uploads"
)

// Module combines all application modules
func Module() fx.Option {
	return fx.Options(
		// Logger
		fx.Provide(newLogger),

		// Configuration
		fx.Provide(server.LoadConfig),

		// Persistence
		database.Module(),
		migration.Module(),

		// External collaborators
		mailer.Module(),

		// Domain modules
		auth.NewModule(),
		pantry.NewModule(),
		uploads.NewModule(),
		nutrition.NewModule(),

		// Server
		fx.Provide(server.NewServer),

		// Start the server
		fx.Invoke(registerHooks),
	)
}

func newLogger() (*zap.Logger, error) {
	env := os.Getenv("APP_ENV")
	return server.NewLogger(env)
}

func registerHooks(
	lifecycle fx.Lifecycle,
	srv *server.Server,
	log *zap.Logger,
) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil {
					log.Error("failed to start server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down server...")
			return srv.Stop(ctx)
		},
	})
}
