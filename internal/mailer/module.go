package mailer

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/elskow/homecook/internal/config"
)

// Module provides the mailer to the rest of the application
func Module() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				func(config *config.AppConfig, log *zap.Logger) Mailer {
					return NewMailer(&config.Email, log)
				},
			),
		),
	)
}
