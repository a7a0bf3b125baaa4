package nutrition

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewModule returns the nutrition module options
func NewModule() fx.Option {
	return fx.Options(
		fx.Provide(
			NewService,
			fx.Annotate(
				func(svc *Service, log *zap.Logger) *Handler {
					return NewHandler(svc, log)
				},
			),
		),
	)
}
