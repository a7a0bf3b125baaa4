package uploads

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/elskow/homecook/internal/nutrition"
)

// NewModule returns the uploads module options
func NewModule() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				func(db *gorm.DB) Repository {
					return NewRepository(db)
				},
			),
			fx.Annotate(
				func(repo Repository, svc *nutrition.Service, log *zap.Logger) *Handler {
					return NewHandler(repo, svc, log)
				},
			),
		),
	)
}
