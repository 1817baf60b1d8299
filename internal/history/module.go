package history

import (
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"

	"github.com/gitbridge/gitbridge/internal/facade"
)

func Module() fx.Option {
	return fx.Module(
		"history",
		logger.WithNamedLogger("history"),
		fx.Provide(NewRepository, fx.Private),
		fx.Provide(NewService),
		fx.Provide(func(s *Service) facade.Recorder { return s }),
	)
}
