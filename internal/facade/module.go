package facade

import (
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"facade",
		logger.WithNamedLogger("facade"),
		fx.Provide(NewService),
	)
}
