package gitrepo

import (
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/gitbridge/gitbridge/internal/facade"
)

func Module() fx.Option {
	return fx.Module(
		"gitrepo",
		logger.WithNamedLogger("gitrepo"),
		fx.Provide(func(config Config, log *zap.Logger) facade.Repository {
			if config.Path == "" {
				log.Warn("no repository path configured, facade runs unbound")
				return nil
			}
			return NewService(config, log)
		}),
	)
}
