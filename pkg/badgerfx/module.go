package badgerfx

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Module() fx.Option {
	return fx.Module(
		"badgerfx",
		logger.WithNamedLogger("badgerfx"),
		fx.Provide(newBadgerLogger, fx.Private),
		fx.Provide(New),
		fx.Invoke(func(db *badger.DB, log *zap.Logger, lifecycle fx.Lifecycle) {
			lifecycle.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					log.Info("badger store opened")
					return nil
				},
				OnStop: func(_ context.Context) error {
					log.Info("closing badger store")
					if err := db.Close(); err != nil {
						return fmt.Errorf("failed to close badger store: %w", err)
					}
					return nil
				},
			})
		}),
	)
}
