package internal

import (
	"context"

	"github.com/capcom6/go-infra-fx/validator"
	"github.com/go-core-fx/fiberfx"
	"github.com/go-core-fx/healthfx"
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/gitbridge/gitbridge/internal/config"
	"github.com/gitbridge/gitbridge/internal/facade"
	"github.com/gitbridge/gitbridge/internal/gitrepo"
	"github.com/gitbridge/gitbridge/internal/history"
	"github.com/gitbridge/gitbridge/internal/mimesniff"
	"github.com/gitbridge/gitbridge/internal/server"
	"github.com/gitbridge/gitbridge/pkg/badgerfx"
	"github.com/gitbridge/gitbridge/pkg/openapifx"
)

func Run() {
	fx.New(
		// CORE MODULES
		logger.Module(),
		logger.WithFxDefaultLogger(),
		badgerfx.Module(),
		healthfx.Module(),
		fiberfx.Module(),
		validator.Module,
		openapifx.Module(),
		//
		// APP MODULES
		config.Module(),
		server.Module(),
		//
		// BUSINESS MODULES
		fx.Provide(func() healthfx.Version { return healthfx.Version{Version: "0.1.0", ReleaseID: 1} }),
		gitrepo.Module(),
		mimesniff.Module(),
		history.Module(),
		facade.Module(),
		//
		// LIFECYCLE MANAGEMENT
		fx.Invoke(func(lc fx.Lifecycle, logger *zap.Logger) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					logger.Info("🚀 GitBridge application starting up")
					return nil
				},
				OnStop: func(_ context.Context) error {
					logger.Info("🛑 GitBridge application shutting down gracefully")
					return nil
				},
			})
		}),
	).Run()
}
