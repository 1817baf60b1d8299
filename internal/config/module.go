package config

import (
	"github.com/go-core-fx/fiberfx"
	"go.uber.org/fx"

	"github.com/gitbridge/gitbridge/internal/gitrepo"
	"github.com/gitbridge/gitbridge/pkg/badgerfx"
	"github.com/gitbridge/gitbridge/pkg/openapifx"
)

func Module() fx.Option {
	return fx.Module(
		"config",
		fx.Provide(New),
		fx.Provide(func(cfg Config) fiberfx.Config {
			return fiberfx.Config{
				Address:     cfg.HTTP.Address,
				ProxyHeader: cfg.HTTP.ProxyHeader,
				Proxies:     cfg.HTTP.Proxies,
			}
		}),
		fx.Provide(func(cfg Config) badgerfx.Config {
			return badgerfx.Config{
				Dir: cfg.Storage.DataDir,
			}
		}),
		fx.Provide(func(cfg Config) gitrepo.Config {
			return gitrepo.Config{
				Path:          cfg.Git.Path,
				AuthorName:    cfg.Git.AuthorName,
				AuthorEmail:   cfg.Git.AuthorEmail,
				DefaultRemote: cfg.Git.DefaultRemote,
			}
		}),
		fx.Provide(func(cfg Config) openapifx.Config {
			return openapifx.Config{
				Enabled:    cfg.HTTP.OpenAPI.Enabled,
				PublicHost: cfg.HTTP.OpenAPI.PublicHost,
				PublicPath: cfg.HTTP.OpenAPI.PublicPath,
			}
		}),
	)
}
