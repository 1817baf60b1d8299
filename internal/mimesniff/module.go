package mimesniff

import (
	"go.uber.org/fx"

	"github.com/gitbridge/gitbridge/internal/facade"
)

func Module() fx.Option {
	return fx.Module(
		"mimesniff",
		fx.Provide(func() facade.ContentSniffer { return NewSniffer() }),
	)
}
