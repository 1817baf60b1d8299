package openapifx

import (
	"github.com/go-core-fx/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/swaggo/swag"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Module() fx.Option {
	return fx.Module(
		"openapifx",
		logger.WithNamedLogger("openapifx"),
		fx.Provide(New),
	)
}

type Config struct {
	Enabled    bool
	PublicHost string
	PublicPath string
}

// Handler serves the generated OpenAPI document and its UI.
type Handler struct {
	config Config
	spec   *swag.Spec

	logger *zap.Logger
}

func New(config Config, spec *swag.Spec, logger *zap.Logger) *Handler {
	return &Handler{
		config: config,
		spec:   spec,
		logger: logger,
	}
}

func (h *Handler) Register(r fiber.Router) {
	if !h.config.Enabled {
		h.logger.Debug("openapi docs disabled")
		return
	}

	if h.config.PublicHost != "" {
		h.spec.Host = h.config.PublicHost
	}
	if h.config.PublicPath != "" {
		h.spec.BasePath = h.config.PublicPath
	}

	r.Get("/*", swagger.HandlerDefault)
}
