package history

import (
	"errors"
	"fmt"

	"github.com/go-core-fx/fiberfx/handler"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gitbridge/gitbridge/internal/history"
)

const defaultListLimit = 50

type Handler struct {
	historySvc *history.Service

	logger *zap.Logger
}

func NewHandler(historySvc *history.Service, logger *zap.Logger) handler.Handler {
	return &Handler{
		historySvc: historySvc,

		logger: logger,
	}
}

// Register implements handler.Handler.
func (h *Handler) Register(r fiber.Router) {
	r = r.Group("/history")

	r.Use(h.errorsHandler)
	r.Get("/", h.list)
	r.Get("/:id", h.get)
}

func (h *Handler) list(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultListLimit)
	if limit < 1 {
		return fiber.NewError(fiber.StatusBadRequest, "limit must be positive")
	}

	commands, err := h.historySvc.List(c.Context(), limit)
	if err != nil {
		return fmt.Errorf("failed to list commands: %w", err)
	}

	responses := make([]CommandResponse, len(commands))
	for i := range commands {
		responses[i] = toResponse(&commands[i])
	}

	return c.JSON(responses)
}

func (h *Handler) get(c *fiber.Ctx) error {
	idParam := c.Params("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	command, err := h.historySvc.Get(c.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to get command: %w", err)
	}

	return c.JSON(toResponse(command))
}

func (h *Handler) errorsHandler(c *fiber.Ctx) error {
	err := c.Next()
	if err == nil {
		return nil
	}

	if errors.Is(err, history.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	return err //nolint:wrapcheck //already wrapped
}
