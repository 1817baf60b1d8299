package validation

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// DecorateWithBodyEx parses and validates the request body before
// handing it to the wrapped handler.
func DecorateWithBodyEx[T any](v *validator.Validate, next func(c *fiber.Ctx, req *T) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := new(T)
		if err := c.BodyParser(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := v.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		return next(c, req)
	}
}
