package transport

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/masjidhub/prayer-engine/internal/domain"
	"github.com/masjidhub/prayer-engine/internal/provider"
)

// ErrorHandler maps service errors onto HTTP statuses. Validation failures
// become 400, missing records 404, and upstream timetable failures 502.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := statusForError(err)

		logger.Error("request error",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		return c.Status(code).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
}

func statusForError(err error) int {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}

	var providerErr *provider.ProviderError
	if errors.As(err, &providerErr) {
		if providerErr.Transient {
			return fiber.StatusBadGateway
		}
		return fiber.StatusUnprocessableEntity
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	}

	return fiber.StatusInternalServerError
}
