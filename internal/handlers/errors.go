package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/example/topupadmin/internal/services"
)

// ErrorHandler renders every error as the failure envelope. Platform messages
// are passed through verbatim.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status, message := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		log.Ctx(c.UserContext()).Error().Err(err).Int("status", status).Msg("request failed")
	}
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

// respondError renders err with extra fields merged into the envelope.
func respondError(c *fiber.Ctx, err error, extra fiber.Map) error {
	status, message := statusFor(err)
	body := fiber.Map{
		"success": false,
		"error":   message,
	}
	for k, v := range extra {
		body[k] = v
	}
	return c.Status(status).JSON(body)
}

func statusFor(err error) (int, string) {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, fiberErr.Message
	}

	if apiErr, ok := services.IsAPIError(err); ok {
		switch apiErr.Kind {
		case services.KindRejected:
			if apiErr.Status >= 400 && apiErr.Status < 500 {
				return apiErr.Status, apiErr.Message
			}
			return fiber.StatusBadRequest, apiErr.Message
		default:
			return fiber.StatusBadGateway, apiErr.Message
		}
	}

	switch {
	case errors.Is(err, services.ErrTransitionNotAllowed), errors.Is(err, services.ErrInFlight):
		return fiber.StatusConflict, err.Error()
	case errors.Is(err, services.ErrConfirmationRequired):
		return fiber.StatusPreconditionRequired, err.Error()
	case errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrEmptySelection),
		errors.Is(err, services.ErrInvalidBulkStatus):
		return fiber.StatusBadRequest, err.Error()
	}

	return fiber.StatusInternalServerError, "internal server error"
}
