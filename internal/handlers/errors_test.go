package handlers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/example/topupadmin/internal/services"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:    "fiber error",
			err:     fiber.NewError(fiber.StatusBadRequest, "invalid request body"),
			status:  fiber.StatusBadRequest,
			message: "invalid request body",
		},
		{
			name:    "platform rejection passes through",
			err:     &services.APIError{Kind: services.KindRejected, Status: 422, Message: "insufficient stock"},
			status:  422,
			message: "insufficient stock",
		},
		{
			name:    "platform failure",
			err:     &services.APIError{Kind: services.KindUpstream, Status: 503, Message: "maintenance"},
			status:  fiber.StatusBadGateway,
			message: "maintenance",
		},
		{
			name:    "transport failure",
			err:     &services.APIError{Kind: services.KindTransport, Message: services.FallbackMessage},
			status:  fiber.StatusBadGateway,
			message: "Request failed",
		},
		{
			name:    "gate refusal",
			err:     fmt.Errorf("%w: paid -> created", services.ErrTransitionNotAllowed),
			status:  fiber.StatusConflict,
			message: "transition not allowed: paid -> created",
		},
		{name: "in flight", err: services.ErrInFlight, status: fiber.StatusConflict, message: "request already in progress"},
		{name: "empty selection", err: services.ErrEmptySelection, status: fiber.StatusBadRequest, message: "no transactions selected"},
		{name: "unconfirmed", err: services.ErrConfirmationRequired, status: fiber.StatusPreconditionRequired, message: "bulk update must be confirmed"},
		{name: "unknown", err: errors.New("boom"), status: fiber.StatusInternalServerError, message: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message := statusFor(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.message, message)
		})
	}
}
