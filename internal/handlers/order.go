package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/topupadmin/internal/middleware"
	"github.com/example/topupadmin/internal/models"
	"github.com/example/topupadmin/internal/services"
)

// OrderHandler serves the order entity view and its lifecycle actions.
type OrderHandler struct {
	orders *services.OrderService
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(orders *services.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type transitionRequest struct {
	Status models.OrderStatus `json:"status"`
}

// GetOrder returns the order with the actions an operator may take on it.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	view, err := h.orders.Get(c.UserContext(), c.Params("id"), c.QueryBool("refresh"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    view,
	})
}

// UpdateStatus moves the order to a new status through the lifecycle gate.
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, ok := middleware.GetOperatorID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req transitionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	req.Status = models.OrderStatus(strings.TrimSpace(string(req.Status)))
	if req.Status == "" {
		return fiber.NewError(fiber.StatusBadRequest, "status is required")
	}

	view, err := h.orders.Transition(c.UserContext(), actor, c.Params("id"), req.Status)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    view,
	})
}

// CancelOrder cancels the order via the dedicated cancel endpoint.
func (h *OrderHandler) CancelOrder(c *fiber.Ctx) error {
	actor, ok := middleware.GetOperatorID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	view, err := h.orders.Cancel(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    view,
	})
}
