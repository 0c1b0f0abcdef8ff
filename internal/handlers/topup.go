package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/topupadmin/internal/services"
)

// TopupHandler serves the read-only retry queue monitor.
type TopupHandler struct {
	topups *services.TopupQueueService
}

func NewTopupHandler(topups *services.TopupQueueService) *TopupHandler {
	return &TopupHandler{topups: topups}
}

// ListPending returns one row per pending delivery job.
func (h *TopupHandler) ListPending(c *fiber.Ctx) error {
	filter := services.TopupFilter{
		OrderID: c.Query("order_id"),
		ItemID:  c.Query("item_id"),
		Limit:   c.QueryInt("limit", 0),
	}

	rows, err := h.topups.List(c.UserContext(), filter, c.QueryBool("refresh"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    rows,
	})
}

// GetPending returns one job with its raw queue payload.
func (h *TopupHandler) GetPending(c *fiber.Ctx) error {
	detail, err := h.topups.Get(c.UserContext(), c.Params("job_id"), c.QueryBool("refresh"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    detail,
	})
}
