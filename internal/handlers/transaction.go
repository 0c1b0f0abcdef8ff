package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/topupadmin/internal/middleware"
	"github.com/example/topupadmin/internal/services"
	"github.com/example/topupadmin/internal/utils"
)

// TransactionHandler serves the reconciliation page.
type TransactionHandler struct {
	transactions *services.TransactionService
}

func NewTransactionHandler(transactions *services.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

// ListTransactions returns one page of transactions with retry eligibility per row.
func (h *TransactionHandler) ListTransactions(c *fiber.Ctx) error {
	pagination := utils.ParsePagination(c)

	filter := services.TransactionFilter{
		Page:      pagination.Page,
		Limit:     pagination.Limit,
		Search:    c.Query("search"),
		Status:    c.Query("status"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
	}

	view, err := h.transactions.List(c.UserContext(), filter, c.QueryBool("refresh"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       view.Rows,
		"pagination": view.Pagination,
	})
}

// Stats returns the aggregate counters.
func (h *TransactionHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.transactions.Stats(c.UserContext(), c.QueryBool("refresh"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}

// Retry re-triggers delivery for one transaction.
func (h *TransactionHandler) Retry(c *fiber.Ctx) error {
	actor, ok := middleware.GetOperatorID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id := strings.Clone(c.Params("id"))
	if err := h.transactions.Retry(c.UserContext(), actor, id); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"id": id},
	})
}

// BulkUpdate overrides the status of the selected transactions. Failures echo
// the selection back so the caller can keep it.
func (h *TransactionHandler) BulkUpdate(c *fiber.Ctx) error {
	actor, ok := middleware.GetOperatorID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req services.BulkRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.transactions.BulkUpdate(c.UserContext(), actor, req)
	if err != nil {
		return respondError(c, err, fiber.Map{"data": req})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    result,
	})
}
