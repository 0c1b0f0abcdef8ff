package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/example/topupadmin/internal/models"
	"github.com/example/topupadmin/internal/services"
	"github.com/example/topupadmin/internal/utils"
)

// AuditLister reads the operator audit log.
type AuditLister interface {
	List(ctx context.Context, filter services.AuditFilter) ([]models.AuditEntry, int64, error)
}

// AuditHandler exposes the audit log. A nil lister means auditing is disabled.
type AuditHandler struct {
	audit AuditLister
}

func NewAuditHandler(audit AuditLister) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// ListEntries returns audit entries newest first.
func (h *AuditHandler) ListEntries(c *fiber.Ctx) error {
	if h.audit == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "audit log is disabled")
	}

	pagination := utils.ParsePagination(c)
	entries, total, err := h.audit.List(c.UserContext(), services.AuditFilter{
		Action: c.Query("action"),
		Actor:  c.Query("actor"),
		Page:   pagination,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    entries,
		"pagination": fiber.Map{
			"current_page":   pagination.Page,
			"items_per_page": pagination.Limit,
			"total_items":    total,
		},
	})
}
