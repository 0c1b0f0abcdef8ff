package services

import (
	"context"
	"net/http"
	"net/url"

	"github.com/example/topupadmin/internal/models"
)

// GetOrder fetches the enriched order (items, payments, logs, summary, timeline).
func (c *PlatformClient) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := c.doJSON(ctx, RequestOpts{
		Method: http.MethodGet,
		Path:   "admin/orders/" + url.PathEscape(id),
		Query:  url.Values{"full": {"1"}},
	}, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// SetOrderStatus applies a status from the transition table.
func (c *PlatformClient) SetOrderStatus(ctx context.Context, id string, status models.OrderStatus) error {
	return c.doJSON(ctx, RequestOpts{
		Method: http.MethodPatch,
		Path:   "admin/orders/" + url.PathEscape(id) + "/status",
		Body:   map[string]models.OrderStatus{"status": status},
	}, nil)
}

// CancelOrder uses the dedicated cancel endpoint, which takes no body.
func (c *PlatformClient) CancelOrder(ctx context.Context, id string) error {
	return c.doJSON(ctx, RequestOpts{
		Method: http.MethodPatch,
		Path:   "admin/orders/" + url.PathEscape(id) + "/cancel",
	}, nil)
}
