package services

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/example/topupadmin/internal/models"
)

// TopupFilter narrows the pending delivery queue.
type TopupFilter struct {
	OrderID string
	ItemID  string
	Limit   int
}

func (f TopupFilter) Values() url.Values {
	values := url.Values{}
	if f.OrderID != "" {
		values.Set("order_id", f.OrderID)
	}
	if f.ItemID != "" {
		values.Set("item_id", f.ItemID)
	}
	if f.Limit > 0 {
		values.Set("limit", strconv.Itoa(f.Limit))
	}
	return values
}

// ListPendingTopups returns the pending delivery jobs.
func (c *PlatformClient) ListPendingTopups(ctx context.Context, filter TopupFilter) ([]models.RetryJob, error) {
	var jobs []models.RetryJob
	err := c.doJSON(ctx, RequestOpts{
		Method: http.MethodGet,
		Path:   "admin/topups/pending",
		Query:  filter.Values(),
	}, &jobs)
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

// GetPendingTopup returns one job with its raw queue payload.
func (c *PlatformClient) GetPendingTopup(ctx context.Context, jobID string) (*models.RetryJobDetail, error) {
	var detail models.RetryJobDetail
	err := c.doJSON(ctx, RequestOpts{
		Method: http.MethodGet,
		Path:   "admin/topups/pending/" + url.PathEscape(jobID),
	}, &detail)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}
