package services

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/example/topupadmin/internal/models"
)

// TransactionFilter holds the reconciliation table filters.
type TransactionFilter struct {
	Page      int
	Limit     int
	Search    string
	Status    string
	StartDate string
	EndDate   string
}

func (f TransactionFilter) Values() url.Values {
	values := url.Values{}
	if f.Page > 0 {
		values.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		values.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Search != "" {
		values.Set("search", f.Search)
	}
	if f.Status != "" {
		values.Set("status", f.Status)
	}
	if f.StartDate != "" {
		values.Set("startDate", f.StartDate)
	}
	if f.EndDate != "" {
		values.Set("endDate", f.EndDate)
	}
	return values
}

// BulkUpdateResult is the platform's answer to a bulk override.
type BulkUpdateResult struct {
	Updated int `json:"updated"`
}

// ListTransactions returns one page of transactions.
func (c *PlatformClient) ListTransactions(ctx context.Context, filter TransactionFilter) (*models.TransactionPage, error) {
	var page models.TransactionPage
	err := c.doJSON(ctx, RequestOpts{
		Method: http.MethodGet,
		Path:   "admin/trans/admin/transactions",
		Query:  filter.Values(),
	}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// TransactionStats returns the aggregate counters for the transaction table.
func (c *PlatformClient) TransactionStats(ctx context.Context) (*models.TransactionStats, error) {
	var stats models.TransactionStats
	err := c.doJSON(ctx, RequestOpts{
		Method: http.MethodGet,
		Path:   "admin/trans/admin/transactions/stats",
	}, &stats)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// RetryTransaction re-triggers delivery for a stuck or failed transaction.
func (c *PlatformClient) RetryTransaction(ctx context.Context, id string) error {
	return c.doJSON(ctx, RequestOpts{
		Method: http.MethodPost,
		Path:   "transactions/admin/transactions/" + url.PathEscape(id) + "/retry-sataragan",
	}, nil)
}

// BulkUpdateTransactions overrides the status of several transactions at once.
func (c *PlatformClient) BulkUpdateTransactions(ctx context.Context, ids []string, status models.TransactionStatus) (*BulkUpdateResult, error) {
	body := struct {
		TransactionIDs []string                 `json:"transactionIds"`
		Status         models.TransactionStatus `json:"status"`
	}{TransactionIDs: ids, Status: status}

	var result BulkUpdateResult
	err := c.doJSON(ctx, RequestOpts{
		Method: http.MethodPost,
		Path:   "transactions/admin/transactions/bulk-update",
		Body:   body,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
