package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/topupadmin/internal/models"
)

func TestGetOrderRequestsFullOrder(t *testing.T) {
	platform := newFakePlatform(t)
	platform.handle("GET /admin/orders/ord-1", jsonHandler(http.StatusOK, map[string]any{
		"id": "ord-1", "status": "paid", "currency": "AFN", "total_minor": 150000,
		"summary": map[string]any{"can_refund": true, "paid_minor": 150000},
	}))

	order, err := platform.client().GetOrder(context.Background(), "ord-1")
	require.NoError(t, err)

	assert.Equal(t, models.OrderPaid, order.Status)
	assert.True(t, order.Summary.CanRefund)
	assert.EqualValues(t, 150000, order.TotalMinor)

	reqs := platform.recorded()
	require.Len(t, reqs, 1)
	assert.Equal(t, "full=1", reqs[0].Query)
	assert.Equal(t, "Bearer svc-token", reqs[0].Auth)
}

func TestSetOrderStatusAndCancelUseDistinctEndpoints(t *testing.T) {
	platform := newFakePlatform(t)
	platform.handle("PATCH /admin/orders/ord-1/status", jsonHandler(http.StatusOK, map[string]any{"ok": true}))
	platform.handle("PATCH /admin/orders/ord-1/cancel", jsonHandler(http.StatusOK, map[string]any{"ok": true}))

	client := platform.client()
	require.NoError(t, client.SetOrderStatus(context.Background(), "ord-1", models.OrderFulfilled))
	require.NoError(t, client.CancelOrder(context.Background(), "ord-1"))

	reqs := platform.recorded()
	require.Len(t, reqs, 2)
	assert.JSONEq(t, `{"status":"fulfilled"}`, reqs[0].Body)
	assert.Empty(t, reqs[1].Body)
}

func TestListPendingTopupsSendsFilters(t *testing.T) {
	platform := newFakePlatform(t)
	platform.handle("GET /admin/topups/pending", jsonHandler(http.StatusOK, []map[string]any{}))

	_, err := platform.client().ListPendingTopups(context.Background(), TopupFilter{OrderID: "o1", ItemID: "i1", Limit: 50})
	require.NoError(t, err)

	assert.Equal(t, "item_id=i1&limit=50&order_id=o1", platform.recorded()[0].Query)
}

func TestListTransactionsSendsFilters(t *testing.T) {
	platform := newFakePlatform(t)
	platform.handle("GET /admin/trans/admin/transactions", jsonHandler(http.StatusOK, map[string]any{
		"data":       []map[string]any{{"id": "t1", "status": "Failed", "output": 1, "amount": "150.50"}},
		"pagination": map[string]any{"currentPage": 2, "totalPages": 3, "totalItems": 41, "itemsPerPage": 20, "hasNextPage": true, "hasPrevPage": true},
	}))

	page, err := platform.client().ListTransactions(context.Background(), TransactionFilter{
		Page: 2, Limit: 20, Search: "0799", Status: "Failed", StartDate: "2026-10-01", EndDate: "2026-10-18",
	})
	require.NoError(t, err)

	require.Len(t, page.Items, 1)
	assert.Equal(t, "150.5", page.Items[0].Amount.String())
	assert.Equal(t, 41, page.Pagination.TotalItems)
	assert.Equal(t, "endDate=2026-10-18&limit=20&page=2&search=0799&startDate=2026-10-01&status=Failed", platform.recorded()[0].Query)
}

func TestBulkUpdateBody(t *testing.T) {
	platform := newFakePlatform(t)
	platform.handle("POST /transactions/admin/transactions/bulk-update", jsonHandler(http.StatusOK, map[string]any{"updated": 2}))

	result, err := platform.client().BulkUpdateTransactions(context.Background(), []string{"t1", "t2"}, models.TransactionRejected)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Updated)
	assert.JSONEq(t, `{"transactionIds":["t1","t2"],"status":"Rejected"}`, platform.recorded()[0].Body)
}

func TestRetryTransactionPath(t *testing.T) {
	platform := newFakePlatform(t)
	platform.handle("POST /transactions/admin/transactions/t9/retry-sataragan", jsonHandler(http.StatusOK, map[string]any{}))

	require.NoError(t, platform.client().RetryTransaction(context.Background(), "t9"))
}

func TestErrorMessageExtraction(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    any
		kind    ErrorKind
		message string
	}{
		{"error field", http.StatusUnprocessableEntity, map[string]any{"error": "insufficient stock"}, KindRejected, "insufficient stock"},
		{"message field", http.StatusBadRequest, map[string]any{"message": "bad status"}, KindRejected, "bad status"},
		{"nested error", http.StatusConflict, map[string]any{"error": map[string]any{"message": "already paid"}}, KindRejected, "already paid"},
		{"server error without body", http.StatusInternalServerError, map[string]any{}, KindUpstream, FallbackMessage},
		{"server error with message", http.StatusServiceUnavailable, map[string]any{"error": "maintenance"}, KindUpstream, "maintenance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			platform := newFakePlatform(t)
			platform.handle("PATCH /admin/orders/o/cancel", jsonHandler(tt.status, tt.body))

			err := platform.client().CancelOrder(context.Background(), "o")

			apiErr, ok := IsAPIError(err)
			require.True(t, ok)
			assert.Equal(t, tt.kind, apiErr.Kind)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.message, apiErr.Error())
		})
	}
}

func TestNonJSONErrorBodyFallsBack(t *testing.T) {
	platform := newFakePlatform(t)
	platform.handle("GET /admin/orders/o", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	})

	_, err := platform.client().GetOrder(context.Background(), "o")

	assert.EqualError(t, err, FallbackMessage)
}

func TestTransportFailure(t *testing.T) {
	client := NewPlatformClient("http://127.0.0.1:1", "", time.Second)

	_, err := client.GetOrder(context.Background(), "o")

	apiErr, ok := IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, KindTransport, apiErr.Kind)
	assert.Equal(t, FallbackMessage, apiErr.Message)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestDoRequiresMethodAndPath(t *testing.T) {
	client := NewPlatformClient("http://localhost", "", 0)

	_, err := client.Do(context.Background(), RequestOpts{Path: "x"})
	assert.Error(t, err)

	_, err = client.Do(context.Background(), RequestOpts{Method: http.MethodGet})
	assert.Error(t, err)
}
