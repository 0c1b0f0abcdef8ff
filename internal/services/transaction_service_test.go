package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/topupadmin/internal/models"
)

func transactionFixture(t *testing.T) (*fakePlatform, *TransactionService, *recordingAuditor, *fakeNotifier) {
	platform := newFakePlatform(t)
	platform.handle("GET /admin/trans/admin/transactions", jsonHandler(http.StatusOK, map[string]any{
		"data": []map[string]any{
			{"id": "t1", "status": "Paid", "output": 1, "amount": "100"},
			{"id": "t2", "status": "Pending", "output": 2, "amount": "50"},
			{"id": "t3", "status": "Failed", "output": 1, "amount": "75"},
			{"id": "t4", "status": "Failed", "output": 2, "amount": "75"},
			{"id": "t5", "status": "Confirmed", "output": 1, "amount": "10"},
		},
		"pagination": map[string]any{"currentPage": 1, "totalPages": 1, "totalItems": 5, "itemsPerPage": 20},
	}))
	platform.handle("GET /admin/trans/admin/transactions/stats", jsonHandler(http.StatusOK, map[string]any{
		"total": 5, "pending": 1, "paid": 1, "confirmed": 1, "failed": 2, "totalAmount": "310",
	}))
	platform.handle("POST /transactions/admin/transactions/t3/retry-sataragan", jsonHandler(http.StatusOK, map[string]any{}))
	platform.handle("POST /transactions/admin/transactions/bulk-update", jsonHandler(http.StatusOK, map[string]any{"updated": 2}))

	auditor := &recordingAuditor{}
	notifier := newFakeNotifier()
	return platform, NewTransactionService(platform.client(), newTestCache(), auditor, notifier), auditor, notifier
}

func TestListMarksRetryEligibility(t *testing.T) {
	_, svc, _, _ := transactionFixture(t)

	view, err := svc.List(context.Background(), TransactionFilter{Page: 1, Limit: 20}, false)
	require.NoError(t, err)

	shown := map[string]bool{}
	for _, row := range view.Rows {
		shown[row.ID] = row.ShowRetry
	}
	assert.Equal(t, map[string]bool{"t1": false, "t2": true, "t3": true, "t4": false, "t5": false}, shown)
	assert.Equal(t, 5, view.Pagination.TotalItems)
}

func TestRetryInvalidatesListAndStats(t *testing.T) {
	platform, svc, auditor, notifier := transactionFixture(t)
	ctx := context.Background()

	_, _ = svc.List(ctx, TransactionFilter{}, false)
	_, _ = svc.Stats(ctx, false)

	require.NoError(t, svc.Retry(ctx, "op-1", "t3"))

	_, _ = svc.List(ctx, TransactionFilter{}, false)
	_, _ = svc.Stats(ctx, false)

	assert.Equal(t, 2, platform.count(http.MethodGet, "/admin/trans/admin/transactions"))
	assert.Equal(t, 2, platform.count(http.MethodGet, "/admin/trans/admin/transactions/stats"))
	assert.Equal(t, models.AuditTransactionRetry, auditor.all()[0].Action)

	select {
	case n := <-notifier.retry:
		assert.Equal(t, RetryNotification{Actor: "op-1", TransactionID: "t3"}, n)
	case <-time.After(time.Second):
		t.Fatal("retry notification not sent")
	}
}

func TestRetryIsUnconditional(t *testing.T) {
	platform, svc, _, _ := transactionFixture(t)
	platform.handle("POST /transactions/admin/transactions/t1/retry-sataragan", jsonHandler(http.StatusOK, map[string]any{}))

	// t1 is Paid; the row hides retry but the request itself is not gated.
	require.NoError(t, svc.Retry(context.Background(), "op-1", "t1"))
	assert.Equal(t, 1, platform.count(http.MethodPost, "/transactions/admin/transactions/t1/retry-sataragan"))
}

func TestRetryFailureKeepsCache(t *testing.T) {
	platform, svc, auditor, _ := transactionFixture(t)
	platform.handle("POST /transactions/admin/transactions/t3/retry-sataragan", jsonHandler(http.StatusBadRequest, map[string]any{"error": "transaction locked"}))
	ctx := context.Background()

	_, _ = svc.List(ctx, TransactionFilter{}, false)
	err := svc.Retry(ctx, "op-1", "t3")
	_, _ = svc.List(ctx, TransactionFilter{}, false)

	assert.EqualError(t, err, "transaction locked")
	assert.Equal(t, 1, platform.count(http.MethodGet, "/admin/trans/admin/transactions"))
	assert.Error(t, auditor.all()[0].Err)
}

func TestBulkUpdateEmptySelectionSendsNothing(t *testing.T) {
	platform, svc, auditor, _ := transactionFixture(t)

	_, err := svc.BulkUpdate(context.Background(), "op-1", BulkRequest{IDs: nil, Status: models.TransactionPaid, Confirmed: true})
	assert.ErrorIs(t, err, ErrEmptySelection)

	_, err = svc.BulkUpdate(context.Background(), "op-1", BulkRequest{IDs: []string{" ", ""}, Status: models.TransactionPaid, Confirmed: true})
	assert.ErrorIs(t, err, ErrEmptySelection)

	assert.Empty(t, platform.recorded())
	assert.Empty(t, auditor.all())
}

func TestBulkUpdateRequiresConfirmation(t *testing.T) {
	platform, svc, _, _ := transactionFixture(t)

	_, err := svc.BulkUpdate(context.Background(), "op-1", BulkRequest{IDs: []string{"t1"}, Status: models.TransactionRejected})

	assert.ErrorIs(t, err, ErrConfirmationRequired)
	assert.Empty(t, platform.recorded())
}

func TestBulkUpdateRejectsPendingStatus(t *testing.T) {
	platform, svc, _, _ := transactionFixture(t)

	_, err := svc.BulkUpdate(context.Background(), "op-1", BulkRequest{IDs: []string{"t1"}, Status: models.TransactionPending, Confirmed: true})

	assert.ErrorIs(t, err, ErrInvalidBulkStatus)
	assert.Empty(t, platform.recorded())
}

func TestBulkUpdateSuccess(t *testing.T) {
	platform, svc, auditor, notifier := transactionFixture(t)
	ctx := context.Background()

	_, _ = svc.Stats(ctx, false)
	result, err := svc.BulkUpdate(ctx, "op-1", BulkRequest{IDs: []string{"t2", "t4"}, Status: models.TransactionFailed, Confirmed: true})
	require.NoError(t, err)
	_, _ = svc.Stats(ctx, false)

	assert.Equal(t, 2, result.Updated)
	assert.Equal(t, 2, platform.count(http.MethodGet, "/admin/trans/admin/transactions/stats"))

	records := auditor.all()
	require.Len(t, records, 1)
	assert.Equal(t, []string{"t2", "t4"}, records[0].TargetIDs)

	select {
	case n := <-notifier.bulk:
		assert.Equal(t, 2, n.Updated)
		assert.Equal(t, models.TransactionFailed, n.Status)
	case <-time.After(time.Second):
		t.Fatal("bulk notification not sent")
	}
}

func TestBulkUpdateFailureSurfacesBackendError(t *testing.T) {
	platform, svc, _, _ := transactionFixture(t)
	platform.handle("POST /transactions/admin/transactions/bulk-update", jsonHandler(http.StatusInternalServerError, map[string]any{"error": "ledger unavailable"}))

	_, err := svc.BulkUpdate(context.Background(), "op-1", BulkRequest{IDs: []string{"t2"}, Status: models.TransactionConfirmed, Confirmed: true})

	apiErr, ok := IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, KindUpstream, apiErr.Kind)
	assert.Equal(t, "ledger unavailable", apiErr.Message)
}

func TestStatsDecodesAmount(t *testing.T) {
	_, svc, _, _ := transactionFixture(t)

	stats, err := svc.Stats(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Failed)
	assert.Equal(t, "310", stats.TotalAmount.String())
}

func TestWaitDrainsPendingNotifications(t *testing.T) {
	platform, _, _, notifier := transactionFixture(t)
	notifier.delay = 50 * time.Millisecond
	svc := NewTransactionService(platform.client(), newTestCache(), &recordingAuditor{}, notifier)

	require.NoError(t, svc.Retry(context.Background(), "op-1", "t3"))
	svc.Wait()

	select {
	case n := <-notifier.retry:
		assert.Equal(t, "t3", n.TransactionID)
	default:
		t.Fatal("notification still pending after Wait")
	}
}

func TestCleanIDs(t *testing.T) {
	assert.Equal(t, []string{"t1", "t2"}, CleanIDs([]string{" t1", "", "t2 ", "  "}))
	assert.Empty(t, CleanIDs(nil))
}
