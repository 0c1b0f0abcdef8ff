package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/example/topupadmin/internal/cache"
	"github.com/example/topupadmin/internal/lifecycle"
	"github.com/example/topupadmin/internal/models"
)

// TransactionBackend is the subset of the platform API used by reconciliation.
type TransactionBackend interface {
	ListTransactions(ctx context.Context, filter TransactionFilter) (*models.TransactionPage, error)
	TransactionStats(ctx context.Context) (*models.TransactionStats, error)
	RetryTransaction(ctx context.Context, id string) error
	BulkUpdateTransactions(ctx context.Context, ids []string, status models.TransactionStatus) (*BulkUpdateResult, error)
}

// TransactionRow is a transaction plus whether the retry control is shown.
type TransactionRow struct {
	models.Transaction
	ShowRetry bool `json:"showRetry"`
}

type TransactionListView struct {
	Rows       []TransactionRow  `json:"rows"`
	Pagination models.Pagination `json:"pagination"`
}

// BulkRequest is an operator's bulk override. Confirmed must be set explicitly.
type BulkRequest struct {
	IDs       []string                 `json:"transactionIds"`
	Status    models.TransactionStatus `json:"status"`
	Confirmed bool                     `json:"confirm"`
}

// TransactionService backs the transaction reconciliation page. Retries and
// bulk overrides are sent unconditionally; the platform decides legality.
type TransactionService struct {
	backend  TransactionBackend
	cache    *cache.QueryCache
	auditor  Auditor
	notifier Notifier
	inflight *inflight
	sends    sync.WaitGroup
}

func NewTransactionService(backend TransactionBackend, queryCache *cache.QueryCache, auditor Auditor, notifier Notifier) *TransactionService {
	if auditor == nil {
		auditor = NopAuditor()
	}
	return &TransactionService{
		backend:  backend,
		cache:    queryCache,
		auditor:  auditor,
		notifier: notifier,
		inflight: newInflight(),
	}
}

// List returns one page of transactions with per-row retry eligibility.
func (s *TransactionService) List(ctx context.Context, filter TransactionFilter, refresh bool) (*TransactionListView, error) {
	page, err := cache.Fetch(ctx, s.cache, ResourceTransactions, filter.Values(), refresh,
		func(ctx context.Context) (*models.TransactionPage, error) {
			return s.backend.ListTransactions(ctx, filter)
		})
	if err != nil {
		return nil, err
	}

	rows := make([]TransactionRow, 0, len(page.Items))
	for _, txn := range page.Items {
		rows = append(rows, TransactionRow{
			Transaction: txn,
			ShowRetry:   lifecycle.ShouldShowRetry(txn.Status, txn.Output),
		})
	}
	return &TransactionListView{Rows: rows, Pagination: page.Pagination}, nil
}

// Stats returns the aggregate counters.
func (s *TransactionService) Stats(ctx context.Context, refresh bool) (*models.TransactionStats, error) {
	return cache.Fetch(ctx, s.cache, ResourceTransactionStats, nil, refresh, s.backend.TransactionStats)
}

// Retry re-triggers delivery for one transaction.
func (s *TransactionService) Retry(ctx context.Context, actor, id string) error {
	release, err := s.inflight.acquire("transaction:" + id)
	if err != nil {
		return err
	}
	defer release()

	err = s.backend.RetryTransaction(ctx, id)
	s.auditor.Record(ctx, AuditRecord{
		Actor:     actor,
		Action:    models.AuditTransactionRetry,
		TargetIDs: []string{id},
		Err:       err,
	})
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("transaction_id", id).Msg("manual retry failed")
		return err
	}

	s.cache.Invalidate(ResourceTransactions, ResourceTransactionStats)
	log.Ctx(ctx).Info().Str("transaction_id", id).Str("actor", actor).Msg("manual retry requested")

	s.notify(ctx, func(ctx context.Context, n Notifier) error {
		return n.NotifyManualRetry(ctx, RetryNotification{Actor: actor, TransactionID: id})
	})
	return nil
}

// BulkUpdate overrides the status of the selected transactions. An empty or
// unconfirmed selection is refused without contacting the platform.
func (s *TransactionService) BulkUpdate(ctx context.Context, actor string, req BulkRequest) (*BulkUpdateResult, error) {
	ids := CleanIDs(req.IDs)
	if len(ids) == 0 {
		return nil, ErrEmptySelection
	}
	if !lifecycle.IsBulkStatus(req.Status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBulkStatus, req.Status)
	}
	if !req.Confirmed {
		return nil, ErrConfirmationRequired
	}

	release, err := s.inflight.acquire("bulk:" + string(req.Status) + ":" + strings.Join(ids, ","))
	if err != nil {
		return nil, err
	}
	defer release()

	result, err := s.backend.BulkUpdateTransactions(ctx, ids, req.Status)
	s.auditor.Record(ctx, AuditRecord{
		Actor:     actor,
		Action:    models.AuditTransactionBulk,
		TargetIDs: ids,
		Payload:   map[string]any{"status": req.Status},
		Err:       err,
	})
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Int("count", len(ids)).Msg("bulk update failed")
		return nil, err
	}

	s.cache.Invalidate(ResourceTransactions, ResourceTransactionStats)
	log.Ctx(ctx).Info().Int("count", len(ids)).Str("status", string(req.Status)).Str("actor", actor).Msg("bulk update applied")

	s.notify(ctx, func(ctx context.Context, n Notifier) error {
		return n.NotifyBulkOverride(ctx, BulkNotification{Actor: actor, Status: req.Status, IDs: ids, Updated: result.Updated})
	})
	return result, nil
}

// Wait blocks until every pending notification has been sent. Short-lived
// callers such as the CLI must call it before exiting.
func (s *TransactionService) Wait() {
	s.sends.Wait()
}

// notify sends in the background so the operator is not held up by Telegram.
func (s *TransactionService) notify(ctx context.Context, send func(context.Context, Notifier) error) {
	if s.notifier == nil {
		return
	}
	bg := context.WithoutCancel(ctx)
	s.sends.Add(1)
	go func() {
		defer s.sends.Done()
		if err := send(bg, s.notifier); err != nil {
			log.Ctx(bg).Warn().Err(err).Msg("telegram notification failed")
		}
	}()
}

// CleanIDs trims ids and drops empty ones.
func CleanIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}
