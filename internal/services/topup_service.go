package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/example/topupadmin/internal/cache"
	"github.com/example/topupadmin/internal/lifecycle"
	"github.com/example/topupadmin/internal/models"
)

// TopupBackend is the subset of the platform API used by the retry queue view.
type TopupBackend interface {
	ListPendingTopups(ctx context.Context, filter TopupFilter) ([]models.RetryJob, error)
	GetPendingTopup(ctx context.Context, jobID string) (*models.RetryJobDetail, error)
}

// QueueRow is one line of the retry queue table. Attempt counters are shown
// exactly as the queue reports them.
type QueueRow struct {
	JobID                       string            `json:"job_id"`
	State                       models.QueueState `json:"state"`
	StateLabel                  string            `json:"state_label"`
	NextRunAt                   *time.Time        `json:"next_run_at"`
	Attempt                     string            `json:"attempt"`
	TriesTotal                  int               `json:"tries_total"`
	TriesRemainingIncludingNext int               `json:"tries_remaining_including_next"`
	OrderID                     string            `json:"order_id"`
	OrderItemID                 string            `json:"order_item_id"`
	LastStatus                  string            `json:"last_status,omitempty"`
	LastError                   string            `json:"last_error,omitempty"`
}

// QueueDetail is a row plus the queue's raw payload for diagnostics.
type QueueDetail struct {
	QueueRow
	Raw json.RawMessage `json:"raw"`
}

// TopupQueueService backs the read-only retry queue monitor.
type TopupQueueService struct {
	backend TopupBackend
	cache   *cache.QueryCache
}

func NewTopupQueueService(backend TopupBackend, queryCache *cache.QueryCache) *TopupQueueService {
	return &TopupQueueService{backend: backend, cache: queryCache}
}

// List returns one row per pending job. The limit is clamped to the queue cap.
func (s *TopupQueueService) List(ctx context.Context, filter TopupFilter, refresh bool) ([]QueueRow, error) {
	filter.Limit = lifecycle.ClampLimit(filter.Limit)

	jobs, err := cache.Fetch(ctx, s.cache, ResourceTopups, filter.Values(), refresh,
		func(ctx context.Context) ([]models.RetryJob, error) {
			return s.backend.ListPendingTopups(ctx, filter)
		})
	if err != nil {
		return nil, err
	}

	rows := make([]QueueRow, 0, len(jobs))
	for _, job := range jobs {
		rows = append(rows, newQueueRow(job))
	}
	return rows, nil
}

// Get returns a single job with its raw queue payload.
func (s *TopupQueueService) Get(ctx context.Context, jobID string, refresh bool) (*QueueDetail, error) {
	detail, err := cache.Fetch(ctx, s.cache, ResourceTopupJob, url.Values{"job_id": {jobID}}, refresh,
		func(ctx context.Context) (*models.RetryJobDetail, error) {
			return s.backend.GetPendingTopup(ctx, jobID)
		})
	if err != nil {
		return nil, err
	}

	return &QueueDetail{QueueRow: newQueueRow(detail.RetryJob), Raw: detail.Raw}, nil
}

func newQueueRow(job models.RetryJob) QueueRow {
	row := QueueRow{
		JobID:                       job.JobID,
		State:                       job.State,
		StateLabel:                  lifecycle.QueueLabel(job.State),
		NextRunAt:                   job.NextRunAt,
		Attempt:                     fmt.Sprintf("%d/%d", job.NextTry, job.TriesTotal),
		TriesTotal:                  job.TriesTotal,
		TriesRemainingIncludingNext: job.TriesRemainingIncludingNext,
		OrderID:                     job.OrderID,
		OrderItemID:                 job.OrderItemID,
	}
	if job.LastLog != nil {
		row.LastStatus = job.LastLog.Status
		row.LastError = job.LastLog.ErrorMessage
		if row.LastError == "" {
			row.LastError = job.LastLog.ErrorCode
		}
	}
	return row
}
