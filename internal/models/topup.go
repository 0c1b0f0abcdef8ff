package models

import (
	"encoding/json"
	"time"
)

// TopupLog records one delivery attempt for an order item.
type TopupLog struct {
	ID            string    `json:"id"`
	OrderItemID   string    `json:"order_item_id"`
	Status        string    `json:"status"`
	Provider      string    `json:"provider"`
	MSISDNMasked  string    `json:"msisdn_masked"`
	ProviderTxnID string    `json:"provider_txn_id"`
	ErrorCode     string    `json:"error_code,omitempty"`
	ErrorMessage  string    `json:"error_message,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// QueueState is the job queue's view of a pending delivery.
type QueueState string

const (
	QueueWaiting QueueState = "waiting"
	QueueDelayed QueueState = "delayed"
	QueueActive  QueueState = "active"
)

// RetryJob is a pending top-up delivery job observed in the platform queue.
type RetryJob struct {
	JobID                       string     `json:"job_id"`
	State                       QueueState `json:"state"`
	NextRunAt                   *time.Time `json:"next_run_at"`
	NextTry                     int        `json:"next_try"`
	TriesTotal                  int        `json:"tries_total"`
	TriesRemainingIncludingNext int        `json:"tries_remaining_including_next"`
	OrderID                     string     `json:"order_id"`
	OrderItemID                 string     `json:"order_item_id"`
	LastLog                     *TopupLog  `json:"last_log"`
}

// RetryJobDetail adds the raw queue payload, which is owned by the queue and
// kept opaque here.
type RetryJobDetail struct {
	RetryJob
	Raw json.RawMessage `json:"raw"`
}
