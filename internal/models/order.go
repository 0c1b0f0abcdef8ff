package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order as reported by the platform.
type OrderStatus string

const (
	OrderCreated   OrderStatus = "created"
	OrderPaid      OrderStatus = "paid"
	OrderFulfilled OrderStatus = "fulfilled"
	OrderCancelled OrderStatus = "cancelled"
	OrderRefunded  OrderStatus = "refunded"
)

// OrderStatuses lists every known order status in lifecycle order.
var OrderStatuses = []OrderStatus{OrderCreated, OrderPaid, OrderFulfilled, OrderCancelled, OrderRefunded}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Order is the enriched order returned by GET /admin/orders/:id?full=1.
type Order struct {
	ID         string          `json:"id"`
	Status     OrderStatus     `json:"status"`
	Currency   string          `json:"currency"`
	TotalMinor int64           `json:"total_minor"`
	Contact    Contact         `json:"contact"`
	Items      []OrderItem     `json:"items"`
	Payments   []Payment       `json:"payments"`
	Summary    OrderSummary    `json:"summary"`
	Timeline   []TimelineEntry `json:"timeline"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  *time.Time      `json:"updated_at,omitempty"`
}

// OrderItem is a single top-up line. Prices are AFN minor units; the USD
// display amount is snapshotted at checkout together with the rate used.
type OrderItem struct {
	ID                  string           `json:"id"`
	OrderID             string           `json:"order_id"`
	VariantID           string           `json:"variant_id"`
	VariantName         string           `json:"variant_name"`
	Operator            string           `json:"operator"`
	Quantity            int              `json:"quantity"`
	UnitPriceMinor      int64            `json:"unit_price_minor"`
	DisplayUSDMinor     *int64           `json:"display_usd_minor"`
	FXRateToUSDSnapshot *decimal.Decimal `json:"fx_rate_to_usd_snapshot"`
	FXSyncedAt          *time.Time       `json:"fx_synced_at"`
	MSISDNMasked        string           `json:"msisdn_masked"`
	TopupLogs           []TopupLog       `json:"topup_logs"`
}

// HasUSDSnapshot reports whether the item carries a USD display amount.
func (i OrderItem) HasUSDSnapshot() bool {
	return i.DisplayUSDMinor != nil && i.FXRateToUSDSnapshot != nil
}

// SnapshotConsistent is false when only one half of the USD snapshot is present.
func (i OrderItem) SnapshotConsistent() bool {
	return (i.DisplayUSDMinor == nil) == (i.FXRateToUSDSnapshot == nil)
}

// LineTotalMinor is quantity times unit price.
func (i OrderItem) LineTotalMinor() int64 {
	return int64(i.Quantity) * i.UnitPriceMinor
}

// LatestLog returns the most recent delivery attempt, if any.
func (i OrderItem) LatestLog() *TopupLog {
	var latest *TopupLog
	for idx := range i.TopupLogs {
		log := &i.TopupLogs[idx]
		if latest == nil || log.CreatedAt.After(latest.CreatedAt) {
			latest = log
		}
	}
	return latest
}

// OrderSummary is computed by the platform and passed through untouched.
type OrderSummary struct {
	PaidMinor     int64  `json:"paid_minor"`
	RefundedMinor int64  `json:"refunded_minor"`
	CanRefund     bool   `json:"can_refund"`
	CanRetryTopup bool   `json:"can_retry_topup"`
	PaymentStatus string `json:"payment_status"`
	TopupStatus   string `json:"topup_status"`
}

type TimelineEntry struct {
	At    time.Time `json:"at"`
	Event string    `json:"event"`
	Actor string    `json:"actor,omitempty"`
	Note  string    `json:"note,omitempty"`
}
