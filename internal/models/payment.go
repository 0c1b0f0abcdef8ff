package models

import "time"

const PaymentSucceeded = "succeeded"

// Payment is one capture attempt against an order.
type Payment struct {
	ID          string    `json:"id"`
	OrderID     string    `json:"order_id"`
	Provider    string    `json:"provider"`
	AmountMinor int64     `json:"amount_minor"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	ProviderRef string    `json:"provider_ref"`
	CreatedAt   time.Time `json:"created_at"`
}

func (p Payment) Succeeded() bool {
	return p.Status == PaymentSucceeded
}
