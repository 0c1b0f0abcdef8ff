package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the reconciliation state of a payment/delivery transaction.
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "Pending"
	TransactionPaid      TransactionStatus = "Paid"
	TransactionConfirmed TransactionStatus = "Confirmed"
	TransactionFailed    TransactionStatus = "Failed"
	TransactionRejected  TransactionStatus = "Rejected"
)

// Output identifies which delivery path processed a transaction.
type Output int

const (
	OutputInternal  Output = 1
	OutputAlternate Output = 2
)

type Transaction struct {
	ID           string            `json:"id"`
	Reference    string            `json:"reference"`
	Phone        string            `json:"phone"`
	Amount       decimal.Decimal   `json:"amount"`
	Currency     string            `json:"currency"`
	Status       TransactionStatus `json:"status"`
	Output       Output            `json:"output"`
	Provider     string            `json:"provider"`
	ErrorMessage string            `json:"errorMessage,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    *time.Time        `json:"updatedAt,omitempty"`
}

// Pagination mirrors the platform's paging metadata.
type Pagination struct {
	CurrentPage  int  `json:"currentPage"`
	TotalPages   int  `json:"totalPages"`
	TotalItems   int  `json:"totalItems"`
	ItemsPerPage int  `json:"itemsPerPage"`
	HasNextPage  bool `json:"hasNextPage"`
	HasPrevPage  bool `json:"hasPrevPage"`
}

type TransactionPage struct {
	Items      []Transaction `json:"data"`
	Pagination Pagination    `json:"pagination"`
}

// TransactionStats is the aggregate query shown above the transaction table.
type TransactionStats struct {
	Total       int             `json:"total"`
	Pending     int             `json:"pending"`
	Paid        int             `json:"paid"`
	Confirmed   int             `json:"confirmed"`
	Failed      int             `json:"failed"`
	Rejected    int             `json:"rejected"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}
