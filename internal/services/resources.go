package services

// Query cache resources. Mutations invalidate by resource.
const (
	ResourceOrder            = "order"
	ResourceTopups           = "topups"
	ResourceTopupJob         = "topup-job"
	ResourceTransactions     = "transactions"
	ResourceTransactionStats = "transaction-stats"
)
