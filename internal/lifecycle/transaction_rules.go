package lifecycle

import "github.com/example/topupadmin/internal/models"

// ShouldShowRetry decides whether the manual retry control is offered for a
// transaction. Failed transactions are retryable only on the internal path.
func ShouldShowRetry(status models.TransactionStatus, output models.Output) bool {
	switch status {
	case models.TransactionPaid, models.TransactionConfirmed:
		return false
	case models.TransactionPending:
		return true
	case models.TransactionFailed:
		return output == models.OutputInternal
	default:
		return false
	}
}

// BulkStatuses are the statuses a bulk override may set.
var BulkStatuses = []models.TransactionStatus{
	models.TransactionConfirmed,
	models.TransactionPaid,
	models.TransactionFailed,
	models.TransactionRejected,
}

func IsBulkStatus(status models.TransactionStatus) bool {
	for _, s := range BulkStatuses {
		if s == status {
			return true
		}
	}
	return false
}
