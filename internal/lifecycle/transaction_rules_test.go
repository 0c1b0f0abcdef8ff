package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/topupadmin/internal/models"
)

func TestShouldShowRetry(t *testing.T) {
	tests := []struct {
		name   string
		status models.TransactionStatus
		output models.Output
		want   bool
	}{
		{"paid internal", models.TransactionPaid, models.OutputInternal, false},
		{"paid alternate", models.TransactionPaid, models.OutputAlternate, false},
		{"confirmed", models.TransactionConfirmed, models.OutputInternal, false},
		{"pending internal", models.TransactionPending, models.OutputInternal, true},
		{"pending alternate", models.TransactionPending, models.OutputAlternate, true},
		{"failed internal", models.TransactionFailed, models.OutputInternal, true},
		{"failed alternate", models.TransactionFailed, models.OutputAlternate, false},
		{"failed unknown output", models.TransactionFailed, models.Output(0), false},
		{"rejected", models.TransactionRejected, models.OutputInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldShowRetry(tt.status, tt.output))
		})
	}
}

func TestIsBulkStatus(t *testing.T) {
	assert.True(t, IsBulkStatus(models.TransactionRejected))
	assert.True(t, IsBulkStatus(models.TransactionPaid))
	assert.False(t, IsBulkStatus(models.TransactionPending))
	assert.False(t, IsBulkStatus("paid"))
}
