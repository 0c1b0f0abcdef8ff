package models

import (
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

const (
	AuditOrderStatus      = "order.status"
	AuditOrderCancel      = "order.cancel"
	AuditTransactionRetry = "transaction.retry"
	AuditTransactionBulk  = "transaction.bulk_update"

	AuditOutcomeOK    = "ok"
	AuditOutcomeError = "error"
)

// AuditEntry records one operator mutation attempt made through the console.
type AuditEntry struct {
	BaseModel
	Actor     string         `gorm:"index" json:"actor"`
	Action    string         `gorm:"index" json:"action"`
	TargetIDs pq.StringArray `gorm:"type:text[]" json:"target_ids"`
	Payload   datatypes.JSON `gorm:"type:jsonb" json:"payload"`
	Outcome   string         `json:"outcome"`
	Error     string         `json:"error,omitempty"`
}
