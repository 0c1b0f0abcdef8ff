package lifecycle

import "github.com/example/topupadmin/internal/models"

const (
	DefaultQueueLimit = 200
	MaxQueueLimit     = 500
)

var queueLabels = map[models.QueueState]string{
	models.QueueActive:  "Active",
	models.QueueDelayed: "Scheduled",
	models.QueueWaiting: "Waiting",
}

// QueueLabel maps a queue state to its display label. Unknown states are shown raw.
func QueueLabel(state models.QueueState) string {
	if label, ok := queueLabels[state]; ok {
		return label
	}
	return string(state)
}

// ClampLimit applies the pending-queue result cap: 0 means default.
func ClampLimit(limit int) int {
	switch {
	case limit == 0:
		return DefaultQueueLimit
	case limit < 1:
		return 1
	case limit > MaxQueueLimit:
		return MaxQueueLimit
	default:
		return limit
	}
}
