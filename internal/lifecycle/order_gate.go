// Package lifecycle holds the pure rules the console applies on top of
// platform state: which order transitions an operator may request, when a
// transaction may be retried, and how queue states are labelled.
package lifecycle

import (
	"fmt"

	"github.com/example/topupadmin/internal/models"
)

// nextStatuses is the operator-facing order transition table. Orders never
// regress; cancelled and refunded are terminal.
var nextStatuses = map[models.OrderStatus][]models.OrderStatus{
	models.OrderCreated:   {models.OrderPaid, models.OrderCancelled},
	models.OrderPaid:      {models.OrderFulfilled, models.OrderRefunded},
	models.OrderFulfilled: {models.OrderRefunded},
	models.OrderCancelled: {},
	models.OrderRefunded:  {},
}

// noCancel lists the statuses for which the dedicated cancel action is hidden.
var noCancel = map[models.OrderStatus]bool{
	models.OrderCancelled: true,
	models.OrderRefunded:  true,
	models.OrderFulfilled: true,
}

// NextStatuses returns the statuses an operator may move an order to.
// Unknown statuses have no next statuses.
func NextStatuses(current models.OrderStatus) []models.OrderStatus {
	next := nextStatuses[current]
	out := make([]models.OrderStatus, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether from -> to is in the transition table.
func CanTransition(from, to models.OrderStatus) bool {
	for _, candidate := range nextStatuses[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// CanCancel reports whether the cancel action is offered. It is independent of
// the transition table: cancel goes through its own platform endpoint.
func CanCancel(status models.OrderStatus) bool {
	return !noCancel[status]
}

const (
	ActionStatus = "status"
	ActionCancel = "cancel"
)

// Action is one operator button on the order page.
type Action struct {
	Kind   string             `json:"kind"`
	Target models.OrderStatus `json:"target,omitempty"`
	Label  string             `json:"label"`
}

// Actions returns the buttons offered for an order in the given status.
func Actions(status models.OrderStatus) []Action {
	actions := make([]Action, 0, 3)
	if CanCancel(status) {
		actions = append(actions, Action{Kind: ActionCancel, Label: "Cancel order"})
	}
	for _, next := range nextStatuses[status] {
		actions = append(actions, Action{
			Kind:   ActionStatus,
			Target: next,
			Label:  fmt.Sprintf("Mark %s", next),
		})
	}
	return actions
}
