package order

import (
	"strings"

	"storefront/domain/shared"
)

// Status order lifecycle state
type Status string

const (
	StatusPending   Status = "pending"   // placed, awaiting payment
	StatusPaid      Status = "paid"      // payment captured
	StatusShipped   Status = "shipped"   // handed to the carrier
	StatusCompleted Status = "completed" // terminal
	StatusCancelled Status = "cancelled" // terminal
)

// transitions allowed target states per source state
var transitions = map[Status][]Status{
	StatusPending:   {StatusPaid, StatusCancelled},
	StatusPaid:      {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusCompleted},
	StatusCompleted: nil,
	StatusCancelled: nil,
}

// ParseStatus parses a status name case-insensitively.
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := transitions[status]; !ok {
		return "", shared.NewValidationError("order", "status", "unknown order status "+s)
	}
	return status, nil
}

// CanTransitionTo reports whether s -> target is allowed.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal completed and cancelled orders accept no further transitions.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

func (s Status) String() string { return string(s) }
