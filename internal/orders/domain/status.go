package domain

import "go-delivery/pkg/errors"

// Status represents the fulfillment state of an order
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusPreparing  Status = "PREPARING"
	StatusDispatched Status = "DISPATCHED"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
)

// transitions is the adjacency table of legal lifecycle moves. Cancellation is
// only possible before dispatch; DELIVERED and CANCELLED are terminal.
var transitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusPreparing, StatusCancelled},
	StatusPreparing:  {StatusDispatched, StatusCancelled},
	StatusDispatched: {StatusDelivered},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// ParseStatus converts a wire value into a Status
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.Valid() {
		return "", errors.NewValidation("unknown order status", map[string]interface{}{
			"status": s,
		})
	}
	return status, nil
}

// Valid reports whether the status is a known lifecycle state
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal reports whether no further transitions are possible
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0 && s.Valid()
}

// CanTransitionTo reports whether the move to target is legal
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}
