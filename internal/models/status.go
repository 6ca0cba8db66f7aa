package models

import "errors"

// Status is the lifecycle state of a job submission.
type Status string

const (
	StatusSubmitted         Status = "submitted"
	StatusJobNumberAssigned Status = "job_number_assigned"
	StatusLOESent           Status = "loe_sent"
	StatusLOESigned         Status = "loe_signed"
	StatusPaid              Status = "paid"
	StatusCompleted         Status = "completed"
	StatusCancelled         Status = "cancelled"
)

// ErrInvalidTransition is returned when a status change would skip a step,
// move backwards, or leave a terminal state.
var ErrInvalidTransition = errors.New("invalid status transition")

// transitions defines every legal move. Statuses only advance forward through
// the workflow; cancelled is reachable from any non-terminal state.
var transitions = map[Status][]Status{
	StatusSubmitted:         {StatusJobNumberAssigned, StatusCancelled},
	StatusJobNumberAssigned: {StatusLOESent, StatusCancelled},
	StatusLOESent:           {StatusLOESigned, StatusCancelled},
	StatusLOESigned:         {StatusPaid, StatusCancelled},
	StatusPaid:              {StatusCompleted, StatusCancelled},
	StatusCompleted:         {},
	StatusCancelled:         {},
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether no further transitions are possible from s.
func (s Status) Terminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// CanTransitionTo reports whether moving from s to next is a legal transition.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Transition validates a status change and returns the new status.
// Returns ErrInvalidTransition if the move is not in the transition table.
func Transition(current, next Status) (Status, error) {
	if !current.Valid() || !next.Valid() {
		return current, ErrInvalidTransition
	}
	if !current.CanTransitionTo(next) {
		return current, ErrInvalidTransition
	}
	return next, nil
}

// ValidStatuses returns every known status value, in workflow order.
func ValidStatuses() []Status {
	return []Status{
		StatusSubmitted,
		StatusJobNumberAssigned,
		StatusLOESent,
		StatusLOESigned,
		StatusPaid,
		StatusCompleted,
		StatusCancelled,
	}
}
