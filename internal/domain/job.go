package domain

import (
	"fmt"
	"time"
)

// JobStatus enumerates job lifecycle states. The values double as the wire
// format on the worker API, so they stay upper-case.
type JobStatus string

const (
	StatusAwaitingPayment JobStatus = "AWAITING_PAYMENT"
	StatusPending         JobStatus = "PENDING"
	StatusRunning         JobStatus = "RUNNING"
	StatusCompleted       JobStatus = "COMPLETED"
	StatusFailed          JobStatus = "FAILED"
)

// Job is one user-initiated render request tracked from creation to a
// terminal state. The store hands out copies; nothing outside it holds a
// mutable reference.
type Job struct {
	ID        string
	Prompt    string
	ChatID    int64
	Locale    string
	Status    JobStatus
	CreatedAt time.Time
	ClaimedAt time.Time
}

// successors is the legal transition graph. Terminal states have no entry.
var successors = map[JobStatus][]JobStatus{
	StatusAwaitingPayment: {StatusPending},
	StatusPending:         {StatusRunning},
	StatusRunning:         {StatusCompleted, StatusFailed},
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	for _, candidate := range successors[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is permitted.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// ParseStatus maps a wire string onto a known status.
func ParseStatus(raw string) (JobStatus, error) {
	switch JobStatus(raw) {
	case StatusAwaitingPayment, StatusPending, StatusRunning, StatusCompleted, StatusFailed:
		return JobStatus(raw), nil
	}
	return "", fmt.Errorf("unknown job status %q", raw)
}
