// Package store owns every Job record. All status changes for a job go
// through a single mutex so that a pending job can be claimed by at most one
// caller, ever.
package store

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"dispatch/internal/domain"
)

// Store is the in-memory job table plus a FIFO index of claimable jobs.
// Claim order is enqueue order, not map iteration order.
type Store struct {
	mu      sync.Mutex
	jobs    map[string]*domain.Job
	pending []string
	now     func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{
		jobs: make(map[string]*domain.Job),
		now:  time.Now,
	}
}

// Create inserts a new job at the given initial status and returns a
// snapshot. Only AWAITING_PAYMENT and PENDING are valid starting points.
func (s *Store) Create(prompt string, chatID int64, locale string, initial domain.JobStatus) (domain.Job, error) {
	if initial != domain.StatusAwaitingPayment && initial != domain.StatusPending {
		return domain.Job{}, fmt.Errorf("create job with status %s: %w", initial, domain.ErrInvalidStatus)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	for s.jobs[id] != nil {
		// 122 bits of randomness makes this unreachable in practice.
		id = uuid.NewString()
	}

	job := &domain.Job{
		ID:        id,
		Prompt:    prompt,
		ChatID:    chatID,
		Locale:    locale,
		Status:    initial,
		CreatedAt: s.now().UTC(),
	}
	s.jobs[id] = job
	if initial == domain.StatusPending {
		s.pending = append(s.pending, id)
	}
	return *job, nil
}

// ClaimNextPending hands out the oldest PENDING job, flipping it to RUNNING
// in the same critical section. It never blocks: when nothing is claimable it
// returns false immediately.
func (s *Store) ClaimNextPending() (domain.Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.pending) > 0 {
		id := s.pending[0]
		s.pending = s.pending[1:]
		job, ok := s.jobs[id]
		if !ok || job.Status != domain.StatusPending {
			// Stale index entry; the job moved on through another path.
			continue
		}
		job.Status = domain.StatusRunning
		job.ClaimedAt = s.now().UTC()
		return *job, true
	}
	return domain.Job{}, false
}

// Transition moves a job to next after validating the edge against the legal
// graph. Illegal edges are rejected, never silently accepted.
func (s *Store) Transition(id string, next domain.JobStatus) (domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return domain.Job{}, fmt.Errorf("job %s: %w", id, domain.ErrNotFound)
	}
	if !job.Status.CanTransitionTo(next) {
		return domain.Job{}, fmt.Errorf("job %s: %s -> %s: %w", id, job.Status, next, domain.ErrInvalidTransition)
	}
	job.Status = next
	if next == domain.StatusPending {
		s.pending = append(s.pending, id)
	}
	return *job, nil
}

// Get returns a snapshot of the job.
func (s *Store) Get(id string) (domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return domain.Job{}, fmt.Errorf("job %s: %w", id, domain.ErrNotFound)
	}
	return *job, nil
}

// PendingCount reports how many jobs are currently claimable.
func (s *Store) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, id := range s.pending {
		if job, ok := s.jobs[id]; ok && job.Status == domain.StatusPending {
			n++
		}
	}
	return n
}

// ReclaimStuck requeues RUNNING jobs that were claimed more than olderThan
// ago, oldest claim first, and returns their ids. Callers that never invoke
// it get the historical behavior: a dead worker leaves its job RUNNING
// forever.
func (s *Store) ReclaimStuck(olderThan time.Duration) []string {
	cutoff := s.now().Add(-olderThan)

	s.mu.Lock()
	defer s.mu.Unlock()

	var stuck []*domain.Job
	for _, job := range s.jobs {
		if job.Status == domain.StatusRunning && job.ClaimedAt.Before(cutoff) {
			stuck = append(stuck, job)
		}
	}
	sort.Slice(stuck, func(i, j int) bool { return stuck[i].ClaimedAt.Before(stuck[j].ClaimedAt) })

	ids := make([]string, 0, len(stuck))
	for _, job := range stuck {
		job.Status = domain.StatusPending
		job.ClaimedAt = time.Time{}
		s.pending = append(s.pending, job.ID)
		ids = append(ids, job.ID)
	}
	return ids
}
