package scheduler

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"nachweis/pkg/platform/sentinel"
)

// InMemoryStore keeps jobs keyed by ID. Claim takes the write lock for the
// whole compare-and-set, which gives the same exclusivity the Postgres
// implementation gets from a conditional UPDATE.
type InMemoryStore struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]*Job
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{jobs: make(map[uuid.UUID]*Job)}
}

func (s *InMemoryStore) Save(_ context.Context, j *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *j
	s.jobs[j.ID] = &cp
	return nil
}

func (s *InMemoryStore) Find(_ context.Context, id uuid.UUID) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (s *InMemoryStore) FindActiveByRequirement(_ context.Context, requirementID uuid.UUID) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, j := range s.jobs {
		if j.RequirementID == requirementID && j.Active() {
			cp := *j
			return &cp, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) ListDue(_ context.Context, now time.Time, limit int) ([]*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var due []*Job
	for _, j := range s.jobs {
		claimable := j.State == StateScheduled || j.State == StateSent
		if claimable && !j.NextRunAt.After(now) {
			cp := *j
			due = append(due, &cp)
		}
	}
	sort.Slice(due, func(i, k int) bool { return due[i].NextRunAt.Before(due[k].NextRunAt) })
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (s *InMemoryStore) Claim(_ context.Context, id uuid.UUID, expectedAttempts int, now time.Time) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	claimable := j.State == StateScheduled || j.State == StateSent
	if !claimable || j.Attempts != expectedAttempts || j.NextRunAt.After(now) {
		return nil, sentinel.ErrConflict
	}
	j.State = StateSent
	j.NextRunAt = now.Add(claimLease)
	j.UpdatedAt = now
	cp := *j
	return &cp, nil
}

func (s *InMemoryStore) Release(_ context.Context, j *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.jobs[j.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	// A retire that landed mid-send already moved the job off Sent; the
	// write-back loses and the job stays retired.
	if stored.State != StateSent {
		return sentinel.ErrConflict
	}
	cp := *j
	s.jobs[j.ID] = &cp
	return nil
}

func (s *InMemoryStore) RetireByRequirement(_ context.Context, requirementID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range s.jobs {
		if j.RequirementID == requirementID && j.Active() {
			j.State = StateDone
			j.UpdatedAt = time.Now()
		}
	}
	return nil
}

func (s *InMemoryStore) RetireBySubcontractor(_ context.Context, subID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range s.jobs {
		if j.SubcontractorID == subID && j.Active() {
			j.State = StateDone
			j.UpdatedAt = time.Now()
		}
	}
	return nil
}
