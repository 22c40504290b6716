package requirement

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"nachweis/internal/catalog"
	"nachweis/pkg/platform/sentinel"
)

// InMemoryStore keeps requirements keyed by ID with copy-on-read semantics
// so callers cannot mutate stored state behind the service's back.
type InMemoryStore struct {
	mu           sync.RWMutex
	requirements map[uuid.UUID]*Requirement
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{requirements: make(map[uuid.UUID]*Requirement)}
}

func (s *InMemoryStore) Save(_ context.Context, r *Requirement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requirements[r.ID] = clone(r)
	return nil
}

func (s *InMemoryStore) Find(_ context.Context, id uuid.UUID) (*Requirement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.requirements[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(r), nil
}

func (s *InMemoryStore) FindByType(_ context.Context, subID uuid.UUID, typeID catalog.TypeID, assignmentID *uuid.UUID) (*Requirement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.requirements {
		if r.SubcontractorID == subID && r.TypeID == typeID && sameAssignment(r.AssignmentID, assignmentID) {
			return clone(r), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) ListBySubcontractor(_ context.Context, subID uuid.UUID) ([]*Requirement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Requirement
	for _, r := range s.requirements {
		if r.SubcontractorID == subID {
			out = append(out, clone(r))
		}
	}
	// Same ordering as the postgres store.
	sort.Slice(out, func(i, j int) bool {
		if out[i].TypeID != out[j].TypeID {
			return out[i].TypeID < out[j].TypeID
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (s *InMemoryStore) DeleteBySubcontractor(_ context.Context, subID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.requirements {
		if r.SubcontractorID == subID {
			delete(s.requirements, id)
		}
	}
	return nil
}

func sameAssignment(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func clone(r *Requirement) *Requirement {
	out := *r
	out.History = append([]Entry{}, r.History...)
	if r.AssignmentID != nil {
		id := *r.AssignmentID
		out.AssignmentID = &id
	}
	if r.DueDate != nil {
		d := *r.DueDate
		out.DueDate = &d
	}
	if r.ValidUntil != nil {
		v := *r.ValidUntil
		out.ValidUntil = &v
	}
	return &out
}
