package catalog

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"nachweis/pkg/platform/sentinel"
)

// InMemoryStore holds the seeded catalog plus per-subcontractor custom types.
type InMemoryStore struct {
	mu     sync.RWMutex
	types  []DocumentType
	byID   map[TypeID]DocumentType
	custom map[uuid.UUID][]DocumentType
}

// NewInMemoryStore validates and indexes the seeded types.
func NewInMemoryStore(types []DocumentType) (*InMemoryStore, error) {
	if err := Validate(types); err != nil {
		return nil, err
	}
	byID := make(map[TypeID]DocumentType, len(types))
	for _, t := range types {
		byID[t.ID] = t
	}
	return &InMemoryStore{
		types:  append([]DocumentType{}, types...),
		byID:   byID,
		custom: make(map[uuid.UUID][]DocumentType),
	}, nil
}

func (s *InMemoryStore) All(_ context.Context) ([]DocumentType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]DocumentType{}, s.types...), nil
}

func (s *InMemoryStore) Find(_ context.Context, id TypeID) (DocumentType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.byID[id]; ok {
		return t, nil
	}
	for _, list := range s.custom {
		for _, t := range list {
			if t.ID == id {
				return t, nil
			}
		}
	}
	return DocumentType{}, sentinel.ErrNotFound
}

func (s *InMemoryStore) ForSubcontractor(_ context.Context, subID uuid.UUID) ([]DocumentType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]DocumentType{}, s.types...)
	out = append(out, s.custom[subID]...)
	return out, nil
}

func (s *InMemoryStore) AddCustom(_ context.Context, subID uuid.UUID, t DocumentType) error {
	if !t.Custom {
		return sentinel.ErrInvalidState
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[t.ID]; exists {
		return sentinel.ErrConflict
	}
	for _, existing := range s.custom[subID] {
		if existing.ID == t.ID {
			return sentinel.ErrConflict
		}
	}
	s.custom[subID] = append(s.custom[subID], t)
	return nil
}

func (s *InMemoryStore) RemoveCustom(_ context.Context, subID uuid.UUID, id TypeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.custom[subID]
	for i, t := range list {
		if t.ID == id {
			s.custom[subID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return sentinel.ErrNotFound
}
