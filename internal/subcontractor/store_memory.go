package subcontractor

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"nachweis/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]*Subcontractor
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{accounts: make(map[uuid.UUID]*Subcontractor)}
}

func (s *InMemoryStore) Save(_ context.Context, sub *Subcontractor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sub
	s.accounts[sub.ID] = &cp
	return nil
}

func (s *InMemoryStore) Find(_ context.Context, id uuid.UUID) (*Subcontractor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.accounts[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *sub
	return &cp, nil
}

func (s *InMemoryStore) List(_ context.Context) ([]*Subcontractor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Subcontractor, 0, len(s.accounts))
	for _, sub := range s.accounts {
		cp := *sub
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.Before(out[k].CreatedAt) })
	return out, nil
}

func (s *InMemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.accounts, id)
	return nil
}
