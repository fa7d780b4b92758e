package session

import (
	"context"
	"sync"
)

type MemoryStore struct {
	mu    sync.RWMutex
	users map[int64]Continuation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[int64]Continuation)}
}

func (s *MemoryStore) Put(_ context.Context, userID int64, c Continuation) error {
	s.mu.Lock()
	s.users[userID] = c
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Pop(_ context.Context, userID int64) (Continuation, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.users[userID]
	if ok {
		delete(s.users, userID)
	}
	return c, ok, nil
}

func (s *MemoryStore) Clear(_ context.Context, userID int64) error {
	s.mu.Lock()
	delete(s.users, userID)
	s.mu.Unlock()
	return nil
}
