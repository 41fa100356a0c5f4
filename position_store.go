package router

import "sync"

// positionStore maps history state keys to saved scroll offsets. Entries are
// overwritten, never deleted.
type positionStore struct {
	mu    sync.RWMutex
	store map[string]Position
}

func newPositionStore() *positionStore {
	return &positionStore{
		store: make(map[string]Position),
	}
}

func (s *positionStore) Set(key string, pos Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		s.store = make(map[string]Position)
	}
	s.store[key] = pos
}

func (s *positionStore) Get(key string) (Position, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pos, ok := s.store[key]
	return pos, ok
}

func (s *positionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.store)
}
