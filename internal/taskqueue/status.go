package taskqueue

import (
	"sync"

	"github.com/google/uuid"
)

// statusStore is a lock-protected map of job ID to last-known Status,
// read by the debug HTTP surface.
type statusStore struct {
	mu    sync.RWMutex
	byJob map[uuid.UUID]Status
}

func newStatusStore() *statusStore {
	return &statusStore{byJob: make(map[uuid.UUID]Status)}
}

func (s *statusStore) set(id uuid.UUID, status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byJob[id] = status
}

// Get returns the last-known status for id.
func (s *statusStore) Get(id uuid.UUID) (Status, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status, ok := s.byJob[id]
	return status, ok
}
