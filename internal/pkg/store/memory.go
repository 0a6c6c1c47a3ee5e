package store

import "sync"

// MemoryStore is an in-process Store, mainly for tests.
type MemoryStore struct {
	mu         sync.Mutex
	credential *string
	setupDone  bool
	writes     int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) HasCredential() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credential != nil, nil
}

func (s *MemoryStore) HasSetupCompleted() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setupDone, nil
}

func (s *MemoryStore) WriteCredential(value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = &value
	s.writes++
	return nil
}

func (s *MemoryStore) MarkSetupComplete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setupDone = true
	s.writes++
	return nil
}

// Credential returns the stored value and whether one was written.
func (s *MemoryStore) Credential() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.credential == nil {
		return "", false
	}
	return *s.credential, true
}

// Writes counts successful write operations.
func (s *MemoryStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
