package learning

import "sync"

// MemoryStore is the default in-process learning backend. History is lost
// on shutdown, which is acceptable: learning is an accelerator, not a
// source of truth.
type MemoryStore struct {
	mu sync.RWMutex
	// userID -> normalized input -> chosen path -> count
	data map[string]map[string]map[string]int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]map[string]map[string]int),
	}
}

// Record implements Store.
func (s *MemoryStore) Record(userID, input, chosenPath string) error {
	input = normalizeInput(input)
	if input == "" || chosenPath == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	byInput, ok := s.data[userID]
	if !ok {
		byInput = make(map[string]map[string]int)
		s.data[userID] = byInput
	}
	byPath, ok := byInput[input]
	if !ok {
		byPath = make(map[string]int)
		byInput[input] = byPath
	}
	byPath[chosenPath]++
	return nil
}

// Lookup implements Store.
func (s *MemoryStore) Lookup(userID, input string) (Suggestion, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byInput, ok := s.data[userID]
	if !ok {
		return Suggestion{}, false
	}
	counts, ok := byInput[normalizeInput(input)]
	if !ok {
		return Suggestion{}, false
	}
	return bestOf(counts)
}

// Close implements Store. Nothing to release.
func (s *MemoryStore) Close() error {
	return nil
}
