package memory

import (
	"context"
	"sync"

	"github.com/quantiva/dashboard/internal/core/domain"
)

// RecordStorage is a process-local map. Records vanish with the process.
type RecordStorage struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func NewRecordStorage() *RecordStorage {
	return &RecordStorage{records: make(map[string][]byte)}
}

func (s *RecordStorage) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.records[key]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *RecordStorage) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[key] = append([]byte(nil), value...)
	return nil
}

func (s *RecordStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, key)
	return nil
}

func (s *RecordStorage) Ping(context.Context) error {
	return nil
}
