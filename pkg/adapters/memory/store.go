package memory

import (
	"context"
	"sync"

	"github.com/aretw0/anilink/pkg/domain"
)

// Store implements ports.SubjectStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]domain.Subject
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]domain.Subject),
	}
}

// Save stores a copy of the subject, replacing any previous record.
func (s *Store) Save(ctx context.Context, subject domain.Subject) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[subject.ID] = subject
	return nil
}

// Load returns a copy of the stored subject so callers can't mutate the store directly.
func (s *Store) Load(ctx context.Context, id string) (domain.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	subject, ok := s.data[id]
	if !ok {
		return domain.Subject{}, domain.ErrNotFound
	}
	return subject, nil
}

// Delete removes the subject.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns all stored subjects.
func (s *Store) List(ctx context.Context) ([]domain.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	subjects := make([]domain.Subject, 0, len(s.data))
	for _, subject := range s.data {
		subjects = append(subjects, subject)
	}
	return subjects, nil
}

// Len returns the number of stored subjects.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
