// Package blob holds produced files in memory until they are downloaded.
package blob

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/scholardocs/internal/core/domain"
	"github.com/custodia-labs/scholardocs/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.BlobStore = (*Store)(nil)

// Store is an in-memory BlobStore. Outputs never touch disk until downloaded.
type Store struct {
	mu     sync.Mutex
	blobs  map[string]*domain.ToolOutput
	timers map[string]*time.Timer
}

// NewStore creates an empty blob store.
func NewStore() *Store {
	return &Store{
		blobs:  make(map[string]*domain.ToolOutput),
		timers: make(map[string]*time.Timer),
	}
}

// Put stores a copy of output and returns its handle.
func (s *Store) Put(output *domain.ToolOutput) (string, error) {
	if output == nil {
		return "", fmt.Errorf("%w: nil output", domain.ErrInvalidInput)
	}
	held := *output
	held.Data = append([]byte(nil), output.Data...)

	handle := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[handle] = &held
	return handle, nil
}

// Get returns a copy of the held output.
func (s *Store) Get(handle string) (*domain.ToolOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	held, ok := s.blobs[handle]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrBlobReleased, handle)
	}
	out := *held
	out.Data = append([]byte(nil), held.Data...)
	return &out, nil
}

// Release drops the output after grace. Releasing again resets the timer.
func (s *Store) Release(handle string, grace time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blobs[handle]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrBlobReleased, handle)
	}
	if t, ok := s.timers[handle]; ok {
		t.Stop()
		delete(s.timers, handle)
	}
	if grace <= 0 {
		delete(s.blobs, handle)
		return nil
	}
	s.timers[handle] = time.AfterFunc(grace, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.blobs, handle)
		delete(s.timers, handle)
	})
	return nil
}

// Len returns the number of held outputs.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}

// Close releases everything immediately.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for handle, t := range s.timers {
		t.Stop()
		delete(s.timers, handle)
	}
	s.blobs = make(map[string]*domain.ToolOutput)
	return nil
}
