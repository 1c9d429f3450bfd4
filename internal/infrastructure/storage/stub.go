package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	rosterapp "github.com/attendance/backend/internal/application/roster"
)

// InMemoryObjectStorage keeps photos in memory. It backs deployments that run
// without an object store (storage.enabled = false) and the test suite.
type InMemoryObjectStorage struct {
	// BaseURL is the base URL for generated download URLs
	BaseURL string

	mu      sync.RWMutex
	objects map[string][]byte
}

// NewInMemoryObjectStorage creates a new InMemoryObjectStorage
func NewInMemoryObjectStorage() *InMemoryObjectStorage {
	return &InMemoryObjectStorage{
		BaseURL: "https://storage.example.com",
		objects: make(map[string][]byte),
	}
}

// Ensure InMemoryObjectStorage implements ObjectStorageService
var _ rosterapp.ObjectStorageService = (*InMemoryObjectStorage)(nil)

// PutObject stores a photo in memory
func (s *InMemoryObjectStorage) PutObject(_ context.Context, storageKey, _ string, data []byte) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.objects[storageKey] = buf
	return nil
}

// GenerateDownloadURL returns a synthetic download URL for a stored photo
func (s *InMemoryObjectStorage) GenerateDownloadURL(
	_ context.Context,
	storageKey string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	s.mu.RLock()
	_, exists := s.objects[storageKey]
	s.mu.RUnlock()
	if !exists {
		return "", time.Time{}, errors.New("object not found")
	}

	expiresAt := time.Now().Add(expiresIn)
	url := s.BaseURL + "/download/" + storageKey + "?expires=" + expiresAt.Format(time.RFC3339)
	return url, expiresAt, nil
}

// DeleteObject removes a photo from memory
func (s *InMemoryObjectStorage) DeleteObject(_ context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, storageKey)
	return nil
}

// Get returns a stored photo, for tests
func (s *InMemoryObjectStorage) Get(storageKey string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, exists := s.objects[storageKey]
	return data, exists
}
