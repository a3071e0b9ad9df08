// Package keystore holds the user-supplied API key for the transcription
// service and persists it across restarts.
package keystore

import (
	"strings"
	"sync"

	"filetotext/internal/ports"
)

const (
	storageKey = "openai_api_key"

	keyPrefix = "sk-"
	// A valid key must be strictly longer than this.
	minKeyLength = 30
)

// Store keeps the current API key in memory and mirrors every change into
// durable storage. The key is loaded once at construction.
type Store struct {
	storage ports.KeyValue

	mu  sync.Mutex
	key string
}

func New(storage ports.KeyValue) *Store {
	key, _ := storage.Get(storageKey)
	return &Store{storage: storage, key: strings.TrimSpace(key)}
}

// Get returns the current key, or the empty string if none was ever set.
func (s *Store) Get() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.key
}

// Set persists the new key and then commits it to memory, so a failed
// write leaves the previous key in effect.
func (s *Store) Set(value string) error {
	value = strings.TrimSpace(value)

	if err := s.storage.Set(storageKey, value); err != nil {
		return err
	}

	s.mu.Lock()
	s.key = value
	s.mu.Unlock()
	return nil
}

// IsValid reports whether the currently stored key passes Validate.
func (s *Store) IsValid() bool {
	return Validate(s.Get())
}

// Validate checks the expected key shape: the fixed "sk-" prefix and a
// length above the minimum. It makes no remote call.
func Validate(candidate string) bool {
	return strings.HasPrefix(candidate, keyPrefix) && len(candidate) > minKeyLength
}
