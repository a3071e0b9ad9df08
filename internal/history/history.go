// Package history keeps the append-only log of completed conversions.
package history

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"filetotext/internal/domain"
	"filetotext/internal/ports"
)

const storageKey = "conversionHistory"

// NewRecord carries the caller-supplied part of a history entry; the store
// assigns the identifier and timestamp.
type NewRecord struct {
	FileName      string
	FileType      string
	FileSize      int64
	ConvertedText string
}

// Store holds conversion records newest-first and mirrors every mutation
// into durable storage before returning.
type Store struct {
	storage ports.KeyValue
	events  ports.EventSink
	now     func() time.Time
	newID   func() string

	mu      sync.Mutex
	records []domain.ConversionRecord
}

func New(storage ports.KeyValue, events ports.EventSink) *Store {
	return newStore(storage, events, time.Now, uuid.NewString)
}

func newStore(storage ports.KeyValue, events ports.EventSink, now func() time.Time, newID func() string) *Store {
	s := &Store{storage: storage, events: events, now: now, newID: newID}
	s.records = load(storage)
	return s
}

// load restores persisted history. Missing or malformed data is treated as
// an empty log, never as a failure.
func load(storage ports.KeyValue) []domain.ConversionRecord {
	raw, ok := storage.Get(storageKey)
	if !ok || raw == "" {
		return nil
	}

	var records []domain.ConversionRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		log.Warn().Err(err).Msg("history: stored data is malformed, starting empty")
		return nil
	}
	return records
}

// List returns all records, newest first.
func (s *Store) List() []domain.ConversionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.ConversionRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Add assigns a fresh identifier and timestamp, prepends the record, and
// persists the full sequence before returning.
func (s *Store) Add(entry NewRecord) (domain.ConversionRecord, error) {
	record := domain.ConversionRecord{
		ID:            s.newID(),
		FileName:      entry.FileName,
		FileType:      entry.FileType,
		FileSize:      entry.FileSize,
		ConvertedText: entry.ConvertedText,
		Timestamp:     s.now().UTC().Format(time.RFC3339),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	updated := make([]domain.ConversionRecord, 0, len(s.records)+1)
	updated = append(updated, record)
	updated = append(updated, s.records...)

	if err := s.persist(updated); err != nil {
		return domain.ConversionRecord{}, err
	}
	s.records = updated

	s.events.Notice(fmt.Sprintf("Added %q to conversion history!", record.FileName))
	return record, nil
}

// Clear empties the log and removes its durable representation entirely.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Delete(storageKey); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	s.records = nil

	s.events.Notice("Conversion history cleared!")
	return nil
}

func (s *Store) persist(records []domain.ConversionRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := s.storage.Set(storageKey, string(data)); err != nil {
		return fmt.Errorf("persist history: %w", err)
	}
	return nil
}
