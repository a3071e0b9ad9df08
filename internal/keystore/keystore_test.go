package keystore

import (
	"errors"
	"strings"
	"testing"
)

type fakeStorage struct {
	values map[string]string
	setErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{values: map[string]string{}}
}

func (f *fakeStorage) Get(key string) (string, bool) {
	value, ok := f.values[key]
	return value, ok
}

func (f *fakeStorage) Set(key string, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.values[key] = value
	return nil
}

func (f *fakeStorage) Delete(key string) error {
	delete(f.values, key)
	return nil
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		candidate string
		want      bool
	}{
		"long key with prefix":     {"sk-" + strings.Repeat("a", 29), true},
		"short key with prefix":    {"sk-short", false},
		"long key wrong prefix":    {"xx-" + strings.Repeat("a", 40), false},
		"boundary length rejected": {"sk-" + strings.Repeat("a", 27), false},
		"empty":                    {"", false},
		"prefix only":              {"sk-", false},
	}

	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if got := Validate(tc.candidate); got != tc.want {
				t.Fatalf("Validate(%q) = %v, want %v", tc.candidate, got, tc.want)
			}
		})
	}
}

func TestStoreSetPersistsImmediately(t *testing.T) {
	t.Parallel()

	storage := newFakeStorage()
	store := New(storage)

	key := "sk-" + strings.Repeat("b", 40)
	if err := store.Set("  " + key + "  "); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if got := store.Get(); got != key {
		t.Fatalf("stored key not trimmed: %q", got)
	}
	if persisted := storage.values[storageKey]; persisted != key {
		t.Fatalf("key not persisted: %q", persisted)
	}
	if !store.IsValid() {
		t.Fatalf("expected valid key")
	}
}

func TestStoreLoadsPersistedKey(t *testing.T) {
	t.Parallel()

	storage := newFakeStorage()
	key := "sk-" + strings.Repeat("c", 30)
	storage.values[storageKey] = key

	store := New(storage)
	if got := store.Get(); got != key {
		t.Fatalf("expected key loaded at startup, got %q", got)
	}
}

func TestStoreEmptyByDefault(t *testing.T) {
	t.Parallel()

	store := New(newFakeStorage())
	if got := store.Get(); got != "" {
		t.Fatalf("expected empty key, got %q", got)
	}
	if store.IsValid() {
		t.Fatalf("empty key must not be valid")
	}
}

func TestStoreSetPropagatesStorageError(t *testing.T) {
	t.Parallel()

	storage := newFakeStorage()
	previous := "sk-" + strings.Repeat("e", 40)
	storage.values[storageKey] = previous
	store := New(storage)

	storage.setErr = errors.New("disk full")
	if err := store.Set("sk-" + strings.Repeat("d", 40)); err == nil {
		t.Fatalf("expected storage error")
	}
	if got := store.Get(); got != previous {
		t.Fatalf("failed write must not change the key in memory, got %q", got)
	}
	if persisted := storage.values[storageKey]; persisted != previous {
		t.Fatalf("failed write must not change the persisted key, got %q", persisted)
	}
}
