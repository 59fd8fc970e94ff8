// Package localstore is the browser-localStorage stand-in: a file-per-key
// cache that survives restarts and works with no network. Every write is
// best-effort and every failure is non-fatal; when no directory is configured
// the store degrades to a no-op (writes succeed, reads miss).
package localstore

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
)

type Store struct {
	dir string
}

// New returns a store rooted at dir. An empty dir disables the store.
func New(dir string) *Store {
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Printf("[localstore] disabled, cannot create %s: %v", dir, err)
			dir = ""
		}
	}
	return &Store{dir: dir}
}

// Available reports whether the store has a usable backing directory.
func (s *Store) Available() bool {
	return s != nil && s.dir != ""
}

// Get returns the raw value for key, or ok=false on miss or any error.
func (s *Store) Get(key string) ([]byte, bool) {
	if !s.Available() {
		return nil, false
	}
	b, err := os.ReadFile(s.path(key))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("[localstore] read %s: %v", key, err)
		}
		return nil, false
	}
	return b, true
}

// Set writes the value for key. Errors are logged, never returned: the cache
// is best-effort by contract.
func (s *Store) Set(key string, value []byte) {
	if !s.Available() {
		return
	}
	if err := os.WriteFile(s.path(key), value, 0o644); err != nil {
		log.Printf("[localstore] write %s: %v", key, err)
	}
}

// Delete removes key if present.
func (s *Store) Delete(key string) {
	if !s.Available() {
		return
	}
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[localstore] delete %s: %v", key, err)
	}
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, sanitize(key))
}

// sanitize maps a storage key to a safe file name.
func sanitize(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '_' || r == '-':
			return r
		default:
			return '_'
		}
	}, key)
}
