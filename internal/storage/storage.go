// Package storage provides the key/value capability plan persistence is
// built on.
//
// Keys are slash-separated paths such as "plans/<id>.json". Two backends
// implement Storage: FileStorage keeps one file per key under a state
// directory, SQLiteStorage keeps rows in a single table.
package storage

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrNotFound is returned by Read when a key has no value.
var ErrNotFound = errors.New("storage: key not found")

// Storage is the persistence capability handed to anything that needs it.
type Storage interface {
	Read(key string) ([]byte, error)
	Write(key string, value []byte) error
	// List returns every key starting with prefix, sorted.
	List(prefix string) ([]string, error)
}

// validateKey rejects keys that could escape the storage root.
func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("storage: empty key")
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return fmt.Errorf("storage: key %q must be a relative slash path", key)
	}
	if clean := path.Clean(key); clean != key || clean == "." || strings.HasPrefix(clean, "..") {
		return fmt.Errorf("storage: key %q is not a clean path", key)
	}
	return nil
}
