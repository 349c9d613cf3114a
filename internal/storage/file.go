package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// DefaultStateDir is the state directory created in a project root.
const DefaultStateDir = ".build-state"

// FileStorage implements Storage as a directory of flat files.
// It uses an afero.Fs so tests can run against an in-memory filesystem.
type FileStorage struct {
	fs   afero.Fs
	root string
}

// NewFileStorage creates a FileStorage rooted at dir on the given filesystem.
func NewFileStorage(fs afero.Fs, dir string) *FileStorage {
	return &FileStorage{fs: fs, root: dir}
}

// NewOsFileStorage creates a FileStorage on the real filesystem.
func NewOsFileStorage(dir string) *FileStorage {
	return NewFileStorage(afero.NewOsFs(), dir)
}

// Root returns the state directory.
func (s *FileStorage) Root() string {
	return s.root
}

func (s *FileStorage) pathFor(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}

// Read returns the value stored under key.
func (s *FileStorage) Read(key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(s.fs, s.pathFor(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return data, nil
}

// Write stores value under key. The file is written to a temporary name and
// renamed into place so readers never observe a partial write.
func (s *FileStorage) Write(key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	dst := s.pathFor(key)
	dir := filepath.Dir(dst)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(s.fs, dir, "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", key, err)
	}
	if err := s.fs.Rename(tmpName, dst); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", key, err)
	}
	return nil
}

// List returns all keys under the root that start with prefix.
func (s *FileStorage) List(prefix string) ([]string, error) {
	exists, err := afero.DirExists(s.fs, s.root)
	if err != nil {
		return nil, fmt.Errorf("checking state directory: %w", err)
	}
	if !exists {
		return []string{}, nil
	}

	keys := []string{}
	err = afero.Walk(s.fs, s.root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || strings.HasPrefix(info.Name(), ".") {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking state directory: %w", err)
	}

	sort.Strings(keys)
	return keys, nil
}
