// Package seen records which tracks were already tagged so later runs can
// skip them.
package seen

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/spf13/afero"
)

// ErrLocked is returned when another process holds the seen file.
var ErrLocked = errors.New("seen file is locked by another process")

// Set is a set of track paths.
type Set interface {
	Has(ctx context.Context, path string) (bool, error)
	Add(ctx context.Context, path string) error
}

// FileSet is a Set persisted as one path per line in an append-only file.
type FileSet struct {
	fs   afero.Fs
	path string

	mu    sync.Mutex
	paths map[string]struct{}
	lock  *flock.Flock
}

// OpenFileSet loads the set at path and takes an exclusive lock on
// path+".lock" for the lifetime of the set. A missing file is an empty set.
func OpenFileSet(path string) (*FileSet, error) {
	lock := flock.New(path + ".lock")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating seen file directory: %w", err)
	}
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("locking seen file: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}

	s, err := NewFileSet(afero.NewOsFs(), path)
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}
	s.lock = lock
	return s, nil
}

// NewFileSet loads the set at path on fs without any cross-process locking.
func NewFileSet(fs afero.Fs, path string) (*FileSet, error) {
	s := &FileSet{
		fs:    fs,
		path:  path,
		paths: make(map[string]struct{}),
	}

	f, err := fs.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening seen file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		if line := strings.TrimRight(scanner.Text(), "\r"); line != "" {
			s.paths[line] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading seen file: %w", err)
	}
	return s, nil
}

// Has implements Set.
func (s *FileSet) Has(_ context.Context, path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.paths[path]
	return ok, nil
}

// Add implements Set. Adding a known path is a no-op.
func (s *FileSet) Add(_ context.Context, path string) error {
	if path == "" || strings.ContainsAny(path, "\r\n") {
		return fmt.Errorf("invalid seen path %q", path)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.paths[path]; ok {
		return nil
	}

	f, err := s.fs.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening seen file: %w", err)
	}
	if _, err := f.WriteString(path + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("appending to seen file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing seen file: %w", err)
	}

	s.paths[path] = struct{}{}
	return nil
}

// Len returns the number of paths in the set.
func (s *FileSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.paths)
}

// Close releases the file lock, if any.
func (s *FileSet) Close() error {
	if s.lock == nil {
		return nil
	}
	return s.lock.Unlock()
}
