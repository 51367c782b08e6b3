// Package jsonfile implements file-backed record collections: one JSON
// document per collection holding an array of records, re-read on access and
// rewritten wholesale on every mutation.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// Collection persists a slice of records as a single JSON array on disk.
// Every mutation runs under the collection mutex so the read-modify-write
// cycle cannot interleave with another writer in the same process.
type Collection[T any] struct {
	path string
	mu   sync.Mutex
}

// New returns a collection stored at path. The file is created lazily on the
// first mutation; a missing or empty file reads as an empty collection.
func New[T any](path string) *Collection[T] {
	return &Collection[T]{path: path}
}

// Load reads the full collection from disk.
func (c *Collection[T]) Load() ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.read()
}

// Mutate applies fn to the current records under the collection lock and
// writes the returned slice back. When fn fails nothing is written.
func (c *Collection[T]) Mutate(fn func(records []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.read()
	if err != nil {
		return err
	}
	updated, err := fn(records)
	if err != nil {
		return err
	}
	return c.write(updated)
}

func (c *Collection[T]) read() ([]T, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("jsonfile: read %s: %w", c.path, err)
	}
	if len(data) == 0 {
		return []T{}, nil
	}
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("jsonfile: decode %s: %w", c.path, err)
	}
	return records, nil
}

// write replaces the collection file through a temp file and rename so a
// crash mid-write leaves the previous contents intact.
func (c *Collection[T]) write(records []T) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile: encode %s: %w", c.path, err)
	}
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("jsonfile: mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".*")
	if err != nil {
		return fmt.Errorf("jsonfile: temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("jsonfile: write %s: %w", c.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("jsonfile: close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("jsonfile: rename %s: %w", c.path, err)
	}
	return nil
}

// NextSeq assigns file-mode ids: one past the highest numeric id present.
func NextSeq[T any](records []T, id func(T) string) string {
	max := 0
	for _, r := range records {
		n, err := strconv.Atoi(id(r))
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return strconv.Itoa(max + 1)
}
