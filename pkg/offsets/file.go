package offsets

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"github.com/rvno/roadline/pkg/errors"
	"github.com/rvno/roadline/pkg/geom"
)

// FileStore keeps all offsets in one JSON document:
//
//	{"2021": {"dx": 12, "dy": -4}, "2022": {"dx": 15, "dy": -10}}
//
// The document is rewritten on every Set through a temporary file and a
// rename, so a crash never leaves a half-written file behind.
type FileStore struct {
	mu   sync.RWMutex
	path string
}

// NewFileStore returns a store backed by path. The file is created on the
// first write; its directory is created immediately.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "offset file path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "create offset dir")
	}
	return &FileStore{path: path}, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) read() (map[string]geom.Offset, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]geom.Offset{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read %s", s.path)
	}
	data := map[string]geom.Offset{}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", s.path)
	}
	return data, nil
}

func (s *FileStore) write(data map[string]geom.Offset) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal offsets: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".offsets-*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "write %s", s.path)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeStorage, err, "write %s", s.path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeStorage, err, "write %s", s.path)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "write %s", s.path)
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, key string) (geom.Offset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, err := s.read()
	if err != nil {
		return geom.Offset{}, err
	}
	return data[key], nil
}

func (s *FileStore) Set(ctx context.Context, key string, o geom.Offset) error {
	if err := errors.ValidateKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.read()
	if err != nil {
		return err
	}
	data[key] = o
	return s.write(data)
}

func (s *FileStore) All(ctx context.Context) (map[string]geom.Offset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, err := s.read()
	if err != nil {
		return nil, err
	}
	return maps.Clone(data), nil
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)
	return s.write(data)
}

func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
