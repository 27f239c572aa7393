package filestore

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"

	"serialsheets/domain/pipeline"
	"serialsheets/internal/errors"
	"serialsheets/ports"
)

// mappingStore is the default, file-backed MappingStore: one JSON document
// holding every key, rewritten atomically on save. It stands in for the
// per-browser key/value storage of the original tool.
type mappingStore struct {
	path string
	mu   sync.Mutex
}

// NewMappingStore creates a file-backed mapping store at path. The file is
// created lazily on first save.
func NewMappingStore(path string) ports.MappingStore {
	return &mappingStore{path: path}
}

func (s *mappingStore) Load(ctx context.Context, key string) (*pipeline.Mapping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.read()
	if err != nil {
		return nil, err
	}
	m, ok := all[key]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (s *mappingStore) Save(ctx context.Context, key string, m pipeline.Mapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.read()
	if err != nil {
		return err
	}
	all[key] = m

	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return errors.StoreError("failed to encode mappings", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.StoreError("failed to create store directory", err)
		}
	}

	// Write-then-rename so a crash mid-save never corrupts the store.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.StoreError("failed to write mapping store", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errors.StoreError("failed to replace mapping store", err)
	}

	log.Printf("[MappingStore] saved mapping under key %q to %s", key, s.path)
	return nil
}

// read loads the whole store, treating a missing file as empty.
func (s *mappingStore) read() (map[string]pipeline.Mapping, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]pipeline.Mapping{}, nil
	}
	if err != nil {
		return nil, errors.StoreError("failed to read mapping store", err)
	}

	all := map[string]pipeline.Mapping{}
	if len(data) == 0 {
		return all, nil
	}
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, errors.StoreError("failed to decode mapping store", err)
	}
	return all, nil
}
