package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// Documents maps a document key to its fields.
type Documents map[string]map[string]interface{}

// JSONStore persists one collection of documents as a single JSON file.
// Reads and read-modify-write cycles are serialized by the store's lock.
type JSONStore struct {
	mu       sync.RWMutex
	filePath string
}

// NewJSONStore creates a store for collection under dataDir.
func NewJSONStore(dataDir, collection string) (*JSONStore, error) {
	if collection == "" {
		return nil, errors.New("storage: collection name is required")
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}

	return &JSONStore{
		filePath: filepath.Join(dataDir, collection+".json"),
	}, nil
}

// View loads the collection and hands it to fn. fn must not retain docs.
func (s *JSONStore) View(fn func(docs Documents) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs, err := s.load()
	if err != nil {
		return err
	}
	return fn(docs)
}

// Update loads the collection, lets fn mutate it, and writes it back if fn succeeds.
func (s *JSONStore) Update(fn func(docs Documents) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(docs); err != nil {
		return err
	}
	return s.save(docs)
}

// Path returns the backing file location.
func (s *JSONStore) Path() string {
	return s.filePath
}

func (s *JSONStore) load() (Documents, error) {
	docs := Documents{}

	file, err := os.Open(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			// Nothing written yet
			return docs, nil
		}
		return nil, err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&docs); err != nil {
		return nil, err
	}
	if docs == nil {
		docs = Documents{}
	}
	return docs, nil
}

func (s *JSONStore) save(docs Documents) error {
	// Write to temp file first, then rename (atomic operation)
	tempFile := s.filePath + ".tmp"
	file, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(docs); err != nil {
		file.Close()
		os.Remove(tempFile)
		return err
	}

	if err := file.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, s.filePath)
}
