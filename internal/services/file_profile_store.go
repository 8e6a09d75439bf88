package services

import (
	"context"

	"github.com/profilekeeper/backend/internal/models"
	"github.com/profilekeeper/backend/internal/storage"
)

// FileProfileStore keeps profiles in a local JSON file. Meant for development.
type FileProfileStore struct {
	store *storage.JSONStore
}

func NewFileProfileStore(dataDir, collection string) (*FileProfileStore, error) {
	store, err := storage.NewJSONStore(dataDir, collection)
	if err != nil {
		return nil, err
	}
	return &FileProfileStore{store: store}, nil
}

func (s *FileProfileStore) Get(ctx context.Context, key string) (models.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out models.Profile
	err := s.store.View(func(docs storage.Documents) error {
		doc, ok := docs[key]
		if !ok {
			return ErrProfileNotFound
		}
		out = make(models.Profile, len(doc))
		for k, v := range doc {
			out[k] = v
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *FileProfileStore) Merge(ctx context.Context, key string, fields models.Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.store.Update(func(docs storage.Documents) error {
		doc, ok := docs[key]
		if !ok {
			doc = make(map[string]interface{}, len(fields))
			docs[key] = doc
		}
		for k, v := range fields {
			doc[k] = v
		}
		return nil
	})
}

func (s *FileProfileStore) Close(_ context.Context) error {
	return nil
}
