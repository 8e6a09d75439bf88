package services

import (
	"context"
	"errors"

	"github.com/profilekeeper/backend/internal/models"
)

var (
	ErrProfileNotFound  = errors.New("profile not found")
	ErrMissingPrincipal = errors.New("missing principal")
)

// ProfileStore is the document database holding one profile per principal.
type ProfileStore interface {
	// Get returns the document stored under key, or ErrProfileNotFound.
	Get(ctx context.Context, key string) (models.Profile, error)
	// Merge writes fields into the document under key, creating it if needed.
	// Fields not named are left as they are.
	Merge(ctx context.Context, key string, fields models.Profile) error
	Close(ctx context.Context) error
}
