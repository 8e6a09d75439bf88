package services

import (
	"context"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/profilekeeper/backend/internal/models"
)

// FirestoreProfileStore keeps profiles in a Firestore collection, one document per email.
type FirestoreProfileStore struct {
	client     *firestore.Client
	collection string
}

func NewFirestoreProfileStore(ctx context.Context, app *firebase.App, collection string) (*FirestoreProfileStore, error) {
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, err
	}
	return &FirestoreProfileStore{client: client, collection: collection}, nil
}

func (s *FirestoreProfileStore) Get(ctx context.Context, key string) (models.Profile, error) {
	snap, err := s.client.Collection(s.collection).Doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	if !snap.Exists() {
		return nil, ErrProfileNotFound
	}
	return models.Profile(snap.Data()), nil
}

func (s *FirestoreProfileStore) Merge(ctx context.Context, key string, fields models.Profile) error {
	_, err := s.client.Collection(s.collection).Doc(key).Set(ctx, map[string]interface{}(fields), firestore.MergeAll)
	return err
}

func (s *FirestoreProfileStore) Close(_ context.Context) error {
	return s.client.Close()
}
