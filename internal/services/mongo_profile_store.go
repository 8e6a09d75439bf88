package services

import (
	"context"
	"crypto/tls"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/profilekeeper/backend/internal/models"
)

// MongoProfileStore keeps profiles in a Mongo collection with the email as _id.
type MongoProfileStore struct {
	client   *mongo.Client
	usersCol *mongo.Collection
}

func NewMongoProfileStore(ctx context.Context, mongoURI, dbName, collection string) (*MongoProfileStore, error) {
	clientOpts := options.Client().ApplyURI(mongoURI)
	// Atlas SRV endpoints require TLS; plain mongodb:// URIs decide via their own params.
	if strings.HasPrefix(mongoURI, "mongodb+srv://") {
		clientOpts.SetTLSConfig(&tls.Config{
			MinVersion: tls.VersionTLS12,
		})
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &MongoProfileStore{
		client:   client,
		usersCol: client.Database(dbName).Collection(collection),
	}, nil
}

func (s *MongoProfileStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoProfileStore) Get(ctx context.Context, key string) (models.Profile, error) {
	var doc bson.M
	if err := s.usersCol.FindOne(ctx, bson.M{"_id": key}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	delete(doc, "_id")
	return models.Profile(doc), nil
}

func (s *MongoProfileStore) Merge(ctx context.Context, key string, fields models.Profile) error {
	_, err := s.usersCol.UpdateOne(
		ctx,
		bson.M{"_id": key},
		bson.M{"$set": bson.M(fields)},
		options.Update().SetUpsert(true),
	)
	return err
}
