package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	domainErrors "github.com/polkiloo/tableside/internal/domain/errors"
	"github.com/polkiloo/tableside/internal/domain/model"
)

const feedbackCollection = "feedback"

// FeedbackStore persists feedback documents in MongoDB.
type FeedbackStore struct {
	collection *mongo.Collection
}

func NewFeedbackStore(collection *mongo.Collection) *FeedbackStore {
	return &FeedbackStore{collection: collection}
}

// Connect dials MongoDB and verifies the primary is reachable.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

func (s *FeedbackStore) Create(ctx context.Context, feedback model.Feedback) error {
	if _, err := s.collection.InsertOne(ctx, feedback); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainErrors.ErrAlreadyExists
		}
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

func (s *FeedbackStore) List(ctx context.Context, limit int) ([]model.Feedback, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := s.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find feedback: %w", err)
	}
	defer cursor.Close(ctx)

	var result []model.Feedback
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("decode feedback: %w", err)
	}
	return result, nil
}
