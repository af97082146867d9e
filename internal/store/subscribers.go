package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type subscriberCollection interface {
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
	Distinct(ctx context.Context, fieldName string, filter interface{}, opts ...*options.DistinctOptions) ([]interface{}, error)
}

// SubscriberStore persists the daily-notification subscriber list. The
// unique chat_id index makes Add idempotent; concurrent broadcast removals
// and live subscriptions serialize on the database.
type SubscriberStore struct {
	collection subscriberCollection
}

// NewSubscriberStore constructs a SubscriberStore.
func NewSubscriberStore(collection subscriberCollection) *SubscriberStore {
	return &SubscriberStore{collection: collection}
}

// Add enrolls a chat. Adding an already-subscribed chat is a no-op.
func (s *SubscriberStore) Add(ctx context.Context, chatID int64) error {
	if s == nil || s.collection == nil {
		return errors.New("subscriber store is not initialized")
	}
	if ctx == nil {
		return errors.New("context is required")
	}
	if chatID == 0 {
		return errors.New("chat_id is required")
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	update := bson.M{
		"$setOnInsert": bson.M{
			"chat_id":       chatID,
			"subscribed_at": now,
		},
	}

	if _, err := s.collection.UpdateOne(ctx,
		bson.M{"chat_id": chatID},
		update,
		options.Update().SetUpsert(true),
	); err != nil {
		return fmt.Errorf("add subscriber: %w", err)
	}

	return nil
}

// Remove unenrolls a chat. Removing an unknown chat is a no-op.
func (s *SubscriberStore) Remove(ctx context.Context, chatID int64) error {
	if s == nil || s.collection == nil {
		return errors.New("subscriber store is not initialized")
	}
	if ctx == nil {
		return errors.New("context is required")
	}
	if chatID == 0 {
		return errors.New("chat_id is required")
	}

	if _, err := s.collection.DeleteOne(ctx, bson.M{"chat_id": chatID}); err != nil {
		return fmt.Errorf("remove subscriber: %w", err)
	}

	return nil
}

// All returns every enrolled chat id.
func (s *SubscriberStore) All(ctx context.Context) ([]int64, error) {
	if s == nil || s.collection == nil {
		return nil, errors.New("subscriber store is not initialized")
	}
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	values, err := s.collection.Distinct(ctx, "chat_id", bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}

	ids := make([]int64, 0, len(values))
	for _, v := range values {
		switch id := v.(type) {
		case int64:
			ids = append(ids, id)
		case int32:
			ids = append(ids, int64(id))
		case float64:
			ids = append(ids, int64(id))
		}
	}

	return ids, nil
}
