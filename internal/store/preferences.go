package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tg_covid_bot/internal/domain"
)

type upsertFindCollection interface {
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
}

// PreferenceStore persists per-conversation settings. Writes are single-key
// upserts, so independent conversations never contend.
type PreferenceStore struct {
	collection upsertFindCollection
}

// NewPreferenceStore constructs a PreferenceStore.
func NewPreferenceStore(collection upsertFindCollection) *PreferenceStore {
	return &PreferenceStore{collection: collection}
}

// Get fetches the preference for a chat. A chat without stored settings
// yields the zero preference, not an error.
func (s *PreferenceStore) Get(ctx context.Context, chatID int64) (domain.ChatPreference, error) {
	if s == nil || s.collection == nil {
		return domain.ChatPreference{}, errors.New("preference store is not initialized")
	}
	if ctx == nil {
		return domain.ChatPreference{}, errors.New("context is required")
	}
	if chatID == 0 {
		return domain.ChatPreference{}, errors.New("chat_id is required")
	}

	result := s.collection.FindOne(ctx, bson.M{"chat_id": chatID})
	if result == nil {
		return domain.ChatPreference{}, errors.New("find preference returned no result")
	}
	if err := result.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.ChatPreference{ChatID: chatID}, nil
		}
		return domain.ChatPreference{}, fmt.Errorf("find preference: %w", err)
	}

	var pref domain.ChatPreference
	if err := result.Decode(&pref); err != nil {
		return domain.ChatPreference{}, fmt.Errorf("decode preference: %w", err)
	}

	return pref, nil
}

// SetCountry stores the home country for a chat.
func (s *PreferenceStore) SetCountry(ctx context.Context, chatID int64, code string) error {
	return s.setField(ctx, chatID, "country_code", code)
}

// SetSortKey stores the preferred list sort key for a chat.
func (s *PreferenceStore) SetSortKey(ctx context.Context, chatID int64, key domain.SortKey) error {
	return s.setField(ctx, chatID, "sort_key", string(key))
}

func (s *PreferenceStore) setField(ctx context.Context, chatID int64, field, value string) error {
	if s == nil || s.collection == nil {
		return errors.New("preference store is not initialized")
	}
	if ctx == nil {
		return errors.New("context is required")
	}
	if chatID == 0 {
		return errors.New("chat_id is required")
	}
	if value == "" {
		return fmt.Errorf("%s is required", field)
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	update := bson.M{
		"$set": bson.M{
			field:        value,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"chat_id": chatID,
		},
	}

	if _, err := s.collection.UpdateOne(ctx,
		bson.M{"chat_id": chatID},
		update,
		options.Update().SetUpsert(true),
	); err != nil {
		return fmt.Errorf("upsert preference %s: %w", field, err)
	}

	return nil
}
