package domain

import "time"

// ChatPreference is the per-conversation persisted state: the optional home
// country and the preferred list sort key.
type ChatPreference struct {
	ChatID      int64     `bson:"chat_id" json:"chat_id"`
	CountryCode string    `bson:"country_code,omitempty" json:"country_code,omitempty"`
	SortKey     string    `bson:"sort_key,omitempty" json:"sort_key,omitempty"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// Subscriber is one chat enrolled in the daily notification broadcast.
type Subscriber struct {
	ChatID       int64     `bson:"chat_id" json:"chat_id"`
	SubscribedAt time.Time `bson:"subscribed_at" json:"subscribed_at"`
}
