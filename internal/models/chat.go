package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Conversation is a persisted 1:1 chat thread between two accounts, stored in
// MongoDB. Participants are canonicalized by string order so an unordered pair
// always maps to a single conversation; Key is the unique "<low>:<high>" form.
type Conversation struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Key           string             `json:"-" bson:"key"`
	Participants  []string           `json:"participants" bson:"participants"`
	LastMessageID primitive.ObjectID `json:"last_message_id,omitempty" bson:"last_message_id,omitempty"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// ConversationKey returns the canonical key for an unordered pair of account
// ids: the two ids sorted by string order, joined by a colon.
func ConversationKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + ":" + b
}

// ConversationParticipants returns the pair in canonical (sorted) order.
func ConversationParticipants(a, b string) []string {
	if b < a {
		a, b = b, a
	}
	return []string{a, b}
}

// ChatMessage belongs to one conversation.
type ChatMessage struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ConversationID primitive.ObjectID `json:"conversation_id" bson:"conversation_id"`
	SenderID       string             `json:"sender_id" bson:"sender_id"`
	SenderName     string             `json:"sender_name" bson:"sender_name"`
	Text           string             `json:"text" bson:"text"`
	ReadBy         []string           `json:"read_by" bson:"read_by"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
}

type SendMessageRequest struct {
	Text string `json:"text" validate:"required,min=1,max=1000"`
}
