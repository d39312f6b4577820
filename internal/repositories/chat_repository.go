package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/boxerly/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrConversationNotFound is returned when a conversation lookup matches no document.
var ErrConversationNotFound = errors.New("conversation not found")

// ChatRepository defines the interface for conversation and message operations
type ChatRepository interface {
	GetOrCreateConversation(ctx context.Context, a, b string) (*models.Conversation, error)
	GetConversationByID(ctx context.Context, id string) (*models.Conversation, error)
	GetConversationsByParticipant(ctx context.Context, accountID string) ([]models.Conversation, error)
	InsertMessage(ctx context.Context, message *models.ChatMessage) error
	GetMessages(ctx context.Context, conversationID string, skip, limit int64) ([]models.ChatMessage, error)
	MarkMessagesRead(ctx context.Context, conversationID, accountID string) error
}

// MongoChatRepository implements ChatRepository for MongoDB
type MongoChatRepository struct {
	conversations *mongo.Collection
	messages      *mongo.Collection
}

// NewMongoChatRepository creates a new MongoChatRepository
func NewMongoChatRepository(db *mongo.Database) *MongoChatRepository {
	return &MongoChatRepository{
		conversations: db.Collection("conversations"),
		messages:      db.Collection("chat_messages"),
	}
}

// GetOrCreateConversation returns the single conversation for an unordered
// pair of accounts, creating it lazily on first contact. The upsert is keyed
// on the canonical sorted pair so concurrent first messages cannot produce
// duplicate conversations.
func (r *MongoChatRepository) GetOrCreateConversation(ctx context.Context, a, b string) (*models.Conversation, error) {
	key := models.ConversationKey(a, b)
	now := time.Now()

	filter := bson.M{"key": key}
	update := bson.M{"$setOnInsert": bson.M{
		"key":          key,
		"participants": models.ConversationParticipants(a, b),
		"created_at":   now,
		"updated_at":   now,
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var conversation models.Conversation
	if err := r.conversations.FindOneAndUpdate(ctx, filter, update, opts).Decode(&conversation); err != nil {
		return nil, err
	}
	return &conversation, nil
}

// GetConversationByID retrieves a conversation by ID from MongoDB
func (r *MongoChatRepository) GetConversationByID(ctx context.Context, id string) (*models.Conversation, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid conversation ID format: %w", err)
	}

	var conversation models.Conversation
	err = r.conversations.FindOne(ctx, bson.M{"_id": objID}).Decode(&conversation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return &conversation, nil
}

// GetConversationsByParticipant retrieves an account's conversations, most
// recently active first
func (r *MongoChatRepository) GetConversationsByParticipant(ctx context.Context, accountID string) ([]models.Conversation, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := r.conversations.Find(ctx, bson.M{"participants": accountID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var conversations []models.Conversation
	if err = cursor.All(ctx, &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

// InsertMessage persists a message and bumps the conversation's last-message
// pointer and activity timestamp
func (r *MongoChatRepository) InsertMessage(ctx context.Context, message *models.ChatMessage) error {
	message.ID = primitive.NewObjectID()
	message.CreatedAt = time.Now()
	if message.ReadBy == nil {
		message.ReadBy = []string{message.SenderID}
	}

	if _, err := r.messages.InsertOne(ctx, message); err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"last_message_id": message.ID,
		"updated_at":      message.CreatedAt,
	}}
	_, err := r.conversations.UpdateOne(ctx, bson.M{"_id": message.ConversationID}, update)
	return err
}

// GetMessages retrieves a conversation's messages, newest first
func (r *MongoChatRepository) GetMessages(ctx context.Context, conversationID string, skip, limit int64) ([]models.ChatMessage, error) {
	objID, err := primitive.ObjectIDFromHex(conversationID)
	if err != nil {
		return nil, fmt.Errorf("invalid conversation ID format: %w", err)
	}

	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.messages.Find(ctx, bson.M{"conversation_id": objID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []models.ChatMessage
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkMessagesRead adds the account to the read-by set of every message in
// the conversation it has not read yet
func (r *MongoChatRepository) MarkMessagesRead(ctx context.Context, conversationID, accountID string) error {
	objID, err := primitive.ObjectIDFromHex(conversationID)
	if err != nil {
		return fmt.Errorf("invalid conversation ID format: %w", err)
	}

	filter := bson.M{"conversation_id": objID, "read_by": bson.M{"$ne": accountID}}
	update := bson.M{"$addToSet": bson.M{"read_by": accountID}}
	_, err = r.messages.UpdateMany(ctx, filter, update)
	return err
}
