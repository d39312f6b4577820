// Package chat is the single ingestion path for chat messages: every message,
// whether it arrives over REST or over the socket gateway, is persisted and
// then broadcast by the same code.
package chat

import (
	"context"
	"errors"

	"github.com/boxerly/backend/internal/models"
	"github.com/boxerly/backend/internal/repositories"
	"github.com/boxerly/backend/internal/ws"
)

// ErrNotParticipant is returned when the sender does not belong to the combat
// or conversation it is writing to.
var ErrNotParticipant = errors.New("sender is not a participant")

// Broadcaster is the narrow slice of the gateway's connection registry the
// chat service needs.
type Broadcaster interface {
	BroadcastToRoom(room string, event ws.Event)
	BroadcastToAccounts(accountIDs []string, event ws.Event)
}

// Service persists chat messages and fans them out in real time.
type Service struct {
	combats repositories.CombatRepository
	chats   repositories.ChatRepository
	hub     Broadcaster
}

// NewService creates a chat Service
func NewService(combats repositories.CombatRepository, chats repositories.ChatRepository, hub Broadcaster) *Service {
	return &Service{combats: combats, chats: chats, hub: hub}
}

// SendCombatMessage stores a message in the conversation between the combat's
// participants and broadcasts it to the combat's room. Both the REST endpoint
// and the send_combat_message socket event go through here.
func (s *Service) SendCombatMessage(ctx context.Context, combatID, senderID, senderName, text string) (*models.ChatMessage, error) {
	combat, err := s.combats.GetCombatByID(ctx, combatID)
	if err != nil {
		return nil, err
	}
	if !combat.IsParticipant(senderID) {
		return nil, ErrNotParticipant
	}

	conversation, err := s.chats.GetOrCreateConversation(ctx, combat.CreatorID, combat.OpponentID)
	if err != nil {
		return nil, err
	}

	message := &models.ChatMessage{
		ConversationID: conversation.ID,
		SenderID:       senderID,
		SenderName:     senderName,
		Text:           text,
	}
	if err := s.chats.InsertMessage(ctx, message); err != nil {
		return nil, err
	}

	s.hub.BroadcastToRoom(combatID, ws.Event{Type: ws.EventCombatMessage, Data: message})
	return message, nil
}

// SendToConversation stores a message in an existing conversation and pushes
// it to every live connection of the other participant.
func (s *Service) SendToConversation(ctx context.Context, conversationID, senderID, senderName, text string) (*models.ChatMessage, error) {
	conversation, err := s.chats.GetConversationByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	recipients := make([]string, 0, 1)
	participant := false
	for _, p := range conversation.Participants {
		if p == senderID {
			participant = true
		} else {
			recipients = append(recipients, p)
		}
	}
	if !participant {
		return nil, ErrNotParticipant
	}

	message := &models.ChatMessage{
		ConversationID: conversation.ID,
		SenderID:       senderID,
		SenderName:     senderName,
		Text:           text,
	}
	if err := s.chats.InsertMessage(ctx, message); err != nil {
		return nil, err
	}

	s.hub.BroadcastToAccounts(recipients, ws.Event{Type: ws.EventCombatMessage, Data: message})
	return message, nil
}

// StartConversation lazily creates the conversation with another account and
// sends the first message through the unified path.
func (s *Service) StartConversation(ctx context.Context, senderID, senderName, otherID, text string) (*models.ChatMessage, error) {
	conversation, err := s.chats.GetOrCreateConversation(ctx, senderID, otherID)
	if err != nil {
		return nil, err
	}
	return s.SendToConversation(ctx, conversation.ID.Hex(), senderID, senderName, text)
}
