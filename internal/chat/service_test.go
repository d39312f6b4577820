package chat

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/boxerly/backend/internal/models"
	"github.com/boxerly/backend/internal/repositories"
	"github.com/boxerly/backend/internal/ws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubCombatRepo struct {
	repositories.CombatRepository
	combat *models.Combat
}

func (s *stubCombatRepo) GetCombatByID(_ context.Context, id string) (*models.Combat, error) {
	if s.combat == nil || s.combat.ID.Hex() != id {
		return nil, repositories.ErrCombatNotFound
	}
	return s.combat, nil
}

type memoryChatRepo struct {
	mu            sync.Mutex
	conversations map[string]*models.Conversation
	messages      []*models.ChatMessage
}

func newMemoryChatRepo() *memoryChatRepo {
	return &memoryChatRepo{conversations: make(map[string]*models.Conversation)}
}

func (m *memoryChatRepo) GetOrCreateConversation(_ context.Context, a, b string) (*models.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := models.ConversationKey(a, b)
	if conv, ok := m.conversations[key]; ok {
		return conv, nil
	}
	conv := &models.Conversation{
		ID:           primitive.NewObjectID(),
		Key:          key,
		Participants: models.ConversationParticipants(a, b),
		CreatedAt:    time.Now(),
	}
	m.conversations[key] = conv
	return conv, nil
}

func (m *memoryChatRepo) GetConversationByID(_ context.Context, id string) (*models.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, conv := range m.conversations {
		if conv.ID.Hex() == id {
			return conv, nil
		}
	}
	return nil, repositories.ErrConversationNotFound
}

func (m *memoryChatRepo) GetConversationsByParticipant(_ context.Context, accountID string) ([]models.Conversation, error) {
	return nil, nil
}

func (m *memoryChatRepo) InsertMessage(_ context.Context, message *models.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	message.ID = primitive.NewObjectID()
	message.ReadBy = []string{message.SenderID}
	message.CreatedAt = time.Now()
	m.messages = append(m.messages, message)
	return nil
}

func (m *memoryChatRepo) GetMessages(_ context.Context, conversationID string, skip, limit int64) ([]models.ChatMessage, error) {
	return nil, nil
}

func (m *memoryChatRepo) MarkMessagesRead(_ context.Context, conversationID, accountID string) error {
	return nil
}

type recordingHub struct {
	mu         sync.Mutex
	roomEvents map[string][]ws.Event
	acctEvents map[string][]ws.Event
}

func newRecordingHub() *recordingHub {
	return &recordingHub{roomEvents: make(map[string][]ws.Event), acctEvents: make(map[string][]ws.Event)}
}

func (r *recordingHub) BroadcastToRoom(room string, event ws.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roomEvents[room] = append(r.roomEvents[room], event)
}

func (r *recordingHub) BroadcastToAccounts(accountIDs []string, event ws.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range accountIDs {
		r.acctEvents[id] = append(r.acctEvents[id], event)
	}
}

func newTestService(combat *models.Combat) (*Service, *memoryChatRepo, *recordingHub) {
	chats := newMemoryChatRepo()
	hub := newRecordingHub()
	return NewService(&stubCombatRepo{combat: combat}, chats, hub), chats, hub
}

func TestSendCombatMessagePersistsAndBroadcasts(t *testing.T) {
	combat := &models.Combat{ID: primitive.NewObjectID(), CreatorID: "1", OpponentID: "2"}
	svc, chats, hub := newTestService(combat)

	message, err := svc.SendCombatMessage(context.Background(), combat.ID.Hex(), "1", "alice", "see you at 18:30")
	require.NoError(t, err)

	// Persisted into the participants' shared conversation
	require.Len(t, chats.messages, 1)
	conv, err := chats.GetOrCreateConversation(context.Background(), "1", "2")
	require.NoError(t, err)
	assert.Equal(t, conv.ID, message.ConversationID)
	assert.Equal(t, []string{"1"}, message.ReadBy, "sender has implicitly read their own message")

	// Broadcast into the combat room
	events := hub.roomEvents[combat.ID.Hex()]
	require.Len(t, events, 1)
	assert.Equal(t, ws.EventCombatMessage, events[0].Type)
}

func TestSendCombatMessageRejectsOutsiders(t *testing.T) {
	combat := &models.Combat{ID: primitive.NewObjectID(), CreatorID: "1", OpponentID: "2"}
	svc, chats, hub := newTestService(combat)

	_, err := svc.SendCombatMessage(context.Background(), combat.ID.Hex(), "3", "mallory", "hi")
	assert.Equal(t, ErrNotParticipant, err)
	assert.Empty(t, chats.messages)
	assert.Empty(t, hub.roomEvents)
}

func TestSendCombatMessageUnknownCombat(t *testing.T) {
	svc, _, _ := newTestService(nil)

	_, err := svc.SendCombatMessage(context.Background(), primitive.NewObjectID().Hex(), "1", "alice", "hi")
	assert.Equal(t, repositories.ErrCombatNotFound, err)
}

func TestSendCombatMessageReusesConversation(t *testing.T) {
	combat := &models.Combat{ID: primitive.NewObjectID(), CreatorID: "1", OpponentID: "2"}
	svc, chats, _ := newTestService(combat)

	first, err := svc.SendCombatMessage(context.Background(), combat.ID.Hex(), "1", "alice", "one")
	require.NoError(t, err)
	second, err := svc.SendCombatMessage(context.Background(), combat.ID.Hex(), "2", "bob", "two")
	require.NoError(t, err)

	assert.Equal(t, first.ConversationID, second.ConversationID)
	assert.Len(t, chats.conversations, 1, "both directions map to one conversation")
}

func TestSendToConversationReachesRecipientConnections(t *testing.T) {
	svc, chats, hub := newTestService(nil)

	conv, err := chats.GetOrCreateConversation(context.Background(), "1", "2")
	require.NoError(t, err)

	_, err = svc.SendToConversation(context.Background(), conv.ID.Hex(), "1", "alice", "hello")
	require.NoError(t, err)

	assert.Len(t, hub.acctEvents["2"], 1)
	assert.Empty(t, hub.acctEvents["1"], "the sender is not echoed its own message")
}

func TestSendToConversationRejectsOutsiders(t *testing.T) {
	svc, chats, _ := newTestService(nil)

	conv, err := chats.GetOrCreateConversation(context.Background(), "1", "2")
	require.NoError(t, err)

	_, err = svc.SendToConversation(context.Background(), conv.ID.Hex(), "3", "mallory", "hello")
	assert.Equal(t, ErrNotParticipant, err)
}

func TestStartConversationCreatesThenSends(t *testing.T) {
	svc, chats, hub := newTestService(nil)

	message, err := svc.StartConversation(context.Background(), "1", "alice", "2", "first contact")
	require.NoError(t, err)

	assert.Len(t, chats.conversations, 1)
	assert.Len(t, chats.messages, 1)
	assert.Equal(t, "first contact", message.Text)
	assert.Len(t, hub.acctEvents["2"], 1)
}
