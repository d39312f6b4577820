package ws

import "encoding/json"

// Client-to-server event names
const (
	EventJoinCombatChat    = "join_combat_chat"
	EventLeaveCombatChat   = "leave_combat_chat"
	EventSendCombatMessage = "send_combat_message"
	EventTypingInCombat    = "typing_in_combat"
)

// Server-to-client event names
const (
	EventCombatMessage    = "combat_message"
	EventUserTyping       = "user_typing"
	EventCombatInvitation = "combat_invitation"
	EventCombatResponse   = "combat_response"
	EventNotification     = "notification"
	EventError            = "error"
)

// Event is a server-emitted socket event.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Inbound is a client-emitted socket event. The payload stays raw until the
// event type is known.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// CombatChatPayload is the payload of combat-chat events from clients.
type CombatChatPayload struct {
	CombatID string `json:"combat_id"`
	Message  string `json:"message,omitempty"`
}

// TypingPayload is broadcast to a room when a participant is typing.
type TypingPayload struct {
	CombatID  string `json:"combat_id"`
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
}

// ErrorPayload is a typed error event. Protocol-level failures are never used
// for application errors; clients always get one of these instead.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorEvent builds a typed error event.
func ErrorEvent(code, message string) Event {
	return Event{Type: EventError, Data: ErrorPayload{Code: code, Message: message}}
}
