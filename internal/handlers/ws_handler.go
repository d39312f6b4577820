package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"

	"github.com/boxerly/backend/internal/chat"
	"github.com/boxerly/backend/internal/models"
	"github.com/boxerly/backend/internal/repositories"
	"github.com/golang-jwt/jwt/v4"
	"github.com/boxerly/backend/internal/ws"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browsers cannot set an Authorization header on websocket upgrades, so
	// the token travels as a query parameter and the origin is not trusted.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHandler upgrades connections into the real-time gateway and dispatches
// inbound events.
type WSHandler struct {
	hub              *ws.Hub
	chatService      *chat.Service
	combatRepository repositories.CombatRepository
}

// NewWSHandler creates a new WSHandler
func NewWSHandler(hub *ws.Hub, chatService *chat.Service, combatRepo repositories.CombatRepository) *WSHandler {
	return &WSHandler{hub: hub, chatService: chatService, combatRepository: combatRepo}
}

// RegisterWSRoutes registers the websocket endpoint
func (h *WSHandler) RegisterWSRoutes(e *echo.Echo) {
	e.GET("/ws", h.Connect)
}

// Connect authenticates the token query parameter, upgrades the connection
// and runs the read/write pumps until the client disconnects.
func (h *WSHandler) Connect(c echo.Context) error {
	claims, err := parseTokenParam(c.QueryParam("token"))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := ws.NewClient(conn, accountIDString(claims.AccountID), claims.Name)
	h.hub.Register(client)
	log.Printf("ws: account %s connected", client.AccountID)

	go client.WritePump()
	client.ReadPump(h.dispatch)

	h.hub.Unregister(client)
	log.Printf("ws: account %s disconnected", client.AccountID)
	return nil
}

// dispatch routes one inbound event. Application failures become typed error
// events; the connection itself stays up.
func (h *WSHandler) dispatch(client *ws.Client, inbound ws.Inbound) {
	switch inbound.Type {
	case ws.EventJoinCombatChat:
		h.joinCombatChat(client, inbound.Data)
	case ws.EventLeaveCombatChat:
		h.leaveCombatChat(client, inbound.Data)
	case ws.EventSendCombatMessage:
		h.sendCombatMessage(client, inbound.Data)
	case ws.EventTypingInCombat:
		h.typingInCombat(client, inbound.Data)
	default:
		client.SendError("unknown_event", "unknown event type: "+inbound.Type)
	}
}

func (h *WSHandler) joinCombatChat(client *ws.Client, data json.RawMessage) {
	payload, ok := decodeCombatChatPayload(client, data)
	if !ok {
		return
	}

	combat, err := h.combatRepository.GetCombatByID(context.Background(), payload.CombatID)
	if err != nil {
		if err == repositories.ErrCombatNotFound {
			client.SendError("combat_not_found", "combat does not exist")
		} else {
			client.SendError("internal_error", "could not join combat chat")
		}
		return
	}
	if !combat.IsParticipant(client.AccountID) {
		client.SendError("not_participant", "only combat participants can join its chat")
		return
	}

	h.hub.JoinRoom(payload.CombatID, client)
}

func (h *WSHandler) leaveCombatChat(client *ws.Client, data json.RawMessage) {
	payload, ok := decodeCombatChatPayload(client, data)
	if !ok {
		return
	}
	h.hub.LeaveRoom(payload.CombatID, client)
}

func (h *WSHandler) sendCombatMessage(client *ws.Client, data json.RawMessage) {
	payload, ok := decodeCombatChatPayload(client, data)
	if !ok {
		return
	}
	if payload.Message == "" {
		client.SendError("invalid_event", "message must not be empty")
		return
	}

	_, err := h.chatService.SendCombatMessage(context.Background(), payload.CombatID, client.AccountID, client.Name, payload.Message)
	if err != nil {
		switch err {
		case chat.ErrNotParticipant:
			client.SendError("not_participant", "only combat participants can send messages")
		case repositories.ErrCombatNotFound:
			client.SendError("combat_not_found", "combat does not exist")
		default:
			client.SendError("internal_error", "could not send message")
		}
	}
}

func (h *WSHandler) typingInCombat(client *ws.Client, data json.RawMessage) {
	payload, ok := decodeCombatChatPayload(client, data)
	if !ok {
		return
	}

	h.hub.BroadcastToRoomExcept(payload.CombatID, client, ws.Event{
		Type: ws.EventUserTyping,
		Data: ws.TypingPayload{
			CombatID:  payload.CombatID,
			AccountID: client.AccountID,
			Name:      client.Name,
		},
	})
}

func decodeCombatChatPayload(client *ws.Client, data json.RawMessage) (ws.CombatChatPayload, bool) {
	var payload ws.CombatChatPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		client.SendError("invalid_event", "malformed event payload")
		return payload, false
	}
	if payload.CombatID == "" {
		client.SendError("invalid_event", "combat_id is required")
		return payload, false
	}
	return payload, true
}

func parseTokenParam(tokenString string) (*models.JwtCustomClaims, error) {
	if tokenString == "" {
		return nil, jwt.ErrTokenMalformed
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "supersecretjwtkey" // Must match the secret used for signing
	}

	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
