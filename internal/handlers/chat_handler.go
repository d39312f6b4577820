package handlers

import (
	"net/http"
	"strconv"

	"github.com/boxerly/backend/internal/chat"
	"github.com/boxerly/backend/internal/models"
	"github.com/boxerly/backend/internal/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// ChatHandler handles persisted chat HTTP requests. Message sends go through
// the chat service so REST and socket ingestion share one path.
type ChatHandler struct {
	chatRepository repositories.ChatRepository
	chatService    *chat.Service
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chatRepo repositories.ChatRepository, chatService *chat.Service) *ChatHandler {
	return &ChatHandler{chatRepository: chatRepo, chatService: chatService}
}

// RegisterChatRoutes registers chat-related routes
func (h *ChatHandler) RegisterChatRoutes(g *echo.Group) {
	g.GET("/conversations", h.GetConversations)
	g.GET("/conversations/:id/messages", h.GetMessages)
	g.POST("/conversations/:id/messages", h.SendMessage)
	g.PUT("/conversations/:id/read", h.MarkRead)
	g.POST("/users/:id/messages", h.StartConversation)
	g.POST("/combats/:id/messages", h.SendCombatMessage)
}

// GetConversations lists the authenticated account's conversations
func (h *ChatHandler) GetConversations(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Account not authenticated")
	}

	conversations, err := h.chatRepository.GetConversationsByParticipant(c.Request().Context(), accountIDString(claims.AccountID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, conversations)
}

// GetMessages lists a conversation's messages, newest first
func (h *ChatHandler) GetMessages(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Account not authenticated")
	}

	skip, limit, err := parseChatPage(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	conversation, err := h.chatRepository.GetConversationByID(ctx, c.Param("id"))
	if err != nil {
		if err == repositories.ErrConversationNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Conversation not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if !conversationHasParticipant(conversation, accountIDString(claims.AccountID)) {
		return echo.NewHTTPError(http.StatusForbidden, "Not a participant of this conversation")
	}

	messages, err := h.chatRepository.GetMessages(ctx, c.Param("id"), skip, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, messages)
}

// SendMessage sends a message to an existing conversation
func (h *ChatHandler) SendMessage(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Account not authenticated")
	}

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	message, err := h.chatService.SendToConversation(c.Request().Context(), c.Param("id"), accountIDString(claims.AccountID), claims.Name, req.Text)
	if err != nil {
		return chatServiceError(err)
	}

	return c.JSON(http.StatusCreated, message)
}

// StartConversation lazily creates the 1:1 conversation with another account
// and sends the first message
func (h *ChatHandler) StartConversation(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Account not authenticated")
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	if uint(targetID) == claims.AccountID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot message yourself")
	}

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	message, err := h.chatService.StartConversation(c.Request().Context(), accountIDString(claims.AccountID), claims.Name, accountIDString(uint(targetID)), req.Text)
	if err != nil {
		return chatServiceError(err)
	}

	return c.JSON(http.StatusCreated, message)
}

// SendCombatMessage sends a message through a combat's chat. Same ingestion
// path as the send_combat_message socket event.
func (h *ChatHandler) SendCombatMessage(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Account not authenticated")
	}

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	message, err := h.chatService.SendCombatMessage(c.Request().Context(), c.Param("id"), accountIDString(claims.AccountID), claims.Name, req.Text)
	if err != nil {
		return chatServiceError(err)
	}

	return c.JSON(http.StatusCreated, message)
}

// MarkRead marks all of a conversation's messages as read by the caller
func (h *ChatHandler) MarkRead(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Account not authenticated")
	}

	ctx := c.Request().Context()
	conversation, err := h.chatRepository.GetConversationByID(ctx, c.Param("id"))
	if err != nil {
		if err == repositories.ErrConversationNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Conversation not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	accountID := accountIDString(claims.AccountID)
	if !conversationHasParticipant(conversation, accountID) {
		return echo.NewHTTPError(http.StatusForbidden, "Not a participant of this conversation")
	}

	if err := h.chatRepository.MarkMessagesRead(ctx, c.Param("id"), accountID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}

func conversationHasParticipant(conversation *models.Conversation, accountID string) bool {
	for _, p := range conversation.Participants {
		if p == accountID {
			return true
		}
	}
	return false
}

// chatServiceError maps chat service failures onto the HTTP error taxonomy
func chatServiceError(err error) error {
	switch err {
	case chat.ErrNotParticipant:
		return echo.NewHTTPError(http.StatusForbidden, "Not a participant")
	case repositories.ErrCombatNotFound:
		return echo.NewHTTPError(http.StatusNotFound, "Combat not found")
	case repositories.ErrConversationNotFound:
		return echo.NewHTTPError(http.StatusNotFound, "Conversation not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
