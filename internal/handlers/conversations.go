package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"social-service/internal/models"
	"social-service/internal/repositories"
)

// ConversationHandler manages conversation endpoints.
type ConversationHandler struct {
	conversations repositories.ConversationRepository
	users         repositories.UserRepository
}

// NewConversationHandler builds a ConversationHandler.
func NewConversationHandler(conversations repositories.ConversationRepository, users repositories.UserRepository) *ConversationHandler {
	return &ConversationHandler{conversations: conversations, users: users}
}

// ListConversations returns the conversations visible to the authenticated
// user, most recently active first.
func (h *ConversationHandler) ListConversations(c *gin.Context) {
	userID := c.GetInt("userID")

	summaries, err := h.conversations.ListForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load conversations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": summaries})
}

// StartDirect creates or returns the existing one-to-one conversation with
// another user.
func (h *ConversationHandler) StartDirect(c *gin.Context) {
	var req struct {
		UserID int `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("userID")
	if userID == req.UserID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot start a conversation with yourself"})
		return
	}

	if _, err := h.users.GetUser(c.Request.Context(), req.UserID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrUserNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "user not found"})
		return
	}

	conv, err := h.conversations.GetOrCreateDirect(c.Request.Context(), userID, req.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create conversation"})
		return
	}
	c.JSON(http.StatusOK, conv)
}

// CreateGroup creates a named group conversation with the caller plus the
// listed participants.
func (h *ConversationHandler) CreateGroup(c *gin.Context) {
	var req struct {
		Name           string  `json:"name" binding:"required"`
		Avatar         *string `json:"avatar"`
		ParticipantIDs []int   `json:"participant_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("userID")
	conv, err := h.conversations.CreateGroup(c.Request.Context(), userID, req.Name, req.Avatar, req.ParticipantIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create group"})
		return
	}
	c.JSON(http.StatusCreated, conv)
}

// GetConversation returns one conversation with its current participants.
func (h *ConversationHandler) GetConversation(c *gin.Context) {
	conversationID, ok := conversationIDParam(c)
	if !ok {
		return
	}
	userID := c.GetInt("userID")

	conv, err := h.loadVisibleConversation(c, conversationID, userID)
	if err != nil {
		return
	}

	participants, err := h.conversations.ListActiveParticipants(c.Request.Context(), conversationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load participants"})
		return
	}
	c.JSON(http.StatusOK, models.ConversationSummary{Conversation: conv, ParticipantIDs: participants})
}

// AddParticipant adds a user to a group conversation.
func (h *ConversationHandler) AddParticipant(c *gin.Context) {
	conversationID, ok := conversationIDParam(c)
	if !ok {
		return
	}

	var req struct {
		UserID int `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("userID")
	conv, err := h.loadVisibleConversation(c, conversationID, userID)
	if err != nil {
		return
	}
	if conv.Type != models.ConversationGroup {
		c.JSON(http.StatusBadRequest, gin.H{"error": "participants can only be added to groups"})
		return
	}

	if err := h.conversations.AddParticipant(c.Request.Context(), conversationID, req.UserID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not add participant"})
		return
	}
	c.Status(http.StatusNoContent)
}

// LeaveConversation removes the caller from the conversation.
func (h *ConversationHandler) LeaveConversation(c *gin.Context) {
	conversationID, ok := conversationIDParam(c)
	if !ok {
		return
	}
	userID := c.GetInt("userID")

	if err := h.conversations.RemoveParticipant(c.Request.Context(), conversationID, userID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrNotParticipant) {
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"error": "could not leave conversation"})
		return
	}
	c.Status(http.StatusNoContent)
}

// loadVisibleConversation fetches the conversation and enforces membership,
// writing the error response itself. Reserved chats are visible to everyone
// and created on first access.
func (h *ConversationHandler) loadVisibleConversation(c *gin.Context, conversationID, userID int) (models.Conversation, error) {
	if conversationID == models.GlobalChatID || conversationID == models.BotChatID {
		conv, err := h.conversations.EnsureReservedChat(c.Request.Context(), conversationID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load conversation"})
			return models.Conversation{}, err
		}
		return conv, nil
	}

	conv, err := h.conversations.GetConversation(c.Request.Context(), conversationID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrConversationNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "conversation not found"})
		return models.Conversation{}, err
	}

	member, err := h.conversations.IsActiveParticipant(c.Request.Context(), conversationID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify membership"})
		return models.Conversation{}, err
	}
	if !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a participant"})
		return models.Conversation{}, repositories.ErrNotParticipant
	}
	return conv, nil
}

func conversationIDParam(c *gin.Context) (int, bool) {
	conversationID, err := strconv.Atoi(c.Param("conversation_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
		return 0, false
	}
	return conversationID, true
}
