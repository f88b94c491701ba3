package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"social-service/internal/models"
	"social-service/internal/repositories"
	"social-service/internal/ws"
)

// Broadcaster is the realtime fan-out surface the REST handlers push message
// events through.
type Broadcaster interface {
	SendToMany(event any, userIDs []int, exclude int)
	BroadcastAll(event any)
}

// MessageHandler manages message endpoints. Messages posted over REST reach
// online participants through the same realtime events as websocket frames.
type MessageHandler struct {
	conversations repositories.ConversationRepository
	messages      repositories.MessageRepository
	users         repositories.UserRepository
	broadcaster   Broadcaster
	responder     ws.BotResponder
	logger        *zap.Logger
}

// NewMessageHandler builds a MessageHandler. responder may be nil when bots
// are disabled.
func NewMessageHandler(
	conversations repositories.ConversationRepository,
	messages repositories.MessageRepository,
	users repositories.UserRepository,
	broadcaster Broadcaster,
	responder ws.BotResponder,
	logger *zap.Logger,
) *MessageHandler {
	return &MessageHandler{
		conversations: conversations,
		messages:      messages,
		users:         users,
		broadcaster:   broadcaster,
		responder:     responder,
		logger:        logger,
	}
}

// ListMessages returns a page of visible messages in chronological order.
func (h *MessageHandler) ListMessages(c *gin.Context) {
	conversationID, ok := conversationIDParam(c)
	if !ok {
		return
	}
	userID := c.GetInt("userID")

	if !h.authorizeRead(c, conversationID, userID) {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

	msgs, total, err := h.messages.ListMessages(c.Request.Context(), conversationID, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"messages":  msgs,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// PostMessage stores a message, fans it out to online participants, and
// hands it to the bot layer.
func (h *MessageHandler) PostMessage(c *gin.Context) {
	conversationID, ok := conversationIDParam(c)
	if !ok {
		return
	}
	userID := c.GetInt("userID")

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	global := conversationID == models.GlobalChatID
	if global {
		if _, err := h.conversations.EnsureReservedChat(c.Request.Context(), models.GlobalChatID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store message"})
			return
		}
		if err := h.conversations.AddParticipant(c.Request.Context(), models.GlobalChatID, userID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store message"})
			return
		}
	}

	msg, err := h.messages.CreateMessage(c.Request.Context(), conversationID, userID, req.Content)
	if err != nil {
		if errors.Is(err, repositories.ErrNotParticipant) {
			c.JSON(http.StatusForbidden, gin.H{"error": "not a participant"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store message"})
		return
	}

	sender, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load sender"})
		return
	}

	event := models.NewMessageEvent(msg, sender.Ref())
	if global {
		h.broadcaster.BroadcastAll(event)
	} else {
		participants, err := h.conversations.ListActiveParticipants(c.Request.Context(), conversationID)
		if err == nil {
			h.broadcaster.SendToMany(event, participants, 0)
		}
	}

	h.triggerBot(msg)
	c.JSON(http.StatusCreated, models.MessagePayload{Message: msg, Sender: sender.Ref()})
}

// MarkRead records the caller's read position and notifies the other
// participants, mirroring the realtime read frame.
func (h *MessageHandler) MarkRead(c *gin.Context) {
	conversationID, ok := conversationIDParam(c)
	if !ok {
		return
	}
	userID := c.GetInt("userID")

	now := time.Now()
	if err := h.conversations.MarkRead(c.Request.Context(), conversationID, userID, now); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrNotParticipant) {
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"error": "could not mark read"})
		return
	}

	if participants, err := h.conversations.ListActiveParticipants(c.Request.Context(), conversationID); err == nil {
		h.broadcaster.SendToMany(models.NewReadReceiptEvent(conversationID, userID, now), participants, userID)
	}
	c.Status(http.StatusNoContent)
}

// DeleteMessage soft-deletes the caller's own message.
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	messageID, err := strconv.Atoi(c.Param("message_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}
	userID := c.GetInt("userID")

	if err := h.messages.SoftDeleteMessage(c.Request.Context(), messageID, userID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrMessageNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "could not delete message"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MessageHandler) authorizeRead(c *gin.Context, conversationID, userID int) bool {
	// Reserved chats are readable by everyone.
	if conversationID == models.GlobalChatID || conversationID == models.BotChatID {
		if _, err := h.conversations.EnsureReservedChat(c.Request.Context(), conversationID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load conversation"})
			return false
		}
		return true
	}

	member, err := h.conversations.IsActiveParticipant(c.Request.Context(), conversationID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify membership"})
		return false
	}
	if !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a participant"})
		return false
	}
	return true
}

func (h *MessageHandler) triggerBot(msg models.Message) {
	if h.responder == nil {
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				h.logger.Error("bot response panic", zap.Int("message_id", msg.ID), zap.Any("panic", r))
			}
		}()
		h.responder.TriggerImmediateResponse(context.Background(), msg)
	}()
}
