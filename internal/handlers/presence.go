package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// PresenceSource is the registry view the presence endpoints read.
type PresenceSource interface {
	OnlineUsers() []int
	IsOnline(userID int) bool
	TypingUsers(conversationID int) []int
}

// PresenceHandler exposes realtime presence state over REST.
type PresenceHandler struct {
	presence PresenceSource
}

// NewPresenceHandler builds a PresenceHandler.
func NewPresenceHandler(presence PresenceSource) *PresenceHandler {
	return &PresenceHandler{presence: presence}
}

// OnlineUsers returns the ids of all currently connected users.
func (h *PresenceHandler) OnlineUsers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"online": h.presence.OnlineUsers()})
}

// UserStatus reports whether one user is online.
func (h *PresenceHandler) UserStatus(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": userID, "online": h.presence.IsOnline(userID)})
}

// TypingUsers returns who is typing in a conversation right now.
func (h *PresenceHandler) TypingUsers(c *gin.Context) {
	conversationID, ok := conversationIDParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"conversation_id": conversationID,
		"typing":          h.presence.TypingUsers(conversationID),
	})
}
