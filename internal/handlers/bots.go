package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"social-service/internal/bot"
	"social-service/internal/models"
	"social-service/internal/repositories"
)

// BotProvisioner is the slice of the bot service the admin endpoints use.
type BotProvisioner interface {
	CreateBotAccount(ctx context.Context, seed bot.BotSeed) (models.Bot, error)
	Stats(ctx context.Context) (models.BotStats, error)
}

// BotHandler manages the bot fleet admin endpoints.
type BotHandler struct {
	bots        repositories.BotRepository
	provisioner BotProvisioner
}

// NewBotHandler builds a BotHandler. provisioner may be nil when bots are
// disabled; the endpoints that need it answer 503.
func NewBotHandler(bots repositories.BotRepository, provisioner BotProvisioner) *BotHandler {
	return &BotHandler{bots: bots, provisioner: provisioner}
}

// ListBots returns active bots.
func (h *BotHandler) ListBots(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	bots, err := h.bots.ListActiveBots(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load bots"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bots": bots})
}

// GetBot returns one bot profile.
func (h *BotHandler) GetBot(c *gin.Context) {
	botID, ok := botIDParam(c)
	if !ok {
		return
	}
	b, err := h.bots.GetBot(c.Request.Context(), botID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrBotNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "bot not found"})
		return
	}
	c.JSON(http.StatusOK, b)
}

// CreateBot provisions a bot account plus its profile.
func (h *BotHandler) CreateBot(c *gin.Context) {
	if h.provisioner == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "bots are disabled"})
		return
	}

	var req struct {
		Name               string             `json:"name"`
		Personality        models.Personality `json:"personality" binding:"required"`
		Interests          []string           `json:"interests"`
		Topics             []string           `json:"content_topics"`
		ActivityFrequency  int                `json:"activity_frequency"`
		MaxDailyActivities int                `json:"max_daily_activities"`
		CanPost            bool               `json:"can_post"`
		CanMessage         bool               `json:"can_message"`
		CanListProducts    bool               `json:"can_list_products"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ActivityFrequency <= 0 {
		req.ActivityFrequency = 60
	}
	if req.MaxDailyActivities <= 0 {
		req.MaxDailyActivities = 10
	}

	b, err := h.provisioner.CreateBotAccount(c.Request.Context(), bot.BotSeed{
		Name:               req.Name,
		Personality:        req.Personality,
		Interests:          req.Interests,
		Topics:             req.Topics,
		ActivityFrequency:  req.ActivityFrequency,
		MaxDailyActivities: req.MaxDailyActivities,
		CanPost:            req.CanPost,
		CanMessage:         req.CanMessage,
		CanListProducts:    req.CanListProducts,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create bot"})
		return
	}
	c.JSON(http.StatusCreated, b)
}

// SetBotActive pauses or resumes a bot.
func (h *BotHandler) SetBotActive(c *gin.Context) {
	botID, ok := botIDParam(c)
	if !ok {
		return
	}
	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.bots.SetActive(c.Request.Context(), botID, *req.IsActive); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrBotNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "could not update bot"})
		return
	}
	c.Status(http.StatusNoContent)
}

// ListBotActivities returns the bot's recent activity log.
func (h *BotHandler) ListBotActivities(c *gin.Context) {
	botID, ok := botIDParam(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	if _, err := h.bots.GetBot(c.Request.Context(), botID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrBotNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "bot not found"})
		return
	}

	activities, err := h.bots.ListActivities(c.Request.Context(), botID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load activities"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"activities": activities})
}

// BotStats returns fleet-wide statistics.
func (h *BotHandler) BotStats(c *gin.Context) {
	if h.provisioner == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "bots are disabled"})
		return
	}

	stats, err := h.provisioner.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func botIDParam(c *gin.Context) (int, bool) {
	botID, err := strconv.Atoi(c.Param("bot_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bot id"})
		return 0, false
	}
	return botID, true
}
