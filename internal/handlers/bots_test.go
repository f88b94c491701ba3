package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"social-service/internal/bot"
	"social-service/internal/mocks"
	"social-service/internal/models"
	"social-service/internal/repositories"
)

type provisionerMock struct {
	mock.Mock
}

func (m *provisionerMock) CreateBotAccount(ctx context.Context, seed bot.BotSeed) (models.Bot, error) {
	args := m.Called(ctx, seed)
	var b models.Bot
	if val := args.Get(0); val != nil {
		b = val.(models.Bot)
	}
	return b, args.Error(1)
}

func (m *provisionerMock) Stats(ctx context.Context) (models.BotStats, error) {
	args := m.Called(ctx)
	var stats models.BotStats
	if val := args.Get(0); val != nil {
		stats = val.(models.BotStats)
	}
	return stats, args.Error(1)
}

func setupBotRouter(handler *BotHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.GET("/bots", handler.ListBots)
	r.POST("/bots", handler.CreateBot)
	r.GET("/bots/stats", handler.BotStats)
	r.GET("/bots/:bot_id", handler.GetBot)
	r.PATCH("/bots/:bot_id", handler.SetBotActive)
	r.GET("/bots/:bot_id/activities", handler.ListBotActivities)
	return r
}

func TestListBotsSuccess(t *testing.T) {
	botRepo := new(mocks.BotRepositoryMock)
	handler := NewBotHandler(botRepo, new(provisionerMock))
	router := setupBotRouter(handler)

	botRepo.On("ListActiveBots", mock.Anything, 100).Return([]models.Bot{{ID: 3, UserID: 9}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/bots", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	botRepo.AssertExpectations(t)
}

func TestCreateBotAppliesDefaults(t *testing.T) {
	provisioner := new(provisionerMock)
	handler := NewBotHandler(new(mocks.BotRepositoryMock), provisioner)
	router := setupBotRouter(handler)

	provisioner.On("CreateBotAccount", mock.Anything, mock.MatchedBy(func(seed bot.BotSeed) bool {
		return seed.Personality == models.PersonalityFriendly &&
			seed.ActivityFrequency == 60 && seed.MaxDailyActivities == 10
	})).Return(models.Bot{ID: 7}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/bots", bytes.NewBufferString(`{"personality":"friendly","can_post":true}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	provisioner.AssertExpectations(t)
}

func TestCreateBotRequiresPersonality(t *testing.T) {
	handler := NewBotHandler(new(mocks.BotRepositoryMock), new(provisionerMock))
	router := setupBotRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/bots", bytes.NewBufferString(`{"name":"Nameless"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateBotAnswers503WhenBotsDisabled(t *testing.T) {
	handler := NewBotHandler(new(mocks.BotRepositoryMock), nil)
	router := setupBotRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/bots", bytes.NewBufferString(`{"personality":"friendly"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestBotStatsAnswers503WhenBotsDisabled(t *testing.T) {
	botRepo := new(mocks.BotRepositoryMock)
	handler := NewBotHandler(botRepo, nil)
	router := setupBotRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/bots/stats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	// Read-only endpoints backed by the repository keep working.
	botRepo.On("ListActiveBots", mock.Anything, 100).Return([]models.Bot{}, nil).Once()
	req = httptest.NewRequest(http.MethodGet, "/bots", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	botRepo.AssertExpectations(t)
}

func TestGetBotNotFound(t *testing.T) {
	botRepo := new(mocks.BotRepositoryMock)
	handler := NewBotHandler(botRepo, new(provisionerMock))
	router := setupBotRouter(handler)

	botRepo.On("GetBot", mock.Anything, 99).Return(models.Bot{}, repositories.ErrBotNotFound).Once()

	req := httptest.NewRequest(http.MethodGet, "/bots/99", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	botRepo.AssertExpectations(t)
}

func TestSetBotActivePausesBot(t *testing.T) {
	botRepo := new(mocks.BotRepositoryMock)
	handler := NewBotHandler(botRepo, new(provisionerMock))
	router := setupBotRouter(handler)

	botRepo.On("SetActive", mock.Anything, 3, false).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPatch, "/bots/3", bytes.NewBufferString(`{"is_active":false}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	botRepo.AssertExpectations(t)
}

func TestListBotActivitiesChecksBotExists(t *testing.T) {
	botRepo := new(mocks.BotRepositoryMock)
	handler := NewBotHandler(botRepo, new(provisionerMock))
	router := setupBotRouter(handler)

	botRepo.On("GetBot", mock.Anything, 99).Return(models.Bot{}, repositories.ErrBotNotFound).Once()

	req := httptest.NewRequest(http.MethodGet, "/bots/99/activities", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	botRepo.AssertNotCalled(t, "ListActivities", mock.Anything, mock.Anything, mock.Anything)
}

func TestListBotActivitiesSuccess(t *testing.T) {
	botRepo := new(mocks.BotRepositoryMock)
	handler := NewBotHandler(botRepo, new(provisionerMock))
	router := setupBotRouter(handler)

	botRepo.On("GetBot", mock.Anything, 3).Return(models.Bot{ID: 3}, nil).Once()
	botRepo.On("ListActivities", mock.Anything, 3, 50).
		Return([]models.BotActivity{{ID: 1, BotID: 3, ActivityType: models.ActivityPost}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/bots/3/activities", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	botRepo.AssertExpectations(t)
}

func TestBotStats(t *testing.T) {
	provisioner := new(provisionerMock)
	handler := NewBotHandler(new(mocks.BotRepositoryMock), provisioner)
	router := setupBotRouter(handler)

	provisioner.On("Stats", mock.Anything).
		Return(models.BotStats{TotalBots: 5, ActiveBots: 4, ActivitiesToday: 12}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/bots/stats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, float64(5), resp["total_bots"])
	provisioner.AssertExpectations(t)
}
