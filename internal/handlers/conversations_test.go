package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"social-service/internal/mocks"
	"social-service/internal/models"
	"social-service/internal/repositories"
)

func setupConversationRouter(handler *ConversationHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.GET("/conversations", handler.ListConversations)
	r.POST("/conversations/direct", handler.StartDirect)
	r.POST("/conversations/group", handler.CreateGroup)
	r.GET("/conversations/:conversation_id", handler.GetConversation)
	r.POST("/conversations/:conversation_id/participants", handler.AddParticipant)
	r.DELETE("/conversations/:conversation_id/participants/me", handler.LeaveConversation)
	return r
}

func TestListConversationsSuccess(t *testing.T) {
	convRepo := new(mocks.ConversationRepositoryMock)
	handler := NewConversationHandler(convRepo, new(mocks.UserRepositoryMock))
	router := setupConversationRouter(handler)

	convRepo.On("ListForUser", mock.Anything, 1).Return([]models.ConversationSummary{
		{Conversation: models.Conversation{ID: 3, Type: models.ConversationDirect}, ParticipantIDs: []int{1, 2}},
	}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/conversations", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp["conversations"], 1)
	convRepo.AssertExpectations(t)
}

func TestStartDirectWithSelfRejected(t *testing.T) {
	handler := NewConversationHandler(new(mocks.ConversationRepositoryMock), new(mocks.UserRepositoryMock))
	router := setupConversationRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/conversations/direct", bytes.NewBufferString(`{"user_id":1}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStartDirectUnknownUser(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewConversationHandler(new(mocks.ConversationRepositoryMock), userRepo)
	router := setupConversationRouter(handler)

	userRepo.On("GetUser", mock.Anything, 9).Return(models.User{}, repositories.ErrUserNotFound).Once()

	req := httptest.NewRequest(http.MethodPost, "/conversations/direct", bytes.NewBufferString(`{"user_id":9}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	userRepo.AssertExpectations(t)
}

func TestStartDirectSuccess(t *testing.T) {
	convRepo := new(mocks.ConversationRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewConversationHandler(convRepo, userRepo)
	router := setupConversationRouter(handler)

	userRepo.On("GetUser", mock.Anything, 2).Return(models.User{ID: 2}, nil).Once()
	convRepo.On("GetOrCreateDirect", mock.Anything, 1, 2).
		Return(models.Conversation{ID: 10, Type: models.ConversationDirect}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/conversations/direct", bytes.NewBufferString(`{"user_id":2}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	convRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

func TestCreateGroupSuccess(t *testing.T) {
	convRepo := new(mocks.ConversationRepositoryMock)
	handler := NewConversationHandler(convRepo, new(mocks.UserRepositoryMock))
	router := setupConversationRouter(handler)

	convRepo.On("CreateGroup", mock.Anything, 1, "book club", (*string)(nil), []int{2, 3}).
		Return(models.Conversation{ID: 11, Type: models.ConversationGroup}, nil).Once()

	body := bytes.NewBufferString(`{"name":"book club","participant_ids":[2,3]}`)
	req := httptest.NewRequest(http.MethodPost, "/conversations/group", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	convRepo.AssertExpectations(t)
}

func TestGetConversationEnforcesMembership(t *testing.T) {
	convRepo := new(mocks.ConversationRepositoryMock)
	handler := NewConversationHandler(convRepo, new(mocks.UserRepositoryMock))
	router := setupConversationRouter(handler)

	convRepo.On("GetConversation", mock.Anything, 5).
		Return(models.Conversation{ID: 5, Type: models.ConversationGroup}, nil).Once()
	convRepo.On("IsActiveParticipant", mock.Anything, 5, 1).Return(false, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/conversations/5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	convRepo.AssertExpectations(t)
}

func TestGetReservedConversationVisibleToEveryone(t *testing.T) {
	convRepo := new(mocks.ConversationRepositoryMock)
	handler := NewConversationHandler(convRepo, new(mocks.UserRepositoryMock))
	router := setupConversationRouter(handler)

	convRepo.On("EnsureReservedChat", mock.Anything, models.GlobalChatID).
		Return(models.Conversation{ID: models.GlobalChatID, Type: models.ConversationGroup}, nil).Once()
	convRepo.On("ListActiveParticipants", mock.Anything, models.GlobalChatID).Return([]int{1, 2, 3}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/conversations/-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	convRepo.AssertNotCalled(t, "IsActiveParticipant", mock.Anything, mock.Anything, mock.Anything)
	convRepo.AssertExpectations(t)
}

func TestAddParticipantRejectedForDirect(t *testing.T) {
	convRepo := new(mocks.ConversationRepositoryMock)
	handler := NewConversationHandler(convRepo, new(mocks.UserRepositoryMock))
	router := setupConversationRouter(handler)

	convRepo.On("GetConversation", mock.Anything, 5).
		Return(models.Conversation{ID: 5, Type: models.ConversationDirect}, nil).Once()
	convRepo.On("IsActiveParticipant", mock.Anything, 5, 1).Return(true, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/conversations/5/participants", bytes.NewBufferString(`{"user_id":3}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	convRepo.AssertNotCalled(t, "AddParticipant", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddParticipantSuccess(t *testing.T) {
	convRepo := new(mocks.ConversationRepositoryMock)
	handler := NewConversationHandler(convRepo, new(mocks.UserRepositoryMock))
	router := setupConversationRouter(handler)

	convRepo.On("GetConversation", mock.Anything, 5).
		Return(models.Conversation{ID: 5, Type: models.ConversationGroup}, nil).Once()
	convRepo.On("IsActiveParticipant", mock.Anything, 5, 1).Return(true, nil).Once()
	convRepo.On("AddParticipant", mock.Anything, 5, 3).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/conversations/5/participants", bytes.NewBufferString(`{"user_id":3}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	convRepo.AssertExpectations(t)
}

func TestLeaveConversationNotParticipant(t *testing.T) {
	convRepo := new(mocks.ConversationRepositoryMock)
	handler := NewConversationHandler(convRepo, new(mocks.UserRepositoryMock))
	router := setupConversationRouter(handler)

	convRepo.On("RemoveParticipant", mock.Anything, 5, 1).Return(repositories.ErrNotParticipant).Once()

	req := httptest.NewRequest(http.MethodDelete, "/conversations/5/participants/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	convRepo.AssertExpectations(t)
}
