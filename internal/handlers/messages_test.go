package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"social-service/internal/mocks"
	"social-service/internal/models"
	"social-service/internal/repositories"
	"social-service/internal/ws"
)

func setupMessageRouter(handler *MessageHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.GET("/conversations/:conversation_id/messages", handler.ListMessages)
	r.POST("/conversations/:conversation_id/messages", handler.PostMessage)
	r.POST("/conversations/:conversation_id/read", handler.MarkRead)
	r.DELETE("/messages/:message_id", handler.DeleteMessage)
	return r
}

func newMessageHandler(
	convRepo *mocks.ConversationRepositoryMock,
	msgRepo *mocks.MessageRepositoryMock,
	userRepo *mocks.UserRepositoryMock,
	broadcaster *mocks.BroadcasterMock,
	responder *mocks.BotResponderMock,
) *MessageHandler {
	var r ws.BotResponder
	if responder != nil {
		r = responder
	}
	return NewMessageHandler(convRepo, msgRepo, userRepo, broadcaster, r, zap.NewNop())
}

func TestListMessagesSuccess(t *testing.T) {
	convRepo := new(mocks.ConversationRepositoryMock)
	msgRepo := new(mocks.MessageRepositoryMock)
	handler := newMessageHandler(convRepo, msgRepo, new(mocks.UserRepositoryMock), new(mocks.BroadcasterMock), nil)
	router := setupMessageRouter(handler)

	convRepo.On("IsActiveParticipant", mock.Anything, 5, 1).Return(true, nil).Once()
	msgRepo.On("ListMessages", mock.Anything, 5, 1, 50).
		Return([]models.Message{{ID: 1, ConversationID: 5, SenderID: 2, Content: "hi"}}, 1, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/conversations/5/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, float64(1), resp["total"])
	assert.Equal(t, float64(1), resp["page"])
	assert.Equal(t, float64(50), resp["page_size"])
	convRepo.AssertExpectations(t)
	msgRepo.AssertExpectations(t)
}

func TestListMessagesForbidden(t *testing.T) {
	convRepo := new(mocks.ConversationRepositoryMock)
	msgRepo := new(mocks.MessageRepositoryMock)
	handler := newMessageHandler(convRepo, msgRepo, new(mocks.UserRepositoryMock), new(mocks.BroadcasterMock), nil)
	router := setupMessageRouter(handler)

	convRepo.On("IsActiveParticipant", mock.Anything, 5, 1).Return(false, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/conversations/5/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	msgRepo.AssertNotCalled(t, "ListMessages", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestListMessagesGlobalReadableByAnyone(t *testing.T) {
	convRepo := new(mocks.ConversationRepositoryMock)
	msgRepo := new(mocks.MessageRepositoryMock)
	handler := newMessageHandler(convRepo, msgRepo, new(mocks.UserRepositoryMock), new(mocks.BroadcasterMock), nil)
	router := setupMessageRouter(handler)

	convRepo.On("EnsureReservedChat", mock.Anything, models.GlobalChatID).
		Return(models.Conversation{ID: models.GlobalChatID}, nil).Once()
	msgRepo.On("ListMessages", mock.Anything, models.GlobalChatID, 2, 10).
		Return([]models.Message{}, 0, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/conversations/-1/messages?page=2&page_size=10", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	convRepo.AssertNotCalled(t, "IsActiveParticipant", mock.Anything, mock.Anything, mock.Anything)
}

func TestPostMessageFansOut(t *testing.T) {
	convRepo := new(mocks.ConversationRepositoryMock)
	msgRepo := new(mocks.MessageRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	broadcaster := new(mocks.BroadcasterMock)
	handler := newMessageHandler(convRepo, msgRepo, userRepo, broadcaster, nil)
	router := setupMessageRouter(handler)

	stored := models.Message{ID: 42, ConversationID: 5, SenderID: 1, Content: "hello", CreatedAt: time.Now()}
	msgRepo.On("CreateMessage", mock.Anything, 5, 1, "hello").Return(stored, nil).Once()
	userRepo.On("GetUser", mock.Anything, 1).Return(models.User{ID: 1, Name: "alice"}, nil).Once()
	convRepo.On("ListActiveParticipants", mock.Anything, 5).Return([]int{1, 2}, nil).Once()
	broadcaster.On("SendToMany", mock.Anything, []int{1, 2}, 0).Once()

	req := httptest.NewRequest(http.MethodPost, "/conversations/5/messages", bytes.NewBufferString(`{"content":"hello"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var payload models.MessagePayload
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
	assert.Equal(t, 42, payload.ID)
	assert.Equal(t, "alice", payload.Sender.Name)
	broadcaster.AssertExpectations(t)
	msgRepo.AssertExpectations(t)
}

func TestPostMessageGlobalBroadcasts(t *testing.T) {
	convRepo := new(mocks.ConversationRepositoryMock)
	msgRepo := new(mocks.MessageRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	broadcaster := new(mocks.BroadcasterMock)
	handler := newMessageHandler(convRepo, msgRepo, userRepo, broadcaster, nil)
	router := setupMessageRouter(handler)

	convRepo.On("EnsureReservedChat", mock.Anything, models.GlobalChatID).
		Return(models.Conversation{ID: models.GlobalChatID}, nil).Once()
	convRepo.On("AddParticipant", mock.Anything, models.GlobalChatID, 1).Return(nil).Once()
	stored := models.Message{ID: 43, ConversationID: models.GlobalChatID, SenderID: 1, Content: "hi all"}
	msgRepo.On("CreateMessage", mock.Anything, models.GlobalChatID, 1, "hi all").Return(stored, nil).Once()
	userRepo.On("GetUser", mock.Anything, 1).Return(models.User{ID: 1, Name: "alice"}, nil).Once()
	broadcaster.On("BroadcastAll", mock.Anything).Once()

	req := httptest.NewRequest(http.MethodPost, "/conversations/-1/messages", bytes.NewBufferString(`{"content":"hi all"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	broadcaster.AssertExpectations(t)
	convRepo.AssertExpectations(t)
}

func TestPostMessageNonParticipant(t *testing.T) {
	convRepo := new(mocks.ConversationRepositoryMock)
	msgRepo := new(mocks.MessageRepositoryMock)
	handler := newMessageHandler(convRepo, msgRepo, new(mocks.UserRepositoryMock), new(mocks.BroadcasterMock), nil)
	router := setupMessageRouter(handler)

	msgRepo.On("CreateMessage", mock.Anything, 5, 1, "hi").
		Return(models.Message{}, repositories.ErrNotParticipant).Once()

	req := httptest.NewRequest(http.MethodPost, "/conversations/5/messages", bytes.NewBufferString(`{"content":"hi"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	msgRepo.AssertExpectations(t)
}

func TestPostMessageTriggersBotLayer(t *testing.T) {
	convRepo := new(mocks.ConversationRepositoryMock)
	msgRepo := new(mocks.MessageRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	broadcaster := new(mocks.BroadcasterMock)
	responder := new(mocks.BotResponderMock)
	handler := newMessageHandler(convRepo, msgRepo, userRepo, broadcaster, responder)
	router := setupMessageRouter(handler)

	stored := models.Message{ID: 42, ConversationID: 5, SenderID: 1, Content: "hello"}
	msgRepo.On("CreateMessage", mock.Anything, 5, 1, "hello").Return(stored, nil).Once()
	userRepo.On("GetUser", mock.Anything, 1).Return(models.User{ID: 1}, nil).Once()
	convRepo.On("ListActiveParticipants", mock.Anything, 5).Return([]int{1}, nil).Once()
	broadcaster.On("SendToMany", mock.Anything, []int{1}, 0).Once()

	triggered := make(chan struct{})
	responder.On("TriggerImmediateResponse", mock.Anything, stored).
		Run(func(mock.Arguments) { close(triggered) }).Once()

	req := httptest.NewRequest(http.MethodPost, "/conversations/5/messages", bytes.NewBufferString(`{"content":"hello"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	select {
	case <-triggered:
	case <-time.After(time.Second):
		t.Fatal("bot layer was not triggered")
	}
	responder.AssertExpectations(t)
}

func TestMarkReadNotifiesOtherParticipants(t *testing.T) {
	convRepo := new(mocks.ConversationRepositoryMock)
	broadcaster := new(mocks.BroadcasterMock)
	handler := newMessageHandler(convRepo, new(mocks.MessageRepositoryMock), new(mocks.UserRepositoryMock), broadcaster, nil)
	router := setupMessageRouter(handler)

	convRepo.On("MarkRead", mock.Anything, 5, 1, mock.Anything).Return(nil).Once()
	convRepo.On("ListActiveParticipants", mock.Anything, 5).Return([]int{1, 2}, nil).Once()
	broadcaster.On("SendToMany", mock.Anything, []int{1, 2}, 1).Once()

	req := httptest.NewRequest(http.MethodPost, "/conversations/5/read", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	convRepo.AssertExpectations(t)
	broadcaster.AssertExpectations(t)
}

func TestMarkReadNotParticipant(t *testing.T) {
	convRepo := new(mocks.ConversationRepositoryMock)
	handler := newMessageHandler(convRepo, new(mocks.MessageRepositoryMock), new(mocks.UserRepositoryMock), new(mocks.BroadcasterMock), nil)
	router := setupMessageRouter(handler)

	convRepo.On("MarkRead", mock.Anything, 5, 1, mock.Anything).Return(repositories.ErrNotParticipant).Once()

	req := httptest.NewRequest(http.MethodPost, "/conversations/5/read", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	convRepo.AssertExpectations(t)
}

func TestDeleteMessageNotFound(t *testing.T) {
	msgRepo := new(mocks.MessageRepositoryMock)
	handler := newMessageHandler(new(mocks.ConversationRepositoryMock), msgRepo, new(mocks.UserRepositoryMock), new(mocks.BroadcasterMock), nil)
	router := setupMessageRouter(handler)

	msgRepo.On("SoftDeleteMessage", mock.Anything, 99, 1).Return(repositories.ErrMessageNotFound).Once()

	req := httptest.NewRequest(http.MethodDelete, "/messages/99", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	msgRepo.AssertExpectations(t)
}

func TestDeleteMessageSuccess(t *testing.T) {
	msgRepo := new(mocks.MessageRepositoryMock)
	handler := newMessageHandler(new(mocks.ConversationRepositoryMock), msgRepo, new(mocks.UserRepositoryMock), new(mocks.BroadcasterMock), nil)
	router := setupMessageRouter(handler)

	msgRepo.On("SoftDeleteMessage", mock.Anything, 42, 1).Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/messages/42", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	msgRepo.AssertExpectations(t)
}
