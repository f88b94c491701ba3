package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"social-service/internal/models"
	"social-service/internal/repositories"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) GetUser(ctx context.Context, userID int) (models.User, error) {
	args := m.Called(ctx, userID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	args := m.Called(ctx, user)
	var created models.User
	if val := args.Get(0); val != nil {
		created = val.(models.User)
	}
	return created, args.Error(1)
}

type ConversationRepositoryMock struct {
	mock.Mock
}

func (m *ConversationRepositoryMock) GetOrCreateDirect(ctx context.Context, userID, otherUserID int) (models.Conversation, error) {
	args := m.Called(ctx, userID, otherUserID)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	return conv, args.Error(1)
}

func (m *ConversationRepositoryMock) CreateGroup(ctx context.Context, creatorID int, name string, avatar *string, participantIDs []int) (models.Conversation, error) {
	args := m.Called(ctx, creatorID, name, avatar, participantIDs)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	return conv, args.Error(1)
}

func (m *ConversationRepositoryMock) GetConversation(ctx context.Context, conversationID int) (models.Conversation, error) {
	args := m.Called(ctx, conversationID)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	return conv, args.Error(1)
}

func (m *ConversationRepositoryMock) ListForUser(ctx context.Context, userID int) ([]models.ConversationSummary, error) {
	args := m.Called(ctx, userID)
	var list []models.ConversationSummary
	if val := args.Get(0); val != nil {
		list = val.([]models.ConversationSummary)
	}
	return list, args.Error(1)
}

func (m *ConversationRepositoryMock) ListActiveParticipants(ctx context.Context, conversationID int) ([]int, error) {
	args := m.Called(ctx, conversationID)
	var ids []int
	if val := args.Get(0); val != nil {
		ids = val.([]int)
	}
	return ids, args.Error(1)
}

func (m *ConversationRepositoryMock) IsActiveParticipant(ctx context.Context, conversationID, userID int) (bool, error) {
	args := m.Called(ctx, conversationID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *ConversationRepositoryMock) AddParticipant(ctx context.Context, conversationID, userID int) error {
	args := m.Called(ctx, conversationID, userID)
	return args.Error(0)
}

func (m *ConversationRepositoryMock) RemoveParticipant(ctx context.Context, conversationID, userID int) error {
	args := m.Called(ctx, conversationID, userID)
	return args.Error(0)
}

func (m *ConversationRepositoryMock) MarkRead(ctx context.Context, conversationID, userID int, at time.Time) error {
	args := m.Called(ctx, conversationID, userID, at)
	return args.Error(0)
}

func (m *ConversationRepositoryMock) EnsureReservedChat(ctx context.Context, conversationID int) (models.Conversation, error) {
	args := m.Called(ctx, conversationID)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	return conv, args.Error(1)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) CreateMessage(ctx context.Context, conversationID, senderID int, content string) (models.Message, error) {
	args := m.Called(ctx, conversationID, senderID, content)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) GetMessage(ctx context.Context, messageID int) (models.Message, error) {
	args := m.Called(ctx, messageID)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) ListMessages(ctx context.Context, conversationID, page, pageSize int) ([]models.Message, int, error) {
	args := m.Called(ctx, conversationID, page, pageSize)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Int(1), args.Error(2)
}

func (m *MessageRepositoryMock) SoftDeleteMessage(ctx context.Context, messageID, senderID int) error {
	args := m.Called(ctx, messageID, senderID)
	return args.Error(0)
}

func (m *MessageRepositoryMock) LatestUnansweredInbound(ctx context.Context, userID int, since time.Time) (models.Message, error) {
	args := m.Called(ctx, userID, since)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) HasMessageFromSince(ctx context.Context, conversationID, userID int, since time.Time) (bool, error) {
	args := m.Called(ctx, conversationID, userID, since)
	return args.Bool(0), args.Error(1)
}

type BotRepositoryMock struct {
	mock.Mock
}

func (m *BotRepositoryMock) CreateBot(ctx context.Context, bot models.Bot) (models.Bot, error) {
	args := m.Called(ctx, bot)
	var created models.Bot
	if val := args.Get(0); val != nil {
		created = val.(models.Bot)
	}
	return created, args.Error(1)
}

func (m *BotRepositoryMock) GetBot(ctx context.Context, botID int) (models.Bot, error) {
	args := m.Called(ctx, botID)
	var bot models.Bot
	if val := args.Get(0); val != nil {
		bot = val.(models.Bot)
	}
	return bot, args.Error(1)
}

func (m *BotRepositoryMock) GetBotByUserID(ctx context.Context, userID int) (models.Bot, error) {
	args := m.Called(ctx, userID)
	var bot models.Bot
	if val := args.Get(0); val != nil {
		bot = val.(models.Bot)
	}
	return bot, args.Error(1)
}

func (m *BotRepositoryMock) ListActiveBots(ctx context.Context, limit int) ([]models.Bot, error) {
	args := m.Called(ctx, limit)
	var bots []models.Bot
	if val := args.Get(0); val != nil {
		bots = val.([]models.Bot)
	}
	return bots, args.Error(1)
}

func (m *BotRepositoryMock) ListMessagingBots(ctx context.Context) ([]models.Bot, error) {
	args := m.Called(ctx)
	var bots []models.Bot
	if val := args.Get(0); val != nil {
		bots = val.([]models.Bot)
	}
	return bots, args.Error(1)
}

func (m *BotRepositoryMock) FirstMessagingBotInConversation(ctx context.Context, conversationID int) (models.Bot, error) {
	args := m.Called(ctx, conversationID)
	var bot models.Bot
	if val := args.Get(0); val != nil {
		bot = val.(models.Bot)
	}
	return bot, args.Error(1)
}

func (m *BotRepositoryMock) SetActive(ctx context.Context, botID int, active bool) error {
	args := m.Called(ctx, botID, active)
	return args.Error(0)
}

func (m *BotRepositoryMock) CountActivitiesSince(ctx context.Context, botID int, since time.Time) (int, error) {
	args := m.Called(ctx, botID, since)
	return args.Int(0), args.Error(1)
}

func (m *BotRepositoryMock) LogActivity(ctx context.Context, activity models.BotActivity) (models.BotActivity, error) {
	args := m.Called(ctx, activity)
	var logged models.BotActivity
	if val := args.Get(0); val != nil {
		logged = val.(models.BotActivity)
	}
	return logged, args.Error(1)
}

func (m *BotRepositoryMock) ListActivities(ctx context.Context, botID, limit int) ([]models.BotActivity, error) {
	args := m.Called(ctx, botID, limit)
	var activities []models.BotActivity
	if val := args.Get(0); val != nil {
		activities = val.([]models.BotActivity)
	}
	return activities, args.Error(1)
}

func (m *BotRepositoryMock) IncrementCounter(ctx context.Context, botID int, field string) error {
	args := m.Called(ctx, botID, field)
	return args.Error(0)
}

func (m *BotRepositoryMock) TouchLastActivity(ctx context.Context, botID int, at time.Time) error {
	args := m.Called(ctx, botID, at)
	return args.Error(0)
}

func (m *BotRepositoryMock) Stats(ctx context.Context, todayStart time.Time) (models.BotStats, error) {
	args := m.Called(ctx, todayStart)
	var stats models.BotStats
	if val := args.Get(0); val != nil {
		stats = val.(models.BotStats)
	}
	return stats, args.Error(1)
}

type PostRepositoryMock struct {
	mock.Mock
}

func (m *PostRepositoryMock) CreatePost(ctx context.Context, userID int, content string) (models.Post, error) {
	args := m.Called(ctx, userID, content)
	var post models.Post
	if val := args.Get(0); val != nil {
		post = val.(models.Post)
	}
	return post, args.Error(1)
}

type ProductRepositoryMock struct {
	mock.Mock
}

func (m *ProductRepositoryMock) CreateProduct(ctx context.Context, product models.Product) (models.Product, error) {
	args := m.Called(ctx, product)
	var created models.Product
	if val := args.Get(0); val != nil {
		created = val.(models.Product)
	}
	return created, args.Error(1)
}

type BroadcasterMock struct {
	mock.Mock
}

func (m *BroadcasterMock) SendToMany(event any, userIDs []int, exclude int) {
	m.Called(event, userIDs, exclude)
}

func (m *BroadcasterMock) BroadcastAll(event any) {
	m.Called(event)
}

type BotResponderMock struct {
	mock.Mock
}

func (m *BotResponderMock) TriggerImmediateResponse(ctx context.Context, msg models.Message) {
	m.Called(ctx, msg)
}

var _ repositories.UserRepository = (*UserRepositoryMock)(nil)
var _ repositories.ConversationRepository = (*ConversationRepositoryMock)(nil)
var _ repositories.MessageRepository = (*MessageRepositoryMock)(nil)
var _ repositories.BotRepository = (*BotRepositoryMock)(nil)
var _ repositories.PostRepository = (*PostRepositoryMock)(nil)
var _ repositories.ProductRepository = (*ProductRepositoryMock)(nil)
