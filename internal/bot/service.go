package bot

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"go.uber.org/zap"

	"social-service/internal/config"
	"social-service/internal/models"
	"social-service/internal/observability"
	"social-service/internal/repositories"
)

// Broadcaster is the realtime fan-out surface the bot layer pushes events
// through. *ws.Registry satisfies it.
type Broadcaster interface {
	SendToMany(event any, userIDs []int, exclude int)
	BroadcastAll(event any)
}

// Service runs the autonomous bot fleet: scheduled sweeps, proactive
// outreach, lounge chatter, and realtime replies to user messages.
type Service struct {
	users         repositories.UserRepository
	conversations repositories.ConversationRepository
	messages      repositories.MessageRepository
	bots          repositories.BotRepository
	posts         repositories.PostRepository
	products      repositories.ProductRepository

	broadcaster Broadcaster
	gen         *Generator
	src         Source
	cfg         config.BotsConfig
	logger      *zap.Logger
	now         func() time.Time
}

// NewService constructs a Service.
func NewService(
	users repositories.UserRepository,
	conversations repositories.ConversationRepository,
	messages repositories.MessageRepository,
	bots repositories.BotRepository,
	posts repositories.PostRepository,
	products repositories.ProductRepository,
	broadcaster Broadcaster,
	src Source,
	cfg config.BotsConfig,
	logger *zap.Logger,
) *Service {
	return &Service{
		users:         users,
		conversations: conversations,
		messages:      messages,
		bots:          bots,
		posts:         posts,
		products:      products,
		broadcaster:   broadcaster,
		gen:           NewGenerator(src),
		src:           src,
		cfg:           cfg,
		logger:        logger,
		now:           time.Now,
	}
}

func dayStart(now time.Time) time.Time {
	year, month, day := now.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ShouldAct reports whether the bot is eligible for a scheduled activity:
// under its daily cap and past its per-activity cooldown. Realtime replies
// bypass this check entirely.
func (s *Service) ShouldAct(ctx context.Context, b models.Bot) (bool, error) {
	now := s.now()
	count, err := s.bots.CountActivitiesSince(ctx, b.ID, dayStart(now))
	if err != nil {
		return false, err
	}
	if count >= b.MaxDailyActivities {
		return false, nil
	}
	if b.LastActivityAt != nil {
		cooldown := time.Duration(b.ActivityFrequency) * time.Minute
		if now.Sub(*b.LastActivityAt) < cooldown {
			return false, nil
		}
	}
	return true, nil
}

// PerformRandomActivity draws one activity from the bot's enabled
// capabilities, weighted toward content that involves other users. Returns
// false when the bot was not eligible or had nothing to do.
func (s *Service) PerformRandomActivity(ctx context.Context, b models.Bot) (bool, error) {
	eligible, err := s.ShouldAct(ctx, b)
	if err != nil || !eligible {
		return false, err
	}

	type weighted struct {
		kind   string
		weight float64
	}
	var choices []weighted
	if b.CanPost {
		choices = append(choices, weighted{"post", 0.4})
	}
	if b.CanListProducts {
		choices = append(choices, weighted{"product", 0.2})
	}
	if b.CanMessage {
		choices = append(choices, weighted{"respond", 0.4})
	}
	if len(choices) == 0 {
		return false, nil
	}

	var total float64
	for _, c := range choices {
		total += c.weight
	}
	draw := s.src.Float64() * total
	kind := choices[len(choices)-1].kind
	for _, c := range choices {
		if draw < c.weight {
			kind = c.kind
			break
		}
		draw -= c.weight
	}

	switch kind {
	case "post":
		return true, s.CreatePost(ctx, b)
	case "product":
		return true, s.ListProduct(ctx, b)
	default:
		return s.RespondToMessages(ctx, b)
	}
}

// CreatePost publishes a generated feed post and charges the bot's rate
// budget.
func (s *Service) CreatePost(ctx context.Context, b models.Bot) error {
	content, topic := s.gen.Post(b)
	post, err := s.posts.CreatePost(ctx, b.UserID, content)
	if err != nil {
		observability.IncBotActivity(string(models.ActivityPost), false)
		return fmt.Errorf("bot %d create post: %w", b.ID, err)
	}

	if err := s.logActivity(ctx, models.BotActivity{
		BotID:        b.ID,
		ActivityType: models.ActivityPost,
		Description:  "Created post about " + topic,
		PostID:       &post.ID,
		Success:      true,
	}, repositories.CounterPosts, true); err != nil {
		return err
	}
	s.logger.Info("bot posted", zap.Int("bot_id", b.ID), zap.Int("post_id", post.ID), zap.String("topic", topic))
	return nil
}

// ListProduct publishes a generated marketplace listing and charges the
// bot's rate budget.
func (s *Service) ListProduct(ctx context.Context, b models.Bot) error {
	product, err := s.products.CreateProduct(ctx, s.gen.Product(b.UserID))
	if err != nil {
		observability.IncBotActivity(string(models.ActivityProductList), false)
		return fmt.Errorf("bot %d list product: %w", b.ID, err)
	}

	if err := s.logActivity(ctx, models.BotActivity{
		BotID:        b.ID,
		ActivityType: models.ActivityProductList,
		Description:  "Listed product: " + product.Name,
		ProductID:    &product.ID,
		Success:      true,
	}, repositories.CounterProducts, true); err != nil {
		return err
	}
	s.logger.Info("bot listed product", zap.Int("bot_id", b.ID), zap.Int("product_id", product.ID))
	return nil
}

// RespondToMessages answers the bot's most recent unanswered inbound message
// from the last 24 hours, if any, charging the rate budget on success.
func (s *Service) RespondToMessages(ctx context.Context, b models.Bot) (bool, error) {
	now := s.now()
	inbound, err := s.messages.LatestUnansweredInbound(ctx, b.UserID, now.Add(-24*time.Hour))
	if errors.Is(err, repositories.ErrMessageNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	reply, err := s.sendAsBot(ctx, b, inbound.ConversationID, s.gen.Response(inbound.Content, b.Personality))
	if err != nil {
		observability.IncBotActivity(string(models.ActivityMessage), false)
		return false, fmt.Errorf("bot %d respond: %w", b.ID, err)
	}

	if err := s.logActivity(ctx, models.BotActivity{
		BotID:        b.ID,
		ActivityType: models.ActivityMessage,
		Description:  fmt.Sprintf("Responded to message from user %d", inbound.SenderID),
		MessageID:    &reply.ID,
		Success:      true,
	}, repositories.CounterMessages, true); err != nil {
		return false, err
	}
	s.logger.Info("bot replied", zap.Int("bot_id", b.ID), zap.Int("conversation_id", inbound.ConversationID))
	return true, nil
}

// TriggerImmediateResponse answers a user message in real time, bypassing
// eligibility checks. Bot-authored messages never trigger a reply, so two
// bots cannot loop. The rate-limit clock is deliberately left untouched:
// chatting with users must not starve a bot's scheduled posting.
func (s *Service) TriggerImmediateResponse(ctx context.Context, msg models.Message) {
	sender, err := s.users.GetUser(ctx, msg.SenderID)
	if err != nil {
		s.logger.Error("immediate response: load sender", zap.Int("user_id", msg.SenderID), zap.Error(err))
		return
	}
	if sender.IsBot {
		return
	}

	b, err := s.bots.FirstMessagingBotInConversation(ctx, msg.ConversationID)
	if errors.Is(err, repositories.ErrBotNotFound) {
		return
	}
	if err != nil {
		s.logger.Error("immediate response: find bot", zap.Int("conversation_id", msg.ConversationID), zap.Error(err))
		return
	}

	// A short pause reads as typing rather than an instant machine reply.
	delay := s.cfg.ResponseDelayMin +
		time.Duration(s.src.Float64()*float64(s.cfg.ResponseDelayMax-s.cfg.ResponseDelayMin))
	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return
		}
	}

	reply, err := s.sendAsBot(ctx, b, msg.ConversationID, s.gen.Response(msg.Content, b.Personality))
	if err != nil {
		observability.IncBotActivity(string(models.ActivityMessage), false)
		s.logger.Error("immediate response: send", zap.Int("bot_id", b.ID), zap.Error(err))
		return
	}

	activity := models.BotActivity{
		BotID:        b.ID,
		ActivityType: models.ActivityMessage,
		Description:  fmt.Sprintf("Real-time response to user %d", msg.SenderID),
		MessageID:    &reply.ID,
		Success:      true,
	}
	if err := s.logActivity(ctx, activity, repositories.CounterMessages, false); err != nil {
		s.logger.Error("immediate response: log", zap.Int("bot_id", b.ID), zap.Error(err))
	}
	s.logger.Info("bot replied in realtime",
		zap.Int("bot_id", b.ID),
		zap.Int("conversation_id", msg.ConversationID),
		zap.Duration("delay", delay))
}

// SendProactiveMessage has one randomly chosen bot open or continue a direct
// conversation with the anchor account. Most runs send nothing: a
// probability gate plus a two-hour per-conversation cooldown keep the
// outreach occasional.
func (s *Service) SendProactiveMessage(ctx context.Context) error {
	anchor, err := s.users.GetUserByEmail(ctx, s.cfg.AnchorEmail)
	if errors.Is(err, repositories.ErrUserNotFound) {
		s.logger.Debug("proactive outreach: anchor account absent, skipping")
		return nil
	}
	if err != nil {
		return err
	}

	candidates, err := s.bots.ListMessagingBots(ctx)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return nil
	}

	if s.src.Float64() > s.cfg.ProactiveChance {
		s.logger.Debug("proactive outreach: skipped by chance gate")
		return nil
	}
	b := candidates[s.src.Intn(len(candidates))]

	conv, err := s.conversations.GetOrCreateDirect(ctx, b.UserID, anchor.ID)
	if err != nil {
		return fmt.Errorf("proactive outreach: conversation: %w", err)
	}
	recent, err := s.messages.HasMessageFromSince(ctx, conv.ID, b.UserID, s.now().Add(-2*time.Hour))
	if err != nil {
		return err
	}
	if recent {
		s.logger.Debug("proactive outreach: bot messaged recently, skipping", zap.Int("bot_id", b.ID))
		return nil
	}

	reply, err := s.sendAsBot(ctx, b, conv.ID, s.gen.Proactive(b.Personality))
	if err != nil {
		observability.IncBotActivity(string(models.ActivityMessage), false)
		return fmt.Errorf("proactive outreach: send: %w", err)
	}

	if err := s.logActivity(ctx, models.BotActivity{
		BotID:        b.ID,
		ActivityType: models.ActivityMessage,
		Description:  "Sent proactive message to anchor user",
		MessageID:    &reply.ID,
		Success:      true,
	}, repositories.CounterMessages, true); err != nil {
		return err
	}
	s.logger.Info("bot sent proactive message", zap.Int("bot_id", b.ID), zap.Int("conversation_id", conv.ID))
	return nil
}

// PostToBotChat drops one ambient line into the bot lounge from a random
// active bot. Lounge chatter is scenery: it neither consumes the bot's rate
// budget nor appears in its activity log.
func (s *Service) PostToBotChat(ctx context.Context) error {
	if _, err := s.conversations.EnsureReservedChat(ctx, models.BotChatID); err != nil {
		return fmt.Errorf("bot chat: ensure conversation: %w", err)
	}

	candidates, err := s.bots.ListActiveBots(ctx, 0)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return nil
	}
	b := candidates[s.src.Intn(len(candidates))]

	if err := s.conversations.AddParticipant(ctx, models.BotChatID, b.UserID); err != nil {
		return fmt.Errorf("bot chat: join: %w", err)
	}

	msg, err := s.messages.CreateMessage(ctx, models.BotChatID, b.UserID, s.gen.ChatLine())
	if err != nil {
		return fmt.Errorf("bot chat: send: %w", err)
	}

	sender, err := s.users.GetUser(ctx, b.UserID)
	if err != nil {
		return err
	}
	// The lounge is a public room: everyone online sees it.
	s.broadcaster.BroadcastAll(models.NewMessageEvent(msg, sender.Ref()))
	s.logger.Debug("bot posted to lounge", zap.Int("bot_id", b.ID), zap.Int("message_id", msg.ID))
	return nil
}

// Sweep runs one scheduled pass over the fleet. Bots are visited in random
// order and failures are isolated per bot.
func (s *Service) Sweep(ctx context.Context) {
	bots, err := s.bots.ListActiveBots(ctx, 0)
	if err != nil {
		s.logger.Error("bot sweep: list bots", zap.Error(err))
		return
	}
	for i := len(bots) - 1; i > 0; i-- {
		j := s.src.Intn(i + 1)
		bots[i], bots[j] = bots[j], bots[i]
	}

	performed := 0
	for _, b := range bots {
		if ctx.Err() != nil {
			return
		}
		acted, err := s.performIsolated(ctx, b)
		if err != nil {
			s.logger.Error("bot sweep: activity failed", zap.Int("bot_id", b.ID), zap.Error(err))
			continue
		}
		if acted {
			performed++
		}
	}
	s.logger.Info("bot sweep complete", zap.Int("bots", len(bots)), zap.Int("performed", performed))
}

func (s *Service) performIsolated(ctx context.Context, b models.Bot) (acted bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("bot %d panic: %v", b.ID, r)
		}
	}()
	return s.PerformRandomActivity(ctx, b)
}

// BotSeed describes one bot account to provision.
type BotSeed struct {
	Name               string
	Personality        models.Personality
	Interests          []string
	Topics             []string
	ActivityFrequency  int
	MaxDailyActivities int
	CanPost            bool
	CanMessage         bool
	CanListProducts    bool
}

// CreateBotAccount provisions a user account plus its bot profile.
func (s *Service) CreateBotAccount(ctx context.Context, seed BotSeed) (models.Bot, error) {
	if seed.Name == "" {
		seed.Name = s.gen.Name()
	}
	slug := strings.ToLower(strings.ReplaceAll(seed.Name, " ", "_"))
	bio := s.gen.Bio(seed.Personality, seed.Interests)
	avatar := avatarURL(seed.Name)

	user, err := s.users.CreateUser(ctx, models.User{
		Email:    slug + "@botnet.local",
		Name:     seed.Name,
		Slug:     slug,
		Avatar:   &avatar,
		Bio:      &bio,
		IsBot:    true,
		IsActive: true,
	})
	if err != nil {
		return models.Bot{}, fmt.Errorf("seed bot %q: user: %w", seed.Name, err)
	}

	b, err := s.bots.CreateBot(ctx, models.Bot{
		UserID:             user.ID,
		Personality:        seed.Personality,
		Interests:          models.StringList(seed.Interests),
		Topics:             models.StringList(seed.Topics),
		IsActive:           true,
		ActivityFrequency:  seed.ActivityFrequency,
		MaxDailyActivities: seed.MaxDailyActivities,
		CanPost:            seed.CanPost,
		CanMessage:         seed.CanMessage,
		CanListProducts:    seed.CanListProducts,
	})
	if err != nil {
		return models.Bot{}, fmt.Errorf("seed bot %q: profile: %w", seed.Name, err)
	}
	s.logger.Info("bot account created", zap.Int("bot_id", b.ID), zap.String("name", seed.Name))
	return b, nil
}

// Stats aggregates fleet-wide statistics for the admin endpoint.
func (s *Service) Stats(ctx context.Context) (models.BotStats, error) {
	return s.bots.Stats(ctx, dayStart(s.now()))
}

// sendAsBot stores a message authored by the bot and fans it out to the
// conversation's participants.
func (s *Service) sendAsBot(ctx context.Context, b models.Bot, conversationID int, content string) (models.Message, error) {
	msg, err := s.messages.CreateMessage(ctx, conversationID, b.UserID, content)
	if err != nil {
		return models.Message{}, err
	}
	sender, err := s.users.GetUser(ctx, b.UserID)
	if err != nil {
		return models.Message{}, err
	}
	participants, err := s.conversations.ListActiveParticipants(ctx, conversationID)
	if err != nil {
		return models.Message{}, err
	}
	s.broadcaster.SendToMany(models.NewMessageEvent(msg, sender.Ref()), participants, 0)
	return msg, nil
}

// logActivity appends the audit record, bumps the matching counter, and
// optionally charges the rate-limit clock.
func (s *Service) logActivity(ctx context.Context, activity models.BotActivity, counter string, chargeBudget bool) error {
	if _, err := s.bots.LogActivity(ctx, activity); err != nil {
		return fmt.Errorf("bot %d log activity: %w", activity.BotID, err)
	}
	observability.IncBotActivity(string(activity.ActivityType), activity.Success)
	if err := s.bots.IncrementCounter(ctx, activity.BotID, counter); err != nil {
		return fmt.Errorf("bot %d counter: %w", activity.BotID, err)
	}
	if chargeBudget {
		if err := s.bots.TouchLastActivity(ctx, activity.BotID, s.now()); err != nil {
			return fmt.Errorf("bot %d touch: %w", activity.BotID, err)
		}
	}
	return nil
}

func avatarURL(name string) string {
	h := fnv.New32a()
	h.Write([]byte(name))
	return fmt.Sprintf("https://i.pravatar.cc/400?img=%d", h.Sum32()%70)
}
