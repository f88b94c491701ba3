package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"social-service/internal/models"
)

var ErrBotNotFound = errors.New("bot not found")

// Counter fields that IncrementCounter accepts. Field names arrive from code,
// never from users, but the whitelist keeps them out of SQL by construction.
const (
	CounterPosts    = "total_posts"
	CounterComments = "total_comments"
	CounterMessages = "total_messages"
	CounterProducts = "total_products"
)

var counterFields = map[string]struct{}{
	CounterPosts:    {},
	CounterComments: {},
	CounterMessages: {},
	CounterProducts: {},
}

// BotRepository abstracts bot profile and activity-log persistence.
type BotRepository interface {
	CreateBot(ctx context.Context, bot models.Bot) (models.Bot, error)
	GetBot(ctx context.Context, botID int) (models.Bot, error)
	GetBotByUserID(ctx context.Context, userID int) (models.Bot, error)
	ListActiveBots(ctx context.Context, limit int) ([]models.Bot, error)
	ListMessagingBots(ctx context.Context) ([]models.Bot, error)
	FirstMessagingBotInConversation(ctx context.Context, conversationID int) (models.Bot, error)
	SetActive(ctx context.Context, botID int, active bool) error
	CountActivitiesSince(ctx context.Context, botID int, since time.Time) (int, error)
	LogActivity(ctx context.Context, activity models.BotActivity) (models.BotActivity, error)
	ListActivities(ctx context.Context, botID, limit int) ([]models.BotActivity, error)
	IncrementCounter(ctx context.Context, botID int, field string) error
	TouchLastActivity(ctx context.Context, botID int, at time.Time) error
	Stats(ctx context.Context, todayStart time.Time) (models.BotStats, error)
}

// BotRepo is a sqlx implementation of BotRepository.
type BotRepo struct {
	db *sqlx.DB
}

// NewBotRepo constructs a BotRepo.
func NewBotRepo(db *sqlx.DB) *BotRepo {
	return &BotRepo{db: db}
}

const botColumns = `id, user_id, personality, interests, content_topics, is_active,
    activity_frequency, max_daily_activities,
    can_post, can_comment, can_message, can_create_communities, can_list_products,
    total_posts, total_comments, total_messages, total_products,
    created_at, last_activity_at`

// CreateBot inserts a bot profile for an existing user account.
func (r *BotRepo) CreateBot(ctx context.Context, bot models.Bot) (models.Bot, error) {
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO bots (user_id, personality, interests, content_topics, is_active,
            activity_frequency, max_daily_activities,
            can_post, can_comment, can_message, can_create_communities, can_list_products)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
         RETURNING `+botColumns,
		bot.UserID, bot.Personality, bot.Interests, bot.Topics, bot.IsActive,
		bot.ActivityFrequency, bot.MaxDailyActivities,
		bot.CanPost, bot.CanComment, bot.CanMessage, bot.CanCreateCommunities, bot.CanListProducts).
		StructScan(&bot)
	return bot, err
}

// GetBot fetches a bot by id.
func (r *BotRepo) GetBot(ctx context.Context, botID int) (models.Bot, error) {
	var bot models.Bot
	err := r.db.GetContext(ctx, &bot, `SELECT `+botColumns+` FROM bots WHERE id=$1`, botID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Bot{}, ErrBotNotFound
	}
	return bot, err
}

// GetBotByUserID fetches the bot profile attached to a user account.
func (r *BotRepo) GetBotByUserID(ctx context.Context, userID int) (models.Bot, error) {
	var bot models.Bot
	err := r.db.GetContext(ctx, &bot, `SELECT `+botColumns+` FROM bots WHERE user_id=$1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Bot{}, ErrBotNotFound
	}
	return bot, err
}

// ListActiveBots returns active bots, oldest first.
func (r *BotRepo) ListActiveBots(ctx context.Context, limit int) ([]models.Bot, error) {
	if limit <= 0 {
		limit = 100
	}
	var bots []models.Bot
	err := r.db.SelectContext(ctx, &bots,
		`SELECT `+botColumns+` FROM bots WHERE is_active = TRUE ORDER BY id LIMIT $1`, limit)
	return bots, err
}

// ListMessagingBots returns active bots with messaging enabled.
func (r *BotRepo) ListMessagingBots(ctx context.Context) ([]models.Bot, error) {
	var bots []models.Bot
	err := r.db.SelectContext(ctx, &bots,
		`SELECT `+botColumns+` FROM bots WHERE is_active = TRUE AND can_message = TRUE ORDER BY id`)
	return bots, err
}

// FirstMessagingBotInConversation returns the active, messaging-enabled bot
// participant with the lowest user id. Iteration order is deterministic so
// co-present bots respond predictably.
func (r *BotRepo) FirstMessagingBotInConversation(ctx context.Context, conversationID int) (models.Bot, error) {
	var bot models.Bot
	query := `SELECT b.id, b.user_id, b.personality, b.interests, b.content_topics, b.is_active,
            b.activity_frequency, b.max_daily_activities,
            b.can_post, b.can_comment, b.can_message, b.can_create_communities, b.can_list_products,
            b.total_posts, b.total_comments, b.total_messages, b.total_products,
            b.created_at, b.last_activity_at
        FROM bots b
        JOIN conversation_participants p ON p.user_id = b.user_id
        WHERE p.conversation_id = $1 AND p.is_active = TRUE
          AND b.is_active = TRUE AND b.can_message = TRUE
        ORDER BY b.user_id
        LIMIT 1`
	err := r.db.GetContext(ctx, &bot, query, conversationID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Bot{}, ErrBotNotFound
	}
	return bot, err
}

// SetActive pauses or resumes a bot.
func (r *BotRepo) SetActive(ctx context.Context, botID int, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE bots SET is_active=$2 WHERE id=$1`, botID, active)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrBotNotFound
	}
	return nil
}

// CountActivitiesSince counts activity records logged for the bot at or
// after since.
func (r *BotRepo) CountActivitiesSince(ctx context.Context, botID int, since time.Time) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM bot_activities WHERE bot_id=$1 AND created_at >= $2`, botID, since)
	return count, err
}

// LogActivity appends an immutable audit record.
func (r *BotRepo) LogActivity(ctx context.Context, activity models.BotActivity) (models.BotActivity, error) {
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO bot_activities (bot_id, activity_type, description, post_id, message_id, product_id, success, error_message)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
         RETURNING id, bot_id, activity_type, description, post_id, message_id, product_id, success, error_message, created_at`,
		activity.BotID, activity.ActivityType, activity.Description,
		activity.PostID, activity.MessageID, activity.ProductID,
		activity.Success, activity.ErrorMessage).
		StructScan(&activity)
	return activity, err
}

// ListActivities returns the bot's most recent activity records.
func (r *BotRepo) ListActivities(ctx context.Context, botID, limit int) ([]models.BotActivity, error) {
	if limit <= 0 {
		limit = 50
	}
	var activities []models.BotActivity
	err := r.db.SelectContext(ctx, &activities,
		`SELECT id, bot_id, activity_type, description, post_id, message_id, product_id, success, error_message, created_at
         FROM bot_activities WHERE bot_id=$1 ORDER BY created_at DESC LIMIT $2`,
		botID, limit)
	return activities, err
}

// IncrementCounter bumps one of the bot's running counters.
func (r *BotRepo) IncrementCounter(ctx context.Context, botID int, field string) error {
	if _, ok := counterFields[field]; !ok {
		return fmt.Errorf("unknown bot counter %q", field)
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE bots SET `+field+` = `+field+` + 1 WHERE id=$1`, botID)
	return err
}

// TouchLastActivity advances the bot's rate-limit clock.
func (r *BotRepo) TouchLastActivity(ctx context.Context, botID int, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE bots SET last_activity_at=$2 WHERE id=$1`, botID, at)
	return err
}

// Stats aggregates fleet-wide bot statistics.
func (r *BotRepo) Stats(ctx context.Context, todayStart time.Time) (models.BotStats, error) {
	stats := models.BotStats{ActivitiesByType: map[string]int{}}

	if err := r.db.GetContext(ctx, &stats.TotalBots, `SELECT COUNT(*) FROM bots`); err != nil {
		return stats, err
	}
	if err := r.db.GetContext(ctx, &stats.ActiveBots, `SELECT COUNT(*) FROM bots WHERE is_active = TRUE`); err != nil {
		return stats, err
	}
	if err := r.db.GetContext(ctx, &stats.ActivitiesToday,
		`SELECT COUNT(*) FROM bot_activities WHERE created_at >= $1`, todayStart); err != nil {
		return stats, err
	}
	if err := r.db.GetContext(ctx, &stats.ActivitiesAllTime, `SELECT COUNT(*) FROM bot_activities`); err != nil {
		return stats, err
	}

	rows, err := r.db.QueryxContext(ctx,
		`SELECT activity_type, COUNT(*) FROM bot_activities GROUP BY activity_type`)
	if err != nil {
		return stats, err
	}
	defer rows.Close()
	for rows.Next() {
		var activityType string
		var count int
		if err := rows.Scan(&activityType, &count); err != nil {
			return stats, err
		}
		stats.ActivitiesByType[activityType] = count
	}
	return stats, rows.Err()
}
