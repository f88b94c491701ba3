package models

import "time"

// Personality selects the content templates and response pools a bot uses.
type Personality string

const (
	PersonalityFriendly     Personality = "friendly"
	PersonalityProfessional Personality = "professional"
	PersonalityHumorous     Personality = "humorous"
	PersonalityEducational  Personality = "educational"
	PersonalityEnthusiast   Personality = "enthusiast"
	PersonalityCreative     Personality = "creative"
	PersonalityAnalytical   Personality = "analytical"
)

// Personalities lists every defined personality.
var Personalities = []Personality{
	PersonalityFriendly,
	PersonalityProfessional,
	PersonalityHumorous,
	PersonalityEducational,
	PersonalityEnthusiast,
	PersonalityCreative,
	PersonalityAnalytical,
}

// ActivityType labels a logged bot action.
type ActivityType string

const (
	ActivityPost        ActivityType = "post"
	ActivityComment     ActivityType = "comment"
	ActivityMessage     ActivityType = "message"
	ActivityProductList ActivityType = "product_list"
)

// Bot extends a user account with autonomous-activity configuration.
type Bot struct {
	ID     int `db:"id" json:"id"`
	UserID int `db:"user_id" json:"user_id"`

	Personality Personality `db:"personality" json:"personality"`
	Interests   StringList  `db:"interests" json:"interests"`
	Topics      StringList  `db:"content_topics" json:"content_topics"`

	IsActive           bool `db:"is_active" json:"is_active"`
	ActivityFrequency  int  `db:"activity_frequency" json:"activity_frequency"` // minutes between scheduled activities
	MaxDailyActivities int  `db:"max_daily_activities" json:"max_daily_activities"`

	CanPost              bool `db:"can_post" json:"can_post"`
	CanComment           bool `db:"can_comment" json:"can_comment"`
	CanMessage           bool `db:"can_message" json:"can_message"`
	CanCreateCommunities bool `db:"can_create_communities" json:"can_create_communities"`
	CanListProducts      bool `db:"can_list_products" json:"can_list_products"`

	TotalPosts    int `db:"total_posts" json:"total_posts"`
	TotalComments int `db:"total_comments" json:"total_comments"`
	TotalMessages int `db:"total_messages" json:"total_messages"`
	TotalProducts int `db:"total_products" json:"total_products"`

	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	LastActivityAt *time.Time `db:"last_activity_at" json:"last_activity_at,omitempty"`
}

// BotActivity is an immutable audit record of one attempted bot action.
type BotActivity struct {
	ID           int          `db:"id" json:"id"`
	BotID        int          `db:"bot_id" json:"bot_id"`
	ActivityType ActivityType `db:"activity_type" json:"activity_type"`
	Description  string       `db:"description" json:"description"`
	PostID       *int         `db:"post_id" json:"post_id,omitempty"`
	MessageID    *int         `db:"message_id" json:"message_id,omitempty"`
	ProductID    *int         `db:"product_id" json:"product_id,omitempty"`
	Success      bool         `db:"success" json:"success"`
	ErrorMessage *string      `db:"error_message" json:"error_message,omitempty"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
}

// BotStats is the aggregate view served by the bot admin endpoint.
type BotStats struct {
	TotalBots         int            `json:"total_bots"`
	ActiveBots        int            `json:"active_bots"`
	ActivitiesToday   int            `json:"total_activities_today"`
	ActivitiesAllTime int            `json:"total_activities_all_time"`
	ActivitiesByType  map[string]int `json:"activities_by_type"`
}
