package models

import "time"

// ConversationType distinguishes one-to-one chats from named groups.
type ConversationType string

const (
	ConversationDirect ConversationType = "direct"
	ConversationGroup  ConversationType = "group"
)

// Reserved conversation ids for the pre-provisioned singleton chats.
// GlobalChatID carries human traffic only; BotChatID mixes humans and bots.
const (
	GlobalChatID = -1
	BotChatID    = -2
)

// Conversation is a direct or group chat.
type Conversation struct {
	ID          int              `db:"id" json:"id"`
	Type        ConversationType `db:"type" json:"type"`
	Name        *string          `db:"name" json:"name,omitempty"`
	Avatar      *string          `db:"avatar" json:"avatar,omitempty"`
	CreatedByID *int             `db:"created_by_id" json:"created_by_id,omitempty"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt   *time.Time       `db:"updated_at" json:"updated_at,omitempty"`
}

// Participant links a user to a conversation. Membership is soft: leaving
// flips is_active instead of deleting the row, so a user is a current
// participant iff their latest row for the pair has is_active = true.
type Participant struct {
	ID             int        `db:"id" json:"id"`
	ConversationID int        `db:"conversation_id" json:"conversation_id"`
	UserID         int        `db:"user_id" json:"user_id"`
	IsActive       bool       `db:"is_active" json:"is_active"`
	JoinedAt       time.Time  `db:"joined_at" json:"joined_at"`
	LeftAt         *time.Time `db:"left_at" json:"left_at,omitempty"`
	LastReadAt     *time.Time `db:"last_read_at" json:"last_read_at,omitempty"`
}

// ConversationSummary is the API-friendly view used by the conversation list.
type ConversationSummary struct {
	Conversation
	ParticipantIDs []int    `json:"participant_ids"`
	LastMessage    *Message `json:"last_message,omitempty"`
}
