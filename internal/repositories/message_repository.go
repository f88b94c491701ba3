package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"social-service/internal/models"
)

var ErrMessageNotFound = errors.New("message not found")

// MessageRepository defines interactions for conversation messages.
type MessageRepository interface {
	CreateMessage(ctx context.Context, conversationID, senderID int, content string) (models.Message, error)
	GetMessage(ctx context.Context, messageID int) (models.Message, error)
	ListMessages(ctx context.Context, conversationID, page, pageSize int) ([]models.Message, int, error)
	SoftDeleteMessage(ctx context.Context, messageID, senderID int) error
	LatestUnansweredInbound(ctx context.Context, userID int, since time.Time) (models.Message, error)
	HasMessageFromSince(ctx context.Context, conversationID, userID int, since time.Time) (bool, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

const messageColumns = `id, conversation_id, sender_id, content, is_edited, is_deleted, created_at`

// CreateMessage stores a message. The participant-membership check and the
// insert run in one transaction so the write is atomic: it fails with
// ErrNotParticipant when the sender is not an active participant.
func (r *MessageRepo) CreateMessage(ctx context.Context, conversationID, senderID int, content string) (models.Message, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Message{}, err
	}
	defer tx.Rollback()

	var member bool
	if err := tx.GetContext(ctx, &member,
		`SELECT EXISTS(SELECT 1 FROM conversation_participants WHERE conversation_id=$1 AND user_id=$2 AND is_active = TRUE)`,
		conversationID, senderID); err != nil {
		return models.Message{}, err
	}
	if !member {
		return models.Message{}, ErrNotParticipant
	}

	var msg models.Message
	if err := tx.QueryRowxContext(ctx,
		`INSERT INTO messages (conversation_id, sender_id, content) VALUES ($1, $2, $3) RETURNING `+messageColumns,
		conversationID, senderID, content).StructScan(&msg); err != nil {
		return models.Message{}, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE conversations SET updated_at = NOW() WHERE id=$1`, conversationID); err != nil {
		return models.Message{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Message{}, err
	}
	return msg, nil
}

// GetMessage retrieves a single message.
func (r *MessageRepo) GetMessage(ctx context.Context, messageID int) (models.Message, error) {
	var msg models.Message
	err := r.db.GetContext(ctx, &msg, `SELECT `+messageColumns+` FROM messages WHERE id=$1`, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrMessageNotFound
	}
	return msg, err
}

// ListMessages returns visible messages in chronological order with the
// total count for pagination.
func (r *MessageRepo) ListMessages(ctx context.Context, conversationID, page, pageSize int) ([]models.Message, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}

	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM messages WHERE conversation_id=$1 AND is_deleted = FALSE`,
		conversationID); err != nil {
		return nil, 0, err
	}

	var msgs []models.Message
	query := `SELECT * FROM (
            SELECT ` + messageColumns + ` FROM messages
            WHERE conversation_id=$1 AND is_deleted = FALSE
            ORDER BY created_at DESC
            LIMIT $2 OFFSET $3
        ) page ORDER BY created_at ASC`
	err := r.db.SelectContext(ctx, &msgs, query, conversationID, pageSize, (page-1)*pageSize)
	return msgs, total, err
}

// SoftDeleteMessage flags a message as deleted. Only the sender may delete.
func (r *MessageRepo) SoftDeleteMessage(ctx context.Context, messageID, senderID int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE messages SET is_deleted = TRUE WHERE id=$1 AND sender_id=$2`, messageID, senderID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrMessageNotFound
	}
	return nil
}

// LatestUnansweredInbound finds the most recent message addressed to the user
// (sent by someone else in a conversation they participate in, on or after
// since) that the user has not answered with a later message in the same
// conversation.
func (r *MessageRepo) LatestUnansweredInbound(ctx context.Context, userID int, since time.Time) (models.Message, error) {
	var msg models.Message
	query := `SELECT m.id, m.conversation_id, m.sender_id, m.content, m.is_edited, m.is_deleted, m.created_at
        FROM messages m
        JOIN conversation_participants p
            ON p.conversation_id = m.conversation_id AND p.user_id = $1 AND p.is_active = TRUE
        WHERE m.sender_id <> $1
          AND m.is_deleted = FALSE
          AND m.created_at >= $2
          AND NOT EXISTS (
              SELECT 1 FROM messages reply
              WHERE reply.conversation_id = m.conversation_id
                AND reply.sender_id = $1
                AND reply.created_at > m.created_at
          )
        ORDER BY m.created_at DESC
        LIMIT 1`
	err := r.db.GetContext(ctx, &msg, query, userID, since)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrMessageNotFound
	}
	return msg, err
}

// HasMessageFromSince reports whether the user sent any message in the
// conversation at or after since. Used to suppress repeated proactive
// outreach.
func (r *MessageRepo) HasMessageFromSince(ctx context.Context, conversationID, userID int, since time.Time) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM messages WHERE conversation_id=$1 AND sender_id=$2 AND created_at >= $3)`,
		conversationID, userID, since)
	return exists, err
}
