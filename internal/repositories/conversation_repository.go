package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"

	"social-service/internal/models"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrNotParticipant       = errors.New("user is not a participant of this conversation")
)

// ConversationRepository abstracts conversation and participant persistence.
type ConversationRepository interface {
	GetOrCreateDirect(ctx context.Context, userID, otherUserID int) (models.Conversation, error)
	CreateGroup(ctx context.Context, creatorID int, name string, avatar *string, participantIDs []int) (models.Conversation, error)
	GetConversation(ctx context.Context, conversationID int) (models.Conversation, error)
	ListForUser(ctx context.Context, userID int) ([]models.ConversationSummary, error)
	ListActiveParticipants(ctx context.Context, conversationID int) ([]int, error)
	IsActiveParticipant(ctx context.Context, conversationID, userID int) (bool, error)
	AddParticipant(ctx context.Context, conversationID, userID int) error
	RemoveParticipant(ctx context.Context, conversationID, userID int) error
	MarkRead(ctx context.Context, conversationID, userID int, at time.Time) error
	EnsureReservedChat(ctx context.Context, conversationID int) (models.Conversation, error)
}

// ConversationRepo is a sqlx implementation of ConversationRepository.
type ConversationRepo struct {
	db *sqlx.DB
}

// NewConversationRepo constructs a ConversationRepo.
func NewConversationRepo(db *sqlx.DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

const conversationColumns = `id, type, name, avatar, created_by_id, created_at, updated_at`

// normalizePair orders a user-id pair so a direct conversation between two
// users is looked up and stored the same way regardless of argument order.
func normalizePair(a, b int) (int, int) {
	pair := []int{a, b}
	sort.Ints(pair)
	return pair[0], pair[1]
}

// GetOrCreateDirect returns the direct conversation between two users,
// creating it if absent. At most one direct conversation exists per pair.
func (r *ConversationRepo) GetOrCreateDirect(ctx context.Context, userID, otherUserID int) (models.Conversation, error) {
	if userID == otherUserID {
		return models.Conversation{}, errors.New("cannot start a conversation with yourself")
	}
	first, second := normalizePair(userID, otherUserID)

	var conv models.Conversation
	query := `SELECT c.id, c.type, c.name, c.avatar, c.created_by_id, c.created_at, c.updated_at
        FROM conversations c
        JOIN conversation_participants p1 ON p1.conversation_id = c.id AND p1.user_id = $1 AND p1.is_active = TRUE
        JOIN conversation_participants p2 ON p2.conversation_id = c.id AND p2.user_id = $2 AND p2.is_active = TRUE
        WHERE c.type = 'direct'
        LIMIT 1`
	err := r.db.GetContext(ctx, &conv, query, first, second)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Conversation{}, err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Conversation{}, err
	}
	defer tx.Rollback()

	if err := tx.QueryRowxContext(ctx,
		`INSERT INTO conversations (type, created_by_id) VALUES ('direct', $1) RETURNING `+conversationColumns,
		userID).StructScan(&conv); err != nil {
		return models.Conversation{}, err
	}
	for _, uid := range []int{first, second} {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO conversation_participants (conversation_id, user_id) VALUES ($1, $2)`,
			conv.ID, uid); err != nil {
			return models.Conversation{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return models.Conversation{}, err
	}
	return conv, nil
}

// CreateGroup creates a group conversation with the creator plus the given
// participants.
func (r *ConversationRepo) CreateGroup(ctx context.Context, creatorID int, name string, avatar *string, participantIDs []int) (models.Conversation, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Conversation{}, err
	}
	defer tx.Rollback()

	var conv models.Conversation
	if err := tx.QueryRowxContext(ctx,
		`INSERT INTO conversations (type, name, avatar, created_by_id) VALUES ('group', $1, $2, $3) RETURNING `+conversationColumns,
		name, avatar, creatorID).StructScan(&conv); err != nil {
		return models.Conversation{}, err
	}

	members := map[int]struct{}{creatorID: {}}
	for _, uid := range participantIDs {
		members[uid] = struct{}{}
	}
	for uid := range members {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO conversation_participants (conversation_id, user_id) VALUES ($1, $2)`,
			conv.ID, uid); err != nil {
			return models.Conversation{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return models.Conversation{}, err
	}
	return conv, nil
}

// GetConversation fetches a conversation by id.
func (r *ConversationRepo) GetConversation(ctx context.Context, conversationID int) (models.Conversation, error) {
	var conv models.Conversation
	err := r.db.GetContext(ctx, &conv, `SELECT `+conversationColumns+` FROM conversations WHERE id=$1`, conversationID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Conversation{}, ErrConversationNotFound
	}
	return conv, err
}

// ListForUser returns conversations where the user is an active participant,
// most recently updated first.
func (r *ConversationRepo) ListForUser(ctx context.Context, userID int) ([]models.ConversationSummary, error) {
	var convs []models.Conversation
	query := `SELECT c.id, c.type, c.name, c.avatar, c.created_by_id, c.created_at, c.updated_at
        FROM conversations c
        JOIN conversation_participants p ON p.conversation_id = c.id
        WHERE p.user_id = $1 AND p.is_active = TRUE
        ORDER BY COALESCE(c.updated_at, c.created_at) DESC`
	if err := r.db.SelectContext(ctx, &convs, query, userID); err != nil {
		return nil, err
	}

	result := make([]models.ConversationSummary, 0, len(convs))
	for _, conv := range convs {
		participants, err := r.ListActiveParticipants(ctx, conv.ID)
		if err != nil {
			return nil, err
		}
		summary := models.ConversationSummary{Conversation: conv, ParticipantIDs: participants}

		var last models.Message
		err = r.db.GetContext(ctx, &last,
			`SELECT id, conversation_id, sender_id, content, is_edited, is_deleted, created_at
             FROM messages WHERE conversation_id=$1 AND is_deleted = FALSE
             ORDER BY created_at DESC LIMIT 1`, conv.ID)
		if err == nil {
			summary.LastMessage = &last
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		result = append(result, summary)
	}
	return result, nil
}

// ListActiveParticipants returns the user ids of current participants.
func (r *ConversationRepo) ListActiveParticipants(ctx context.Context, conversationID int) ([]int, error) {
	var ids []int
	err := r.db.SelectContext(ctx, &ids,
		`SELECT user_id FROM conversation_participants WHERE conversation_id=$1 AND is_active = TRUE ORDER BY user_id`,
		conversationID)
	return ids, err
}

// IsActiveParticipant checks current membership.
func (r *ConversationRepo) IsActiveParticipant(ctx context.Context, conversationID, userID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM conversation_participants WHERE conversation_id=$1 AND user_id=$2 AND is_active = TRUE)`,
		conversationID, userID)
	return exists, err
}

// AddParticipant adds the user to the conversation, reactivating a previous
// membership row if the user left before.
func (r *ConversationRepo) AddParticipant(ctx context.Context, conversationID, userID int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE conversation_participants SET is_active = TRUE, joined_at = NOW(), left_at = NULL
         WHERE conversation_id=$1 AND user_id=$2`,
		conversationID, userID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO conversation_participants (conversation_id, user_id) VALUES ($1, $2)`,
			conversationID, userID)
	}
	return err
}

// RemoveParticipant soft-removes the user from the conversation.
func (r *ConversationRepo) RemoveParticipant(ctx context.Context, conversationID, userID int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE conversation_participants SET is_active = FALSE, left_at = NOW()
         WHERE conversation_id=$1 AND user_id=$2 AND is_active = TRUE`,
		conversationID, userID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotParticipant
	}
	return nil
}

// MarkRead updates the caller's last_read_at for the conversation.
func (r *ConversationRepo) MarkRead(ctx context.Context, conversationID, userID int, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE conversation_participants SET last_read_at = $3
         WHERE conversation_id=$1 AND user_id=$2 AND is_active = TRUE`,
		conversationID, userID, at)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotParticipant
	}
	return nil
}

// EnsureReservedChat returns one of the pre-provisioned singleton group chats
// (models.GlobalChatID or models.BotChatID), creating it on first access.
func (r *ConversationRepo) EnsureReservedChat(ctx context.Context, conversationID int) (models.Conversation, error) {
	var name string
	switch conversationID {
	case models.GlobalChatID:
		name = "Global Chat"
	case models.BotChatID:
		name = "Bot Chat"
	default:
		return models.Conversation{}, fmt.Errorf("conversation %d is not a reserved chat", conversationID)
	}

	conv, err := r.GetConversation(ctx, conversationID)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, ErrConversationNotFound) {
		return models.Conversation{}, err
	}

	err = r.db.QueryRowxContext(ctx,
		`INSERT INTO conversations (id, type, name) VALUES ($1, 'group', $2)
         ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
         RETURNING `+conversationColumns,
		conversationID, name).StructScan(&conv)
	return conv, err
}
