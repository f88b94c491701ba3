package models

import "time"

// Message belongs to exactly one conversation. Rows are immutable except for
// the edit/delete flags; deletion is a visibility flag, never physical.
type Message struct {
	ID             int       `db:"id" json:"id"`
	ConversationID int       `db:"conversation_id" json:"conversation_id"`
	SenderID       int       `db:"sender_id" json:"sender_id"`
	Content        string    `db:"content" json:"content"`
	IsEdited       bool      `db:"is_edited" json:"is_edited"`
	IsDeleted      bool      `db:"is_deleted" json:"is_deleted"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// MessagePayload is the outbound wire shape of a message, sender included.
type MessagePayload struct {
	Message
	Sender UserRef `json:"sender"`
}
