package models

import "time"

// Event is the outbound websocket envelope. Exactly one payload group is set
// depending on Type.
type Event struct {
	Type string `json:"type"`

	// type == "message"
	Message *MessagePayload `json:"message,omitempty"`

	// type == "typing", "read_receipt", "user_status"
	ConversationID int    `json:"conversation_id,omitempty"`
	UserID         int    `json:"user_id,omitempty"`
	IsTyping       *bool  `json:"is_typing,omitempty"`
	Status         string `json:"status,omitempty"`
	Timestamp      string `json:"timestamp,omitempty"`
}

// ErrorEvent is kept separate from Event: both wire shapes use the "message"
// key, for a string here and an object there.
type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Frame is the inbound websocket envelope sent by clients.
type Frame struct {
	Type           string `json:"type"`
	ConversationID int    `json:"conversation_id,omitempty"`
	Content        string `json:"content,omitempty"`
	IsTyping       bool   `json:"is_typing,omitempty"`
}

func NewMessageEvent(msg Message, sender UserRef) Event {
	return Event{Type: "message", Message: &MessagePayload{Message: msg, Sender: sender}}
}

func NewTypingEvent(conversationID, userID int, isTyping bool, at time.Time) Event {
	return Event{
		Type:           "typing",
		ConversationID: conversationID,
		UserID:         userID,
		IsTyping:       &isTyping,
		Timestamp:      at.UTC().Format(time.RFC3339),
	}
}

func NewUserStatusEvent(userID int, status string, at time.Time) Event {
	return Event{
		Type:      "user_status",
		UserID:    userID,
		Status:    status,
		Timestamp: at.UTC().Format(time.RFC3339),
	}
}

func NewReadReceiptEvent(conversationID, userID int, at time.Time) Event {
	return Event{
		Type:           "read_receipt",
		ConversationID: conversationID,
		UserID:         userID,
		Timestamp:      at.UTC().Format(time.RFC3339),
	}
}

func NewErrorEvent(message string) ErrorEvent {
	return ErrorEvent{Type: "error", Message: message}
}

func NewPongEvent() Event {
	return Event{Type: "pong"}
}
