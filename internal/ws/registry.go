package ws

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"social-service/internal/models"
	"social-service/internal/observability"
)

// Registry tracks the live connections of every user plus per-conversation
// typing state. State is process-local and resets on restart; delivery is
// best-effort with no offline mailbox.
type Registry struct {
	mu          sync.RWMutex
	connections map[int][]*Client
	typing      map[int]map[int]struct{}

	logger *zap.Logger
	now    func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		connections: make(map[int][]*Client),
		typing:      make(map[int]map[int]struct{}),
		logger:      logger,
		now:         time.Now,
	}
}

// Register adds a connection for the user. The user's first connection marks
// them online and broadcasts an online presence event to every registered
// user, the new arrival included.
func (r *Registry) Register(client *Client) {
	userID := client.Info.UserID

	r.mu.Lock()
	wasOnline := len(r.connections[userID]) > 0
	r.connections[userID] = append(r.connections[userID], client)
	total := len(r.connections[userID])
	r.mu.Unlock()

	observability.IncWSActive()
	r.logger.Info("user connected",
		zap.Int("user_id", userID),
		zap.String("conn_id", client.Info.ConnID),
		zap.Int("connections", total))

	if !wasOnline {
		r.BroadcastAll(models.NewUserStatusEvent(userID, "online", r.now()))
	}
}

// Unregister removes a connection. When the user's last connection goes, the
// user is marked offline and their typing entries are cleared everywhere;
// broadcasting the offline presence event is the caller's responsibility
// (asymmetric with Register, which self-broadcasts). A connection already
// removed (pruned after a failed write, then unregistered again by its read
// loop) is a no-op, keeping the active-connections gauge accurate.
func (r *Registry) Unregister(client *Client) (wentOffline bool) {
	userID := client.Info.UserID

	r.mu.Lock()
	conns := r.connections[userID]
	found := false
	for i, c := range conns {
		if c == client {
			r.connections[userID] = append(conns[:i], conns[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		r.mu.Unlock()
		return false
	}
	remaining := len(r.connections[userID])
	if remaining == 0 {
		delete(r.connections, userID)
		for conversationID, users := range r.typing {
			delete(users, userID)
			if len(users) == 0 {
				delete(r.typing, conversationID)
			}
		}
		wentOffline = true
	}
	r.mu.Unlock()

	observability.DecWSActive()
	r.logger.Info("user connection closed",
		zap.Int("user_id", userID),
		zap.String("conn_id", client.Info.ConnID),
		zap.Int("remaining", remaining))
	return wentOffline
}

// SendToUser serializes the event once and delivers it to every live
// connection of the user. Connections whose write fails are closed and
// pruned; failure never reaches the caller.
func (r *Registry) SendToUser(userID int, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		r.logger.Error("marshal event", zap.Error(err))
		return
	}
	r.sendPayload(userID, payload)
}

// SendToMany delivers the event to each listed user except exclude (0 for
// no exclusion).
func (r *Registry) SendToMany(event any, userIDs []int, exclude int) {
	payload, err := json.Marshal(event)
	if err != nil {
		r.logger.Error("marshal event", zap.Error(err))
		return
	}
	for _, userID := range userIDs {
		if userID == exclude {
			continue
		}
		r.sendPayload(userID, payload)
	}
}

// BroadcastAll delivers the event to every user with at least one live
// connection.
func (r *Registry) BroadcastAll(event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		r.logger.Error("marshal event", zap.Error(err))
		return
	}

	r.mu.RLock()
	userIDs := make([]int, 0, len(r.connections))
	for userID := range r.connections {
		userIDs = append(userIDs, userID)
	}
	r.mu.RUnlock()

	for _, userID := range userIDs {
		r.sendPayload(userID, payload)
	}
}

// BroadcastTyping updates the typing-state map and notifies every
// participant except the signaling user.
func (r *Registry) BroadcastTyping(conversationID, userID int, isTyping bool, participantIDs []int) {
	r.mu.Lock()
	if isTyping {
		if _, ok := r.typing[conversationID]; !ok {
			r.typing[conversationID] = make(map[int]struct{})
		}
		r.typing[conversationID][userID] = struct{}{}
	} else if users, ok := r.typing[conversationID]; ok {
		delete(users, userID)
		if len(users) == 0 {
			delete(r.typing, conversationID)
		}
	}
	r.mu.Unlock()

	r.SendToMany(models.NewTypingEvent(conversationID, userID, isTyping, r.now()), participantIDs, userID)
}

// IsOnline reports whether the user has at least one live connection.
func (r *Registry) IsOnline(userID int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.connections[userID]) > 0
}

// OnlineUsers returns the ids of all online users.
func (r *Registry) OnlineUsers() []int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]int, 0, len(r.connections))
	for userID := range r.connections {
		users = append(users, userID)
	}
	return users
}

// TypingUsers returns the ids of users currently typing in the conversation.
func (r *Registry) TypingUsers(conversationID int) []int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]int, 0, len(r.typing[conversationID]))
	for userID := range r.typing[conversationID] {
		users = append(users, userID)
	}
	return users
}

func (r *Registry) sendPayload(userID int, payload []byte) {
	r.mu.RLock()
	clients := make([]*Client, len(r.connections[userID]))
	copy(clients, r.connections[userID])
	r.mu.RUnlock()

	for _, client := range clients {
		if err := client.Send(payload); err != nil {
			r.logger.Warn("websocket write failed, pruning connection",
				zap.Int("user_id", userID),
				zap.String("conn_id", client.Info.ConnID),
				zap.Error(err))
			client.Close()
			r.Unregister(client)
			observability.IncWSEvent("ws_error")
		}
	}
}
