package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"social-service/internal/auth"
	"social-service/internal/models"
	"social-service/internal/observability"
	"social-service/internal/repositories"
)

// BotResponder triggers a conversational bot reply to a freshly stored user
// message. Implementations run the reply asynchronously.
type BotResponder interface {
	TriggerImmediateResponse(ctx context.Context, msg models.Message)
}

// Handler owns the websocket endpoint: handshake, auth, the per-connection
// read loop, and frame dispatch.
type Handler struct {
	registry      *Registry
	verifier      auth.TokenVerifier
	users         repositories.UserRepository
	conversations repositories.ConversationRepository
	messages      repositories.MessageRepository
	responder     BotResponder
	logger        *zap.Logger
	now           func() time.Time
}

// NewHandler constructs a Handler. responder may be nil when bots are
// disabled.
func NewHandler(
	registry *Registry,
	verifier auth.TokenVerifier,
	users repositories.UserRepository,
	conversations repositories.ConversationRepository,
	messages repositories.MessageRepository,
	responder BotResponder,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		registry:      registry,
		verifier:      verifier,
		users:         users,
		conversations: conversations,
		messages:      messages,
		responder:     responder,
		logger:        logger,
		now:           time.Now,
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle upgrades the connection, authenticates it, and runs the read loop.
// Auth happens after the upgrade so the failure reaches the client as a
// policy-violation close frame instead of a plain HTTP status.
func (h *Handler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("social-service/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	userID, err := h.verifier.VerifyToken(c.Query("token"))
	if err != nil {
		h.closePolicyViolation(conn, "invalid token")
		return
	}
	user, err := h.users.GetUser(ctx, userID)
	if err != nil || !user.IsActive {
		h.closePolicyViolation(conn, "unknown or inactive user")
		return
	}

	traceID := span.SpanContext().TraceID().String()
	requestID := observability.RequestIDFromRequest(c.Request)
	info := ConnInfo{
		ConnID:      newConnID(),
		UserID:      userID,
		DeviceID:    observability.DeviceIDFromRequest(c.Request),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   requestID,
		TraceID:     traceID,
		ConnectedAt: h.now(),
	}
	client := NewClient(conn, info)
	h.registry.Register(client)

	observability.IncWSEvent("ws_connect")
	h.publishWSEvent(ctx, "ws_connect", info, 0, "")

	go h.readLoop(ctx, conn, client, user)
}

func (h *Handler) readLoop(ctx context.Context, conn *websocket.Conn, client *Client, user models.User) {
	info := client.Info
	var closeReason string
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("websocket read loop panic",
				zap.Int("user_id", info.UserID), zap.Any("panic", r))
		}
		if h.registry.Unregister(client) {
			h.registry.BroadcastAll(models.NewUserStatusEvent(info.UserID, "offline", h.now()))
		}
		observability.IncWSEvent("ws_disconnect")
		h.publishWSEvent(ctx, "ws_disconnect", info, time.Since(info.ConnectedAt).Milliseconds(), closeReason)
		conn.Close()
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			closeReason = err.Error()
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				observability.IncWSEvent("ws_error")
				h.publishWSEvent(ctx, "ws_error", info, time.Since(info.ConnectedAt).Milliseconds(), closeReason)
			}
			return
		}
		h.dispatch(ctx, client, user, raw)
	}
}

// dispatch handles one inbound frame. Malformed and unknown frames answer
// with an error event on the offending connection; the connection survives.
func (h *Handler) dispatch(ctx context.Context, client *Client, user models.User, raw []byte) {
	var frame models.Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		h.sendError(client, "malformed frame")
		return
	}

	switch frame.Type {
	case "message":
		h.handleMessage(ctx, client, user, frame)
	case "typing":
		h.handleTyping(ctx, client, user, frame)
	case "read":
		h.handleRead(ctx, client, user, frame)
	case "ping":
		h.sendEvent(client, models.NewPongEvent())
	default:
		observability.IncWSEvent("unknown_frame")
		h.sendError(client, "unknown frame type: "+frame.Type)
	}
}

func (h *Handler) handleMessage(ctx context.Context, client *Client, user models.User, frame models.Frame) {
	if frame.Content == "" {
		h.sendError(client, "message content is empty")
		return
	}

	global := frame.ConversationID == models.GlobalChatID
	if global {
		// The global room admits everyone; membership is established on
		// first write.
		if _, err := h.conversations.EnsureReservedChat(ctx, models.GlobalChatID); err != nil {
			h.logger.Error("ensure global chat", zap.Error(err))
			h.sendError(client, "failed to store message")
			return
		}
		if err := h.conversations.AddParticipant(ctx, models.GlobalChatID, user.ID); err != nil {
			h.logger.Error("join global chat", zap.Int("user_id", user.ID), zap.Error(err))
			h.sendError(client, "failed to store message")
			return
		}
	}

	msg, err := h.messages.CreateMessage(ctx, frame.ConversationID, user.ID, frame.Content)
	if err != nil {
		if errors.Is(err, repositories.ErrNotParticipant) {
			h.sendError(client, "not a participant of this conversation")
			return
		}
		h.logger.Error("store message",
			zap.Int("conversation_id", frame.ConversationID),
			zap.Int("user_id", user.ID), zap.Error(err))
		h.sendError(client, "failed to store message")
		return
	}

	observability.IncWSEvent("message")
	event := models.NewMessageEvent(msg, user.Ref())
	if global {
		h.registry.BroadcastAll(event)
	} else {
		participants, err := h.conversations.ListActiveParticipants(ctx, frame.ConversationID)
		if err != nil {
			h.logger.Error("list participants",
				zap.Int("conversation_id", frame.ConversationID), zap.Error(err))
			return
		}
		h.registry.SendToMany(event, participants, 0)
	}

	h.triggerBot(msg)
}

func (h *Handler) handleTyping(ctx context.Context, client *Client, user models.User, frame models.Frame) {
	member, err := h.conversations.IsActiveParticipant(ctx, frame.ConversationID, user.ID)
	if err != nil || !member {
		h.sendError(client, "not a participant of this conversation")
		return
	}
	participants, err := h.conversations.ListActiveParticipants(ctx, frame.ConversationID)
	if err != nil {
		h.logger.Error("list participants",
			zap.Int("conversation_id", frame.ConversationID), zap.Error(err))
		return
	}
	h.registry.BroadcastTyping(frame.ConversationID, user.ID, frame.IsTyping, participants)
}

func (h *Handler) handleRead(ctx context.Context, client *Client, user models.User, frame models.Frame) {
	now := h.now()
	if err := h.conversations.MarkRead(ctx, frame.ConversationID, user.ID, now); err != nil {
		if errors.Is(err, repositories.ErrNotParticipant) {
			h.sendError(client, "not a participant of this conversation")
			return
		}
		h.logger.Error("mark read",
			zap.Int("conversation_id", frame.ConversationID),
			zap.Int("user_id", user.ID), zap.Error(err))
		return
	}
	participants, err := h.conversations.ListActiveParticipants(ctx, frame.ConversationID)
	if err != nil {
		h.logger.Error("list participants",
			zap.Int("conversation_id", frame.ConversationID), zap.Error(err))
		return
	}
	h.registry.SendToMany(models.NewReadReceiptEvent(frame.ConversationID, user.ID, now), participants, user.ID)
}

// triggerBot hands the message to the bot layer without blocking or failing
// the sender's frame.
func (h *Handler) triggerBot(msg models.Message) {
	if h.responder == nil {
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				h.logger.Error("bot response panic",
					zap.Int("message_id", msg.ID), zap.Any("panic", r))
			}
		}()
		// Detached from the request: the reply outlives the frame that
		// caused it.
		h.responder.TriggerImmediateResponse(context.Background(), msg)
	}()
}

func (h *Handler) sendEvent(client *Client, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := client.Send(payload); err != nil {
		h.logger.Warn("websocket write failed",
			zap.String("conn_id", client.Info.ConnID), zap.Error(err))
	}
}

func (h *Handler) sendError(client *Client, message string) {
	h.sendEvent(client, models.NewErrorEvent(message))
}

func (h *Handler) closePolicyViolation(conn *websocket.Conn, reason string) {
	deadline := h.now().Add(time.Second)
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason), deadline)
	conn.Close()
	observability.IncWSEvent("ws_auth_reject")
}

func (h *Handler) publishWSEvent(ctx context.Context, name string, info ConnInfo, durationMS int64, reason string) {
	_ = observability.PublishEvent(ctx, "ws_events.messaging", observability.EventEnvelope{
		EventType: "ws_events",
		EventName: name,
		Payload: map[string]interface{}{
			"ws": map[string]interface{}{
				"event":       name,
				"conn_id":     info.ConnID,
				"duration_ms": durationMS,
				"reason":      reason,
			},
			"identity": map[string]interface{}{
				"user_id":   info.UserID,
				"device_id": info.DeviceID,
				"ip":        info.IP,
			},
		},
	}, observability.BuildHeaders(info.RequestID, info.TraceID))
}
