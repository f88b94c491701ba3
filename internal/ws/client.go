package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Conn is the transport-level surface the registry needs from a websocket
// connection. *websocket.Conn satisfies it; tests substitute fakes.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// ConnInfo carries identity and tracing context captured at handshake time.
type ConnInfo struct {
	ConnID      string
	UserID      int
	DeviceID    string
	IP          string
	RequestID   string
	TraceID     string
	ConnectedAt time.Time
}

// Client binds one live connection to one authenticated user. The write
// mutex serializes frames: gorilla/websocket allows at most one concurrent
// writer per connection.
type Client struct {
	Info ConnInfo

	conn Conn
	mu   sync.Mutex
}

// NewClient wraps a connection for registry use.
func NewClient(conn Conn, info ConnInfo) *Client {
	return &Client{conn: conn, Info: info}
}

// Send writes one pre-serialized text frame.
func (c *Client) Send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
