package ws

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"social-service/internal/models"
)

type fakeConn struct {
	mu         sync.Mutex
	frames     [][]byte
	failWrites bool
	closed     bool
}

func (f *fakeConn) WriteMessage(messageType int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return errors.New("write failed")
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	f.frames = append(f.frames, buf)
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) events(t *testing.T) []models.Event {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	events := make([]models.Event, 0, len(f.frames))
	for _, frame := range f.frames {
		var ev models.Event
		require.NoError(t, json.Unmarshal(frame, &ev))
		events = append(events, ev)
	}
	return events
}

func newTestClient(userID int) (*Client, *fakeConn) {
	conn := &fakeConn{}
	return NewClient(conn, ConnInfo{ConnID: newConnID(), UserID: userID}), conn
}

func TestRegisterBroadcastsOnlineIncludingSelf(t *testing.T) {
	registry := NewRegistry(zap.NewNop())

	alice, aliceConn := newTestClient(1)
	registry.Register(alice)

	events := aliceConn.events(t)
	require.Len(t, events, 1)
	assert.Equal(t, "user_status", events[0].Type)
	assert.Equal(t, 1, events[0].UserID)
	assert.Equal(t, "online", events[0].Status)

	bob, bobConn := newTestClient(2)
	registry.Register(bob)

	assert.Equal(t, "user_status", aliceConn.events(t)[1].Type)
	assert.Equal(t, 2, aliceConn.events(t)[1].UserID)
	require.Len(t, bobConn.events(t), 1)
	assert.Equal(t, 2, bobConn.events(t)[0].UserID)
}

func TestSecondConnectionDoesNotRebroadcastOnline(t *testing.T) {
	registry := NewRegistry(zap.NewNop())

	first, firstConn := newTestClient(1)
	registry.Register(first)
	second, _ := newTestClient(1)
	registry.Register(second)

	require.Len(t, firstConn.events(t), 1)
	assert.True(t, registry.IsOnline(1))
}

func TestUnregisterReportsOfflineOnlyOnLastConnection(t *testing.T) {
	registry := NewRegistry(zap.NewNop())

	first, _ := newTestClient(1)
	second, _ := newTestClient(1)
	registry.Register(first)
	registry.Register(second)

	assert.False(t, registry.Unregister(first))
	assert.True(t, registry.IsOnline(1))
	assert.True(t, registry.Unregister(second))
	assert.False(t, registry.IsOnline(1))
}

func TestUnregisterClearsTypingState(t *testing.T) {
	registry := NewRegistry(zap.NewNop())

	alice, _ := newTestClient(1)
	registry.Register(alice)
	registry.BroadcastTyping(7, 1, true, []int{1})
	registry.BroadcastTyping(9, 1, true, []int{1})
	require.ElementsMatch(t, []int{1}, registry.TypingUsers(7))

	registry.Unregister(alice)
	assert.Empty(t, registry.TypingUsers(7))
	assert.Empty(t, registry.TypingUsers(9))
}

func TestBroadcastTypingExcludesTypist(t *testing.T) {
	registry := NewRegistry(zap.NewNop())

	alice, aliceConn := newTestClient(1)
	bob, bobConn := newTestClient(2)
	registry.Register(alice)
	registry.Register(bob)
	aliceBefore := len(aliceConn.events(t))

	registry.BroadcastTyping(7, 1, true, []int{1, 2})

	events := bobConn.events(t)
	last := events[len(events)-1]
	assert.Equal(t, "typing", last.Type)
	assert.Equal(t, 7, last.ConversationID)
	assert.Equal(t, 1, last.UserID)
	require.NotNil(t, last.IsTyping)
	assert.True(t, *last.IsTyping)

	assert.Len(t, aliceConn.events(t), aliceBefore)

	registry.BroadcastTyping(7, 1, false, []int{1, 2})
	assert.Empty(t, registry.TypingUsers(7))
}

func TestSendToManyHonorsExclusion(t *testing.T) {
	registry := NewRegistry(zap.NewNop())

	alice, aliceConn := newTestClient(1)
	bob, bobConn := newTestClient(2)
	registry.Register(alice)
	registry.Register(bob)
	aliceBefore := len(aliceConn.events(t))
	bobBefore := len(bobConn.events(t))

	registry.SendToMany(models.NewReadReceiptEvent(5, 1, time.Now()), []int{1, 2}, 1)

	assert.Len(t, aliceConn.events(t), aliceBefore)
	require.Len(t, bobConn.events(t), bobBefore+1)
}

func TestFailedWritePrunesConnection(t *testing.T) {
	registry := NewRegistry(zap.NewNop())

	alice, aliceConn := newTestClient(1)
	registry.Register(alice)
	aliceConn.failWrites = true

	registry.SendToUser(1, models.NewPongEvent())

	assert.False(t, registry.IsOnline(1))
	assert.True(t, aliceConn.closed)

	// The read loop unregisters the same connection once its ReadMessage
	// fails; the second removal must be a no-op.
	assert.False(t, registry.Unregister(alice))
}

func TestUnregisterRemovedConnectionIsNoOp(t *testing.T) {
	registry := NewRegistry(zap.NewNop())

	alice, _ := newTestClient(1)
	registry.Register(alice)

	assert.True(t, registry.Unregister(alice))
	assert.False(t, registry.Unregister(alice))
	assert.False(t, registry.IsOnline(1))
}
