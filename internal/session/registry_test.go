// ABOUTME: Tests for the session registry and session wire helpers.
// ABOUTME: Uses a recording fake Sender in place of a websocket.

package session

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSender records every event sent to it.
type fakeSender struct {
	mu     sync.Mutex
	events []string
	bodies []any
}

func (f *fakeSender) Send(event string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	f.bodies = append(f.bodies, payload)
	return nil
}

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	return NewRegistry(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRegistry_RegisterGetUnregister(t *testing.T) {
	r := testRegistry(t)
	sess := New("203.0.113.9", "test-agent", &fakeSender{})

	require.NoError(t, r.Register(sess))
	assert.Equal(t, 1, r.Count())

	got, ok := r.Get(sess.ID)
	require.True(t, ok)
	assert.Same(t, sess, got)

	// Duplicate registration is rejected
	assert.ErrorIs(t, r.Register(sess), ErrAlreadyRegistered)

	r.Unregister(sess.ID)
	assert.Equal(t, 0, r.Count())
	_, ok = r.Get(sess.ID)
	assert.False(t, ok)

	// Unregistering twice is a no-op
	r.Unregister(sess.ID)
}

func TestSession_UniqueIDs(t *testing.T) {
	a := New("a", "", &fakeSender{})
	b := New("b", "", &fakeSender{})
	assert.NotEqual(t, a.ID, b.ID)
}

func TestSession_SendWelcome(t *testing.T) {
	sender := &fakeSender{}
	sess := New("203.0.113.9", "", sender)

	require.NoError(t, sess.SendWelcome())

	require.Equal(t, []string{EventConnectionStatus, EventChatMessage}, sender.events)

	status, ok := sender.bodies[0].(ConnectionStatusPayload)
	require.True(t, ok)
	assert.Equal(t, "connected", status.Status)
	assert.Equal(t, sess.ID, status.SessionID)

	greeting, ok := sender.bodies[1].(ChatPayload)
	require.True(t, ok)
	assert.Equal(t, Greeting, greeting.Message)
}

func TestSession_SendPong(t *testing.T) {
	sender := &fakeSender{}
	sess := New("203.0.113.9", "", sender)

	require.NoError(t, sess.SendPong())

	require.Equal(t, []string{EventPong}, sender.events)
	pong, ok := sender.bodies[0].(PongPayload)
	require.True(t, ok)
	assert.Equal(t, sess.ID, pong.SessionID)
	assert.NotEmpty(t, pong.Time)
}

func TestSession_ForwardChat(t *testing.T) {
	sender := &fakeSender{}
	sess := New("203.0.113.9", "", sender)

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, sess.ForwardChat("hi, how can we help?", at))

	chat, ok := sender.bodies[0].(ChatPayload)
	require.True(t, ok)
	assert.Equal(t, "hi, how can we help?", chat.Message)
	assert.Equal(t, "2025-06-01T12:00:00Z", chat.Timestamp)
}
