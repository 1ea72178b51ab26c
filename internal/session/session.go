// ABOUTME: Visitor session type and the wire events it can receive.
// ABOUTME: A session exists exactly as long as its websocket connection is open.

package session

import (
	"time"

	"github.com/google/uuid"
)

// Wire event names, shared with the browser widget.
const (
	EventConnectionStatus = "connection_status"
	EventChatMessage      = "chat message"
	EventMessageReceived  = "message_received"
	EventPing             = "ping"
	EventPong             = "pong"
)

// Greeting is the static welcome message sent on connect. No thread is
// created for it; threads are provisioned on the first visitor message only.
const Greeting = "Bonjour ! Comment puis-je vous aider aujourd'hui ?"

// Sender delivers a wire event to the visitor's transport. Implementations
// must be safe for concurrent use; the relay and the lifecycle manager may
// send from different goroutines.
type Sender interface {
	Send(event string, payload any) error
}

// Session is one live visitor connection.
type Session struct {
	ID          string
	RemoteAddr  string
	UserAgent   string
	ConnectedAt time.Time

	sender Sender
}

// New creates a session with a fresh identifier bound to the given transport.
func New(remoteAddr, userAgent string, sender Sender) *Session {
	return &Session{
		ID:          uuid.New().String(),
		RemoteAddr:  remoteAddr,
		UserAgent:   userAgent,
		ConnectedAt: time.Now(),
		sender:      sender,
	}
}

// ConnectionStatusPayload confirms the connection to the widget.
type ConnectionStatusPayload struct {
	Status     string `json:"status"`
	SessionID  string `json:"sessionId"`
	ServerTime string `json:"serverTime"`
}

// ChatPayload carries a chat message to the widget (greeting or relayed reply).
type ChatPayload struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// ReceiptPayload acknowledges a visitor message synchronously.
type ReceiptPayload struct {
	Status    string `json:"status"`
	MessageID string `json:"messageId"`
	Timestamp string `json:"timestamp"`
}

// PongPayload answers a liveness probe.
type PongPayload struct {
	Time      string `json:"time"`
	SessionID string `json:"sessionId"`
}

// SendWelcome emits the synchronous connection confirmation followed by the
// static greeting.
func (s *Session) SendWelcome() error {
	if err := s.sender.Send(EventConnectionStatus, ConnectionStatusPayload{
		Status:     "connected",
		SessionID:  s.ID,
		ServerTime: time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		return err
	}
	return s.ForwardChat(Greeting, time.Now())
}

// ForwardChat delivers a chat message with its timestamp to the visitor.
func (s *Session) ForwardChat(message string, at time.Time) error {
	return s.sender.Send(EventChatMessage, ChatPayload{
		Message:   message,
		Timestamp: at.UTC().Format(time.RFC3339),
	})
}

// SendReceipt acknowledges a visitor message before any relay work happens.
func (s *Session) SendReceipt(messageID string) error {
	return s.sender.Send(EventMessageReceived, ReceiptPayload{
		Status:    "received",
		MessageID: messageID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// SendPong answers a liveness probe with the current time and session ID.
// No state changes.
func (s *Session) SendPong() error {
	return s.sender.Send(EventPong, PongPayload{
		Time:      time.Now().UTC().Format(time.RFC3339),
		SessionID: s.ID,
	})
}
