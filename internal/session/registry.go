// ABOUTME: Tracks all live visitor sessions.
// ABOUTME: Owned by the connection handler; the relay only reads from it.

package session

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/heberghub/chat-gateway/internal/telemetry"
)

// ErrAlreadyRegistered indicates a session with the same ID is already tracked.
var ErrAlreadyRegistered = errors.New("session already registered")

// Registry tracks all connected visitor sessions.
type Registry struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	logger   *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		logger:   logger,
	}
}

// Register adds a new session.
func (r *Registry) Register(sess *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[sess.ID]; exists {
		return ErrAlreadyRegistered
	}

	r.sessions[sess.ID] = sess
	if telemetry.SessionsActive != nil {
		telemetry.SessionsActive.Set(float64(len(r.sessions)))
	}
	r.logger.Info("visitor session connected",
		"session_id", sess.ID,
		"remote_addr", sess.RemoteAddr,
		"user_agent", sess.UserAgent,
		"total_sessions", len(r.sessions),
	)
	return nil
}

// Unregister removes a session. Unknown IDs are a no-op.
func (r *Registry) Unregister(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[sessionID]; !exists {
		return
	}

	delete(r.sessions, sessionID)
	if telemetry.SessionsActive != nil {
		telemetry.SessionsActive.Set(float64(len(r.sessions)))
	}
	r.logger.Info("visitor session disconnected",
		"session_id", sessionID,
		"total_sessions", len(r.sessions),
	)
}

// Get retrieves a session by ID.
func (r *Registry) Get(sessionID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sess, ok := r.sessions[sessionID]
	return sess, ok
}

// Count returns the number of connected sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}
