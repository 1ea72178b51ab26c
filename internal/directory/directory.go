// ABOUTME: In-memory bidirectional mapping between live sessions and conversation threads.
// ABOUTME: Single source of truth for "is there already a conversation for this session".

package directory

import (
	"log/slog"
	"sync"

	"github.com/heberghub/chat-gateway/internal/discord"
)

// Directory maps session identifiers to their current conversation thread.
// At most one thread per session: Set replaces any previous mapping, which is
// how recovery-triggered thread recreation installs the replacement handle.
//
// Entries are not persisted. A mapping lost on restart is equivalent to a new
// visitor arriving; there is no cross-restart conversation continuity.
type Directory struct {
	mu      sync.RWMutex
	threads map[string]*discord.Thread
	logger  *slog.Logger
}

// New creates an empty directory.
func New(logger *slog.Logger) *Directory {
	return &Directory{
		threads: make(map[string]*discord.Thread),
		logger:  logger,
	}
}

// Get returns the thread mapped to the session, if any.
func (d *Directory) Get(sessionID string) (*discord.Thread, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	thread, ok := d.threads[sessionID]
	return thread, ok
}

// Set installs (or replaces) the thread mapping for a session.
func (d *Directory) Set(sessionID string, thread *discord.Thread) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if prev, ok := d.threads[sessionID]; ok && prev.ID != thread.ID {
		d.logger.Info("thread mapping replaced",
			"session_id", sessionID,
			"old_thread_id", prev.ID,
			"new_thread_id", thread.ID,
		)
	}
	d.threads[sessionID] = thread
}

// Delete removes the mapping for a session. Removing an absent session is a
// no-op.
func (d *Directory) Delete(sessionID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.threads, sessionID)
}

// FindByThread reverse-resolves the session owning a thread. Linear scan:
// the entry count is bounded by the concurrent visitor count.
func (d *Directory) FindByThread(threadID string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for sessionID, thread := range d.threads {
		if thread.ID == threadID {
			return sessionID, true
		}
	}
	return "", false
}

// Len returns the number of tracked conversations.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.threads)
}
