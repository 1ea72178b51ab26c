// ABOUTME: The bidirectional message pump between visitor sessions and Discord threads.
// ABOUTME: Owns send recovery (re-resolve, re-provision, single retry) and the reverse relay.

package relay

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/heberghub/chat-gateway/internal/directory"
	"github.com/heberghub/chat-gateway/internal/discord"
	"github.com/heberghub/chat-gateway/internal/session"
	"github.com/heberghub/chat-gateway/internal/telemetry"
)

const (
	seenTTL     = 5 * time.Minute
	seenMaxSize = 10_000
)

// Provisioner creates a conversation thread for a session.
type Provisioner interface {
	Provision(ctx context.Context, sessionID, origin string) (*discord.Thread, error)
}

// Sessions resolves live sessions; satisfied by *session.Registry.
type Sessions interface {
	Get(sessionID string) (*session.Session, bool)
}

// VisitorMessage is an inbound widget chat message.
type VisitorMessage struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Page      string `json:"page"`
}

// Config holds the relay's identity and timing knobs.
type Config struct {
	// SupportRoleID is tagged on every relayed visitor message.
	SupportRoleID string

	// RetryBackoff is the fixed pause before the single post-recovery resend.
	RetryBackoff time.Duration
}

// Engine relays messages in both directions across the session/thread
// mapping. Per-session ordering holds because each websocket read loop calls
// VisitorMessage synchronously: a message completes (including recovery)
// before the next frame is read. No ordering is promised across sessions.
type Engine struct {
	client      discord.Client
	directory   *directory.Directory
	provisioner Provisioner
	sessions    Sessions
	cfg         Config
	seen        *seenCache
	logger      *slog.Logger
}

// New creates an Engine.
func New(client discord.Client, dir *directory.Directory, prov Provisioner, sessions Sessions, cfg Config, logger *slog.Logger) *Engine {
	return &Engine{
		client:      client,
		directory:   dir,
		provisioner: prov,
		sessions:    sessions,
		cfg:         cfg,
		seen:        newSeenCache(seenTTL, seenMaxSize),
		logger:      logger,
	}
}

// VisitorMessage relays one widget message into the session's thread.
//
// The acknowledgment is sent before any Discord work so visitor-perceived
// responsiveness never depends on platform latency. This is the only place
// threads are created: a visitor who never sends a message never gets one.
//
// On send failure the engine runs one recovery cycle (re-resolve the stale
// handle from the platform, else provision a replacement thread), installs
// the recovered thread in the directory and retries the send exactly once.
// A failure after that is terminal for this message: logged and counted, but
// never requeued, and the visitor is not notified per message.
func (e *Engine) VisitorMessage(ctx context.Context, sess *session.Session, msg VisitorMessage) error {
	e.logger.Info("visitor message received",
		"session_id", sess.ID,
		"page", msg.Page,
	)

	messageID := strconv.FormatInt(time.Now().UnixMilli(), 10)
	if err := sess.SendReceipt(messageID); err != nil {
		// The session write failing does not stop the relay; the message
		// still has to reach support.
		e.logger.Warn("acknowledgment send failed", "session_id", sess.ID, "error", err)
	}

	thread, ok := e.directory.Get(sess.ID)
	if !ok {
		created, err := e.provisioner.Provision(ctx, sess.ID, sess.RemoteAddr)
		if err != nil {
			// Directory deliberately left unchanged.
			e.logger.Error("thread provisioning failed",
				"session_id", sess.ID,
				"error", err,
			)
			return fmt.Errorf("provisioning thread for session %s: %w", sess.ID, err)
		}
		e.directory.Set(sess.ID, created)
		thread = created
	}

	post := discord.VisitorPost(e.cfg.SupportRoleID, msg.Message, msg.Page, time.Now())

	err := e.client.Send(ctx, thread.ID, post)
	if err == nil {
		e.countRelayed("inbound")
		return nil
	}

	e.logger.Warn("send to thread failed, attempting recovery",
		"session_id", sess.ID,
		"thread_id", thread.ID,
		"error", err,
	)

	recovered := e.recoverThread(ctx, sess, thread)
	if recovered == nil {
		e.countFailure(sess.ID)
		return fmt.Errorf("sending to thread %s: %w", thread.ID, err)
	}
	e.directory.Set(sess.ID, recovered)

	if err := sleepCtx(ctx, e.cfg.RetryBackoff); err != nil {
		e.countFailure(sess.ID)
		return err
	}

	if err := e.client.Send(ctx, recovered.ID, post); err != nil {
		e.countFailure(sess.ID)
		return fmt.Errorf("retrying send to thread %s: %w", recovered.ID, err)
	}

	e.logger.Info("message recovered onto thread",
		"session_id", sess.ID,
		"thread_id", recovered.ID,
	)
	e.countRelayed("inbound")
	return nil
}

// recoverThread tries to refresh the stale handle from the platform, then to
// provision a replacement. Returns nil when both fail.
func (e *Engine) recoverThread(ctx context.Context, sess *session.Session, stale *discord.Thread) *discord.Thread {
	if refreshed, err := e.client.FetchThread(ctx, stale.ID); err == nil {
		return refreshed
	}

	replacement, err := e.provisioner.Provision(ctx, sess.ID, sess.RemoteAddr)
	if err != nil {
		e.logger.Error("replacement thread provisioning failed",
			"session_id", sess.ID,
			"error", err,
		)
		return nil
	}
	e.logger.Info("thread recreated",
		"session_id", sess.ID,
		"thread_id", replacement.ID,
	)
	return replacement
}

// PlatformMessage relays a Discord message back to the owning session.
// Messages from the bridge's own identity (or any bot) are ignored to prevent
// feedback loops. A message for an untracked thread, or for a session that
// disconnected in the meantime, is dropped: there is no queue or replay.
func (e *Engine) PlatformMessage(msg discord.Message) {
	if msg.Bot || msg.AuthorID == e.client.BotUserID() {
		return
	}
	if e.seen.CheckAndMark(msg.ID) {
		e.logger.Debug("duplicate platform message ignored", "message_id", msg.ID)
		return
	}

	sessionID, ok := e.directory.FindByThread(msg.ThreadID)
	if !ok {
		return
	}

	sess, ok := e.sessions.Get(sessionID)
	if !ok {
		// Session disconnected between message receipt and the scan.
		return
	}

	if err := sess.ForwardChat(msg.Content, msg.Timestamp); err != nil {
		e.logger.Warn("forwarding reply to session failed",
			"session_id", sessionID,
			"thread_id", msg.ThreadID,
			"error", err,
		)
		return
	}

	e.logger.Info("reply relayed to visitor",
		"session_id", sessionID,
		"thread_id", msg.ThreadID,
		"author", msg.AuthorName,
	)
	e.countRelayed("outbound")
}

// SessionClosed posts the best-effort "visitor left" notice and removes the
// directory entry unconditionally.
func (e *Engine) SessionClosed(ctx context.Context, sessionID string) {
	thread, ok := e.directory.Get(sessionID)
	if !ok {
		return
	}

	if err := e.client.Send(ctx, thread.ID, discord.DisconnectPost(time.Now())); err != nil {
		e.logger.Warn("disconnect notice failed",
			"session_id", sessionID,
			"thread_id", thread.ID,
			"error", err,
		)
	}

	e.directory.Delete(sessionID)
}

func (e *Engine) countRelayed(direction string) {
	if telemetry.MessagesRelayed != nil {
		telemetry.MessagesRelayed.WithLabelValues(direction).Inc()
	}
}

func (e *Engine) countFailure(sessionID string) {
	e.logger.Error("message relay terminally failed", "session_id", sessionID)
	if telemetry.RelayFailures != nil {
		telemetry.RelayFailures.Inc()
	}
}

// sleepCtx waits for d or until ctx is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
