// ABOUTME: Creates conversation threads on demand, with a degraded fallback path.
// ABOUTME: Primary attempt posts a rich role-mention card; the fallback trades presentation for reliability.

package provision

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/heberghub/chat-gateway/internal/discord"
	"github.com/heberghub/chat-gateway/internal/telemetry"
)

// Error reports a provisioning attempt where both stages failed. The bounded
// retry contract is visible here: there are exactly two causes, never more.
type Error struct {
	Primary  error
	Fallback error
}

func (e *Error) Error() string {
	return fmt.Sprintf("thread provisioning failed (primary: %v; fallback: %v)", e.Primary, e.Fallback)
}

func (e *Error) Unwrap() error { return e.Primary }

// Config holds the provisioner's timing and identity knobs.
type Config struct {
	// SupportRoleID is mentioned in the primary opening post.
	SupportRoleID string

	// ReadyWait is the single bounded delay granted to a not-yet-ready
	// gateway connection before provisioning fails.
	ReadyWait time.Duration

	// FallbackBackoff is the fixed pause between the primary failure and the
	// fallback attempt.
	FallbackBackoff time.Duration
}

// Provisioner creates conversation threads for sessions.
type Provisioner struct {
	client discord.Client
	cfg    Config
	logger *slog.Logger
}

// New creates a Provisioner.
func New(client discord.Client, cfg Config, logger *slog.Logger) *Provisioner {
	return &Provisioner{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// Provision creates a new conversation thread for the session.
//
// The primary attempt creates a thread titled with the current local time,
// opened by a role-mention post carrying session/origin context. If it fails,
// one fixed backoff is waited and a single fallback attempt is made with a
// visibly different title embedding the failure reason and a minimal body.
// If the fallback also fails, the *Error carries both causes; there is no
// further retry.
func (p *Provisioner) Provision(ctx context.Context, sessionID, origin string) (*discord.Thread, error) {
	if err := p.awaitReady(ctx); err != nil {
		p.countOutcome("failed")
		return nil, err
	}

	now := time.Now()
	thread, primaryErr := p.client.CreateThread(ctx,
		discord.ThreadTitle(now),
		discord.OpeningPost(p.cfg.SupportRoleID, sessionID, origin, now),
	)
	if primaryErr == nil {
		p.countOutcome("primary")
		p.logger.Info("thread provisioned",
			"session_id", sessionID,
			"thread_id", thread.ID,
			"thread_name", thread.Name,
		)
		return thread, nil
	}

	p.logger.Warn("primary thread creation failed, trying fallback",
		"session_id", sessionID,
		"error", primaryErr,
	)

	if err := sleepCtx(ctx, p.cfg.FallbackBackoff); err != nil {
		p.countOutcome("failed")
		return nil, &Error{Primary: primaryErr, Fallback: err}
	}

	thread, fallbackErr := p.client.CreateThread(ctx,
		discord.FallbackThreadTitle(origin),
		discord.FallbackOpeningPost(sessionID, primaryErr),
	)
	if fallbackErr == nil {
		p.countOutcome("fallback")
		p.logger.Info("fallback thread provisioned",
			"session_id", sessionID,
			"thread_id", thread.ID,
		)
		return thread, nil
	}

	p.countOutcome("failed")
	return nil, &Error{Primary: primaryErr, Fallback: fallbackErr}
}

// awaitReady verifies the gateway connection, granting one bounded wait for a
// connection that is still establishing.
func (p *Provisioner) awaitReady(ctx context.Context) error {
	if p.client.Ready() {
		return nil
	}

	p.logger.Warn("discord client not ready, waiting once", "wait", p.cfg.ReadyWait)
	if err := sleepCtx(ctx, p.cfg.ReadyWait); err != nil {
		return err
	}

	if !p.client.Ready() {
		return fmt.Errorf("after %s wait: %w", p.cfg.ReadyWait, discord.ErrNotReady)
	}
	return nil
}

func (p *Provisioner) countOutcome(outcome string) {
	if telemetry.ThreadsProvisioned != nil {
		telemetry.ThreadsProvisioned.WithLabelValues(outcome).Inc()
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
