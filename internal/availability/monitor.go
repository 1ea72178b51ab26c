// ABOUTME: Maintains the cached "is a human reachable" flag from Discord presence.
// ABOUTME: The cache only changes on a successful presence fetch; fail-open is the HTTP boundary's job.

package availability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/heberghub/chat-gateway/internal/discord"
	"github.com/heberghub/chat-gateway/internal/telemetry"
)

// Monitor owns the process-wide availability flag. It is the flag's only
// mutator; everything else reads through Available.
type Monitor struct {
	client   discord.Client
	interval time.Duration
	logger   *slog.Logger

	mu        sync.RWMutex
	available bool
}

// New creates a Monitor. The flag starts false; the first successful refresh
// sets it.
func New(client discord.Client, interval time.Duration, logger *slog.Logger) *Monitor {
	return &Monitor{
		client:   client,
		interval: interval,
		logger:   logger,
	}
}

// Available returns the cached flag, which may lag live presence by up to one
// polling interval.
func (m *Monitor) Available() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.available
}

// Refresh queries live presence and, on success, replaces the cached flag.
// On failure the cache keeps its previous value so a transient fetch error
// cannot oscillate a stale "true" forever.
func (m *Monitor) Refresh(ctx context.Context) (bool, error) {
	count, err := m.client.OnlineSupportCount(ctx)
	if err != nil {
		m.logger.Warn("support availability check failed", "error", err)
		return m.Available(), err
	}

	available := count > 0
	m.logger.Debug("support members online", "count", count)

	m.mu.Lock()
	changed := m.available != available
	m.available = available
	m.mu.Unlock()

	telemetry.SetSupportAvailable(available)
	if changed {
		m.logger.Info("support availability changed", "available", available)
	}
	return available, nil
}

// Run refreshes once immediately, then on a fixed interval until ctx is done.
func (m *Monitor) Run(ctx context.Context) {
	if _, err := m.Refresh(ctx); err == nil {
		m.logger.Info("support availability initialized", "available", m.Available())
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = m.Refresh(ctx)
		}
	}
}
