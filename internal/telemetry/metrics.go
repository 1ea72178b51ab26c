// ABOUTME: Prometheus metrics for the relay, provisioner and session registry.
// ABOUTME: Registration is idempotent so tests and restarts never double-register.

package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var once sync.Once

var (
	// SessionsActive tracks currently connected widget sessions.
	SessionsActive prometheus.Gauge

	// MessagesRelayed counts relayed messages by direction
	// ("inbound" = visitor to Discord, "outbound" = Discord to visitor).
	MessagesRelayed *prometheus.CounterVec

	// RelayFailures counts messages that exhausted the recovery cycle.
	RelayFailures prometheus.Counter

	// ThreadsProvisioned counts provisioning attempts by outcome
	// ("primary", "fallback", "failed").
	ThreadsProvisioned *prometheus.CounterVec

	// SupportAvailable reflects the cached availability flag (1=available).
	SupportAvailable prometheus.Gauge
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
			Name: "chat_sessions_active",
			Help: "Number of currently connected visitor sessions",
		})
		MessagesRelayed = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_messages_relayed_total",
			Help: "Messages relayed across the bridge, by direction",
		}, []string{"direction"})
		RelayFailures = promauto.NewCounter(prometheus.CounterOpts{
			Name: "chat_relay_failures_total",
			Help: "Messages dropped after the bounded recovery cycle failed",
		})
		ThreadsProvisioned = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_threads_provisioned_total",
			Help: "Conversation thread provisioning attempts, by outcome",
		}, []string{"outcome"})
		SupportAvailable = promauto.NewGauge(prometheus.GaugeOpts{
			Name: "chat_support_available",
			Help: "Cached support availability flag (1=available, 0=unavailable)",
		})
	})
}

// SetSupportAvailable records the cached availability flag.
func SetSupportAvailable(available bool) {
	if SupportAvailable == nil {
		return
	}
	if available {
		SupportAvailable.Set(1)
	} else {
		SupportAvailable.Set(0)
	}
}
