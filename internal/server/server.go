// ABOUTME: HTTP surface of the gateway: health, availability, metrics, widget assets.
// ABOUTME: The websocket endpoint and its session lifecycle live in ws.go.

package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/heberghub/chat-gateway/internal/assets"
	"github.com/heberghub/chat-gateway/internal/discord"
	"github.com/heberghub/chat-gateway/internal/relay"
	"github.com/heberghub/chat-gateway/internal/session"
)

// Relay is the part of the relay engine the transport drives.
type Relay interface {
	VisitorMessage(ctx context.Context, sess *session.Session, msg relay.VisitorMessage) error
	SessionClosed(ctx context.Context, sessionID string)
}

// AvailabilityChecker reports whether support staff are reachable.
type AvailabilityChecker interface {
	Refresh(ctx context.Context) (bool, error)
}

// Config holds the HTTP server settings.
type Config struct {
	Addr           string
	AllowedOrigins []string
	MetricsEnabled bool
	MetricsPath    string
}

// Server exposes the widget transport and the operational endpoints.
type Server struct {
	httpServer *http.Server
	client     discord.Client
	registry   *session.Registry
	relay      Relay
	checker    AvailabilityChecker
	cfg        Config
	logger     *slog.Logger
	startedAt  time.Time
}

// New creates a Server with its routes registered.
func New(cfg Config, client discord.Client, registry *session.Registry, rel Relay, checker AvailabilityChecker, logger *slog.Logger) *Server {
	s := &Server{
		client:    client,
		registry:  registry,
		relay:     rel,
		checker:   checker,
		cfg:       cfg,
		logger:    logger.With("component", "server"),
		startedAt: time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/support-availability", s.handleSupportAvailability)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	if cfg.MetricsEnabled {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		mux.Handle("GET "+path, promhttp.Handler())
	}
	mux.Handle("/", assets.FileServer())

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.corsMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the full handler chain, including CORS.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.cfg.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// corsMiddleware applies the configured origin allow-list. An empty list
// allows every origin. Preflight requests are answered here and never reach
// the handlers.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			if allowed := s.allowOrigin(origin); allowed != "" {
				w.Header().Set("Access-Control-Allow-Origin", allowed)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			}
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) allowOrigin(origin string) string {
	if len(s.cfg.AllowedOrigins) == 0 {
		return "*"
	}
	for _, allowed := range s.cfg.AllowedOrigins {
		if allowed == "*" {
			return "*"
		}
		if allowed == origin {
			return origin
		}
	}
	return ""
}

type healthResponse struct {
	Status      string `json:"status"`
	Discord     bool   `json:"discord"`
	UptimeSecs  int64  `json:"uptime"`
	Connections int    `json:"connections"`
	Timestamp   string `json:"timestamp"`
}

// handleHealth reports process liveness plus the platform connection state.
// The status is "ok" as long as the process serves; a dropped Discord
// connection shows up in the discord field, not in the HTTP status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:      "ok",
		Discord:     s.client.Ready(),
		UptimeSecs:  int64(time.Since(s.startedAt).Seconds()),
		Connections: s.registry.Count(),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	})
}

type availabilityResponse struct {
	Available bool   `json:"available"`
	Timestamp string `json:"timestamp"`
}

// handleSupportAvailability answers the widget's pre-connect probe. The check
// fails open: when presence cannot be determined the response claims support
// is available, so a platform hiccup never hides the chat entry point. The
// background monitor's cache is deliberately stricter; this endpoint is the
// only fail-open consumer.
func (s *Server) handleSupportAvailability(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC().Format(time.RFC3339)
	available, err := s.checker.Refresh(r.Context())
	if err != nil {
		s.logger.Warn("availability check failed, failing open", "error", err)
		writeJSON(w, http.StatusOK, availabilityResponse{Available: true, Timestamp: now})
		return
	}
	writeJSON(w, http.StatusOK, availabilityResponse{Available: available, Timestamp: now})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
