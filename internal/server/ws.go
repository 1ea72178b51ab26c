// ABOUTME: Websocket endpoint: accepts widget connections and runs their read loop.
// ABOUTME: One goroutine per connection; frames relay synchronously to keep ordering.

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/heberghub/chat-gateway/internal/relay"
	"github.com/heberghub/chat-gateway/internal/session"
)

const wsWriteTimeout = 10 * time.Second

// envelope is the wire frame shared with the widget: an event name plus its
// event-specific payload.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// wsConn adapts a websocket connection to the session.Sender contract.
// Writes are serialized; the relay and the read loop both send.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsConn) Send(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), wsWriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, c.conn, envelope{Event: event, Data: data})
}

// handleWebSocket upgrades the request and runs the session until the widget
// disconnects. Teardown is unconditional: the relay is told the session closed
// and the registry entry is removed even when the loop exits on error.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.originPatterns(),
	})
	if err != nil {
		s.logger.Warn("websocket accept failed", "remote_addr", r.RemoteAddr, "error", err)
		return
	}

	sender := &wsConn{conn: conn}
	sess := session.New(clientIP(r), r.UserAgent(), sender)

	if err := s.registry.Register(sess); err != nil {
		s.logger.Error("session registration failed", "session_id", sess.ID, "error", err)
		conn.Close(websocket.StatusInternalError, "registration failed")
		return
	}

	defer func() {
		// A panic in one connection's loop must not take down the process.
		if rec := recover(); rec != nil {
			s.logger.Error("websocket handler panic",
				"session_id", sess.ID,
				"panic", rec,
			)
		}
		ctx, cancel := context.WithTimeout(context.Background(), wsWriteTimeout)
		defer cancel()
		s.relay.SessionClosed(ctx, sess.ID)
		s.registry.Unregister(sess.ID)
		conn.Close(websocket.StatusNormalClosure, "")
	}()

	if err := sess.SendWelcome(); err != nil {
		s.logger.Warn("welcome send failed", "session_id", sess.ID, "error", err)
		return
	}

	s.readLoop(r.Context(), conn, sess)
}

// readLoop dispatches widget frames until the connection drops. Each chat
// message is relayed synchronously before the next frame is read, which is
// what gives per-session delivery ordering.
func (s *Server) readLoop(ctx context.Context, conn *websocket.Conn, sess *session.Session) {
	for {
		var env envelope
		if err := wsjson.Read(ctx, conn, &env); err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || errors.Is(err, context.Canceled) {
				return
			}
			s.logger.Debug("websocket read ended", "session_id", sess.ID, "error", err)
			return
		}

		switch env.Event {
		case session.EventChatMessage:
			var msg relay.VisitorMessage
			if err := json.Unmarshal(env.Data, &msg); err != nil {
				s.logger.Warn("malformed chat message frame", "session_id", sess.ID, "error", err)
				continue
			}
			if msg.Message == "" {
				continue
			}
			// Relay errors are already logged and counted inside the engine;
			// the session stays up regardless.
			_ = s.relay.VisitorMessage(ctx, sess, msg)

		case session.EventPing:
			if err := sess.SendPong(); err != nil {
				s.logger.Debug("pong send failed", "session_id", sess.ID, "error", err)
			}

		default:
			s.logger.Debug("unknown event ignored", "session_id", sess.ID, "event", env.Event)
		}
	}
}

// originPatterns translates the CORS allow-list into websocket origin
// patterns. An empty or wildcard list disables the origin check, matching the
// HTTP middleware's behavior.
func (s *Server) originPatterns() []string {
	if len(s.cfg.AllowedOrigins) == 0 {
		return []string{"*"}
	}
	patterns := make([]string, 0, len(s.cfg.AllowedOrigins))
	for _, origin := range s.cfg.AllowedOrigins {
		if origin == "*" {
			return []string{"*"}
		}
		// AcceptOptions matches against the origin host, not the full URL.
		patterns = append(patterns, strings.TrimPrefix(strings.TrimPrefix(origin, "https://"), "http://"))
	}
	return patterns
}

// clientIP extracts the visitor address, preferring proxy headers so threads
// show the real origin when the gateway sits behind a reverse proxy.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		// First hop is the client.
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
