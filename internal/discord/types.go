// ABOUTME: Capability boundary for the external messaging platform.
// ABOUTME: Defines the thread/message/presence types and the Client interface consumed by the bridge.

package discord

import (
	"context"
	"errors"
	"time"
)

// ErrNotReady indicates the gateway connection is not in a ready state.
var ErrNotReady = errors.New("discord client not ready")

// ErrNotForum indicates the configured thread container is not a forum channel.
var ErrNotForum = errors.New("configured channel is not a forum channel")

// ErrThreadNotFound indicates a thread handle could not be re-resolved.
var ErrThreadNotFound = errors.New("thread not found")

// Thread is a handle to a durable conversation thread on the platform.
type Thread struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Message is an inbound message observed on the platform.
type Message struct {
	ID         string
	ThreadID   string
	AuthorID   string
	AuthorName string
	Bot        bool
	Content    string
	Timestamp  time.Time
}

// Post is an outbound message. Content carries plain text (including role
// mentions); Embed carries the rich card, when any.
type Post struct {
	Content string
	Embed   *Embed
}

// Embed is a platform-agnostic rich card.
type Embed struct {
	Color       int
	Title       string
	Description string
	Fields      []EmbedField
	Timestamp   time.Time
}

// EmbedField is a single name/value pair on an embed.
type EmbedField struct {
	Name  string
	Value string
}

// Client is the capability interface the bridge consumes. The production
// implementation is Bot; tests substitute fakes.
type Client interface {
	// Ready reports whether the gateway connection is established.
	Ready() bool

	// CreateThread resolves the configured guild and forum channel, verifies
	// the channel kind, and creates a new thread holding the given post.
	CreateThread(ctx context.Context, title string, post Post) (*Thread, error)

	// Send posts into an existing thread.
	Send(ctx context.Context, threadID string, post Post) error

	// FetchThread re-resolves a thread handle directly from the platform.
	// Returns ErrThreadNotFound if the thread no longer exists.
	FetchThread(ctx context.Context, threadID string) (*Thread, error)

	// OnlineSupportCount returns how many members of the configured support
	// role currently report an online-family presence.
	OnlineSupportCount(ctx context.Context) (int, error)

	// BotUserID identifies the bridge's own automated identity, used to
	// filter relay feedback loops.
	BotUserID() string
}
