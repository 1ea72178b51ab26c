// ABOUTME: discordgo-backed implementation of the Client capability interface.
// ABOUTME: Resolves guild/forum objects, creates forum threads and watches presence.

package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/heberghub/chat-gateway/internal/config"
)

// Bot wraps a discordgo session as a Client. One Bot serves the whole process;
// all methods are safe for concurrent use.
type Bot struct {
	session *discordgo.Session
	cfg     config.DiscordConfig
	logger  *slog.Logger
	ready   atomic.Bool
}

// NewBot builds the session and registers gateway lifecycle handlers.
// Connect must be called before the Bot is usable.
func NewBot(cfg config.DiscordConfig, logger *slog.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}

	// Presence and member tracking are needed for the availability check;
	// message content for the relay.
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent |
		discordgo.IntentsGuildPresences |
		discordgo.IntentsGuildMembers

	b := &Bot{
		session: session,
		cfg:     cfg,
		logger:  logger,
	}

	session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		b.ready.Store(true)
		b.logger.Info("discord gateway ready",
			"username", r.User.Username,
			"guild_id", cfg.GuildID,
		)
	})
	session.AddHandler(func(_ *discordgo.Session, _ *discordgo.Resumed) {
		b.ready.Store(true)
		b.logger.Info("discord gateway resumed")
	})
	session.AddHandler(func(_ *discordgo.Session, _ *discordgo.Disconnect) {
		b.ready.Store(false)
		b.logger.Warn("discord gateway disconnected")
	})

	return b, nil
}

// Connect opens the gateway connection. discordgo reconnects on its own after
// transient drops; Ready() reflects the current state.
func (b *Bot) Connect() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("opening discord gateway: %w", err)
	}
	return nil
}

// Close tears down the gateway connection.
func (b *Bot) Close() error {
	b.ready.Store(false)
	return b.session.Close()
}

// Ready reports whether the gateway connection is established.
func (b *Bot) Ready() bool {
	return b.ready.Load()
}

// BotUserID identifies the bridge's own automated identity.
func (b *Bot) BotUserID() string {
	if u := b.session.State.User; u != nil {
		return u.ID
	}
	return ""
}

// OnMessage registers a handler for newly created messages across the guild.
// The handler receives every message, including the bot's own; filtering is
// the caller's concern.
func (b *Bot) OnMessage(fn func(Message)) {
	b.session.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil {
			return
		}
		fn(Message{
			ID:         m.ID,
			ThreadID:   m.ChannelID,
			AuthorID:   m.Author.ID,
			AuthorName: m.Author.Username,
			Bot:        m.Author.Bot,
			Content:    m.Content,
			Timestamp:  m.Timestamp,
		})
	})
}

// CreateThread resolves the guild and forum channel, verifies the channel
// kind, then creates a new thread seeded with the given post.
func (b *Bot) CreateThread(ctx context.Context, title string, post Post) (*Thread, error) {
	if _, err := b.guild(); err != nil {
		return nil, fmt.Errorf("resolving guild %s: %w", b.cfg.GuildID, err)
	}
	forum, err := b.forum()
	if err != nil {
		return nil, err
	}

	th, err := b.session.ForumThreadStartComplex(forum.ID, &discordgo.ThreadStart{
		Name:                title,
		AutoArchiveDuration: b.cfg.AutoArchiveMinutes,
	}, messageSend(post), discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("creating forum thread: %w", err)
	}

	return &Thread{ID: th.ID, Name: th.Name, CreatedAt: time.Now()}, nil
}

// Send posts into an existing thread.
func (b *Bot) Send(ctx context.Context, threadID string, post Post) error {
	if _, err := b.session.ChannelMessageSendComplex(threadID, messageSend(post), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("sending to thread %s: %w", threadID, err)
	}
	return nil
}

// FetchThread re-resolves a thread handle directly from the platform.
func (b *Bot) FetchThread(ctx context.Context, threadID string) (*Thread, error) {
	ch, err := b.session.Channel(threadID, discordgo.WithContext(ctx))
	if err != nil {
		var restErr *discordgo.RESTError
		if errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
			return nil, ErrThreadNotFound
		}
		return nil, fmt.Errorf("fetching thread %s: %w", threadID, err)
	}
	if !ch.IsThread() {
		return nil, ErrThreadNotFound
	}
	return &Thread{ID: ch.ID, Name: ch.Name}, nil
}

// OnlineSupportCount counts support-role members reporting an online-family
// presence. Offline members never appear in the guild presence list, so
// iterating presences and filtering by role covers the whole check.
func (b *Bot) OnlineSupportCount(ctx context.Context) (int, error) {
	if !b.Ready() {
		return 0, ErrNotReady
	}

	g, err := b.guild()
	if err != nil {
		return 0, fmt.Errorf("resolving guild %s: %w", b.cfg.GuildID, err)
	}

	if !slices.ContainsFunc(g.Roles, func(r *discordgo.Role) bool { return r.ID == b.cfg.SupportRoleID }) {
		b.logger.Debug("support role not found in guild", "role_id", b.cfg.SupportRoleID)
		return 0, nil
	}

	count := 0
	for _, p := range g.Presences {
		if p.User == nil || !PresenceCounts(p.Status) {
			continue
		}
		member, err := b.member(ctx, p.User.ID)
		if err != nil {
			continue
		}
		if slices.Contains(member.Roles, b.cfg.SupportRoleID) {
			count++
		}
	}
	return count, nil
}

// guild resolves the configured guild from state, falling back to the API.
func (b *Bot) guild() (*discordgo.Guild, error) {
	if g, err := b.session.State.Guild(b.cfg.GuildID); err == nil {
		return g, nil
	}
	return b.session.Guild(b.cfg.GuildID)
}

// forum resolves the configured thread container and verifies its kind.
func (b *Bot) forum() (*discordgo.Channel, error) {
	ch, err := b.session.State.Channel(b.cfg.ForumChannelID)
	if err != nil {
		ch, err = b.session.Channel(b.cfg.ForumChannelID)
		if err != nil {
			return nil, fmt.Errorf("resolving forum channel %s: %w", b.cfg.ForumChannelID, err)
		}
	}
	if ch.Type != discordgo.ChannelTypeGuildForum {
		return nil, fmt.Errorf("%w: channel %s has type %d", ErrNotForum, b.cfg.ForumChannelID, ch.Type)
	}
	return ch, nil
}

// member resolves a guild member from state, falling back to the API.
func (b *Bot) member(ctx context.Context, userID string) (*discordgo.Member, error) {
	if m, err := b.session.State.Member(b.cfg.GuildID, userID); err == nil {
		return m, nil
	}
	return b.session.GuildMember(b.cfg.GuildID, userID, discordgo.WithContext(ctx))
}

// messageSend converts a Post into the wire shape.
func messageSend(p Post) *discordgo.MessageSend {
	msg := &discordgo.MessageSend{Content: p.Content}
	if p.Embed != nil {
		embed := &discordgo.MessageEmbed{
			Color:       p.Embed.Color,
			Title:       p.Embed.Title,
			Description: p.Embed.Description,
		}
		if !p.Embed.Timestamp.IsZero() {
			embed.Timestamp = p.Embed.Timestamp.UTC().Format(time.RFC3339)
		}
		for _, f := range p.Embed.Fields {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:  f.Name,
				Value: f.Value,
			})
		}
		msg.Embeds = []*discordgo.MessageEmbed{embed}
	}
	return msg
}
