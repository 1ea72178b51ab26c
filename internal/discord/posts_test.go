// ABOUTME: Tests for outbound post construction.
// ABOUTME: Validates role mentions, fallback degradation and field content.

package discord

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpeningPost(t *testing.T) {
	at := time.Date(2025, 3, 14, 15, 9, 0, 0, time.UTC)
	post := OpeningPost("role-1", "sess-1", "203.0.113.9", at)

	assert.Contains(t, post.Content, "<@&role-1>")
	require.NotNil(t, post.Embed)
	assert.Equal(t, colorBlue, post.Embed.Color)
	require.Len(t, post.Embed.Fields, 3)
	assert.Equal(t, "sess-1", post.Embed.Fields[0].Value)
	assert.Equal(t, "203.0.113.9", post.Embed.Fields[1].Value)
	assert.Equal(t, "14/03/2025 15:09", post.Embed.Fields[2].Value)
}

func TestFallbackOpeningPost_NoMentionNoEmbed(t *testing.T) {
	post := FallbackOpeningPost("sess-1", errors.New("rate limited"))

	assert.Nil(t, post.Embed)
	assert.NotContains(t, post.Content, "<@&")
	assert.Contains(t, post.Content, "rate limited")
	assert.Contains(t, post.Content, "sess-1")
}

func TestVisitorPost(t *testing.T) {
	post := VisitorPost("role-1", "hello", "/pricing", time.Now())

	assert.Contains(t, post.Content, "<@&role-1>")
	require.NotNil(t, post.Embed)
	assert.Equal(t, "hello", post.Embed.Description)
	require.Len(t, post.Embed.Fields, 1)
	assert.Equal(t, "/pricing", post.Embed.Fields[0].Value)
}

func TestVisitorPost_DefaultsPage(t *testing.T) {
	post := VisitorPost("role-1", "hello", "", time.Now())

	require.NotNil(t, post.Embed)
	require.Len(t, post.Embed.Fields, 1)
	assert.Equal(t, "Non spécifiée", post.Embed.Fields[0].Value)
}

func TestThreadTitles(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 0, 0, time.UTC)
	assert.Equal(t, "Chat du 02/01/2025 03:04", ThreadTitle(at))
	assert.Equal(t, "SECOURS - Chat - IP: 203.0.113.9", FallbackThreadTitle("203.0.113.9"))
}

func TestDisconnectPost(t *testing.T) {
	post := DisconnectPost(time.Now())

	assert.Empty(t, post.Content)
	require.NotNil(t, post.Embed)
	assert.Equal(t, colorRed, post.Embed.Color)
}
