// ABOUTME: Tests for configuration loading, env expansion and validation.
// ABOUTME: Validates fail-fast behavior on missing Discord identifiers.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig writes a config file into a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gateway.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const minimalConfig = `
discord:
  token: "tok"
  guild_id: "123"
  forum_channel_id: "456"
`

func TestLoad_Minimal(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Server.HTTPAddr)
	assert.Equal(t, DefaultSupportRoleID, cfg.Discord.SupportRoleID)
	assert.Equal(t, 1440, cfg.Discord.AutoArchiveMinutes)
	assert.Equal(t, 60*time.Second, cfg.Availability.PollInterval)
	assert.Equal(t, 2*time.Second, cfg.Relay.ReadyWait)
	assert.Equal(t, 3*time.Second, cfg.Relay.FallbackBackoff)
	assert.Equal(t, time.Second, cfg.Relay.RetryBackoff)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_CHAT_TOKEN", "secret-token")
	t.Setenv("TEST_CHAT_GUILD", "999")

	cfg, err := Load(writeConfig(t, `
discord:
  token: "${TEST_CHAT_TOKEN}"
  guild_id: "${TEST_CHAT_GUILD}"
  forum_channel_id: "456"
`))
	require.NoError(t, err)

	assert.Equal(t, "secret-token", cfg.Discord.Token)
	assert.Equal(t, "999", cfg.Discord.GuildID)
}

func TestLoad_UnsetEnvVarBecomesEmpty(t *testing.T) {
	// An unset variable expands to "" and trips required-field validation.
	_, err := Load(writeConfig(t, `
discord:
  token: "${DEFINITELY_NOT_SET_CHAT_GATEWAY}"
  guild_id: "123"
  forum_channel_id: "456"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "discord.token is required")
}

func TestLoad_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing token",
			yaml:    "discord:\n  guild_id: \"1\"\n  forum_channel_id: \"2\"\n",
			wantErr: "discord.token is required",
		},
		{
			name:    "missing guild",
			yaml:    "discord:\n  token: \"t\"\n  forum_channel_id: \"2\"\n",
			wantErr: "discord.guild_id is required",
		},
		{
			name:    "missing forum channel",
			yaml:    "discord:\n  token: \"t\"\n  guild_id: \"1\"\n",
			wantErr: "discord.forum_channel_id is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_Durations(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig+`
availability:
  poll_interval: "30s"
relay:
  ready_wait: "500ms"
  fallback_backoff: "5s"
  retry_backoff: "2s"
`))
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Availability.PollInterval)
	assert.Equal(t, 500*time.Millisecond, cfg.Relay.ReadyWait)
	assert.Equal(t, 5*time.Second, cfg.Relay.FallbackBackoff)
	assert.Equal(t, 2*time.Second, cfg.Relay.RetryBackoff)
}

func TestLoad_InvalidDuration(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+`
availability:
  poll_interval: "sixty seconds"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "poll_interval")
}

func TestLoad_InvalidAutoArchive(t *testing.T) {
	_, err := Load(writeConfig(t, `
discord:
  token: "tok"
  guild_id: "123"
  forum_channel_id: "456"
  auto_archive_minutes: 90
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auto_archive_minutes")
}

func TestLoad_InvalidLogFormat(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+`
logging:
  format: "xml"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.format")
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}
