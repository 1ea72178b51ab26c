// ABOUTME: Configuration loading and parsing for chat-gateway
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultSupportRoleID is the placeholder used when discord.support_role_id is
// not configured. Role mentions built from it ping nobody, which is the
// degraded-but-working behavior the original deployment shipped with.
const DefaultSupportRoleID = "YOUR_SUPPORT_ROLE_ID"

// Config represents the complete chat-gateway configuration
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Discord      DiscordConfig      `yaml:"discord"`
	Availability AvailabilityConfig `yaml:"availability"`
	Relay        RelayConfig        `yaml:"relay"`
	Logging      LoggingConfig      `yaml:"logging"`
	Metrics      MetricsConfig      `yaml:"metrics"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr"`

	// AllowedOrigins is the CORS allow-list for the widget. Requests from
	// origins outside the list fall back to a wildcard header, matching the
	// original deployment's permissive development behavior.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DiscordConfig holds the external platform credentials and object identifiers
type DiscordConfig struct {
	Token          string `yaml:"token"`
	GuildID        string `yaml:"guild_id"`
	ForumChannelID string `yaml:"forum_channel_id"`
	SupportRoleID  string `yaml:"support_role_id"`

	// AutoArchiveMinutes is the thread auto-archive duration requested at
	// creation. Discord accepts 60, 1440, 4320 or 10080.
	AutoArchiveMinutes int `yaml:"auto_archive_minutes"`
}

// AvailabilityConfig holds support presence polling configuration
type AvailabilityConfig struct {
	PollInterval time.Duration `yaml:"-"`

	PollIntervalRaw string `yaml:"poll_interval"`
}

// RelayConfig holds the bounded waits used by provisioning and send recovery
type RelayConfig struct {
	ReadyWait       time.Duration `yaml:"-"`
	FallbackBackoff time.Duration `yaml:"-"`
	RetryBackoff    time.Duration `yaml:"-"`

	// Raw string values for YAML unmarshaling
	ReadyWaitRaw       string `yaml:"ready_wait"`
	FallbackBackoffRaw string `yaml:"fallback_backoff"`
	RetryBackoffRaw    string `yaml:"retry_backoff"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`

	// File enables a rotating log file sink in addition to stdout.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// MetricsConfig holds metrics endpoint configuration
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// applyDefaults fills in values the original deployment assumed.
func (c *Config) applyDefaults() {
	if c.Server.HTTPAddr == "" {
		c.Server.HTTPAddr = ":3000"
	}
	if c.Discord.SupportRoleID == "" {
		c.Discord.SupportRoleID = DefaultSupportRoleID
	}
	if c.Discord.AutoArchiveMinutes == 0 {
		c.Discord.AutoArchiveMinutes = 1440 // archive after 24h of inactivity
	}
	if c.Availability.PollInterval == 0 {
		c.Availability.PollInterval = 60 * time.Second
	}
	if c.Relay.ReadyWait == 0 {
		c.Relay.ReadyWait = 2 * time.Second
	}
	if c.Relay.FallbackBackoff == 0 {
		c.Relay.FallbackBackoff = 3 * time.Second
	}
	if c.Relay.RetryBackoff == 0 {
		c.Relay.RetryBackoff = time.Second
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = 50
	}
	if c.Logging.MaxBackups == 0 {
		c.Logging.MaxBackups = 7
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
// Missing Discord credentials are fatal: a gateway that cannot reach its guild
// can never provision a conversation thread.
func (c *Config) Validate() error {
	if c.Discord.Token == "" {
		return fmt.Errorf("discord.token is required")
	}
	if c.Discord.GuildID == "" {
		return fmt.Errorf("discord.guild_id is required")
	}
	if c.Discord.ForumChannelID == "" {
		return fmt.Errorf("discord.forum_channel_id is required")
	}

	switch c.Discord.AutoArchiveMinutes {
	case 60, 1440, 4320, 10080:
	default:
		return fmt.Errorf("discord.auto_archive_minutes must be one of 60, 1440, 4320, 10080 (got %d)", c.Discord.AutoArchiveMinutes)
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be \"text\" or \"json\" (got %q)", c.Logging.Format)
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	fields := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"availability.poll_interval", cfg.Availability.PollIntervalRaw, &cfg.Availability.PollInterval},
		{"relay.ready_wait", cfg.Relay.ReadyWaitRaw, &cfg.Relay.ReadyWait},
		{"relay.fallback_backoff", cfg.Relay.FallbackBackoffRaw, &cfg.Relay.FallbackBackoff},
		{"relay.retry_backoff", cfg.Relay.RetryBackoffRaw, &cfg.Relay.RetryBackoff},
	}

	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		d, err := time.ParseDuration(f.raw)
		if err != nil {
			return fmt.Errorf("parsing %s %q: %w", f.name, f.raw, err)
		}
		*f.dst = d
	}

	return nil
}
