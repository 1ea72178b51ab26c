// Package config handles configuration loading for chat-gateway.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	discord:
//	  token: "${DISCORD_TOKEN}"
//
// Syntax: ${VAR_NAME}
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "0.0.0.0:3000"
//	  allowed_origins:
//	    - "https://heberghub.com"
//	    - "https://www.heberghub.com"
//
// Discord integration (token, guild_id and forum_channel_id are required;
// startup fails fast without them):
//
//	discord:
//	  token: "${DISCORD_TOKEN}"
//	  guild_id: "${DISCORD_GUILD_ID}"
//	  forum_channel_id: "${DISCORD_FORUM_CHANNEL_ID}"
//	  support_role_id: "${DISCORD_SUPPORT_ROLE_ID}"
//	  auto_archive_minutes: 1440
//
// Support availability polling:
//
//	availability:
//	  poll_interval: "60s"
//
// Relay timing (bounded waits, parsed with time.ParseDuration):
//
//	relay:
//	  ready_wait: "2s"        # wait before re-checking gateway readiness
//	  fallback_backoff: "3s"  # wait before the fallback provisioning attempt
//	  retry_backoff: "1s"     # wait before the single post-recovery resend
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//	  file: "logs/chat-gateway.log"  # optional rotating file sink
//
// Metrics:
//
//	metrics:
//	  enabled: true
//	  path: "/metrics"
package config
