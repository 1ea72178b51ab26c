// ABOUTME: Entry point for the chat-gateway bridge server.
// ABOUTME: Wires config, Discord connection, relay engine and HTTP transport.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/heberghub/chat-gateway/internal/availability"
	"github.com/heberghub/chat-gateway/internal/config"
	"github.com/heberghub/chat-gateway/internal/directory"
	"github.com/heberghub/chat-gateway/internal/discord"
	"github.com/heberghub/chat-gateway/internal/provision"
	"github.com/heberghub/chat-gateway/internal/relay"
	"github.com/heberghub/chat-gateway/internal/server"
	"github.com/heberghub/chat-gateway/internal/session"
	"github.com/heberghub/chat-gateway/internal/telemetry"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
       _           _                     _
   ___| |__   __ _| |_       __ _  __ _| |_ _____      ____ _ _   _
  / __| '_ \ / _' | __|____ / _' |/ _' | __/ _ \ \ /\ / / _' | | | |
 | (__| | | | (_| | ||_____| (_| | (_| | ||  __/\ V  V / (_| | |_| |
  \___|_| |_|\__,_|\__|     \__, |\__,_|\__\___| \_/\_/ \__,_|\__, |
                            |___/                             |___/
`

// getConfigPath returns the path to the gateway config file.
// Priority: CHAT_GATEWAY_CONFIG env var > ./config.yaml
func getConfigPath() string {
	if envPath := os.Getenv("CHAT_GATEWAY_CONFIG"); envPath != "" {
		return envPath
	}
	return "config.yaml"
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: chat-gateway <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  serve    Start the gateway server")
		fmt.Println("  health   Check gateway health")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "health":
		err = runHealth(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context) error {
	// .env is optional; the config file can also reference raw env vars.
	_ = godotenv.Load()

	configPath := getConfigPath()

	cyan := color.New(color.FgCyan)
	gray := color.New(color.FgHiBlack)
	green := color.New(color.FgGreen)

	cyan.Print(banner)
	gray.Printf("    version: %s\n\n", version)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := setupLogger(cfg.Logging)

	green.Print("    ▶ ")
	fmt.Printf("Config:  %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("HTTP:    %s\n", cfg.Server.HTTPAddr)
	green.Print("    ▶ ")
	fmt.Printf("Guild:   %s\n", cfg.Discord.GuildID)
	if cfg.Metrics.Enabled {
		green.Print("    ▶ ")
		fmt.Printf("Metrics: %s\n", cfg.Metrics.Path)
	}
	fmt.Println()

	logger.Info("starting chat-gateway",
		"config", configPath,
		"http_addr", cfg.Server.HTTPAddr,
	)

	if cfg.Metrics.Enabled {
		telemetry.Init()
	}

	bot, err := discord.NewBot(cfg.Discord, logger.With("component", "discord"))
	if err != nil {
		return fmt.Errorf("creating discord client: %w", err)
	}
	if err := bot.Connect(); err != nil {
		return fmt.Errorf("connecting to discord: %w", err)
	}
	defer bot.Close()

	registry := session.NewRegistry(logger.With("component", "session"))
	dir := directory.New(logger.With("component", "directory"))

	prov := provision.New(bot, provision.Config{
		SupportRoleID:   cfg.Discord.SupportRoleID,
		ReadyWait:       cfg.Relay.ReadyWait,
		FallbackBackoff: cfg.Relay.FallbackBackoff,
	}, logger.With("component", "provision"))

	engine := relay.New(bot, dir, prov, registry, relay.Config{
		SupportRoleID: cfg.Discord.SupportRoleID,
		RetryBackoff:  cfg.Relay.RetryBackoff,
	}, logger.With("component", "relay"))
	bot.OnMessage(engine.PlatformMessage)

	monitor := availability.New(bot, cfg.Availability.PollInterval, logger.With("component", "availability"))
	go monitor.Run(ctx)

	srv := server.New(server.Config{
		Addr:           cfg.Server.HTTPAddr,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsPath:    cfg.Metrics.Path,
	}, bot, registry, engine, monitor, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown incomplete", "error", err)
	}
	return nil
}

// setupLogger builds the process logger from config: level, text or json
// format, optionally teeing into a rotating file.
func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var out io.Writer = os.Stdout
	if cfg.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			Compress:   true,
		})
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func runHealth(ctx context.Context) error {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	addr := cfg.Server.HTTPAddr
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}

	url := fmt.Sprintf("http://%s/health", addr)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}

	var body struct {
		Status      string `json:"status"`
		Discord     bool   `json:"discord"`
		UptimeSecs  int64  `json:"uptime"`
		Connections int    `json:"connections"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	green.Println("  gateway: healthy")
	if body.Discord {
		green.Println("  discord: connected")
	} else {
		red.Println("  discord: disconnected")
	}
	fmt.Printf("  uptime:      %s\n", (time.Duration(body.UptimeSecs) * time.Second).String())
	fmt.Printf("  connections: %d\n", body.Connections)

	if !body.Discord {
		return fmt.Errorf("discord gateway disconnected")
	}
	return nil
}
