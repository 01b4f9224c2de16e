package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	DatabaseURL       string `toml:"database_url"`        // QASTREAM_DATABASE_URL (required)
	SocialDatabaseURL string `toml:"social_database_url"` // QASTREAM_SOCIAL_DATABASE_URL (optional, empty = no social stream)
	FAQURL            string `toml:"faq_url"`             // QASTREAM_FAQ_URL (required)
	FAQToken          string `toml:"faq_token"`           // QASTREAM_FAQ_TOKEN (optional)
	NATSURL           string `toml:"nats_url"`            // QASTREAM_NATS_URL (optional, empty = no events)
	Subject           string `toml:"subject"`             // QASTREAM_SUBJECT (default "faq.>")
	GRPCAddr          string `toml:"grpc_addr"`           // QASTREAM_GRPC_ADDR (default ":9090")
	HTTPAddr          string `toml:"http_addr"`           // QASTREAM_HTTP_ADDR (default ":8080")
	AuthToken         string `toml:"auth_token"`          // QASTREAM_AUTH_TOKEN (optional, empty = auth disabled)
	LogLevel          string `toml:"log_level"`           // QASTREAM_LOG_LEVEL (default "info")

	// Sync settings
	SyncInterval   time.Duration `toml:"-"` // QASTREAM_SYNC_INTERVAL (default 3m; 0 = disabled)
	SyncS3Bucket   string        `toml:"-"` // QASTREAM_SYNC_S3_BUCKET (enables S3 when set)
	SyncS3Endpoint string        `toml:"-"` // QASTREAM_SYNC_S3_ENDPOINT (custom endpoint for MinIO)
	SyncS3Region   string        `toml:"-"` // QASTREAM_SYNC_S3_REGION (default "us-east-1")
	SyncS3Key      string        `toml:"-"` // QASTREAM_SYNC_S3_KEY (default "qastream/links.jsonl")
	SyncGitRepo    string        `toml:"-"` // QASTREAM_SYNC_GIT_REPO (enables git when set; path to clone)
	SyncGitFile    string        `toml:"-"` // QASTREAM_SYNC_GIT_FILE (default "links.jsonl")
	SyncGitBranch  string        `toml:"-"` // QASTREAM_SYNC_GIT_BRANCH (default "main")
}

// Load reads the optional TOML file named by QASTREAM_CONFIG, then applies
// environment overrides and defaults.
func Load() (*Config, error) {
	c := &Config{}
	if path := os.Getenv("QASTREAM_CONFIG"); path != "" {
		if _, err := toml.DecodeFile(path, c); err != nil {
			return nil, fmt.Errorf("QASTREAM_CONFIG: %w", err)
		}
	}

	override(&c.DatabaseURL, "QASTREAM_DATABASE_URL", "")
	override(&c.SocialDatabaseURL, "QASTREAM_SOCIAL_DATABASE_URL", "")
	override(&c.FAQURL, "QASTREAM_FAQ_URL", "")
	override(&c.FAQToken, "QASTREAM_FAQ_TOKEN", "")
	override(&c.NATSURL, "QASTREAM_NATS_URL", "")
	override(&c.Subject, "QASTREAM_SUBJECT", "faq.>")
	override(&c.GRPCAddr, "QASTREAM_GRPC_ADDR", ":9090")
	override(&c.HTTPAddr, "QASTREAM_HTTP_ADDR", ":8080")
	override(&c.AuthToken, "QASTREAM_AUTH_TOKEN", "")
	override(&c.LogLevel, "QASTREAM_LOG_LEVEL", "info")

	c.SyncS3Bucket = os.Getenv("QASTREAM_SYNC_S3_BUCKET")
	c.SyncS3Endpoint = os.Getenv("QASTREAM_SYNC_S3_ENDPOINT")
	c.SyncS3Region = envOrDefault("QASTREAM_SYNC_S3_REGION", "us-east-1")
	c.SyncS3Key = envOrDefault("QASTREAM_SYNC_S3_KEY", "qastream/links.jsonl")
	c.SyncGitRepo = os.Getenv("QASTREAM_SYNC_GIT_REPO")
	c.SyncGitFile = envOrDefault("QASTREAM_SYNC_GIT_FILE", "links.jsonl")
	c.SyncGitBranch = envOrDefault("QASTREAM_SYNC_GIT_BRANCH", "main")

	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("QASTREAM_DATABASE_URL is required")
	}
	if c.FAQURL == "" {
		return nil, fmt.Errorf("QASTREAM_FAQ_URL is required")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return nil, fmt.Errorf("QASTREAM_LOG_LEVEL: %w", err)
	}

	intervalStr := envOrDefault("QASTREAM_SYNC_INTERVAL", "3m")
	d, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("QASTREAM_SYNC_INTERVAL: %w", err)
	}
	c.SyncInterval = d

	return c, nil
}

// Level returns the configured slog level; Load has already validated it.
func (c *Config) Level() slog.Level {
	l, _ := ParseLevel(c.LogLevel)
	return l
}

// ParseLevel maps debug/info/warn/error (case-insensitive) to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, err
	}
	return l, nil
}

// override sets *dst from the environment when the variable is set, and
// falls back to def when *dst is still empty.
func override(dst *string, key, def string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
	if *dst == "" {
		*dst = def
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
