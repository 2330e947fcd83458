// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the application configuration from BIGHITS_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// DefaultDevAdminPassword is the admin password seeded in development when
// none is configured. It is refused in production.
const DefaultDevAdminPassword = "admin123"

// Database drivers.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Data sources.
const (
	SourceSQL    = "sql"
	SourceMemory = "memory"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	Env        string `env:"BIGHITS_ENV" envDefault:"development"`
	ServerHost string `env:"BIGHITS_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"BIGHITS_SERVER_PORT" envDefault:"8080"`
	LogLevel   string `env:"BIGHITS_LOG_LEVEL" envDefault:"info"`

	// SiteURL is the public base URL used in robots.txt and the sitemap.
	SiteURL string `env:"BIGHITS_SITE_URL" envDefault:"http://localhost:8080"`

	// Database configuration
	DBDriver string `env:"BIGHITS_DB_DRIVER" envDefault:"sqlite"`
	DBPath   string `env:"BIGHITS_DB_PATH" envDefault:"./data/bighits.db"`
	DBDSN    string `env:"BIGHITS_DB_DSN"` // MySQL DSN, e.g. user:pass@tcp(localhost:3306)/bighits

	SessionSecret string        `env:"BIGHITS_SESSION_SECRET,required"`
	JWTTTL        time.Duration `env:"BIGHITS_JWT_TTL" envDefault:"24h"`

	// DataSource selects the SQL store or the in-memory fixtures.
	DataSource  string        `env:"BIGHITS_DATA_SOURCE" envDefault:"sql"`
	MockLatency time.Duration `env:"BIGHITS_MOCK_LATENCY" envDefault:"1s"`

	// Cache configuration
	RedisURL     string        `env:"BIGHITS_REDIS_URL"` // Optional Redis URL for distributed caching
	CachePrefix  string        `env:"BIGHITS_CACHE_PREFIX" envDefault:"bighits:"`
	CacheTTL     time.Duration `env:"BIGHITS_CACHE_TTL" envDefault:"5m"`
	CacheMaxSize int           `env:"BIGHITS_CACHE_MAX_SIZE" envDefault:"10000"`

	// Mounted views not used for this long are evicted.
	ViewIdleTTL   time.Duration `env:"BIGHITS_VIEW_IDLE_TTL" envDefault:"30m"`
	StatsSchedule string        `env:"BIGHITS_STATS_SCHEDULE" envDefault:"@every 5m"`

	// Seeding configuration
	DoSeed        bool   `env:"BIGHITS_DO_SEED" envDefault:"false"`
	AdminEmail    string `env:"BIGHITS_ADMIN_EMAIL" envDefault:"admin@bighits.com"`
	AdminPassword string `env:"BIGHITS_ADMIN_PASSWORD"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// UseMemorySource returns true if the in-memory fixtures replace the database.
func (c Config) UseMemorySource() bool {
	return c.DataSource == SourceMemory
}

// DBSource returns the path or DSN for the configured driver.
func (c Config) DBSource() string {
	if c.DBDriver == DriverMySQL {
		return c.DBDSN
	}
	return c.DBPath
}

// SeedAdminPassword returns the password of the seeded admin account.
func (c Config) SeedAdminPassword() string {
	if c.AdminPassword == "" && c.IsDevelopment() {
		return DefaultDevAdminPassword
	}
	return c.AdminPassword
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MinSessionSecretLength is the minimum required length for the session secret.
// HS256 token signing uses the same secret and wants 32 bytes.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("BIGHITS_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("BIGHITS_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(c.SessionSecret))
	}
	for _, weak := range knownWeakSecrets {
		if c.SessionSecret == weak {
			return errors.New("BIGHITS_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	switch c.DBDriver {
	case DriverSQLite:
	case DriverMySQL:
		if c.DBDSN == "" {
			return errors.New("BIGHITS_DB_DSN is required when BIGHITS_DB_DRIVER=mysql")
		}
	default:
		return fmt.Errorf("BIGHITS_DB_DRIVER must be %q or %q, got %q", DriverSQLite, DriverMySQL, c.DBDriver)
	}

	if c.DataSource != SourceSQL && c.DataSource != SourceMemory {
		return fmt.Errorf("BIGHITS_DATA_SOURCE must be %q or %q, got %q", SourceSQL, SourceMemory, c.DataSource)
	}
	if c.JWTTTL <= 0 {
		return errors.New("BIGHITS_JWT_TTL must be positive")
	}
	if c.MockLatency < 0 {
		return errors.New("BIGHITS_MOCK_LATENCY must not be negative")
	}

	if c.DoSeed && !c.IsDevelopment() {
		if c.AdminPassword == "" || c.AdminPassword == DefaultDevAdminPassword {
			return errors.New("BIGHITS_ADMIN_PASSWORD must be set to a non-default value to seed outside development")
		}
	}
	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
