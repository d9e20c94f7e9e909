// Package config loads application settings from a .env file and environment variables.
// Environment variables always take precedence over .env file values.
package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported DB_DRIVER values.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all application configuration.
type Config struct {
	// Store driver: postgres (default) or sqlite for local runs.
	DBDriver string

	// PostgreSQL – either set DatabaseURL directly, or the individual fields.
	DatabaseURL string
	DBUser      string
	DBPass      string
	DBHost      string
	DBPort      string
	DBName      string
	DBSSLMode   string

	// SQLite data source name, used when DBDriver is sqlite.
	SQLiteDSN string

	// Secret used to verify identity tokens and sign upload tokens.
	JWTSecret string

	// Server
	Debug      bool
	Port       string
	TLSDomains []string
	PublicURL  string

	// Blob storage
	BlobDir      string
	UploadURLTTL time.Duration

	// Snowflake node for record ids.
	SnowflakeNode int64

	// LegacyOpenMutations skips ownership checks on corner and user time
	// mutations. Only for clients that still mutate them anonymously.
	LegacyOpenMutations bool
}

// Load reads configuration from a .env file (if present) and then from
// environment variables. Environment variables always win.
func Load() *Config {
	cfg := FromViper(newViper())
	cfg.validate()
	return cfg
}

// FromViper resolves a Config from an already prepared viper instance,
// applying defaults. It performs no validation.
func FromViper(v *viper.Viper) *Config {
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_USER", "projectd")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "projectd")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("SQLITE_DSN", "file:projectd.db?cache=shared")
	v.SetDefault("PORT", ":9000")
	v.SetDefault("PUBLIC_URL", "http://localhost:9000")
	v.SetDefault("BLOB_DIR", "blobs")
	v.SetDefault("UPLOAD_URL_TTL", "15m")
	v.SetDefault("SNOWFLAKE_NODE", 1)
	v.SetDefault("DEBUG", false)
	v.SetDefault("AUTHZ_LEGACY_OPEN_MUTATIONS", false)

	return &Config{
		DBDriver:            strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER"))),
		DatabaseURL:         v.GetString("DATABASE_URL"),
		DBUser:              v.GetString("DB_USER"),
		DBPass:              v.GetString("DB_PASS"),
		DBHost:              v.GetString("DB_HOST"),
		DBPort:              v.GetString("DB_PORT"),
		DBName:              v.GetString("DB_NAME"),
		DBSSLMode:           v.GetString("DB_SSLMODE"),
		SQLiteDSN:           v.GetString("SQLITE_DSN"),
		JWTSecret:           v.GetString("JWT_SECRET"),
		Debug:               v.GetBool("DEBUG"),
		Port:                v.GetString("PORT"),
		TLSDomains:          splitTrimmed(v.GetString("TLS_DOMAINS")),
		PublicURL:           strings.TrimRight(v.GetString("PUBLIC_URL"), "/"),
		BlobDir:             v.GetString("BLOB_DIR"),
		UploadURLTTL:        v.GetDuration("UPLOAD_URL_TTL"),
		SnowflakeNode:       v.GetInt64("SNOWFLAKE_NODE"),
		LegacyOpenMutations: v.GetBool("AUTHZ_LEGACY_OPEN_MUTATIONS"),
	}
}

// PostgresDSN returns the full PostgreSQL connection string.
// DATABASE_URL takes precedence over individual fields.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser,
		c.DBPass,
		c.DBHost,
		c.DBPort,
		c.DBName,
		c.DBSSLMode,
	)
}

// JWTKey returns the JWT signing key as a byte slice.
func (c *Config) JWTKey() []byte {
	return []byte(c.JWTSecret)
}

// Validate reports the first configuration problem, if any.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" && c.DBPass == "" {
			return fmt.Errorf("DATABASE_URL or DB_PASS must be set")
		}
	case DriverSQLite:
		if c.SQLiteDSN == "" {
			return fmt.Errorf("SQLITE_DSN must be set")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	if c.UploadURLTTL <= 0 {
		return fmt.Errorf("UPLOAD_URL_TTL must be positive")
	}
	return nil
}

func (c *Config) validate() {
	if err := c.Validate(); err != nil {
		log.Fatal("config: ", err)
	}
}

func newViper() *viper.Viper {
	// Silently load .env – OK if the file doesn't exist (production uses real env vars).
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using environment variables only")
	}

	v := viper.New()
	v.AutomaticEnv()
	return v
}

func splitTrimmed(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
