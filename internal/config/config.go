// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Token field modes for the backend login response.
const (
	TokenFieldJSON    = "token"
	TokenFieldRawBody = "raw-body"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Backend BackendConfig `mapstructure:"backend"`
	Audit   AuditConfig   `mapstructure:"audit"`
	Events  EventsConfig  `mapstructure:"events"`
	Archive ArchiveConfig `mapstructure:"archive"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port           int `mapstructure:"port"`
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// BackendConfig points the facade at the job-orchestration backend.
// The login URL, workspace/folder path segments, and the shape of the login
// response all drifted across backend deployments, so every one of them is
// a knob rather than a constant.
type BackendConfig struct {
	BaseURL         string `mapstructure:"base_url"`
	Workspace       string `mapstructure:"workspace"`
	Folder          string `mapstructure:"folder"`
	JobPathTemplate string `mapstructure:"job_path_template"`
	LoginPath       string `mapstructure:"login_path"`
	AuthEmail       string `mapstructure:"auth_email"`
	AuthPassword    string `mapstructure:"auth_password"`
	AuthTokenField  string `mapstructure:"auth_token_field"`
	CacheToken      bool   `mapstructure:"cache_token"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds"`
}

// Timeout returns the per-call backend timeout.
func (c BackendConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// AuditConfig selects where mutating operations are recorded.
type AuditConfig struct {
	Provider string              `mapstructure:"provider"`
	Postgres AuditPostgresConfig `mapstructure:"postgres"`
}

// AuditPostgresConfig holds the Postgres audit store settings.
type AuditPostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

// EventsConfig selects where lifecycle events are published.
type EventsConfig struct {
	Provider string          `mapstructure:"provider"`
	GCP      EventsGCPConfig `mapstructure:"gcp"`
}

// EventsGCPConfig holds Pub/Sub settings for lifecycle events.
type EventsGCPConfig struct {
	ProjectID string `mapstructure:"project_id"`
	TopicID   string `mapstructure:"topic_id"`
}

// ArchiveConfig selects where pre-deletion resource snapshots are written.
type ArchiveConfig struct {
	Provider string           `mapstructure:"provider"`
	GCS      ArchiveGCSConfig `mapstructure:"gcs"`
}

// ArchiveGCSConfig holds blob storage settings for deletion snapshots.
type ArchiveGCSConfig struct {
	Bucket string `mapstructure:"bucket"`
	Prefix string `mapstructure:"prefix"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BREEDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.timeout_seconds", 60)
	v.SetDefault("backend.workspace", "godon")
	v.SetDefault("backend.folder", "controller")
	v.SetDefault("backend.job_path_template", "/api/w/{workspace}/jobs/run/p/f/{folder}/{job}")
	v.SetDefault("backend.login_path", "/auth/login")
	v.SetDefault("backend.auth_token_field", TokenFieldRawBody)
	v.SetDefault("backend.cache_token", true)
	v.SetDefault("backend.timeout_seconds", 15)
	v.SetDefault("audit.provider", "noop")
	v.SetDefault("events.provider", "noop")
	v.SetDefault("archive.provider", "noop")
	v.SetDefault("archive.gcs.prefix", "snapshots")
	v.SetDefault("logging.development", false)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url must be set")
	}
	if c.Backend.TimeoutSeconds <= 0 {
		return fmt.Errorf("backend.timeout_seconds must be > 0")
	}
	switch c.Backend.AuthTokenField {
	case TokenFieldJSON, TokenFieldRawBody:
	default:
		return fmt.Errorf("backend.auth_token_field must be %q or %q", TokenFieldJSON, TokenFieldRawBody)
	}
	switch c.Audit.Provider {
	case "noop":
	case "postgres":
		if c.Audit.Postgres.DSN == "" {
			return fmt.Errorf("audit.postgres.dsn must be set when audit.provider is postgres")
		}
	default:
		return fmt.Errorf("unknown audit provider: %s", c.Audit.Provider)
	}
	switch c.Events.Provider {
	case "noop":
	case "pubsub":
		if c.Events.GCP.ProjectID == "" || c.Events.GCP.TopicID == "" {
			return fmt.Errorf("events.gcp.project_id and events.gcp.topic_id must be set when events.provider is pubsub")
		}
	default:
		return fmt.Errorf("unknown events provider: %s", c.Events.Provider)
	}
	switch c.Archive.Provider {
	case "noop":
	case "gcs":
		if c.Archive.GCS.Bucket == "" {
			return fmt.Errorf("archive.gcs.bucket must be set when archive.provider is gcs")
		}
	default:
		return fmt.Errorf("unknown archive provider: %s", c.Archive.Provider)
	}
	return nil
}
