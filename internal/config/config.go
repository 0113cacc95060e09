package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/artsapp/builder/pkg/utils"
)

// Config holds the application's configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	API     APIConfig     `mapstructure:"api"`
	Session SessionConfig `mapstructure:"session"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Vault   VaultConfig   `mapstructure:"vault"`
	Audit   AuditConfig   `mapstructure:"audit"`
	Kafka   KafkaConfig   `mapstructure:"kafka"`
	Log     LogConfig     `mapstructure:"log"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	BasePath       string        `mapstructure:"base_path"`
	Environment    string        `mapstructure:"environment"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	SecureCookies  bool          `mapstructure:"secure_cookies"`
}

// IsProduction reports whether the service runs in production
func (c *ServerConfig) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// APIConfig describes the external key API
type APIConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxUploadSize string        `mapstructure:"max_upload_size"`
	PlayerURL     string        `mapstructure:"player_url"`
	LoginURL      string        `mapstructure:"login_url"`
}

// MaxUploadBytes parses MaxUploadSize
func (c *APIConfig) MaxUploadBytes() (int64, error) {
	return utils.ParseByteSize(c.MaxUploadSize)
}

type SessionConfig struct {
	Backend      string        `mapstructure:"backend"` // redis | memory
	TTL          time.Duration `mapstructure:"ttl"`
	Secret       string        `mapstructure:"secret"`
	SecretSource string        `mapstructure:"secret_source"` // static | vault
}

type RedisConfig struct {
	Address      string `mapstructure:"address"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
}

type VaultConfig struct {
	Address    string `mapstructure:"address"`
	Token      string `mapstructure:"token"`
	MountPath  string `mapstructure:"mount_path"`
	SecretPath string `mapstructure:"secret_path"`
	SecretKey  string `mapstructure:"secret_key"`
}

// AuditConfig selects where builder actions are recorded
type AuditConfig struct {
	Backend string `mapstructure:"backend"` // database | kafka | both | log
	Driver  string `mapstructure:"driver"`  // postgres | sqlite
	DSN     string `mapstructure:"dsn"`
}

type KafkaConfig struct {
	Brokers      []string      `mapstructure:"brokers"`
	Topic        string        `mapstructure:"topic"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type TracingConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint"`
	ServiceName    string  `mapstructure:"service_name"`
	Environment    string  `mapstructure:"environment"`
	SamplingRate   float64 `mapstructure:"sampling_rate"`
}

// Validate checks for essential configuration values.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if _, err := url.ParseRequestURI(c.API.BaseURL); err != nil {
		return fmt.Errorf("api.base_url is invalid: %w", err)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	if _, err := c.API.MaxUploadBytes(); err != nil {
		return fmt.Errorf("api.max_upload_size: %w", err)
	}
	if c.Server.BasePath != "" && !strings.HasPrefix(c.Server.BasePath, "/") {
		return fmt.Errorf("server.base_path must start with '/'")
	}

	switch c.Session.Backend {
	case "redis":
		if c.Redis.Address == "" {
			return fmt.Errorf("redis.address is required for the redis session backend")
		}
	case "memory":
	default:
		return fmt.Errorf("session.backend must be redis or memory, got %q", c.Session.Backend)
	}
	switch c.Session.SecretSource {
	case "static":
		if len(c.Session.Secret) < 32 {
			return fmt.Errorf("session.secret must be at least 32 characters")
		}
	case "vault":
		if c.Vault.Address == "" || c.Vault.SecretPath == "" {
			return fmt.Errorf("vault.address and vault.secret_path are required for the vault secret source")
		}
	default:
		return fmt.Errorf("session.secret_source must be static or vault, got %q", c.Session.SecretSource)
	}

	switch c.Audit.Backend {
	case "log":
	case "database", "kafka", "both":
		if c.Audit.Backend != "kafka" {
			if c.Audit.Driver != "postgres" && c.Audit.Driver != "sqlite" {
				return fmt.Errorf("audit.driver must be postgres or sqlite, got %q", c.Audit.Driver)
			}
			if c.Audit.DSN == "" {
				return fmt.Errorf("audit.dsn is required")
			}
		}
		if c.Audit.Backend != "database" && (len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "") {
			return fmt.Errorf("kafka.brokers and kafka.topic are required for kafka auditing")
		}
	default:
		return fmt.Errorf("audit.backend must be database, kafka, both or log, got %q", c.Audit.Backend)
	}
	return nil
}
