package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/artsapp/builder/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSecret = "0123456789abcdef0123456789abcdef"

func TestLoader_Defaults(t *testing.T) {
	t.Setenv("BUILDER_SESSION_SECRET", validSecret)

	cfg, err := NewLoader(logger.NewNoopLogger(), t.TempDir()).Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, "10MB", cfg.API.MaxUploadSize)
	assert.Equal(t, "memory", cfg.Session.Backend)
	assert.Equal(t, "log", cfg.Audit.Backend)

	size, err := cfg.API.MaxUploadBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(10_000_000), size)
}

func TestLoader_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  port: 9090
  base_path: /builder
api:
  base_url: https://api.artsapp.test
  timeout: 5s
  max_upload_size: 2MB
session:
  secret: ` + validSecret + `
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	t.Setenv("BUILDER_API_TIMEOUT", "7s")

	cfg, err := NewLoader(logger.NewNoopLogger(), dir).Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/builder", cfg.Server.BasePath)
	assert.Equal(t, "https://api.artsapp.test", cfg.API.BaseURL)
	assert.Equal(t, 7*time.Second, cfg.API.Timeout, "environment overrides the file")
	assert.Equal(t, "2MB", cfg.API.MaxUploadSize)
}

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:  ServerConfig{Port: 8080},
			API:     APIConfig{BaseURL: "http://localhost:3000", Timeout: time.Second, MaxUploadSize: "10MB"},
			Session: SessionConfig{Backend: "memory", SecretSource: "static", Secret: validSecret},
			Audit:   AuditConfig{Backend: "log"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing base url", func(c *Config) { c.API.BaseURL = "" }, "api.base_url"},
		{"bad upload size", func(c *Config) { c.API.MaxUploadSize = "lots" }, "max_upload_size"},
		{"relative base path", func(c *Config) { c.Server.BasePath = "builder" }, "base_path"},
		{"short secret", func(c *Config) { c.Session.Secret = "short" }, "session.secret"},
		{"redis without address", func(c *Config) { c.Session.Backend = "redis" }, "redis.address"},
		{"unknown session backend", func(c *Config) { c.Session.Backend = "file" }, "session.backend"},
		{"vault without path", func(c *Config) { c.Session.SecretSource = "vault" }, "vault.address"},
		{"kafka without brokers", func(c *Config) { c.Audit.Backend = "kafka" }, "kafka.brokers"},
		{"database without dsn", func(c *Config) {
			c.Audit.Backend = "database"
			c.Audit.Driver = "sqlite"
		}, "audit.dsn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
