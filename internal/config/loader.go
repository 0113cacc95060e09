package config

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/artsapp/builder/pkg/constants"
	"github.com/artsapp/builder/pkg/logger"
	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Loader reads configuration and keeps watching the config file
type Loader struct {
	v        *viper.Viper
	log      logger.Logger
	mu       sync.Mutex
	onChange []func(*Config)
}

// NewLoader creates a loader. Paths are searched in order for config.yaml.
func NewLoader(log logger.Logger, paths ...string) *Loader {
	if len(paths) == 0 {
		paths = []string{"/etc/artsapp-builder/", "."}
	}
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("BUILDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v, log: log}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", constants.DefaultServicePort)
	v.SetDefault("server.base_path", "")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.secure_cookies", false)

	v.SetDefault("api.base_url", "http://localhost:3000")
	v.SetDefault("api.timeout", constants.DefaultAPITimeout.String())
	v.SetDefault("api.max_upload_size", constants.DefaultMaxUploadSize)
	v.SetDefault("api.player_url", "")
	v.SetDefault("api.login_url", "")

	v.SetDefault("session.backend", "memory")
	v.SetDefault("session.ttl", constants.SessionDefaultTTL.String())
	v.SetDefault("session.secret", "")
	v.SetDefault("session.secret_source", "static")

	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)

	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.mount_path", "secret")
	v.SetDefault("vault.secret_path", "")
	v.SetDefault("vault.secret_key", "session_secret")

	v.SetDefault("audit.backend", "log")
	v.SetDefault("audit.driver", "sqlite")
	v.SetDefault("audit.dsn", "file:builder-audit.db?cache=shared")

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "builder-events")
	v.SetDefault("kafka.batch_timeout", "50ms")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.jaeger_endpoint", "")
	v.SetDefault("tracing.service_name", "artsapp-builder")
	v.SetDefault("tracing.environment", "development")
	v.SetDefault("tracing.sampling_rate", 1.0)
}

// Load reads the .env file (if any), the config file and the environment.
func (l *Loader) Load() (*Config, error) {
	// A missing .env file is normal outside local development
	_ = godotenv.Load()

	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	return l.unmarshal()
}

func (l *Loader) unmarshal() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// OnChange registers a callback run with the reloaded config after the file changes
func (l *Loader) OnChange(fn func(*Config)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = append(l.onChange, fn)
}

// Watch starts watching the config file. Invalid edits are logged and ignored.
func (l *Loader) Watch() {
	l.v.OnConfigChange(func(e fsnotify.Event) {
		ctx := context.Background()
		cfg, err := l.unmarshal()
		if err != nil {
			l.log.Error(ctx, "Ignoring invalid config change", err, logger.String("file", e.Name))
			return
		}
		l.log.Info(ctx, "Config reloaded", logger.String("file", e.Name), logger.String("op", e.Op.String()))

		l.mu.Lock()
		callbacks := append([]func(*Config){}, l.onChange...)
		l.mu.Unlock()
		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	l.v.WatchConfig()
}
