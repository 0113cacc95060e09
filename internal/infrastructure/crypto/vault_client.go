package crypto

import (
	"context"
	"fmt"
	"sync"

	vault "github.com/hashicorp/vault/api"

	"github.com/artsapp/builder/internal/config"
	"github.com/artsapp/builder/pkg/logger"
)

// SecretProvider supplies the key used to sign session cookies.
type SecretProvider interface {
	SigningSecret(ctx context.Context) ([]byte, error)
}

// StaticSecret is a SecretProvider backed by configuration
type StaticSecret []byte

func (s StaticSecret) SigningSecret(context.Context) ([]byte, error) {
	if len(s) == 0 {
		return nil, fmt.Errorf("session secret is empty")
	}
	return s, nil
}

// VaultSecretProvider reads the signing secret from a KVv2 engine once and
// keeps it for the lifetime of the process.
type VaultSecretProvider struct {
	client    *vault.Client
	log       logger.Logger
	mountPath string
	path      string
	field     string

	mu     sync.Mutex
	secret []byte
}

// NewVaultSecretProvider creates and configures a Vault client.
func NewVaultSecretProvider(cfg *config.VaultConfig, log logger.Logger) (*VaultSecretProvider, error) {
	vaultConfig := vault.DefaultConfig()
	vaultConfig.Address = cfg.Address

	client, err := vault.NewClient(vaultConfig)
	if err != nil {
		return nil, err
	}
	client.SetToken(cfg.Token)

	mount := cfg.MountPath
	if mount == "" {
		mount = "secret"
	}
	field := cfg.SecretKey
	if field == "" {
		field = "session_secret"
	}
	return &VaultSecretProvider{
		client:    client,
		log:       log.WithComponent("vault"),
		mountPath: mount,
		path:      cfg.SecretPath,
		field:     field,
	}, nil
}

// SigningSecret returns the cached secret, reading it from Vault on first use.
func (v *VaultSecretProvider) SigningSecret(ctx context.Context) ([]byte, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.secret != nil {
		return v.secret, nil
	}

	secret, err := v.client.KVv2(v.mountPath).Get(ctx, v.path)
	if err != nil {
		v.log.Error(ctx, "Failed to read session secret from Vault", err,
			logger.String("mount", v.mountPath), logger.String("path", v.path))
		return nil, fmt.Errorf("vault read %s/%s: %w", v.mountPath, v.path, err)
	}
	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("vault secret %s/%s not found", v.mountPath, v.path)
	}
	value, ok := secret.Data[v.field].(string)
	if !ok || len(value) < 32 {
		return nil, fmt.Errorf("vault secret %s/%s has no %q of at least 32 characters", v.mountPath, v.path, v.field)
	}

	v.secret = []byte(value)
	v.log.Info(ctx, "Loaded session secret from Vault", logger.String("path", v.path))
	return v.secret, nil
}

// NewSecretProvider picks the provider named by session.secret_source
func NewSecretProvider(cfg *config.Config, log logger.Logger) (SecretProvider, error) {
	if cfg.Session.SecretSource == "vault" {
		return NewVaultSecretProvider(&cfg.Vault, log)
	}
	return StaticSecret(cfg.Session.Secret), nil
}
