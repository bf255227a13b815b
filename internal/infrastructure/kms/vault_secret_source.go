// Package kms loads the token signing secret from HashiCorp Vault.
package kms

import (
	"context"
	"fmt"
	"time"

	vault "github.com/hashicorp/vault/api"
	"github.com/patrickmn/go-cache"

	"github.com/turtacn/coursehub/internal/config"
	"github.com/turtacn/coursehub/pkg/logger"
)

const secretCacheTTL = 5 * time.Minute

// VaultSecretSource reads the signing secret from a KV v2 mount.
// Reads are cached briefly in memory.
type VaultSecretSource struct {
	client *vault.Client
	cache  *cache.Cache
	config *config.VaultConfig
	logger logger.Logger
}

// NewVaultSecretSource creates a Vault client for cfg.Address authenticated with cfg.Token.
func NewVaultSecretSource(cfg *config.VaultConfig, log logger.Logger) (*VaultSecretSource, error) {
	vaultConfig := vault.DefaultConfig()
	vaultConfig.Address = cfg.Address

	client, err := vault.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("create vault client: %w", err)
	}
	client.SetToken(cfg.Token)

	return &VaultSecretSource{
		client: client,
		cache:  cache.New(secretCacheTTL, 2*secretCacheTTL),
		config: cfg,
		logger: log.WithComponent("VaultSecretSource"),
	}, nil
}

// SigningSecret returns the value stored under cfg.SecretKey at cfg.SecretPath.
func (s *VaultSecretSource) SigningSecret(ctx context.Context) ([]byte, error) {
	cacheKey := s.config.MountPath + "/" + s.config.SecretPath + "#" + s.config.SecretKey
	if v, found := s.cache.Get(cacheKey); found {
		return v.([]byte), nil
	}

	secret, err := s.client.KVv2(s.config.MountPath).Get(ctx, s.config.SecretPath)
	if err != nil {
		s.logger.Error(ctx, "failed to read signing secret from Vault", err,
			logger.String("path", s.config.SecretPath))
		return nil, fmt.Errorf("read vault secret %s: %w", s.config.SecretPath, err)
	}
	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("vault secret %s has no data", s.config.SecretPath)
	}

	value, ok := secret.Data[s.config.SecretKey].(string)
	if !ok || value == "" {
		return nil, fmt.Errorf("%s not found or not a string in vault secret %s", s.config.SecretKey, s.config.SecretPath)
	}

	out := []byte(value)
	s.cache.Set(cacheKey, out, cache.DefaultExpiration)
	s.logger.Info(ctx, "Signing secret loaded from Vault", logger.String("path", s.config.SecretPath))
	return out, nil
}
