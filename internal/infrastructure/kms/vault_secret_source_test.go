package kms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/coursehub/internal/config"
	"github.com/turtacn/coursehub/pkg/logger"
)

const kvResponse = `{
  "data": {
    "data": {"secret_key": "from-vault"},
    "metadata": {"created_time": "2024-01-01T00:00:00Z", "deletion_time": "", "destroyed": false, "version": 1}
  }
}`

func newFakeVault(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		if r.Header.Get("X-Vault-Token") != "root" {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"errors":["permission denied"]}`))
			return
		}
		if r.Method == http.MethodGet && r.URL.Path == "/v1/secret/data/coursehub/jwt" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(kvResponse))
			return
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errors":[]}`))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestVaultSecretSource_SigningSecret(t *testing.T) {
	var hits int32
	ts := newFakeVault(t, &hits)

	src, err := NewVaultSecretSource(&config.VaultConfig{
		Address: ts.URL, Token: "root", MountPath: "secret", SecretPath: "coursehub/jwt", SecretKey: "secret_key",
	}, logger.NewNoopLogger())
	require.NoError(t, err)

	secret, err := src.SigningSecret(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "from-vault", string(secret))

	_, err = src.SigningSecret(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "second read is served from cache")
}

func TestVaultSecretSource_Errors(t *testing.T) {
	var hits int32
	ts := newFakeVault(t, &hits)

	tests := []struct {
		name string
		cfg  config.VaultConfig
	}{
		{"missing path", config.VaultConfig{Address: ts.URL, Token: "root", MountPath: "secret", SecretPath: "other", SecretKey: "secret_key"}},
		{"missing key", config.VaultConfig{Address: ts.URL, Token: "root", MountPath: "secret", SecretPath: "coursehub/jwt", SecretKey: "private_key"}},
		{"bad token", config.VaultConfig{Address: ts.URL, Token: "nope", MountPath: "secret", SecretPath: "coursehub/jwt", SecretKey: "secret_key"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			src, err := NewVaultSecretSource(&cfg, logger.NewNoopLogger())
			require.NoError(t, err)
			_, err = src.SigningSecret(context.Background())
			assert.Error(t, err)
		})
	}
}
