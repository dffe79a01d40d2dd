package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "authorize", cfg.Gateway.PaymentAction)
	assert.Equal(t, "on-hold", cfg.Gateway.OrderStatus)
	assert.Equal(t, "sandbox", cfg.Gateway.Mode)
	assert.False(t, cfg.Gateway.VoidToCancelled)
	assert.Equal(t, 10000, cfg.Gateway.RequestTimeoutMS)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9090
gateway:
  secret_key: sk_live_abc
  payment_action: authorize_capture
  order_status: processing
  mode: live
  void_to_cancelled: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sk_live_abc", cfg.Gateway.SecretKey)
	assert.Equal(t, "authorize_capture", cfg.Gateway.PaymentAction)
	assert.Equal(t, "processing", cfg.Gateway.OrderStatus)
	assert.Equal(t, "live", cfg.Gateway.Mode)
	assert.True(t, cfg.Gateway.VoidToCancelled)
	// 文件里没写的字段保持默认值
	assert.Equal(t, "localhost:6379", cfg.Infra.RedisAddr)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gateway:\n  mode: sandbox\n"), 0o600))

	t.Setenv("PAYGATE_MODE", "live")
	t.Setenv("PAYGATE_PAYMENT_ACTION", "authorize_capture")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "live", cfg.Gateway.Mode)
	assert.Equal(t, "authorize_capture", cfg.Gateway.PaymentAction)
}

func TestLoad_MissingFileIsIgnored(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}
