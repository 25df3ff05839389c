package config_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinywideclouds/go-fcm/fcm/config"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew_Defaults(t *testing.T) {
	cfg := config.New("my-key")

	assert.Equal(t, "my-key", cfg.APIKey)
	assert.Equal(t, config.DefaultSendEndpoint, cfg.SendEndpoint)
	assert.Equal(t, config.DefaultIIDEndpoint, cfg.IIDEndpoint)
	assert.Equal(t, config.DefaultRequestTimeout, cfg.RequestTimeout)
	assert.Equal(t, config.DefaultMaxRetryAfter, cfg.MaxRetryAfter)
	assert.Nil(t, cfg.Proxies)
}

func TestUpdateConfigWithEnvOverrides(t *testing.T) {
	t.Run("Env wins over existing values", func(t *testing.T) {
		t.Setenv("FCM_API_KEY", "env-key")
		t.Setenv("FCM_SEND_ENDPOINT", "http://localhost:9000/send")
		t.Setenv("FCM_HTTPS_PROXY", "http://proxy.internal:3128")
		t.Setenv("FCM_REQUEST_TIMEOUT_SECONDS", "30")
		t.Setenv("FCM_MAX_RETRY_AFTER", "3")

		cfg, err := config.UpdateConfigWithEnvOverrides(config.New("file-key"), newTestLogger())
		require.NoError(t, err)

		assert.Equal(t, "env-key", cfg.APIKey)
		assert.Equal(t, "http://localhost:9000/send", cfg.SendEndpoint)
		assert.Equal(t, map[string]string{"https": "http://proxy.internal:3128"}, cfg.Proxies)
		assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
		assert.Equal(t, 3, cfg.MaxRetryAfter)
	})

	t.Run("Fills defaults for unset fields", func(t *testing.T) {
		cfg, err := config.UpdateConfigWithEnvOverrides(&config.Config{APIKey: "k"}, newTestLogger())
		require.NoError(t, err)

		assert.Equal(t, config.DefaultSendEndpoint, cfg.SendEndpoint)
		assert.Equal(t, config.DefaultIIDEndpoint, cfg.IIDEndpoint)
		assert.Equal(t, config.DefaultRequestTimeout, cfg.RequestTimeout)
	})

	t.Run("Ignores malformed numeric overrides", func(t *testing.T) {
		t.Setenv("FCM_REQUEST_TIMEOUT_SECONDS", "soon")
		t.Setenv("FCM_MAX_RETRY_AFTER", "-1")

		cfg, err := config.UpdateConfigWithEnvOverrides(config.New("k"), newTestLogger())
		require.NoError(t, err)

		assert.Equal(t, config.DefaultRequestTimeout, cfg.RequestTimeout)
		assert.Equal(t, config.DefaultMaxRetryAfter, cfg.MaxRetryAfter)
	})
}
