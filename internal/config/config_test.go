package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"NAVIGATOR_WS_URL", "NAVIGATOR_API_URL", "NAVIGATOR_RESPONSE_TIMEOUT",
		"NAVIGATOR_HTTP_TIMEOUT", "NAVIGATOR_USE_TRANSLATE", "PORT",
		"GATEWAY_CORS_ORIGINS", "GATEWAY_HEARTBEAT_INTERVAL", "LOG_LEVEL", "LOG_PRETTY",
		"ARK_API_KEY", "Model",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("NAVIGATOR_STATE_FILE", "/tmp/state.yaml")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "ws://localhost:8080/ws", cfg.Client.WebSocketURL)
	require.Equal(t, "http://localhost:8080/", cfg.Client.APIBaseURL)
	require.Equal(t, 30*time.Second, cfg.Client.ResponseTimeout)
	require.Equal(t, 10*time.Second, cfg.Client.HTTPTimeout)
	require.Equal(t, "/tmp/state.yaml", cfg.Client.StateFile)
	require.False(t, cfg.Client.UseTranslateAPI)
	require.Equal(t, ":8080", cfg.Server.Addr)
	require.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	require.Zero(t, cfg.Server.HeartbeatInterval)
	require.Equal(t, "info", cfg.Log.Level)
	require.False(t, cfg.AI.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("NAVIGATOR_API_URL", "https://api.example.com/prod")
	t.Setenv("NAVIGATOR_RESPONSE_TIMEOUT", "5")
	t.Setenv("NAVIGATOR_USE_TRANSLATE", "true")
	t.Setenv("PORT", "127.0.0.1:9000")
	t.Setenv("GATEWAY_CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("GATEWAY_JWT_SECRET", " secret ")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "https://api.example.com/prod/", cfg.Client.APIBaseURL)
	require.Equal(t, 5*time.Second, cfg.Client.ResponseTimeout)
	require.True(t, cfg.Client.UseTranslateAPI)
	require.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	require.Equal(t, "secret", cfg.Server.JWTSecret)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"NAVIGATOR_RESPONSE_TIMEOUT": "soon",
		"NAVIGATOR_HTTP_TIMEOUT":     "-1",
		"NAVIGATOR_USE_TRANSLATE":    "maybe",
		"PORT":                       "80 80",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestAIConfigEnabled(t *testing.T) {
	require.False(t, AIConfig{APIKey: "k"}.Enabled())
	require.True(t, AIConfig{APIKey: "k", Model: "m"}.Enabled())
	require.True(t, AIConfig{AccessKey: "a", SecretKey: "s", Model: "m"}.Enabled())
}
