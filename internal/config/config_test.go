package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("CF_STRING", "value")
	t.Setenv("CF_EMPTY", "")
	t.Setenv("CF_INT", "42")
	t.Setenv("CF_BAD_INT", "forty")
	t.Setenv("CF_DURATION", "90s")
	t.Setenv("CF_BOOL", "true")

	assert.Equal(t, "value", GetEnv("CF_STRING", "default"))
	assert.Equal(t, "default", GetEnv("CF_EMPTY", "default"))
	assert.Equal(t, "default", GetEnv("CF_MISSING", "default"))
	assert.Equal(t, 42, GetIntEnv("CF_INT", 1))
	assert.Equal(t, 1, GetIntEnv("CF_BAD_INT", 1))
	assert.Equal(t, 90*time.Second, GetDurationEnv("CF_DURATION", time.Second))
	assert.Equal(t, time.Second, GetDurationEnv("CF_MISSING", time.Second))
	assert.True(t, GetBoolEnv("CF_BOOL", false))
	assert.False(t, GetBoolEnv("CF_MISSING", false))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ORDER_PROCESSOR", "stripe")
	t.Setenv("VAULT_STRICT_APPROVAL", "1")

	cfg := Load()

	assert.Equal(t, "stripe", cfg.API.OrderProcessor)
	assert.True(t, cfg.API.StrictVaultApproval)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.NotEmpty(t, cfg.Server.Port)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name: "development accepts defaults",
			env:  map[string]string{"ENV": "development"},
		},
		{
			name:    "production rejects default jwt secret",
			env:     map[string]string{"ENV": "production", "WEBHOOK_SECRET": "whsec"},
			wantErr: "JWT_SECRET must be set in production",
		},
		{
			name:    "production rejects default webhook secret",
			env:     map[string]string{"ENV": "production", "JWT_SECRET": "jwt"},
			wantErr: "WEBHOOK_SECRET must be set in production",
		},
		{
			name: "production with explicit secrets",
			env:  map[string]string{"ENV": "production", "JWT_SECRET": "jwt", "WEBHOOK_SECRET": "whsec"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "")
			t.Setenv("WEBHOOK_SECRET", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			err := Load().Validate()

			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}
