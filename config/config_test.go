package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef-secret"

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr bool
		check   func(*testing.T, *Config)
	}{
		{
			name: "default configuration",
			envVars: map[string]string{
				"JWT_SECRET": testSecret,
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "production", cfg.Environment)
				assert.True(t, cfg.IsProduction())
				assert.False(t, cfg.IsDevelopment())
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 8000, cfg.Server.Port)
				assert.Equal(t, "0.0.0.0:8000", cfg.Server.Address())
				assert.Equal(t, "sqlite", cfg.Database.Driver)
				assert.Equal(t, 30*time.Minute, cfg.GetTokenTTL())
				assert.Equal(t, "intranet-users", cfg.GetIssuer())
				assert.Equal(t, "user", cfg.GetContextKey())
				assert.Equal(t, []string{"*"}, cfg.CORS.AllowOrigins)
			},
		},
		{
			name: "production configuration",
			envVars: map[string]string{
				"ENVIRONMENT":   "production",
				"SERVER_PORT":   "9000",
				"DB_DRIVER":     "postgres",
				"DATABASE_URL":  "postgres://app:secret@db:5432/intranet",
				"JWT_SECRET":    testSecret,
				"JWT_TTL":       "45m",
				"PASSWORD_COST": "12",
				"CORS_ORIGINS":  "https://intranet.example.com, https://admin.example.com",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.IsProduction())
				assert.Equal(t, 9000, cfg.Server.Port)
				assert.Equal(t, "postgres", cfg.Database.Driver)
				assert.Equal(t, 45*time.Minute, cfg.GetTokenTTL())
				assert.Equal(t, 12, cfg.GetPasswordCost())
				assert.Equal(t, []string{"https://intranet.example.com", "https://admin.example.com"}, cfg.CORS.AllowOrigins)
			},
		},
		{
			name: "development opt in",
			envVars: map[string]string{
				"JWT_SECRET":  testSecret,
				"ENVIRONMENT": "development",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.IsDevelopment())
				assert.False(t, cfg.IsProduction())
			},
		},
		{
			name: "ttl in bare seconds",
			envVars: map[string]string{
				"JWT_SECRET": testSecret,
				"JWT_TTL":    "1800",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 30*time.Minute, cfg.GetTokenTTL())
			},
		},
		{
			name:    "missing secret",
			envVars: map[string]string{},
			wantErr: true,
		},
		{
			name: "short secret",
			envVars: map[string]string{
				"JWT_SECRET": "short",
			},
			wantErr: true,
		},
		{
			name: "unknown driver",
			envVars: map[string]string{
				"JWT_SECRET": testSecret,
				"DB_DRIVER":  "mysql",
			},
			wantErr: true,
		},
		{
			name: "cost out of range",
			envVars: map[string]string{
				"JWT_SECRET":    testSecret,
				"PASSWORD_COST": "40",
			},
			wantErr: true,
		},
		{
			name: "bad log format",
			envVars: map[string]string{
				"JWT_SECRET": testSecret,
				"LOG_FORMAT": "xml",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides a key that is present, even when empty
	require.NoError(t, os.Unsetenv("JWT_SECRET"))
	require.NoError(t, os.Unsetenv("APP_NAME"))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("JWT_SECRET="+testSecret+"\nAPP_NAME=from-dotenv\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.AppName)
	assert.Equal(t, testSecret, cfg.GetSigningKey())
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENVIRONMENT", "APP_NAME", "SERVER_HOST", "SERVER_PORT", "SERVER_READ_TIMEOUT",
		"SERVER_WRITE_TIMEOUT", "SERVER_SHUTDOWN_TIMEOUT", "DB_DRIVER", "DATABASE_URL",
		"JWT_SECRET", "JWT_TTL", "JWT_ISSUER", "PASSWORD_COST", "LOG_LEVEL", "LOG_FORMAT",
		"CORS_ORIGINS",
	} {
		t.Setenv(key, "")
	}
}
