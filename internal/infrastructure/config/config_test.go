package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads from the environment.
// Viper treats empty values as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ANALYTICS_APP_NAME", "ANALYTICS_APP_ENV", "ANALYTICS_APP_PORT", "ANALYTICS_APP_DEFAULT_CLIENT",
		"ANALYTICS_WAREHOUSE_DRIVER", "ANALYTICS_WAREHOUSE_HOST", "ANALYTICS_WAREHOUSE_PORT",
		"ANALYTICS_WAREHOUSE_PASSWORD", "ANALYTICS_WAREHOUSE_MAX_OPEN_CONNS", "ANALYTICS_WAREHOUSE_MAX_IDLE_CONNS",
		"ANALYTICS_LLM_API_KEY", "ANALYTICS_LLM_MAX_STEPS", "ANALYTICS_STORAGE_ENABLED", "ANALYTICS_STORAGE_BUCKET",
		"ANALYTICS_GOOGLE_CREDENTIALS_FILE", "ANALYTICS_GOOGLE_OWNER_EMAIL",
		"ANALYTICS_TELEMETRY_DB_LOG_FULL_SQL", "ANALYTICS_HTTP_CORS_ALLOW_ORIGINS",
		"ANALYTICS_TELEMETRY_PROFILING_ENABLED", "ANALYTICS_TELEMETRY_PROFILING_SERVER_ADDRESS",
		"ANTHROPIC_API_KEY", "GOOGLE_APPLICATION_CREDENTIALS", "GOOGLE_WORKSPACE_OWNER_EMAIL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "rooted-analytics", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "jumbomax", cfg.App.DefaultClient)
		assert.Equal(t, "postgres", cfg.Warehouse.Driver)
		assert.Equal(t, "localhost", cfg.Warehouse.Host)
		assert.Equal(t, 5432, cfg.Warehouse.Port)
		assert.Equal(t, "analytics", cfg.Warehouse.DBName)
		assert.Equal(t, 25, cfg.Warehouse.MaxOpenConns)
		assert.Equal(t, 5, cfg.Warehouse.MaxIdleConns)
		assert.Equal(t, 60*time.Second, cfg.Warehouse.QueryTimeout)
		assert.Equal(t, 10, cfg.LLM.MaxSteps)
		assert.Equal(t, 4096, cfg.LLM.MaxTokens)
		assert.Equal(t, cfg.LLM.Model, cfg.LLM.ExtractionModel)
		assert.Equal(t, "1rR77jye0X8ZO2tXWLSHw2JJ4eU6u-ebG", cfg.Google.DriveFolderID)
		assert.Equal(t, 15*time.Minute, cfg.Redis.CacheTTL)
		assert.False(t, cfg.Redis.Enabled)
		assert.False(t, cfg.Storage.Enabled)
		assert.Equal(t, "rooted-analytics", cfg.Telemetry.ServiceName)
		assert.False(t, cfg.Telemetry.Profiling.Enabled)
		assert.Equal(t, "rooted-analytics", cfg.Telemetry.Profiling.ApplicationName)
		assert.Equal(t, []string{"cpu", "alloc_space", "inuse_space", "goroutines"}, cfg.Telemetry.Profiling.ProfileTypes)
		assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
		assert.Contains(t, cfg.HTTP.CORSAllowHeaders, "X-Client-ID")
	})

	t.Run("loads values from environment variables with ANALYTICS prefix", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ANALYTICS_APP_PORT", "9000")
		t.Setenv("ANALYTICS_APP_DEFAULT_CLIENT", "puttout")
		t.Setenv("ANALYTICS_WAREHOUSE_DRIVER", "sqlite")
		t.Setenv("ANALYTICS_WAREHOUSE_HOST", "warehouse.local")
		t.Setenv("ANALYTICS_WAREHOUSE_MAX_OPEN_CONNS", "50")
		t.Setenv("ANALYTICS_WAREHOUSE_MAX_IDLE_CONNS", "10")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "puttout", cfg.App.DefaultClient)
		assert.Equal(t, "sqlite", cfg.Warehouse.Driver)
		assert.Equal(t, "warehouse.local", cfg.Warehouse.Host)
		assert.Equal(t, 50, cfg.Warehouse.MaxOpenConns)
		assert.Equal(t, 10, cfg.Warehouse.MaxIdleConns)
	})

	t.Run("reads unprefixed provider variables", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ANTHROPIC_API_KEY", "sk-test")
		t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/secrets/sa.json")
		t.Setenv("GOOGLE_WORKSPACE_OWNER_EMAIL", "owner@example.com")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "sk-test", cfg.LLM.APIKey)
		assert.Equal(t, "/secrets/sa.json", cfg.Google.CredentialsFile)
		assert.Equal(t, "owner@example.com", cfg.Google.OwnerEmail)
	})

	t.Run("prefixed variable wins over the provider variable", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ANALYTICS_LLM_API_KEY", "sk-prefixed")
		t.Setenv("ANTHROPIC_API_KEY", "sk-plain")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "sk-prefixed", cfg.LLM.APIKey)
	})
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "idle conns cannot exceed open conns",
			env:     map[string]string{"ANALYTICS_WAREHOUSE_MAX_OPEN_CONNS": "10", "ANALYTICS_WAREHOUSE_MAX_IDLE_CONNS": "20"},
			wantErr: "cannot exceed",
		},
		{
			name:    "idle conns cannot be negative",
			env:     map[string]string{"ANALYTICS_WAREHOUSE_MAX_IDLE_CONNS": "-1"},
			wantErr: "max_idle_conns cannot be negative",
		},
		{
			name:    "unknown warehouse driver",
			env:     map[string]string{"ANALYTICS_WAREHOUSE_DRIVER": "bigquery"},
			wantErr: "warehouse.driver must be postgres or sqlite",
		},
		{
			name:    "storage enabled without bucket",
			env:     map[string]string{"ANALYTICS_STORAGE_ENABLED": "true"},
			wantErr: "storage.bucket is required",
		},
		{
			name:    "production requires warehouse password",
			env:     map[string]string{"ANALYTICS_APP_ENV": "production", "ANTHROPIC_API_KEY": "k"},
			wantErr: "warehouse.password is required in production",
		},
		{
			name:    "production requires api key",
			env:     map[string]string{"ANALYTICS_APP_ENV": "production", "ANALYTICS_WAREHOUSE_PASSWORD": "p"},
			wantErr: "llm.api_key",
		},
		{
			name: "production forbids full SQL in traces",
			env: map[string]string{
				"ANALYTICS_APP_ENV": "production", "ANALYTICS_WAREHOUSE_PASSWORD": "p", "ANTHROPIC_API_KEY": "k",
				"ANALYTICS_TELEMETRY_DB_LOG_FULL_SQL": "true",
			},
			wantErr: "db_log_full_sql",
		},
		{
			name:    "profiling enabled without server",
			env:     map[string]string{"ANALYTICS_TELEMETRY_PROFILING_ENABLED": "true"},
			wantErr: "telemetry.profiling.server_address is required",
		},
		{
			name: "profiling enabled with server",
			env: map[string]string{
				"ANALYTICS_TELEMETRY_PROFILING_ENABLED":        "true",
				"ANALYTICS_TELEMETRY_PROFILING_SERVER_ADDRESS": "http://pyroscope:4040",
			},
		},
		{
			name: "valid production config",
			env: map[string]string{
				"ANALYTICS_APP_ENV": "production", "ANALYTICS_WAREHOUSE_PASSWORD": "p", "ANTHROPIC_API_KEY": "k",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, cfg)
		})
	}
}

func TestConfig_ValidateClients(t *testing.T) {
	cfg := &Config{Clients: []ClientConfig{{ID: "acme"}, {ID: "acme"}}}
	applyDefaults(cfg)
	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `client "acme" configured twice`)

	cfg.Clients = []ClientConfig{{Name: "no id"}}
	require.Error(t, cfg.validate())

	cfg.Clients = []ClientConfig{{ID: "acme", MonthlyTarget: 1000}}
	assert.NoError(t, cfg.validate())
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "/testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{Host: "localhost", Port: 5432, User: "user", Password: "pass@word#123", DBName: "db", SSLMode: "disable"}
		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}

func TestRedisConfig_Addr(t *testing.T) {
	r := RedisConfig{Host: "cache", Port: 6380}
	assert.Equal(t, "cache:6380", r.Addr())
}
