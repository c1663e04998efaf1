package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		envVars   map[string]string
		wantErr   string
		checkFunc func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid minimal config",
			yaml: `
database:
  host: localhost
  name: testdb
  user: testuser
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "localhost", cfg.Database.Host)
				assert.Equal(t, "testdb", cfg.Database.Name)
				assert.Equal(t, "testuser", cfg.Database.User)
			},
		},
		{
			name: "defaults applied for optional fields",
			yaml: `
database:
  host: localhost
  name: testdb
  user: testuser
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "disable", cfg.Database.SSLMode)
				assert.Equal(t, 10, cfg.Database.PoolSize)
				assert.Equal(t, "https://www.trovaprezzi.it", cfg.Scraper.BaseURL)
				assert.Equal(t, "basket-deal-tracker/1.0", cfg.Scraper.UserAgent)
				assert.Equal(t, 30*time.Second, cfg.Scraper.FetchTimeout)
				assert.Equal(t, 1.0, cfg.Scraper.RateLimit.PerSecond)
				assert.Equal(t, 3, cfg.Scraper.RateLimit.Burst)
				assert.Equal(t, int64(2000), cfg.Scraper.RateLimit.DailyLimit)
				assert.False(t, cfg.Refresh.Enabled)
				assert.Equal(t, 30*time.Minute, cfg.Refresh.Interval)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "text", cfg.Logging.Format)
			},
		},
		{
			name: "env var substitution",
			yaml: `
database:
  host: localhost
  name: testdb
  user: testuser
  password: "${TEST_DB_PASSWORD}"
`,
			envVars: map[string]string{
				"TEST_DB_PASSWORD": "secret123",
			},
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "secret123", cfg.Database.Password)
			},
		},
		{
			name: "missing required database.host",
			yaml: `
database:
  name: testdb
  user: testuser
`,
			wantErr: "database.host is required",
		},
		{
			name: "missing required database.name",
			yaml: `
database:
  host: localhost
  user: testuser
`,
			wantErr: "database.name is required",
		},
		{
			name: "missing required database.user",
			yaml: `
database:
  host: localhost
  name: testdb
`,
			wantErr: "database.user is required",
		},
		{
			name: "relative scraper base URL rejected",
			yaml: `
database:
  host: localhost
  name: testdb
  user: testuser
scraper:
  base_url: www.trovaprezzi.it
`,
			wantErr: "scraper.base_url must be an absolute URL",
		},
		{
			name: "refresh interval too short",
			yaml: `
database:
  host: localhost
  name: testdb
  user: testuser
refresh:
  enabled: true
  interval: 10s
`,
			wantErr: "refresh.interval must be at least 1m",
		},
		{
			name: "invalid logging level",
			yaml: `
database:
  host: localhost
  name: testdb
  user: testuser
logging:
  level: verbose
`,
			wantErr: `logging.level must be one of: debug, info, warn, error (got "verbose")`,
		},
		{
			name:    "invalid YAML",
			yaml:    `{{{not valid yaml`,
			wantErr: "parsing config YAML",
		},
		{
			name: "full config with overrides",
			yaml: `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: 60s
  write_timeout: 60s
database:
  host: db.example.com
  port: 5433
  name: bdt_prod
  user: admin
  password: pass
  sslmode: require
  pool_size: 20
scraper:
  base_url: https://staging.trovaprezzi.it
  user_agent: "Mozilla/5.0 (compatible; bdt/2.0)"
  fetch_timeout: 45s
  rate_limit:
    per_second: 0.5
    burst: 2
    daily_limit: 500
refresh:
  enabled: true
  interval: 2h
logging:
  level: debug
  format: json
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "127.0.0.1", cfg.Server.Host)
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 60*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "db.example.com", cfg.Database.Host)
				assert.Equal(t, 5433, cfg.Database.Port)
				assert.Equal(t, "require", cfg.Database.SSLMode)
				assert.Equal(t, 20, cfg.Database.PoolSize)
				assert.Equal(t, "https://staging.trovaprezzi.it", cfg.Scraper.BaseURL)
				assert.Equal(t, "Mozilla/5.0 (compatible; bdt/2.0)", cfg.Scraper.UserAgent)
				assert.Equal(t, 45*time.Second, cfg.Scraper.FetchTimeout)
				assert.Equal(t, 0.5, cfg.Scraper.RateLimit.PerSecond)
				assert.Equal(t, 2, cfg.Scraper.RateLimit.Burst)
				assert.Equal(t, int64(500), cfg.Scraper.RateLimit.DailyLimit)
				assert.True(t, cfg.Refresh.Enabled)
				assert.Equal(t, 2*time.Hour, cfg.Refresh.Interval)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Only parallelize tests that don't modify env vars.
			if len(tt.envVars) == 0 {
				t.Parallel()
			}

			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))

			cfg, err := Load(path)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)

			if tt.checkFunc != nil {
				tt.checkFunc(t, cfg)
			}
		})
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()

	_, err := Load("/nonexistent/path/config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Parallel()

	d := &DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		Name:     "bdt",
		User:     "bdt",
		Password: "secret",
		SSLMode:  "disable",
	}
	assert.Equal(t,
		"host=localhost port=5432 dbname=bdt user=bdt password=secret sslmode=disable",
		d.DSN(),
	)
}
