package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdirTest(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 2022, cfg.Server.Port)
	assert.Equal(t, ":2022", cfg.Server.Address())
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "data/maturity.db", cfg.Database.ConnectionString())
	assert.True(t, cfg.Seed.OnStart)
	assert.Equal(t, 30*time.Second, cfg.AI.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Server.AllowedOrigins)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	chdirTest(t, t.TempDir())
	t.Setenv("MATURITY_SERVER_PORT", "9090")
	t.Setenv("MATURITY_DATABASE_DRIVER", "postgres")
	t.Setenv("MATURITY_DATABASE_DSN", "host=localhost user=maturity dbname=maturity sslmode=disable")
	t.Setenv("MATURITY_SERVER_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("MATURITY_AI_TIMEOUT", "5s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Contains(t, cfg.Database.ConnectionString(), "dbname=maturity")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 5*time.Second, cfg.AI.Timeout)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdirTest(t, dir)
	path := filepath.Join(dir, "maturity.yaml")
	content := "server:\n  port: 3000\nlog:\n  level: debug\n  format: json\nseed:\n  on_start: false\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.Seed.OnStart)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdirTest(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MATURITY_LOG_LEVEL=warn\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("MATURITY_LOG_LEVEL") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:   ServerConfig{Port: 2022},
			Database: DatabaseConfig{Driver: "sqlite", Path: "x.db"},
			Log:      LogConfig{Level: "info", Format: "text"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{name: "valid", mutate: func(*Config) {}, ok: true},
		{name: "port zero", mutate: func(c *Config) { c.Server.Port = 0 }},
		{name: "port too large", mutate: func(c *Config) { c.Server.Port = 70000 }},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }},
		{name: "sqlite without path", mutate: func(c *Config) { c.Database.Path = "" }},
		{name: "postgres without dsn", mutate: func(c *Config) { c.Database.Driver = "postgres" }},
		{name: "bad level", mutate: func(c *Config) { c.Log.Level = "loud" }},
		{name: "bad format", mutate: func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestConfigureLogger(t *testing.T) {
	logger := logrus.New()
	LogConfig{Level: "debug", Format: "json"}.ConfigureLogger(logger)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)
}

// chdirTest changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdirTest(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
