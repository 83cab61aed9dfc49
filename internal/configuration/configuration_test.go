package configuration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "info", config.Logger.Level)
	assert.Equal(t, ":8080", config.Server.Address)
	assert.Equal(t, "pointscalc_session", config.Server.Cookie)
	assert.Equal(t, 65, config.Engine.DefaultGoal)
	assert.Equal(t, 30*time.Minute, config.Sessions.Ttl)
	assert.Equal(t, 50, config.Sessions.History)
	assert.True(t, config.Metrics.Enabled)
	assert.Equal(t, "/metrics", config.Metrics.Path)
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
logger:
  level: debug
  file: /var/log/pointscalc.log
server:
  address: ":9090"
  static: ./web
  cookie: calc
engine:
  rules: ./rules.yaml
  default_goal: 150
sessions:
  ttl: 5m
  history: 10
metrics:
  enabled: false
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Logger.Level)
	assert.Equal(t, "/var/log/pointscalc.log", config.Logger.File)
	assert.Equal(t, 100, config.Logger.MaxSize)
	assert.Equal(t, ":9090", config.Server.Address)
	assert.Equal(t, "./web", config.Server.Static)
	assert.Equal(t, "calc", config.Server.Cookie)
	assert.Equal(t, "./rules.yaml", config.Engine.Rules)
	assert.Equal(t, 120, config.Engine.DefaultGoal, "default goal should be clamped")
	assert.Equal(t, 5*time.Minute, config.Sessions.Ttl)
	assert.Equal(t, 10, config.Sessions.History)
	assert.False(t, config.Metrics.Enabled)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":7070")
	t.Setenv("SESSIONS_TTL", "1h")

	config, err := LoadConfig(writeConfig(t, "server:\n  address: \":9090\"\n"))
	require.NoError(t, err)

	assert.Equal(t, ":7070", config.Server.Address)
	assert.Equal(t, time.Hour, config.Sessions.Ttl)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "error reading config file")
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"unsupported level": "logger:\n  level: verbose\n",
		"empty address":     "server:\n  address: \"\"\n",
		"empty cookie":      "server:\n  cookie: \"\"\n",
		"zero ttl":          "sessions:\n  ttl: 0s\n",
		"zero history":      "sessions:\n  history: 0\n",
		"relative metrics":  "metrics:\n  path: metrics\n",
		"bad rotation":      "logger:\n  file: app.log\n  max_size: 0\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, content))
			assert.ErrorContains(t, err, "invalid config")
		})
	}
}

func TestLoggerConfig_Validate(t *testing.T) {
	assert.Error(t, (&LoggerConfig{}).Validate())
	assert.NoError(t, (&LoggerConfig{Level: "WARNING"}).Validate())
}
