package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, 2, cfg.Send.DelaySeconds)
	assert.Equal(t, "info", cfg.Logging.Level)
	require.NoError(t, cfg.Validate())
}

func TestLoadExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "whitemail.toml")
	content := `
[smtp]
host = "smtp.partner.cn"
port = 465
sender = "ops@partner.cn"

[paths]
roster = "roster.xlsx"
target_dir = "/srv/whitelist/target"

[send]
delay_seconds = 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "smtp.partner.cn", cfg.SMTP.Host)
	assert.Equal(t, 465, cfg.SMTP.Port)
	assert.Equal(t, "/srv/whitelist/target", cfg.Paths.TargetDir)
	assert.Equal(t, 5, cfg.Send.DelaySeconds)
	// unset values keep their defaults
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}

func TestLoadEmptyPathFallsBackToDefaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer os.Chdir(wd)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing host", func(c *Config) { c.SMTP.Host = "" }},
		{"bad port", func(c *Config) { c.SMTP.Port = 0 }},
		{"port too large", func(c *Config) { c.SMTP.Port = 70000 }},
		{"missing sender", func(c *Config) { c.SMTP.Sender = "" }},
		{"missing roster", func(c *Config) { c.Paths.Roster = "" }},
		{"missing target dir", func(c *Config) { c.Paths.TargetDir = "" }},
		{"negative delay", func(c *Config) { c.Send.DelaySeconds = -1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestGenerateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "whitemail.toml")
	require.NoError(t, Generate(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}
