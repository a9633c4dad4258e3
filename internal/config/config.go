package config

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	// SMTP submission settings. The account password is deliberately not
	// part of the file; it is read from the WHITEMAIL_SMTP_PASSWORD
	// environment variable (a .env file is honored).
	SMTP struct {
		Host   string `toml:"host"`
		Port   int    `toml:"port"`
		Sender string `toml:"sender"`
	} `toml:"smtp"`

	// Workflow paths
	Paths struct {
		// Roster is the batch-send roster spreadsheet (MU批量发送列表.xlsx)
		Roster string `toml:"roster"`
		// TargetDir holds one folder per recipient email address
		TargetDir string `toml:"target_dir"`
		// SourceDir is where the upstream splitter drops per-agreement files
		SourceDir string `toml:"source_dir"`
	} `toml:"paths"`

	// Send behavior
	Send struct {
		// DelaySeconds is the pause between consecutive messages
		DelaySeconds int `toml:"delay_seconds"`
	} `toml:"send"`

	// Logging configuration
	Logging struct {
		Level string `toml:"level"`
	} `toml:"logging"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.SMTP.Host = "smtp.example.com"
	cfg.SMTP.Port = 587
	cfg.SMTP.Sender = "sender@example.com"

	cfg.Paths.Roster = "MU批量发送列表.xlsx"
	cfg.Paths.TargetDir = "target"
	cfg.Paths.SourceDir = "output"

	cfg.Send.DelaySeconds = 2

	cfg.Logging.Level = "info"

	return cfg
}

// defaultSearchPaths are tried in order when no explicit path is given
var defaultSearchPaths = []string{
	"whitemail.toml",
	filepath.Join("config", "whitemail.toml"),
}

// Load reads the configuration from path, or from the default search
// paths when path is empty. A missing file with an empty path yields
// the defaults; an explicit path that cannot be read is an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		for _, p := range defaultSearchPaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the configuration for values the workflow cannot run without
func (c *Config) Validate() error {
	if c.SMTP.Host == "" {
		return fmt.Errorf("smtp.host is required")
	}
	if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
		return fmt.Errorf("smtp.port %d is out of range", c.SMTP.Port)
	}
	if c.SMTP.Sender == "" {
		return fmt.Errorf("smtp.sender is required")
	}
	if c.Paths.Roster == "" {
		return fmt.Errorf("paths.roster is required")
	}
	if c.Paths.TargetDir == "" {
		return fmt.Errorf("paths.target_dir is required")
	}
	if c.Send.DelaySeconds < 0 {
		return fmt.Errorf("send.delay_seconds must not be negative")
	}
	return nil
}

// Generate writes the default configuration to path
func Generate(path string) error {
	data, err := toml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshaling default config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}

	return nil
}
