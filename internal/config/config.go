// Package config loads the CLI's YAML configuration file. Flags override
// whatever the file sets; the file just keeps per-work defaults out of
// shell history.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/FocuswithJustin/CedarBible/core/book"
	cedarerrors "github.com/FocuswithJustin/CedarBible/core/errors"
)

// AppName is used for the default config location.
const AppName = "cedar"

// Config holds the processing defaults for one work.
type Config struct {
	WorkName              string `yaml:"work_name,omitempty"`
	Format                string `yaml:"format,omitempty"` // usfm, usx, auto
	Strict                bool   `yaml:"strict,omitempty"`
	MaxNoncriticalNotices int    `yaml:"max_noncritical_notices,omitempty"`
	KeepAngleBrackets     bool   `yaml:"keep_angle_brackets,omitempty"`
	ReplaceStraightQuotes bool   `yaml:"replace_straight_quotes,omitempty"`
	LogLevel              string `yaml:"log_level,omitempty"`  // debug, info, warn, error
	LogFormat             string `yaml:"log_format,omitempty"` // json, text
}

// DefaultPath returns the default config file path.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", cedarerrors.Wrap(err, "getting home directory")
	}
	return filepath.Join(home, ".config", AppName, "config.yaml"), nil
}

// Load reads a config file. A missing file yields the zero config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, cedarerrors.Wrapf(err, "reading config %s", path)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, cedarerrors.Wrapf(err, "parsing config %s", path)
	}
	return &cfg, nil
}

// Save writes the config to path, creating parent directories.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return cedarerrors.Wrap(err, "marshaling config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return cedarerrors.Wrap(err, "creating config directory")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return cedarerrors.Wrapf(err, "writing config %s", path)
	}
	return nil
}

// Processing converts the file settings to a processing configuration.
// Angle-bracket replacement is on unless the file keeps them.
func (c *Config) Processing() book.ProcessingConfig {
	return book.ProcessingConfig{
		Strict:                c.Strict,
		MaxNoncriticalNotices: c.MaxNoncriticalNotices,
		ReplaceAngleBrackets:  !c.KeepAngleBrackets,
		ReplaceStraightQuotes: c.ReplaceStraightQuotes,
	}
}
