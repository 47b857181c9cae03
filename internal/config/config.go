// Package config handles loading and access to the bot configuration.
package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var log = logrus.WithField("prefix", "config")

// Config holds the application configuration.
type Config struct {
	Discord struct {
		Token         string   `yaml:"token"`                    // Bot token (mandatory for run)
		ApplicationID string   `yaml:"application_id,omitempty"` // Learned from the Ready event when empty
		SyncGuilds    []string `yaml:"sync_guilds,omitempty"`    // Empty means global sync
	} `yaml:"discord"`

	Log struct {
		Level string `yaml:"level,omitempty"` // e.g., debug, info, warn, error
	} `yaml:"log,omitempty"`

	// Settings seeds the blackboard command handlers read at runtime.
	Settings map[string]any `yaml:"settings,omitempty"`
}

const (
	defaultConfigDirName  = ".treesub"
	defaultConfigFileName = "config.yaml"
	defaultLogLevel       = "info"
)

// Load reads the configuration from path, or when path is empty from the
// standard locations. Priority: ./{fileName}, ~/{dirName}/{fileName}.
// When no file exists the defaults are returned.
func Load(path string) (*Config, error) {
	if path != "" {
		cfg, err := loadFromFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "error reading config from %s", path)
		}
		log.WithField("path", path).Debug("Configuration loaded")
		return cfg, nil
	}

	candidates := []string{defaultConfigFileName}
	if homeDir, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(homeDir, defaultConfigDirName, defaultConfigFileName))
	}
	for _, p := range candidates {
		cfg, err := loadFromFile(p)
		if err == nil {
			log.WithField("path", p).Debug("Configuration loaded")
			return cfg, nil
		}
		if !os.IsNotExist(errors.Cause(err)) {
			return nil, errors.Wrapf(err, "error reading config from %s", p)
		}
	}

	log.Warn("No config file found, using default settings")
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg, nil
}

func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal config yaml %s", filePath)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// applyDefaults ensures essential fields have default values if not set.
func applyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultLogLevel
	}
	if cfg.Settings == nil {
		cfg.Settings = make(map[string]any)
	}
}

// Defaults returns the configuration written by WriteDefault.
func Defaults() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Settings["debug"] = false
	cfg.Settings["version"] = "1.0.0"
	return cfg
}

// WriteDefault writes a starter configuration to path. It refuses to
// overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Errorf("config file %s already exists", path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return errors.Wrapf(err, "create config directory %s", dir)
		}
	}
	data, err := yaml.Marshal(Defaults())
	if err != nil {
		return errors.Wrap(err, "marshal default config")
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrapf(err, "write config %s", path)
	}
	return nil
}
