// Package config provides layered configuration for spec-dock using koanf.
// Configuration is loaded with priority: environment variables (SPEC_DOCK_*) >
// config file (--config, else ~/.config/spec-dock/config.yml) > defaults.
// Command-line flags are applied on top by the cli package.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "SPEC_DOCK_"

// ConfigSource tracks where the file layer came from.
type ConfigSource string

const (
	SourceDefault ConfigSource = "default"
	SourceUser    ConfigSource = "user"
	SourceFlag    ConfigSource = "flag"
)

// Configuration represents the spec-dock CLI configuration.
type Configuration struct {
	// AssetsDir reads the bundle from a directory instead of the embedded copy.
	// Can be set via SPEC_DOCK_ASSETS_DIR.
	AssetsDir string `koanf:"assets_dir"`

	// NoSkill is the default for --no-skill.
	NoSkill bool `koanf:"no_skill"`

	// NoColor disables colored error output.
	NoColor bool `koanf:"no_color"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`

	// Source records which file layer was loaded, if any.
	Source ConfigSource `koanf:"-"`
}

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// ConfigPath is an explicit config file (--config). It must exist.
	ConfigPath string
	// UserConfigPath overrides the user config location (for testing).
	UserConfigPath string
	// SkipUserConfig ignores the user config file entirely.
	SkipUserConfig bool
}

// Load loads configuration from defaults, the user or explicit config file,
// and the environment.
func Load(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")

	loadDefaults(k)

	source, err := loadFile(k, opts)
	if err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	cfg, err := finalizeConfig(k)
	if err != nil {
		return nil, err
	}
	cfg.Source = source
	return cfg, nil
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadFile loads the explicit config file if given, else the user config if
// it exists.
func loadFile(k *koanf.Koanf, opts LoadOptions) (ConfigSource, error) {
	if opts.ConfigPath != "" {
		if !fileExists(opts.ConfigPath) {
			return "", fmt.Errorf("config file not found: %s", opts.ConfigPath)
		}
		if err := loadYAMLConfig(k, opts.ConfigPath); err != nil {
			return "", err
		}
		return SourceFlag, nil
	}

	if opts.SkipUserConfig {
		return SourceDefault, nil
	}

	path := opts.UserConfigPath
	if path == "" {
		var err error
		if path, err = UserConfigPath(); err != nil {
			// No resolvable config dir (e.g. HOME unset): run on defaults.
			return SourceDefault, nil
		}
	}
	if !fileExists(path) {
		return SourceDefault, nil
	}
	if err := loadYAMLConfig(k, path); err != nil {
		return "", err
	}
	return SourceUser, nil
}

// loadYAMLConfig validates and loads a YAML config file
func loadYAMLConfig(k *koanf.Koanf, path string) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax: %w", err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals, validates, and applies final transformations
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.AssetsDir = expandHomePath(cfg.AssetsDir)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))

	return &cfg, nil
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys
// Example: SPEC_DOCK_ASSETS_DIR -> assets_dir
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
