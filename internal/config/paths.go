package config

import (
	"os"
	"path/filepath"
)

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/spec-dock/config.yml
// - macOS: ~/Library/Application Support/spec-dock/config.yml
// - Windows: %APPDATA%\spec-dock\config.yml
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "spec-dock", "config.yml"), nil
}
