package config

import "github.com/spec-dock/spec-dock/internal/logging"

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"assets_dir": "",
		"no_skill":   false,
		"no_color":   false,
		"log_level":  logging.LevelWarn,
		"log_format": logging.FormatText,
	}
}
