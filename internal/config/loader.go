package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EmbeddedSource names data that came from the binary's built-in defaults.
const EmbeddedSource = "embedded"

// ReadLayered returns the bytes of the first file found for name.
// Search order: customPath -> ~/.brickdungeon/configs/<name> -> ./configs/<name> -> embedded.
// The second return value names where the data came from.
func ReadLayered(customPath, name string, embedded []byte) ([]byte, string, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return nil, customPath, fmt.Errorf("failed to read %s: %w", customPath, err)
		}
		return data, customPath, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(name); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			return data, userCfgPath, nil
		}
	}

	// Try local configs directory
	local := filepath.Join("configs", name)
	if data, err := os.ReadFile(local); err == nil {
		return data, local, nil
	}

	return embedded, EmbeddedSource, nil
}

// LoadDungeon loads the tuning configuration.
// Search order: customPath -> ~/.brickdungeon/configs/dungeon.yaml -> ./configs/dungeon.yaml -> embedded default
func LoadDungeon(customPath string) (DungeonConfig, error) {
	data, source, err := ReadLayered(customPath, "dungeon.yaml", defaultDungeonYAML)
	if err != nil {
		return DungeonConfig{}, err
	}

	// Unset keys keep their built-in values
	cfg := DefaultDungeonConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		if source == EmbeddedSource {
			return DefaultDungeonConfig(), nil // Fallback to hardcoded if embed fails
		}
		return cfg, fmt.Errorf("failed to parse config %s: %w", source, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", source, err)
	}
	return cfg, nil
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".brickdungeon", "configs", filename)
}
