package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// mergeFile overlays the values present in a TOML file onto c. Keys missing
// from the file keep their current value.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}
