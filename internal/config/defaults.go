package config

import (
	"os"
	"path/filepath"
)

// Default values for configuration options, the "layer 0" of the override
// chain. Chosen so the tool works with nothing but a credentials file.
const (
	// defaultWorkers of 1 means sequential depth-first replication.
	// Values above 1 enable parallel sibling fan-out.
	defaultWorkers    = 1
	defaultMaxRetries = 5
	defaultLogLevel   = "info"
	defaultTimeout    = "30s"
)

// DefaultConfig returns a Config populated with all default values.
// Used both as the starting point for TOML decoding (so unset fields retain
// defaults) and as the fallback when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Clone: CloneConfig{
			Workers:    defaultWorkers,
			MaxRetries: defaultMaxRetries,
		},
		Logging: LoggingConfig{
			LogLevel: defaultLogLevel,
		},
		Network: NetworkConfig{
			Timeout: defaultTimeout,
		},
	}
}

// DefaultConfigPath returns the platform config file location,
// e.g. ~/.config/gdrive-clone/config.toml on Linux.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}

	return filepath.Join(dir, "gdrive-clone", "config.toml")
}
