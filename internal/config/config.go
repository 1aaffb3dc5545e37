// Package config implements TOML configuration loading, validation, and
// override resolution for gdrive-clone. It supports a four-layer override
// chain (defaults -> config file -> environment -> CLI flags); CLI flags
// always win so one-off overrides never require editing the config file.
package config

// Config is the top-level configuration structure parsed from a TOML file.
type Config struct {
	Auth    AuthConfig    `toml:"auth"`
	Clone   CloneConfig   `toml:"clone"`
	Logging LoggingConfig `toml:"logging"`
	Network NetworkConfig `toml:"network"`
}

// AuthConfig locates the Google service account credentials. The account
// must have read access to the source tree and write access to the
// destination parent.
type AuthConfig struct {
	CredentialsFile string `toml:"credentials_file"`
}

// CloneConfig controls replication behavior: sibling fan-out width and the
// transient-failure retry budget.
type CloneConfig struct {
	Workers    int `toml:"workers"`
	MaxRetries int `toml:"max_retries"`
}

// LoggingConfig controls log output behavior.
type LoggingConfig struct {
	LogLevel string `toml:"log_level"`
}

// NetworkConfig controls HTTP client behavior.
type NetworkConfig struct {
	Timeout string `toml:"timeout"`
}

// CLIOverrides holds values from command-line flags, the highest-priority
// layer of the override chain. Zero values mean "not set".
type CLIOverrides struct {
	ConfigPath      string
	CredentialsFile string
	Workers         int
}
