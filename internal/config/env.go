package config

import "os"

// Environment variable names for overrides.
const (
	EnvConfig      = "GDRIVE_CLONE_CONFIG"
	EnvCredentials = "GDRIVE_CLONE_CREDENTIALS"
)

// EnvOverrides holds values derived from environment variables.
type EnvOverrides struct {
	ConfigPath      string // GDRIVE_CLONE_CONFIG: override config file path
	CredentialsFile string // GDRIVE_CLONE_CREDENTIALS: override credentials path
}

// ReadEnvOverrides reads environment variables and returns any overrides
// found. This does not modify the Config; callers apply the relevant fields.
func ReadEnvOverrides() EnvOverrides {
	return EnvOverrides{
		ConfigPath:      os.Getenv(EnvConfig),
		CredentialsFile: os.Getenv(EnvCredentials),
	}
}
