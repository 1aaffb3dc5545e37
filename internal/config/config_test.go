package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig writes a config file into a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_Valid(t *testing.T) {
	path := writeConfig(t, `
[auth]
credentials_file = "/secrets/sa.json"

[clone]
workers = 8
max_retries = 3

[logging]
log_level = "debug"

[network]
timeout = "45s"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/secrets/sa.json", cfg.Auth.CredentialsFile)
	assert.Equal(t, 8, cfg.Clone.Workers)
	assert.Equal(t, 3, cfg.Clone.MaxRetries)
	assert.Equal(t, "debug", cfg.Logging.LogLevel)
	assert.Equal(t, "45s", cfg.Network.Timeout)
}

func TestLoad_DefaultsRetainedForUnsetFields(t *testing.T) {
	path := writeConfig(t, `
[auth]
credentials_file = "/secrets/sa.json"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, defaultWorkers, cfg.Clone.Workers)
	assert.Equal(t, defaultMaxRetries, cfg.Clone.MaxRetries)
	assert.Equal(t, defaultLogLevel, cfg.Logging.LogLevel)
}

func TestLoad_UnknownKeyIsFatal(t *testing.T) {
	path := writeConfig(t, `
[clone]
wokers = 8
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config keys")
	assert.Contains(t, err.Error(), "wokers")
}

func TestLoad_InvalidValues(t *testing.T) {
	path := writeConfig(t, `
[clone]
workers = 0
max_retries = 99

[logging]
log_level = "loud"

[network]
timeout = "fast"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clone.workers")
	assert.Contains(t, err.Error(), "clone.max_retries")
	assert.Contains(t, err.Error(), "logging.log_level")
	assert.Contains(t, err.Error(), "network.timeout")
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, defaultWorkers, cfg.Clone.Workers)
}

func TestResolve_OverrideChain(t *testing.T) {
	path := writeConfig(t, `
[auth]
credentials_file = "/from/file.json"

[clone]
workers = 4
`)

	// Config file only.
	resolved, err := Resolve(EnvOverrides{ConfigPath: path}, CLIOverrides{})
	require.NoError(t, err)
	assert.Equal(t, "/from/file.json", resolved.CredentialsFile)
	assert.Equal(t, 4, resolved.Workers)
	assert.Equal(t, 30*time.Second, resolved.Timeout)

	// Env beats file.
	resolved, err = Resolve(
		EnvOverrides{ConfigPath: path, CredentialsFile: "/from/env.json"},
		CLIOverrides{},
	)
	require.NoError(t, err)
	assert.Equal(t, "/from/env.json", resolved.CredentialsFile)

	// CLI beats env and file.
	resolved, err = Resolve(
		EnvOverrides{ConfigPath: path, CredentialsFile: "/from/env.json"},
		CLIOverrides{CredentialsFile: "/from/cli.json", Workers: 16},
	)
	require.NoError(t, err)
	assert.Equal(t, "/from/cli.json", resolved.CredentialsFile)
	assert.Equal(t, 16, resolved.Workers)
}

func TestResolve_CLIConfigPathBeatsEnv(t *testing.T) {
	envPath := writeConfig(t, `
[clone]
workers = 2
`)
	cliPath := writeConfig(t, `
[clone]
workers = 9
`)

	resolved, err := Resolve(
		EnvOverrides{ConfigPath: envPath},
		CLIOverrides{ConfigPath: cliPath},
	)
	require.NoError(t, err)
	assert.Equal(t, 9, resolved.Workers)
}

func TestResolve_FlagWorkersRangeChecked(t *testing.T) {
	path := writeConfig(t, `
[clone]
workers = 4
`)

	// The flag bypasses file-level validation, so the resolved value must
	// still be rejected when out of range.
	for _, workers := range []int{1000, -3} {
		_, err := Resolve(EnvOverrides{ConfigPath: path}, CLIOverrides{Workers: workers})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "workers must be between")
	}

	resolved, err := Resolve(EnvOverrides{ConfigPath: path}, CLIOverrides{Workers: 64})
	require.NoError(t, err)
	assert.Equal(t, 64, resolved.Workers)
}

func TestReadEnvOverrides(t *testing.T) {
	t.Setenv(EnvConfig, "/env/config.toml")
	t.Setenv(EnvCredentials, "/env/creds.json")

	env := ReadEnvOverrides()
	assert.Equal(t, "/env/config.toml", env.ConfigPath)
	assert.Equal(t, "/env/creds.json", env.CredentialsFile)
}
