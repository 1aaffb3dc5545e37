package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Resolved is the effective configuration after the full override chain has
// been applied, with string durations parsed. This is what commands consume.
type Resolved struct {
	CredentialsFile string
	Workers         int
	MaxRetries      int
	LogLevel        string
	Timeout         time.Duration
}

// Load reads and parses a TOML config file, validates it, and returns the
// resulting Config. Unknown keys are fatal — silently ignoring a typo in a
// config file leads to hard-to-debug behavior.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if err := checkUnknownKeys(&md); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault reads a TOML config file if it exists, otherwise returns a
// Config populated with all default values. Supports running with nothing
// but --credentials or the credentials env var set.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}

	return Load(path)
}

// Resolve loads configuration and applies the override chain:
// defaults -> config file -> environment variables -> CLI flags.
func Resolve(env EnvOverrides, cli CLIOverrides) (*Resolved, error) {
	// 1. Resolve config path: CLI > env > default
	cfgPath := DefaultConfigPath()
	if env.ConfigPath != "" {
		cfgPath = env.ConfigPath
	}

	if cli.ConfigPath != "" {
		cfgPath = cli.ConfigPath
	}

	// 2. Load config file (returns defaults if no file exists)
	cfg, err := LoadOrDefault(cfgPath)
	if err != nil {
		return nil, err
	}

	resolved := &Resolved{
		CredentialsFile: cfg.Auth.CredentialsFile,
		Workers:         cfg.Clone.Workers,
		MaxRetries:      cfg.Clone.MaxRetries,
		LogLevel:        cfg.Logging.LogLevel,
	}

	// 3. Apply env overrides
	if env.CredentialsFile != "" {
		resolved.CredentialsFile = env.CredentialsFile
	}

	// 4. Apply CLI overrides (highest priority)
	if cli.CredentialsFile != "" {
		resolved.CredentialsFile = cli.CredentialsFile
	}

	if cli.Workers != 0 {
		resolved.Workers = cli.Workers
	}

	// Flag overrides bypass Load's validation, so the resolved value has to
	// be range-checked again.
	if resolved.Workers < minWorkers || resolved.Workers > maxWorkers {
		return nil, fmt.Errorf("workers must be between %d and %d, got %d", minWorkers, maxWorkers, resolved.Workers)
	}

	// Timeout was validated by Load; parse errors only occur for the
	// default-config path, where the default is known good.
	resolved.Timeout, err = time.ParseDuration(cfg.Network.Timeout)
	if err != nil {
		return nil, fmt.Errorf("parsing network timeout: %w", err)
	}

	return resolved, nil
}

// checkUnknownKeys inspects TOML metadata for undecoded keys and returns an
// error listing them, so typos surface immediately instead of being ignored.
func checkUnknownKeys(md *toml.MetaData) error {
	undecoded := md.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}

	keys := make([]string, 0, len(undecoded))
	for _, k := range undecoded {
		keys = append(keys, k.String())
	}

	sort.Strings(keys)

	return fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
}
