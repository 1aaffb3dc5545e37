package config

import (
	"errors"
	"fmt"
	"time"
)

// Validation range constants.
const (
	minWorkers    = 1
	maxWorkers    = 64
	maxRetryCap   = 10
	minNetTimeout = 1 * time.Second
)

// validLogLevels are the accepted log_level values.
var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

// Validate checks all configuration values and returns all errors found.
// It accumulates every error rather than stopping at the first, so users
// see a complete report and can fix all issues in one pass.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Clone.Workers < minWorkers || cfg.Clone.Workers > maxWorkers {
		errs = append(errs, fmt.Errorf("clone.workers must be between %d and %d, got %d",
			minWorkers, maxWorkers, cfg.Clone.Workers))
	}

	if cfg.Clone.MaxRetries < 0 || cfg.Clone.MaxRetries > maxRetryCap {
		errs = append(errs, fmt.Errorf("clone.max_retries must be between 0 and %d, got %d",
			maxRetryCap, cfg.Clone.MaxRetries))
	}

	if !validLogLevels[cfg.Logging.LogLevel] {
		errs = append(errs, fmt.Errorf("logging.log_level must be one of debug, info, warn, error; got %q",
			cfg.Logging.LogLevel))
	}

	if d, err := time.ParseDuration(cfg.Network.Timeout); err != nil {
		errs = append(errs, fmt.Errorf("network.timeout is not a valid duration: %q", cfg.Network.Timeout))
	} else if d < minNetTimeout {
		errs = append(errs, fmt.Errorf("network.timeout must be at least %s, got %s", minNetTimeout, d))
	}

	return errors.Join(errs...)
}
