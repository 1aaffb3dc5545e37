package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/nickhilton/gdrive-clone/internal/config"
	"github.com/nickhilton/gdrive-clone/internal/drive"
)

// version is set at build time via ldflags.
var version = "dev"

// Global persistent flags, bound in newRootCmd().
var (
	flagConfigPath  string
	flagCredentials string
	flagWorkers     int
	flagJSON        bool
	flagVerbose     bool
	flagQuiet       bool
)

// resolvedCfg holds the effective configuration loaded by PersistentPreRunE.
// It is available to all subcommands after the root pre-run phase completes.
var resolvedCfg *config.Resolved

// newRootCmd builds and returns the fully-assembled root command with all
// subcommands registered. Called once from main().
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "gdrive-clone",
		Short:   "Clone Google Drive folder trees",
		Long:    "Recursively duplicate a Google Drive folder and all its contents into a new destination folder.",
		Version: version,
		// Silence Cobra's default error/usage printing — we handle it ourselves.
		SilenceErrors: true,
		SilenceUsage:  true,
		// PersistentPreRunE loads configuration before every command.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadConfig(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "config file path")
	cmd.PersistentFlags().StringVar(&flagCredentials, "credentials", "", "service account credentials JSON path")
	cmd.PersistentFlags().IntVar(&flagWorkers, "workers", 0, "parallel sibling workers (1 = sequential)")
	cmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output in JSON format")
	cmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress informational output")

	// Register subcommands.
	cmd.AddCommand(newCloneCmd())
	cmd.AddCommand(newLsCmd())
	cmd.AddCommand(newStatCmd())

	return cmd
}

// loadConfig resolves the effective configuration from the override chain
// and stores the result in resolvedCfg for use by subcommands.
func loadConfig(cmd *cobra.Command) error {
	cli := config.CLIOverrides{
		ConfigPath:      flagConfigPath,
		CredentialsFile: flagCredentials,
	}

	// Only pass --workers to the resolver if the user explicitly set it.
	if cmd.Flags().Changed("workers") {
		cli.Workers = flagWorkers
	}

	env := config.ReadEnvOverrides()

	resolved, err := config.Resolve(env, cli)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	resolvedCfg = resolved

	return nil
}

// buildLogger creates an slog.Logger configured by the resolved config and
// CLI flags. Config-file log level provides the baseline; --verbose and
// --quiet override it because CLI flags always win.
func buildLogger() *slog.Logger {
	level := slog.LevelInfo

	// Config-based log level (lower priority than CLI flags).
	if resolvedCfg != nil {
		switch resolvedCfg.LogLevel {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}

	// CLI flags override config (highest priority).
	if flagVerbose {
		level = slog.LevelDebug
	}

	if flagQuiet {
		level = slog.LevelError
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newDriveClient builds an authenticated Drive client from the resolved
// config. The credentials path must be configured via config file, env, or
// the --credentials flag.
func newDriveClient(ctx context.Context, logger *slog.Logger) (*drive.Client, error) {
	if resolvedCfg.CredentialsFile == "" {
		return nil, fmt.Errorf("no credentials configured — set auth.credentials_file, %s, or --credentials",
			config.EnvCredentials)
	}

	token, err := drive.ServiceAccountTokenSource(ctx, resolvedCfg.CredentialsFile)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: resolvedCfg.Timeout}

	client := drive.NewClient(drive.DefaultBaseURL, httpClient, token, logger)
	client.SetMaxRetries(resolvedCfg.MaxRetries)

	return client, nil
}

// exitOnError prints a user-friendly error message to stderr and exits.
func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
