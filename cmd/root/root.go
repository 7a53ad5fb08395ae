// Package root contains the root command for the application
package root

import (
	"errors"
	"fmt"

	"fjacquet/ledgerline/internal/config"
	"fjacquet/ledgerline/internal/container"
	"fjacquet/ledgerline/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input  string
	Output string
}

var (
	// Log is the shared logger instance for commands. It is replaced by the
	// configured logger once the container is built.
	Log = logging.NewLogrusAdapter("info", "text")

	// AppConfig holds the configuration loaded before every command runs.
	AppConfig *config.Config

	// AppContainer holds the wired dependencies for the running command.
	AppContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "ledgerline",
		Short: "A CLI tool to normalize vendors and detect recurring charges in bank transactions.",
		Long: `ledgerline is a CLI tool that turns raw bank statement descriptions into
clean vendor names, fingerprints transactions for deduplication, imports CSV
statements into a local SQLite ledger and detects recurring charges.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to ledgerline!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: bootstrap,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer == nil {
				return
			}
			if err := AppContainer.Close(); err != nil {
				Log.WithError(err).Warn("Failed to close container")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// SharedFlags holds the common flags accessible to all commands
	SharedFlags = CommonFlags{}

	// Configuration flags
	ConfigFile string
	LogLevel   string
	LogFormat  string
	Database   string
	RulesFile  string
	Delimiter  string
)

// flagKeys maps persistent flags onto configuration keys.
var flagKeys = map[string]string{
	"log-level":     "log.level",
	"log-format":    "log.format",
	"db":            "data.database",
	"rules":         "rules.file",
	"csv-delimiter": "csv.delimiter",
}

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file")

	Cmd.PersistentFlags().StringVar(&ConfigFile, "config", "", "Config file (default searches $HOME/.ledgerline, .ledgerline and .)")
	Cmd.PersistentFlags().StringVar(&LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	Cmd.PersistentFlags().StringVar(&LogFormat, "log-format", "", "Log format (text, json)")
	Cmd.PersistentFlags().StringVar(&Database, "db", "", "SQLite database path")
	Cmd.PersistentFlags().StringVar(&RulesFile, "rules", "", "Vendor rules YAML file")
	Cmd.PersistentFlags().StringVar(&Delimiter, "csv-delimiter", "", "CSV delimiter character")
}

// bootstrap loads configuration and builds the container before any command runs.
func bootstrap(cmd *cobra.Command, args []string) error {
	if _, err := config.LoadEnv(); err != nil {
		Log.WithError(err).Warn("Failed to load .env file")
	}

	overrides := make(map[string]interface{})
	for flag, key := range flagKeys {
		if f := cmd.Root().PersistentFlags().Lookup(flag); f != nil && f.Changed {
			overrides[key] = f.Value.String()
		}
	}

	cfg, err := config.InitializeConfig(ConfigFile, overrides)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	AppConfig = cfg
	AppContainer = c
	Log = c.GetLogger()
	return nil
}

// GetContainer returns the container built for the running command.
func GetContainer() (*container.Container, error) {
	if AppContainer == nil {
		return nil, errors.New("application container is not initialized")
	}
	return AppContainer, nil
}

// GetConfig returns the configuration loaded for the running command.
func GetConfig() *config.Config {
	return AppConfig
}

// GetLogger returns the shared command logger.
func GetLogger() logging.Logger {
	return Log
}
