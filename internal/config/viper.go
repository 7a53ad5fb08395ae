// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"strings"

	"fjacquet/ledgerline/internal/common"
	"fjacquet/ledgerline/internal/recurring"
	"fjacquet/ledgerline/internal/reprocess"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override (LEDGERLINE_LOG_LEVEL, ...).
const EnvPrefix = "LEDGERLINE"

const (
	minPageSize = 1
	maxPageSize = 10000
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Data struct {
		Database string `mapstructure:"database" yaml:"database"`
	} `mapstructure:"data" yaml:"data"`

	Rules struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"rules" yaml:"rules"`

	Recurring struct {
		GroupBy string `mapstructure:"group_by" yaml:"group_by"`
	} `mapstructure:"recurring" yaml:"recurring"`

	Reprocess struct {
		PageSize int `mapstructure:"page_size" yaml:"page_size"`
	} `mapstructure:"reprocess" yaml:"reprocess"`

	Import struct {
		Account string `mapstructure:"account" yaml:"account"`
	} `mapstructure:"import" yaml:"import"`
}

// Delimiter returns the CSV delimiter as a rune.
func (c *Config) Delimiter() rune {
	d, err := common.ParseDelimiter(c.CSV.Delimiter)
	if err != nil {
		return common.DefaultDelimiter
	}
	return d
}

// InitializeConfig loads configuration with the precedence
// defaults < config file < LEDGERLINE_* environment < overrides.
// configFile selects an explicit file; empty searches the standard locations.
// overrides holds values from command-line flags keyed like "log.level".
func InitializeConfig(configFile string, overrides map[string]interface{}) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.ledgerline")
		v.AddConfigPath(".ledgerline")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless given explicitly)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	// 5. Command-line overrides
	for key, value := range overrides {
		v.Set(key, value)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("data.database", "ledgerline.db")

	v.SetDefault("rules.file", "")

	v.SetDefault("recurring.group_by", string(recurring.GroupByVendor))

	v.SetDefault("reprocess.page_size", reprocess.DefaultPageSize)

	v.SetDefault("import.account", "")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if _, err := common.ParseDelimiter(config.CSV.Delimiter); err != nil || config.CSV.Delimiter == "" {
		return fmt.Errorf("CSV delimiter must be a single character, got: %q", config.CSV.Delimiter)
	}

	if strings.TrimSpace(config.Data.Database) == "" {
		return fmt.Errorf("data.database must not be empty")
	}

	if _, err := recurring.ParseGroupBy(config.Recurring.GroupBy); err != nil {
		return err
	}

	if config.Reprocess.PageSize < minPageSize || config.Reprocess.PageSize > maxPageSize {
		return fmt.Errorf("reprocess.page_size must be between %d and %d, got: %d",
			minPageSize, maxPageSize, config.Reprocess.PageSize)
	}

	return nil
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
