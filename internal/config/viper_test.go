package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME at an empty directory and clears LEDGERLINE_* variables
// so only the test's own settings are visible.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{
		"LEDGERLINE_LOG_LEVEL",
		"LEDGERLINE_LOG_FORMAT",
		"LEDGERLINE_CSV_DELIMITER",
		"LEDGERLINE_DATA_DATABASE",
		"LEDGERLINE_RULES_FILE",
		"LEDGERLINE_RECURRING_GROUP_BY",
		"LEDGERLINE_REPROCESS_PAGE_SIZE",
		"LEDGERLINE_IMPORT_ACCOUNT",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestInitializeConfig_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := InitializeConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, ",", cfg.CSV.Delimiter)
	assert.Equal(t, ',', cfg.Delimiter())
	assert.Equal(t, "ledgerline.db", cfg.Data.Database)
	assert.Empty(t, cfg.Rules.File)
	assert.Equal(t, "vendor", cfg.Recurring.GroupBy)
	assert.Equal(t, 500, cfg.Reprocess.PageSize)
	assert.Empty(t, cfg.Import.Account)
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	isolate(t)
	t.Setenv("LEDGERLINE_LOG_LEVEL", "debug")
	t.Setenv("LEDGERLINE_LOG_FORMAT", "json")
	t.Setenv("LEDGERLINE_CSV_DELIMITER", ";")
	t.Setenv("LEDGERLINE_DATA_DATABASE", "/tmp/ledger.db")
	t.Setenv("LEDGERLINE_RECURRING_GROUP_BY", "normalized")
	t.Setenv("LEDGERLINE_REPROCESS_PAGE_SIZE", "50")
	t.Setenv("LEDGERLINE_IMPORT_ACCOUNT", "checking")

	cfg, err := InitializeConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, ';', cfg.Delimiter())
	assert.Equal(t, "/tmp/ledger.db", cfg.Data.Database)
	assert.Equal(t, "normalized", cfg.Recurring.GroupBy)
	assert.Equal(t, 50, cfg.Reprocess.PageSize)
	assert.Equal(t, "checking", cfg.Import.Account)
}

func TestInitializeConfig_ConfigFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
log:
  level: warn
csv:
  delimiter: "|"
rules:
  file: /etc/ledgerline/rules.yaml
reprocess:
  page_size: 250
`)

	cfg, err := InitializeConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format, "unset keys keep their defaults")
	assert.Equal(t, '|', cfg.Delimiter())
	assert.Equal(t, "/etc/ledgerline/rules.yaml", cfg.Rules.File)
	assert.Equal(t, 250, cfg.Reprocess.PageSize)
}

func TestInitializeConfig_HomeDirectoryConfig(t *testing.T) {
	isolate(t)
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".ledgerline")
	require.NoError(t, os.MkdirAll(dir, 0750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("import:\n  account: savings\n"), 0600))

	cfg, err := InitializeConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "savings", cfg.Import.Account)
}

func TestInitializeConfig_HierarchicalPrecedence(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
log:
  level: warn
data:
  database: from-file.db
import:
  account: from-file
`)
	t.Setenv("LEDGERLINE_LOG_LEVEL", "error")
	t.Setenv("LEDGERLINE_DATA_DATABASE", "from-env.db")

	cfg, err := InitializeConfig(path, map[string]interface{}{"data.database": "from-flag.db"})
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Log.Level, "environment beats config file")
	assert.Equal(t, "from-flag.db", cfg.Data.Database, "flags beat environment")
	assert.Equal(t, "from-file", cfg.Import.Account, "config file beats defaults")
}

func TestInitializeConfig_MissingExplicitFile(t *testing.T) {
	isolate(t)

	_, err := InitializeConfig(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	assert.Error(t, err)
}

func TestInitializeConfig_MalformedFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "log: [unclosed\n")

	_, err := InitializeConfig(path, nil)
	assert.Error(t, err)
}

func TestValidateConfig_InvalidValues(t *testing.T) {
	testCases := []struct {
		name   string
		env    string
		value  string
		errMsg string
	}{
		{"LogLevel", "LEDGERLINE_LOG_LEVEL", "verbose", "invalid log level"},
		{"LogFormat", "LEDGERLINE_LOG_FORMAT", "xml", "invalid log format"},
		{"Delimiter", "LEDGERLINE_CSV_DELIMITER", ";;", "CSV delimiter"},
		{"QuoteDelimiter", "LEDGERLINE_CSV_DELIMITER", `"`, "CSV delimiter"},
		{"GroupBy", "LEDGERLINE_RECURRING_GROUP_BY", "category", "group_by"},
		{"PageSizeZero", "LEDGERLINE_REPROCESS_PAGE_SIZE", "0", "page_size"},
		{"PageSizeTooLarge", "LEDGERLINE_REPROCESS_PAGE_SIZE", "20000", "page_size"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tc.env, tc.value)

			_, err := InitializeConfig("", nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestValidateConfig_EmptyDatabase(t *testing.T) {
	isolate(t)

	_, err := InitializeConfig("", map[string]interface{}{"data.database": "  "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data.database")
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	cfg := &Config{}
	cfg.Log.Level = "debug"
	cfg.Log.Format = "json"

	logger := ConfigureLoggingFromConfig(cfg)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	cfg.Log.Level = "nonsense"
	cfg.Log.Format = "text"
	logger = ConfigureLoggingFromConfig(cfg)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.MkdirAll(sub, 0750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LEDGERLINE_TEST_VALUE=from-dotenv\n"), 0600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(sub))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("LEDGERLINE_TEST_VALUE", "")
	require.NoError(t, os.Unsetenv("LEDGERLINE_TEST_VALUE"))

	loaded, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("..", ".env"), loaded)
	assert.Equal(t, "from-dotenv", os.Getenv("LEDGERLINE_TEST_VALUE"))
}

func TestLoadEnv_NoFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(filepath.Join(t.TempDir())))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	loaded, err := LoadEnv()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
