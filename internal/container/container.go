// Package container provides dependency injection for the ledgerline application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"context"
	"fmt"
	"sync"

	"fjacquet/ledgerline/internal/config"
	"fjacquet/ledgerline/internal/importer"
	"fjacquet/ledgerline/internal/logging"
	"fjacquet/ledgerline/internal/recurring"
	"fjacquet/ledgerline/internal/reprocess"
	"fjacquet/ledgerline/internal/store"
	"fjacquet/ledgerline/internal/vendor"
)

// Container holds all application dependencies and provides methods to access them.
//
// The rule store, normalizer and detector are built eagerly. The SQLite
// transaction store is opened on first use so commands that never touch the
// database do not create one.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	rules      *store.RuleStore
	normalizer *vendor.Normalizer
	detector   *recurring.Detector

	mu           sync.Mutex
	transactions *store.TransactionStore
}

// Option customises container construction.
type Option func(*Container)

// WithLogger replaces the logger built from configuration.
func WithLogger(logger logging.Logger) Option {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewContainer creates and wires all application dependencies.
// User vendor rules are loaded from cfg.Rules.File and layered on top of the
// built-in rules; a malformed rules file fails construction.
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	c := &Container{
		config: cfg,
		logger: logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg)),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.rules = store.NewRuleStore(cfg.Rules.File, c.logger)
	ruleFile, err := c.rules.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load vendor rules: %w", err)
	}
	ruleSet, err := ruleFile.Apply(vendor.DefaultRules())
	if err != nil {
		return nil, fmt.Errorf("failed to apply vendor rules: %w", err)
	}
	c.normalizer = vendor.NewNormalizer(ruleSet, c.logger)

	groupBy, err := recurring.ParseGroupBy(cfg.Recurring.GroupBy)
	if err != nil {
		return nil, err
	}
	c.detector = recurring.NewDetector(c.logger,
		recurring.WithGroupBy(groupBy),
		recurring.WithNormalizer(c.normalizer))

	c.logger.Debug("Container initialized successfully",
		logging.Field{Key: logging.FieldDatabase, Value: cfg.Data.Database},
		logging.Field{Key: logging.FieldCount, Value: len(ruleFile.Patterns) + len(ruleFile.Merchants)})

	return c, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetRuleStore returns the user vendor rules file.
func (c *Container) GetRuleStore() *store.RuleStore {
	return c.rules
}

// GetNormalizer returns the normalizer built from built-in and user rules.
func (c *Container) GetNormalizer() *vendor.Normalizer {
	return c.normalizer
}

// GetDetector returns the recurring-charge detector.
func (c *Container) GetDetector() *recurring.Detector {
	return c.detector
}

// GetStore opens the transaction database on first call and returns the
// same handle afterwards.
func (c *Container) GetStore(ctx context.Context) (*store.TransactionStore, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.transactions != nil {
		return c.transactions, nil
	}
	s, err := store.Open(ctx, c.config.Data.Database, c.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open transaction store: %w", err)
	}
	c.transactions = s
	return s, nil
}

// GetImporter returns an importer writing to the transaction store.
func (c *Container) GetImporter(ctx context.Context, opts ...importer.Option) (*importer.Importer, error) {
	s, err := c.GetStore(ctx)
	if err != nil {
		return nil, err
	}
	defaults := []importer.Option{
		importer.WithDelimiter(c.config.Delimiter()),
		importer.WithAccount(c.config.Import.Account),
	}
	return importer.New(s, c.normalizer, c.logger, append(defaults, opts...)...), nil
}

// GetReprocessor returns a reprocessor over the transaction store.
func (c *Container) GetReprocessor(ctx context.Context) (*reprocess.Reprocessor, error) {
	s, err := c.GetStore(ctx)
	if err != nil {
		return nil, err
	}
	return reprocess.New(s, c.normalizer, c.logger), nil
}

// Close releases the transaction store if it was opened.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.transactions == nil {
		return nil
	}
	err := c.transactions.Close()
	c.transactions = nil
	if err != nil {
		return fmt.Errorf("failed to close transaction store: %w", err)
	}
	c.logger.Debug("Container closed")
	return nil
}
