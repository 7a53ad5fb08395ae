// Package store persists transactions in SQLite and loads user vendor rules
// from YAML.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"fjacquet/ledgerline/internal/fileutils"
	"fjacquet/ledgerline/internal/logging"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

// ErrDuplicate is returned by Insert when a transaction with the same
// fingerprint is already stored.
var ErrDuplicate = errors.New("duplicate transaction fingerprint")

// TransactionStore is the SQLite-backed transaction table.
type TransactionStore struct {
	db     *sql.DB
	logger logging.Logger
}

// Open opens or creates the database at path and applies the schema.
func Open(ctx context.Context, path string, logger logging.Logger) (*TransactionStore, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	if err := fileutils.EnsureParentExists(path); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite serialises writers; keep a single connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &TransactionStore{db: db, logger: logger}
	if err := s.Init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Debug("Opened transaction store", logging.Field{Key: logging.FieldDatabase, Value: path})
	return s, nil
}

// Init creates tables if they don't exist.
func (s *TransactionStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *TransactionStore) Close() error {
	return s.db.Close()
}
