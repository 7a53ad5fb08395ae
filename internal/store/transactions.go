package store

import (
	"context"
	"database/sql"
	"fmt"

	"fjacquet/ledgerline/internal/dateutils"
	"fjacquet/ledgerline/internal/logging"
	"fjacquet/ledgerline/internal/models"

	"github.com/shopspring/decimal"
)

const selectColumns = `
	SELECT id, account_id, date, description, amount, vendor,
	       normalized_vendor, vendor_override, category_id, fingerprint
	FROM transactions`

// Insert stores tx. A fingerprint collision is reported as ErrDuplicate and
// leaves the existing row untouched.
func (s *TransactionStore) Insert(ctx context.Context, tx models.Transaction) error {
	if tx.Fingerprint == "" {
		return fmt.Errorf("insert transaction %s: missing fingerprint", tx.ID)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (
			id, account_id, date, description, amount, vendor,
			normalized_vendor, vendor_override, category_id, fingerprint
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(fingerprint) DO NOTHING
	`, tx.ID, tx.AccountID, dateutils.ToISODate(tx.Date), tx.Description, models.FormatAmount(tx.Amount),
		tx.Vendor, tx.NormalizedVendor, tx.VendorOverride, tx.CategoryID, tx.Fingerprint)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	if affected == 0 {
		s.logger.Debug("Duplicate fingerprint skipped",
			logging.Field{Key: logging.FieldFingerprint, Value: tx.Fingerprint})
		return ErrDuplicate
	}
	return nil
}

// List returns every transaction ordered by date, then id.
func (s *TransactionStore) List(ctx context.Context) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	return scanTransactions(rows)
}

// ListPage returns at most limit transactions starting at offset, in the
// same order as List.
func (s *TransactionStore) ListPage(ctx context.Context, offset, limit int) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY date, id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query transaction page: %w", err)
	}
	return scanTransactions(rows)
}

// Get returns a single transaction by id.
func (s *TransactionStore) Get(ctx context.Context, id string) (models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` WHERE id = ?`, id)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("query transaction: %w", err)
	}
	txs, err := scanTransactions(rows)
	if err != nil {
		return models.Transaction{}, err
	}
	if len(txs) == 0 {
		return models.Transaction{}, fmt.Errorf("transaction %s: %w", id, sql.ErrNoRows)
	}
	return txs[0], nil
}

// UpdateNormalizedVendor rewrites the computed vendor of one row. User
// overrides live in a separate column and are never touched here.
func (s *TransactionStore) UpdateNormalizedVendor(ctx context.Context, id, normalized string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET normalized_vendor = ? WHERE id = ?`, normalized, id)
	if err != nil {
		return fmt.Errorf("update normalized vendor: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update normalized vendor: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update normalized vendor %s: %w", id, sql.ErrNoRows)
	}
	return nil
}

// Count returns the number of stored transactions.
func (s *TransactionStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}

func scanTransactions(rows *sql.Rows) ([]models.Transaction, error) {
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var t models.Transaction
		var date, amount string
		if err := rows.Scan(&t.ID, &t.AccountID, &date, &t.Description, &amount, &t.Vendor,
			&t.NormalizedVendor, &t.VendorOverride, &t.CategoryID, &t.Fingerprint); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}

		if date != "" {
			parsed, err := dateutils.ParseDateString(date)
			if err != nil {
				return nil, fmt.Errorf("transaction %s: %w", t.ID, err)
			}
			t.Date = parsed
		}

		value, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: invalid amount %q: %w", t.ID, amount, err)
		}
		t.Amount = value

		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}
