// Package reprocess recomputes stored normalized vendors after rule changes.
package reprocess

import (
	"context"
	"fmt"

	"fjacquet/ledgerline/internal/logging"
	"fjacquet/ledgerline/internal/models"
	"fjacquet/ledgerline/internal/vendor"
)

// DefaultPageSize is the number of rows read per page.
const DefaultPageSize = 500

// Store is the part of the transaction store reprocessing needs.
type Store interface {
	ListPage(ctx context.Context, offset, limit int) ([]models.Transaction, error)
	UpdateNormalizedVendor(ctx context.Context, id, normalized string) error
}

// Options controls a reprocessing run.
type Options struct {
	PageSize int
	// Force rewrites every row, changed or not.
	Force bool
}

// Result summarises a run.
type Result struct {
	Scanned   int
	Updated   int
	Unchanged int
}

// Reprocessor pages through the store and rewrites normalized vendors.
type Reprocessor struct {
	store      Store
	normalizer *vendor.Normalizer
	logger     logging.Logger
}

// New creates a Reprocessor.
func New(store Store, normalizer *vendor.Normalizer, logger logging.Logger) *Reprocessor {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if normalizer == nil {
		normalizer = vendor.NewNormalizer(vendor.DefaultRules(), logger)
	}
	return &Reprocessor{store: store, normalizer: normalizer, logger: logger}
}

// Run recomputes the normalized vendor of every stored transaction from its
// description and writes back rows whose value changed. Vendor overrides are
// a separate column and are never written.
func (r *Reprocessor) Run(ctx context.Context, opts Options) (Result, error) {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	var result Result
	for page, offset := 0, 0; ; page, offset = page+1, offset+pageSize {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		txs, err := r.store.ListPage(ctx, offset, pageSize)
		if err != nil {
			return result, fmt.Errorf("error reading page %d: %w", page, err)
		}

		for _, tx := range txs {
			result.Scanned++
			normalized := r.normalizer.Normalize(tx.Description).Normalized
			if normalized == tx.NormalizedVendor && !opts.Force {
				result.Unchanged++
				continue
			}
			if err := r.store.UpdateNormalizedVendor(ctx, tx.ID, normalized); err != nil {
				return result, fmt.Errorf("error updating transaction %s: %w", tx.ID, err)
			}
			r.logger.Debug("Normalized vendor updated",
				logging.Field{Key: logging.FieldTransactionID, Value: tx.ID},
				logging.Field{Key: logging.FieldNormalized, Value: normalized})
			result.Updated++
		}

		r.logger.Debug("Reprocessed page",
			logging.Field{Key: logging.FieldPage, Value: page},
			logging.Field{Key: logging.FieldCount, Value: len(txs)})

		if len(txs) < pageSize {
			break
		}
	}

	r.logger.Info("Reprocessing finished",
		logging.Field{Key: logging.FieldScanned, Value: result.Scanned},
		logging.Field{Key: logging.FieldUpdated, Value: result.Updated},
		logging.Field{Key: logging.FieldUnchanged, Value: result.Unchanged})
	return result, nil
}
