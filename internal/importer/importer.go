// Package importer loads bank statement CSV files into the transaction store.
//
// Each row is turned into a models.Transaction with an extracted vendor, a
// normalized vendor and an identity fingerprint. Bad rows are reported and
// skipped; duplicates are counted. Neither aborts the batch.
package importer

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"fjacquet/ledgerline/internal/common"
	"fjacquet/ledgerline/internal/dateutils"
	"fjacquet/ledgerline/internal/fileutils"
	"fjacquet/ledgerline/internal/identity"
	"fjacquet/ledgerline/internal/logging"
	"fjacquet/ledgerline/internal/models"
	"fjacquet/ledgerline/internal/parsererror"
	"fjacquet/ledgerline/internal/store"
	"fjacquet/ledgerline/internal/vendor"

	"github.com/google/uuid"
)

const parserName = "CSV"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// requiredColumns must be present in the header line.
var requiredColumns = []string{"Date", "Description", "Amount"}

// StatementRow is one line of a statement CSV.
type StatementRow struct {
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Amount      string `csv:"Amount"`
	Vendor      string `csv:"Vendor"`
	Account     string `csv:"Account"`
	Category    string `csv:"Category"`
}

// Result summarises one import.
type Result struct {
	Read       int
	Imported   int
	Duplicates int
	Rejected   int
	Errors     []error
}

// Add accumulates other into r.
func (r *Result) Add(other Result) {
	r.Read += other.Read
	r.Imported += other.Imported
	r.Duplicates += other.Duplicates
	r.Rejected += other.Rejected
	r.Errors = append(r.Errors, other.Errors...)
}

// TransactionWriter is the part of the store the importer needs.
type TransactionWriter interface {
	Insert(ctx context.Context, tx models.Transaction) error
}

// Importer converts statement rows and writes them to a TransactionWriter.
type Importer struct {
	writer     TransactionWriter
	normalizer *vendor.Normalizer
	logger     logging.Logger
	delimiter  rune
	account    string
	newID      func() string
}

// Option configures an Importer.
type Option func(*Importer)

// WithDelimiter sets the CSV delimiter.
func WithDelimiter(d rune) Option {
	return func(im *Importer) { im.delimiter = d }
}

// WithAccount sets the account used for rows with an empty Account column.
func WithAccount(account string) Option {
	return func(im *Importer) { im.account = account }
}

// WithIDGenerator replaces the uuid generator.
func WithIDGenerator(fn func() string) Option {
	return func(im *Importer) { im.newID = fn }
}

// New creates an Importer. writer may be nil when only Load is used.
func New(writer TransactionWriter, normalizer *vendor.Normalizer, logger logging.Logger, opts ...Option) *Importer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if normalizer == nil {
		normalizer = vendor.NewNormalizer(vendor.DefaultRules(), logger)
	}
	im := &Importer{
		writer:     writer,
		normalizer: normalizer,
		logger:     logger,
		delimiter:  common.DefaultDelimiter,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// LoadFile parses a statement file without storing it.
func (im *Importer) LoadFile(path string) ([]models.Transaction, Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Result{}, fmt.Errorf("error reading statement: %w", err)
	}
	return im.Load(bytes.NewReader(data), path)
}

// Load parses statement rows from r. source names the input in errors.
func (im *Importer) Load(r io.Reader, source string) ([]models.Transaction, Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, Result{}, fmt.Errorf("error reading statement: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if err := im.checkHeader(data, source); err != nil {
		return nil, Result{}, err
	}

	rows, err := common.ReadCSV[StatementRow](bytes.NewReader(data), im.delimiter)
	if err != nil {
		return nil, Result{}, fmt.Errorf("%s: %w", source, err)
	}

	var result Result
	transactions := make([]models.Transaction, 0, len(rows))
	for i, row := range rows {
		result.Read++
		tx, err := im.BuildTransaction(row, i+1)
		if err != nil {
			result.Rejected++
			result.Errors = append(result.Errors, err)
			im.logger.WithError(err).Warn("Rejected statement row",
				logging.Field{Key: logging.FieldRow, Value: i + 1},
				logging.Field{Key: logging.FieldInputFile, Value: source})
			continue
		}
		transactions = append(transactions, tx)
	}
	return transactions, result, nil
}

// ImportFile parses a statement file and stores its rows.
func (im *Importer) ImportFile(ctx context.Context, path string) (Result, error) {
	if im.writer == nil {
		return Result{}, errors.New("importer has no transaction store")
	}
	im.logger.Info("Importing statement", logging.Field{Key: logging.FieldInputFile, Value: path})

	transactions, result, err := im.LoadFile(path)
	if err != nil {
		return result, err
	}

	for _, tx := range transactions {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		err := im.writer.Insert(ctx, tx)
		switch {
		case err == nil:
			result.Imported++
		case errors.Is(err, store.ErrDuplicate):
			result.Duplicates++
			im.logger.Warn("Duplicate transaction skipped",
				logging.Field{Key: logging.FieldDescription, Value: tx.Description},
				logging.Field{Key: logging.FieldFingerprint, Value: tx.Fingerprint})
		default:
			return result, fmt.Errorf("error storing transaction: %w", err)
		}
	}

	im.logger.Info("Statement imported",
		logging.Field{Key: logging.FieldInputFile, Value: path},
		logging.Field{Key: logging.FieldRead, Value: result.Read},
		logging.Field{Key: logging.FieldImported, Value: result.Imported},
		logging.Field{Key: logging.FieldDuplicates, Value: result.Duplicates},
		logging.Field{Key: logging.FieldRejected, Value: result.Rejected})
	return result, nil
}

// ImportDir imports every .csv statement directly inside dir, in lexical
// order, and returns the combined result. A file that cannot be read stops
// the run; rejected rows and duplicates do not.
func (im *Importer) ImportDir(ctx context.Context, dir string) (Result, error) {
	files, err := fileutils.ListFilesWithExtension(dir, ".csv")
	if err != nil {
		return Result{}, err
	}
	if len(files) == 0 {
		im.logger.Warn("No statements found", logging.Field{Key: logging.FieldInputFile, Value: dir})
	}

	var total Result
	for _, file := range files {
		result, err := im.ImportFile(ctx, file)
		total.Add(result)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// BuildTransaction converts one row. An unparseable or empty date rejects the
// row with a ParseError; an unparseable amount is logged and treated as zero.
func (im *Importer) BuildTransaction(row StatementRow, rowNum int) (models.Transaction, error) {
	date, err := dateutils.ParseDateString(row.Date)
	if err != nil {
		return models.Transaction{}, &parsererror.ParseError{
			Parser: parserName,
			Row:    rowNum,
			Field:  "Date",
			Value:  row.Date,
			Err:    err,
		}
	}

	amount, err := models.ParseAmount(row.Amount)
	if err != nil {
		im.logger.WithError(err).Warn("Unparseable amount, using zero",
			logging.Field{Key: logging.FieldRow, Value: rowNum},
			logging.Field{Key: logging.FieldAmount, Value: row.Amount})
	}

	account := strings.TrimSpace(row.Account)
	if account == "" {
		account = im.account
	}

	description := strings.TrimSpace(row.Description)
	normalized := im.normalizer.Normalize(description)

	vendorName := strings.TrimSpace(row.Vendor)
	if vendorName == "" {
		vendorName = normalized.Vendor
	}

	return models.Transaction{
		ID:               im.newID(),
		AccountID:        account,
		Date:             date,
		Description:      description,
		Amount:           amount,
		Vendor:           vendorName,
		NormalizedVendor: normalized.Normalized,
		CategoryID:       strings.TrimSpace(row.Category),
		Fingerprint:      identity.Fingerprint(dateutils.ToISODate(date), description, amount, account),
	}, nil
}

func (im *Importer) checkHeader(data []byte, source string) error {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = im.delimiter
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return &parsererror.InvalidFormatError{
			FilePath:       source,
			ExpectedFormat: "CSV with a header line",
			Msg:            fmt.Sprintf("cannot read header: %v", err),
		}
	}

	present := make(map[string]bool, len(header))
	for _, column := range header {
		present[strings.TrimSpace(column)] = true
	}
	for _, column := range requiredColumns {
		if !present[column] {
			return &parsererror.InvalidFormatError{
				FilePath:       source,
				ExpectedFormat: "CSV with " + strings.Join(requiredColumns, ", ") + " columns",
				Msg:            "missing column " + column,
			}
		}
	}
	return nil
}
