package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/ledgerline/internal/identity"
	"fjacquet/ledgerline/internal/logging"
	"fjacquet/ledgerline/internal/models"
	"fjacquet/ledgerline/internal/parsererror"
	"fjacquet/ledgerline/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryWriter struct {
	byFingerprint map[string]models.Transaction
	failWith      error
}

func newMemoryWriter() *memoryWriter {
	return &memoryWriter{byFingerprint: make(map[string]models.Transaction)}
}

func (w *memoryWriter) Insert(_ context.Context, tx models.Transaction) error {
	if w.failWith != nil {
		return w.failWith
	}
	if _, ok := w.byFingerprint[tx.Fingerprint]; ok {
		return store.ErrDuplicate
	}
	w.byFingerprint[tx.Fingerprint] = tx
	return nil
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("tx-%d", n)
	}
}

const statement = `Date,Description,Amount,Vendor,Account,Category
2024-01-15,NETFLIX.COM,-15.99,,acct1,streaming
2024-01-15,NETFLIX.COM,-15.99,,acct1,streaming
not-a-date,SHELL OIL,-40.00,,acct1,
,EMPTY DATE,-1.00,,,
2024-01-20,LOCAL HARDWARE,abc,,,
01/22/2024,AMAZON MKTPL*AB12CD34,"-1,234.50",Amazon Marketplace,,shopping
`

func writeStatement(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "statement.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestImportFile(t *testing.T) {
	writer := newMemoryWriter()
	logger := logging.NewMockLogger()
	im := New(writer, nil, logger, WithAccount("default"), WithIDGenerator(sequentialIDs()))

	result, err := im.ImportFile(context.Background(), writeStatement(t, statement))
	require.NoError(t, err)

	assert.Equal(t, 6, result.Read)
	assert.Equal(t, 3, result.Imported)
	assert.Equal(t, 1, result.Duplicates)
	assert.Equal(t, 2, result.Rejected)
	require.Len(t, result.Errors, 2)

	var parseErr *parsererror.ParseError
	require.True(t, errors.As(result.Errors[0], &parseErr))
	assert.Equal(t, "Date", parseErr.Field)
	assert.Equal(t, 3, parseErr.Row)
	assert.Equal(t, "not-a-date", parseErr.Value)

	assert.True(t, logger.HasEntry("WARN", "Duplicate transaction skipped"))
	assert.True(t, logger.HasEntry("WARN", "Unparseable amount, using zero"))
	assert.True(t, logger.HasEntry("WARN", "Rejected statement row"))

	var summary *logging.LogEntry
	for _, entry := range logger.EntriesByLevel("INFO") {
		if entry.Message == "Statement imported" {
			e := entry
			summary = &e
		}
	}
	require.NotNil(t, summary)
	for key, want := range map[string]int{
		logging.FieldRead:       6,
		logging.FieldImported:   3,
		logging.FieldDuplicates: 1,
		logging.FieldRejected:   2,
	} {
		got, ok := summary.FieldValue(key)
		require.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}
}

func TestBuildTransaction(t *testing.T) {
	im := New(nil, nil, nil, WithAccount("default"), WithIDGenerator(sequentialIDs()))

	tx, err := im.BuildTransaction(StatementRow{
		Date:        "2024-01-15",
		Description: " NETFLIX.COM ",
		Amount:      "-15.99",
		Category:    "streaming",
	}, 1)
	require.NoError(t, err)

	assert.Equal(t, "tx-1", tx.ID)
	assert.Equal(t, "default", tx.AccountID)
	assert.Equal(t, "2024-01-15", tx.Date.Format("2006-01-02"))
	assert.Equal(t, "NETFLIX.COM", tx.Description)
	assert.True(t, decimal.RequireFromString("-15.99").Equal(tx.Amount))
	assert.Equal(t, "NETFLIX.COM", tx.Vendor)
	assert.Equal(t, "Netflix", tx.NormalizedVendor)
	assert.Equal(t, "streaming", tx.CategoryID)
	assert.Equal(t, identity.Fingerprint("2024-01-15", "NETFLIX.COM", decimal.RequireFromString("-15.99"), "default"), tx.Fingerprint)
}

func TestBuildTransaction_ExplicitVendorAndAccount(t *testing.T) {
	im := New(nil, nil, nil, WithAccount("default"))

	tx, err := im.BuildTransaction(StatementRow{
		Date:        "01/22/2024",
		Description: "AMAZON MKTPL*AB12CD34",
		Amount:      "(12.00)",
		Vendor:      "Amazon Marketplace",
		Account:     "visa",
	}, 1)
	require.NoError(t, err)

	assert.Equal(t, "visa", tx.AccountID)
	assert.Equal(t, "Amazon Marketplace", tx.Vendor)
	assert.Equal(t, "Amazon", tx.NormalizedVendor)
	assert.True(t, decimal.RequireFromString("-12").Equal(tx.Amount))
	assert.NotEmpty(t, tx.ID)
}

func TestBuildTransaction_BadAmountIsZero(t *testing.T) {
	im := New(nil, nil, nil)
	tx, err := im.BuildTransaction(StatementRow{Date: "2024-01-20", Description: "LOCAL HARDWARE", Amount: "abc"}, 5)
	require.NoError(t, err)
	assert.True(t, tx.Amount.IsZero())
}

func TestLoad_MissingColumn(t *testing.T) {
	im := New(nil, nil, nil)
	_, _, err := im.Load(strings.NewReader("Date,Description\n2024-01-01,X\n"), "statement.csv")

	var formatErr *parsererror.InvalidFormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Contains(t, formatErr.Msg, "Amount")
}

func TestLoad_SemicolonAndBOM(t *testing.T) {
	im := New(nil, nil, nil, WithDelimiter(';'))
	content := "\xef\xbb\xbfDate;Description;Amount\n15.01.2024;NETFLIX.COM;-15,99\n"

	txs, result, err := im.Load(strings.NewReader(content), "statement.csv")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Read)
	require.Len(t, txs, 1)
	assert.True(t, decimal.RequireFromString("-15.99").Equal(txs[0].Amount))
	assert.Equal(t, "2024-01-15", txs[0].Date.Format("2006-01-02"))
}

func TestImportFile_StoreFailureAborts(t *testing.T) {
	writer := newMemoryWriter()
	writer.failWith = errors.New("disk full")
	im := New(writer, nil, nil)

	_, err := im.ImportFile(context.Background(), writeStatement(t, statement))
	assert.ErrorContains(t, err, "disk full")
}

func TestImportFile_NoStore(t *testing.T) {
	_, err := New(nil, nil, nil).ImportFile(context.Background(), "unused.csv")
	assert.Error(t, err)
}

func TestImportFile_SQLiteDeduplicates(t *testing.T) {
	ctx := context.Background()
	s, err := store.Open(ctx, filepath.Join(t.TempDir(), "ledger.db"), nil)
	require.NoError(t, err)
	defer s.Close()

	im := New(s, nil, nil)
	path := writeStatement(t, statement)

	first, err := im.ImportFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 3, first.Imported)

	second, err := im.ImportFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Imported)
	assert.Equal(t, 4, second.Duplicates)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestImportDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "january.csv"), []byte(statement), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "february.CSV"), []byte("Date,Description,Amount\n2024-02-15,NETFLIX.COM,-15.99\n"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0600))

	logger := logging.NewMockLogger()
	im := New(newMemoryWriter(), nil, logger, WithIDGenerator(sequentialIDs()))

	result, err := im.ImportDir(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 7, result.Read)
	assert.Equal(t, 4, result.Imported)
	assert.Equal(t, 1, result.Duplicates)
	assert.Equal(t, 2, result.Rejected)
	assert.Len(t, result.Errors, 2)
	assert.Len(t, logger.EntriesByLevel("INFO"), 4, "two files, a start and finish line each")
}

func TestImportDir_Empty(t *testing.T) {
	logger := logging.NewMockLogger()
	im := New(newMemoryWriter(), nil, logger)

	result, err := im.ImportDir(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Zero(t, result.Read)
	assert.True(t, logger.HasEntry("WARN", "No statements found"))

	_, err = im.ImportDir(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestResult_Add(t *testing.T) {
	total := Result{Read: 1, Imported: 1}
	total.Add(Result{Read: 3, Imported: 1, Duplicates: 1, Rejected: 1, Errors: []error{errors.New("row 2")}})

	assert.Equal(t, Result{Read: 4, Imported: 2, Duplicates: 1, Rejected: 1, Errors: []error{errors.New("row 2")}}, total)
}
