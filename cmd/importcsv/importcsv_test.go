package importcsv

import (
	"bytes"
	"errors"
	"testing"

	"fjacquet/ledgerline/internal/importer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportCommand_Metadata(t *testing.T) {
	assert.Equal(t, "import", Cmd.Use)
	assert.Contains(t, Cmd.Short, "Import a CSV bank statement")
	assert.Contains(t, Cmd.Long, "duplicates")
	assert.NotNil(t, Cmd.RunE)
}

func TestImportCommand_Flags(t *testing.T) {
	accountFlag := Cmd.Flags().Lookup("account")
	require.NotNil(t, accountFlag)
	assert.Equal(t, "", accountFlag.DefValue)
	assert.Contains(t, accountFlag.Usage, "Account")
}

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	result := importer.Result{Read: 6, Imported: 3, Duplicates: 1, Rejected: 2,
		Errors: []error{errors.New("row 4: bad date"), errors.New("row 5: bad date")}}

	require.NoError(t, printResult(&buf, result))
	assert.Equal(t, "Read: 6, Imported: 3, Duplicates: 1, Rejected: 2\n  row 4: bad date\n  row 5: bad date\n", buf.String())
}
