package common

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/ledgerline/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCSVRow struct {
	Name    string `csv:"Name"`
	Age     string `csv:"Age"`
	Country string `csv:"Country"`
}

func TestReadCSVFile(t *testing.T) {
	dir := t.TempDir()
	csvContent := `Name,Age,Country
John Doe,30,USA
Jane Smith,25,Canada
,,
Bob Johnson,42,UK`

	path := filepath.Join(dir, "test.csv")
	require.NoError(t, os.WriteFile(path, []byte(csvContent), 0600))

	logger := logging.NewMockLogger()
	rows, err := ReadCSVFile[testCSVRow](path, ',', logger)
	require.NoError(t, err)
	require.Len(t, rows, 4, "empty rows are kept")

	assert.Equal(t, "John Doe", rows[0].Name)
	assert.Equal(t, "30", rows[0].Age)
	assert.Equal(t, "Canada", rows[1].Country)
	assert.Equal(t, "", rows[2].Name)
	assert.Equal(t, "UK", rows[3].Country)

	_, err = ReadCSVFile[testCSVRow](filepath.Join(dir, "missing.csv"), ',', logger)
	assert.Error(t, err)
}

func TestReadCSV_Semicolon(t *testing.T) {
	rows, err := ReadCSV[testCSVRow](strings.NewReader("Name;Age;Country\nAnna;31;CH\n"), ';')
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "CH", rows[0].Country)
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	rows := []testCSVRow{{Name: "Anna", Age: "31", Country: "CH"}}
	require.NoError(t, WriteCSV(&buf, rows, ';'))
	assert.Equal(t, "Name;Age;Country\nAnna;31;CH\n", buf.String())
}

func TestWriteCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "rows.csv")
	logger := logging.NewMockLogger()

	require.NoError(t, WriteCSVFile(path, []testCSVRow{{Name: "Anna"}}, ',', logger))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Name,Age,Country\nAnna,,\n", string(data))
	assert.True(t, logger.HasEntry("INFO", "Wrote CSV file"))

	assert.Error(t, WriteCSVFile[testCSVRow](path, nil, ',', logger))
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		input   string
		want    rune
		wantErr bool
	}{
		{"", ',', false},
		{",", ',', false},
		{";", ';', false},
		{"\t", '\t', false},
		{";;", 0, true},
		{"\"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseDelimiter(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
