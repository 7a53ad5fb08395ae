// Package importcsv implements the statement import command
package importcsv

import (
	"errors"
	"fmt"
	"io"

	"fjacquet/ledgerline/cmd/root"
	"fjacquet/ledgerline/internal/fileutils"
	"fjacquet/ledgerline/internal/importer"

	"github.com/spf13/cobra"
)

// Account overrides the configured default account for rows without one.
var Account string

// Cmd represents the import command
var Cmd = &cobra.Command{
	Use:   "import",
	Short: "Import a CSV bank statement into the ledger",
	Long: `Import a CSV bank statement into the SQLite ledger. Each row is normalized,
fingerprinted and stored; rows already in the ledger are counted as duplicates
and rows with an unreadable date are rejected without stopping the import.

The statement needs Date, Description and Amount columns. Vendor, Account and
Category are optional. When -i names a directory, every .csv file in it is
imported in name order.`,
	RunE: runImport,
}

func init() {
	Cmd.Flags().StringVar(&Account, "account", "", "Account identifier for rows without an Account column")
}

func runImport(cmd *cobra.Command, args []string) error {
	if root.SharedFlags.Input == "" {
		return errors.New("input file is required (-i)")
	}
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	var opts []importer.Option
	if Account != "" {
		opts = append(opts, importer.WithAccount(Account))
	}
	imp, err := c.GetImporter(cmd.Context(), opts...)
	if err != nil {
		return err
	}

	var result importer.Result
	if fileutils.DirectoryExists(root.SharedFlags.Input) {
		result, err = imp.ImportDir(cmd.Context(), root.SharedFlags.Input)
	} else {
		result, err = imp.ImportFile(cmd.Context(), root.SharedFlags.Input)
	}
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), result)
}

func printResult(w io.Writer, result importer.Result) error {
	if _, err := fmt.Fprintf(w, "Read: %d, Imported: %d, Duplicates: %d, Rejected: %d\n",
		result.Read, result.Imported, result.Duplicates, result.Rejected); err != nil {
		return err
	}
	for _, rowErr := range result.Errors {
		if _, err := fmt.Fprintf(w, "  %v\n", rowErr); err != nil {
			return err
		}
	}
	return nil
}
