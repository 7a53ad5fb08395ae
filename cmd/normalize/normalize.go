// Package normalize implements the vendor normalization command
package normalize

import (
	"errors"
	"fmt"
	"io"

	"fjacquet/ledgerline/cmd/root"
	"fjacquet/ledgerline/internal/common"
	"fjacquet/ledgerline/internal/logging"
	"fjacquet/ledgerline/internal/models"
	"fjacquet/ledgerline/internal/vendor"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// BatchFile is the CSV file normalized with --file.
var BatchFile string

// Cmd represents the vendor command
var Cmd = &cobra.Command{
	Use:     "vendor [description...]",
	Aliases: []string{"normalize"},
	Short:   "Normalize transaction descriptions into vendor names",
	Long: `Normalize raw bank statement descriptions into a noise-free vendor and a
display name. Each description is printed as YAML with its original text,
extracted vendor and normalized name. With --file, a CSV with Description and
Vendor columns is normalized in batch and each distinct key is printed once.`,
	RunE: runVendor,
}

func init() {
	Cmd.Flags().StringVarP(&BatchFile, "file", "f", "", "CSV file of descriptions to normalize in batch")
}

func runVendor(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	n := c.GetNormalizer()

	if BatchFile != "" {
		items, err := common.ReadCSVFile[vendor.BatchItem](BatchFile, c.GetConfig().Delimiter(), c.GetLogger())
		if err != nil {
			return err
		}
		result := n.NormalizeBatch(items)
		c.GetLogger().Info("Normalized vendor batch",
			logging.F(logging.FieldInputFile, BatchFile),
			logging.F(logging.FieldCount, len(items)),
			logging.F(logging.FieldDistinct, len(result)))
		return writeYAML(cmd.OutOrStdout(), result)
	}

	if len(args) == 0 {
		return errors.New("provide at least one description or --file")
	}
	return writeYAML(cmd.OutOrStdout(), normalizeAll(n, args))
}

func normalizeAll(n *vendor.Normalizer, descriptions []string) []models.NormalizedVendor {
	results := make([]models.NormalizedVendor, 0, len(descriptions))
	for _, d := range descriptions {
		results = append(results, n.Normalize(d))
	}
	return results
}

func writeYAML(w io.Writer, v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("error marshaling output: %w", err)
	}
	_, err = w.Write(data)
	return err
}
