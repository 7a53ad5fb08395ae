// Package reprocess implements the normalized-vendor reprocessing command
package reprocess

import (
	"fmt"

	"fjacquet/ledgerline/cmd/root"
	reprocesspkg "fjacquet/ledgerline/internal/reprocess"

	"github.com/spf13/cobra"
)

var (
	Force    bool
	PageSize int
)

// Cmd represents the reprocess command
var Cmd = &cobra.Command{
	Use:   "reprocess",
	Short: "Recompute normalized vendors for stored transactions",
	Long: `Recompute the normalized vendor of every stored transaction from its
description using the current rules. Only rows whose value changed are
written unless --force is given. Manual vendor overrides are never touched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		rp, err := c.GetReprocessor(cmd.Context())
		if err != nil {
			return err
		}

		opts := reprocesspkg.Options{PageSize: c.GetConfig().Reprocess.PageSize, Force: Force}
		if PageSize > 0 {
			opts.PageSize = PageSize
		}

		result, err := rp.Run(cmd.Context(), opts)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Scanned: %d, Updated: %d, Unchanged: %d\n",
			result.Scanned, result.Updated, result.Unchanged)
		return err
	},
}

func init() {
	Cmd.Flags().BoolVar(&Force, "force", false, "Rewrite every row, changed or not")
	Cmd.Flags().IntVar(&PageSize, "page-size", 0, "Rows read per page (default from config)")
}
