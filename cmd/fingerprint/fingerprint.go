// Package fingerprint implements the transaction fingerprint command
package fingerprint

import (
	"fmt"

	"fjacquet/ledgerline/internal/dateutils"
	"fjacquet/ledgerline/internal/identity"
	"fjacquet/ledgerline/internal/models"

	"github.com/spf13/cobra"
)

var (
	Date        string
	Description string
	Amount      string
	Account     string
)

// Cmd represents the fingerprint command
var Cmd = &cobra.Command{
	Use:   "fingerprint",
	Short: "Compute the deduplication fingerprint of a transaction",
	Long: `Compute the 40-character fingerprint used to reject duplicate transactions
on import. The same date, description, amount and account always yield the
same fingerprint.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fp, err := Compute(Date, Description, Amount, Account)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), fp)
		return err
	},
}

func init() {
	Cmd.Flags().StringVarP(&Date, "date", "t", "", "Transaction date")
	Cmd.Flags().StringVarP(&Description, "description", "d", "", "Transaction description")
	Cmd.Flags().StringVarP(&Amount, "amount", "a", "", "Transaction amount")
	Cmd.Flags().StringVar(&Account, "account", "", "Account identifier (optional)")
	_ = Cmd.MarkFlagRequired("date")
	_ = Cmd.MarkFlagRequired("description")
	_ = Cmd.MarkFlagRequired("amount")
}

// Compute parses the raw flag values and returns the fingerprint.
func Compute(date, description, amount, account string) (string, error) {
	parsed, err := dateutils.ParseDateString(date)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	value, err := models.ParseAmount(amount)
	if err != nil {
		return "", fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	return identity.Fingerprint(dateutils.ToISODate(parsed), description, value, account), nil
}
