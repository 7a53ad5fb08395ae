// Package recurring implements the recurring charge detection command
package recurring

import (
	"fmt"
	"io"
	"time"

	"fjacquet/ledgerline/cmd/root"
	"fjacquet/ledgerline/internal/common"
	"fjacquet/ledgerline/internal/container"
	"fjacquet/ledgerline/internal/dateutils"
	"fjacquet/ledgerline/internal/importer"
	"fjacquet/ledgerline/internal/logging"
	"fjacquet/ledgerline/internal/models"
	recurringpkg "fjacquet/ledgerline/internal/recurring"

	"github.com/spf13/cobra"
)

// GroupBy overrides recurring.group_by from configuration.
var GroupBy string

// PatternRow is the CSV export form of a detected pattern.
type PatternRow struct {
	Vendor           string `csv:"Vendor"`
	Frequency        string `csv:"Frequency"`
	AverageAmount    string `csv:"AverageAmount"`
	Occurrences      int    `csv:"Occurrences"`
	LastDate         string `csv:"LastDate"`
	NextExpectedDate string `csv:"NextExpectedDate"`
	DaysUntil        int    `csv:"DaysUntil"`
	Overdue          bool   `csv:"Overdue"`
	Confidence       int    `csv:"Confidence"`
}

// Cmd represents the recurring command
var Cmd = &cobra.Command{
	Use:   "recurring",
	Short: "Detect recurring charges",
	Long: `Detect recurring charges such as subscriptions and utility bills.
Transactions are read from a CSV statement with -i, or from the ledger
otherwise. Each pattern shows its frequency, average amount, confidence and
the next expected charge. Use -o to export the patterns as CSV.`,
	RunE: runRecurring,
}

func init() {
	Cmd.Flags().StringVar(&GroupBy, "group-by", "", "Group on raw vendor or normalized vendor (vendor, normalized)")
}

func runRecurring(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	logger := c.GetLogger()

	detector := c.GetDetector()
	if GroupBy != "" {
		g, err := recurringpkg.ParseGroupBy(GroupBy)
		if err != nil {
			return err
		}
		detector = recurringpkg.NewDetector(logger,
			recurringpkg.WithGroupBy(g),
			recurringpkg.WithNormalizer(c.GetNormalizer()))
	}

	txs, err := loadTransactions(cmd, c, root.SharedFlags.Input)
	if err != nil {
		return err
	}

	patterns := detector.Detect(txs)
	rows := ToRows(patterns, time.Now())
	logger.Info("Recurring detection complete",
		logging.F(logging.FieldCount, len(txs)),
		logging.F(logging.FieldPatterns, len(patterns)))

	if root.SharedFlags.Output != "" {
		return common.WriteCSVFile(root.SharedFlags.Output, rows, c.GetConfig().Delimiter(), logger)
	}
	return printRows(cmd.OutOrStdout(), rows)
}

func loadTransactions(cmd *cobra.Command, c *container.Container, input string) ([]models.Transaction, error) {
	if input != "" {
		imp := importer.New(nil, c.GetNormalizer(), c.GetLogger(),
			importer.WithDelimiter(c.GetConfig().Delimiter()),
			importer.WithAccount(c.GetConfig().Import.Account))
		txs, _, err := imp.LoadFile(input)
		return txs, err
	}

	s, err := c.GetStore(cmd.Context())
	if err != nil {
		return nil, err
	}
	return s.List(cmd.Context())
}

// ToRows flattens patterns for display and export, scheduling against now.
func ToRows(patterns []models.RecurringPattern, now time.Time) []PatternRow {
	rows := make([]PatternRow, 0, len(patterns))
	for _, p := range patterns {
		row := PatternRow{
			Vendor:        p.GroupKey,
			Frequency:     string(p.Frequency),
			AverageAmount: models.FormatAmount(p.AverageAmount),
			Occurrences:   p.Occurrences(),
			LastDate:      dateutils.ToISODate(p.LastDate),
			Confidence:    p.Confidence,
		}
		if p.NextExpectedDate != nil {
			row.NextExpectedDate = dateutils.ToISODate(*p.NextExpectedDate)
			row.DaysUntil = recurringpkg.DaysUntilAt(*p.NextExpectedDate, now)
			row.Overdue = recurringpkg.IsOverdueAt(*p.NextExpectedDate, now)
		}
		rows = append(rows, row)
	}
	return rows
}

func printRows(w io.Writer, rows []PatternRow) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No recurring charges found")
		return err
	}
	for _, r := range rows {
		status := fmt.Sprintf("in %d days", r.DaysUntil)
		if r.Overdue {
			status = "OVERDUE"
		}
		if _, err := fmt.Fprintf(w, "%-30s %-9s %10s  x%-3d last %s  next %s (%s)  %d%%\n",
			r.Vendor, r.Frequency, r.AverageAmount, r.Occurrences,
			r.LastDate, r.NextExpectedDate, status, r.Confidence); err != nil {
			return err
		}
	}
	return nil
}
