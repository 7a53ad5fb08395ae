// Package rules implements the vendor rules management commands
package rules

import (
	"fmt"
	"io"

	"fjacquet/ledgerline/cmd/root"
	"fjacquet/ledgerline/internal/logging"
	"fjacquet/ledgerline/internal/store"

	"github.com/spf13/cobra"
)

// Cmd represents the rules command
var Cmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage user vendor rules",
	Long: `Manage the user vendor rules file configured with rules.file or --rules.
User pattern rules are evaluated before the built-in ones and user merchant
keys join the built-in merchant table. Run reprocess afterwards to apply new
rules to stored transactions.`,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List user vendor rules",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rs, err := ruleStore()
		if err != nil {
			return err
		}
		file, err := rs.Load()
		if err != nil {
			return err
		}
		return printRules(cmd.OutOrStdout(), file)
	},
}

var addPatternCmd = &cobra.Command{
	Use:   "add-pattern <regex> <name>",
	Short: "Add a pattern rule mapping a regular expression to a vendor name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rs, err := ruleStore()
		if err != nil {
			return err
		}
		if err := rs.AddPattern(args[0], args[1]); err != nil {
			return err
		}
		root.GetLogger().Info("Added pattern rule",
			logging.F(logging.FieldRule, args[0]),
			logging.F(logging.FieldVendor, args[1]),
			logging.F(logging.FieldOutputFile, rs.Path))
		return nil
	},
}

var addMerchantCmd = &cobra.Command{
	Use:   "add-merchant <key> <name>",
	Short: "Add a merchant rule mapping a description substring to a vendor name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rs, err := ruleStore()
		if err != nil {
			return err
		}
		if err := rs.AddMerchant(args[0], args[1]); err != nil {
			return err
		}
		root.GetLogger().Info("Added merchant rule",
			logging.F(logging.FieldRule, args[0]),
			logging.F(logging.FieldVendor, args[1]),
			logging.F(logging.FieldOutputFile, rs.Path))
		return nil
	},
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(addPatternCmd)
	Cmd.AddCommand(addMerchantCmd)
}

func ruleStore() (*store.RuleStore, error) {
	c, err := root.GetContainer()
	if err != nil {
		return nil, err
	}
	rs := c.GetRuleStore()
	if rs.Path == "" {
		return nil, fmt.Errorf("no rules file configured: set rules.file or pass --rules")
	}
	return rs, nil
}

func printRules(w io.Writer, file store.RuleFile) error {
	if file.IsEmpty() {
		_, err := fmt.Fprintln(w, "No user vendor rules")
		return err
	}
	for _, p := range file.Patterns {
		if _, err := fmt.Fprintf(w, "pattern  %-40s -> %s\n", p.Pattern, p.Name); err != nil {
			return err
		}
	}
	for _, key := range file.MerchantKeys() {
		if _, err := fmt.Fprintf(w, "merchant %-40s -> %s\n", key, file.Merchants[key]); err != nil {
			return err
		}
	}
	return nil
}
