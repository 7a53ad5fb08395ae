package main

import (
	"fmt"
	"os"

	"fjacquet/ledgerline/cmd/fingerprint"
	"fjacquet/ledgerline/cmd/importcsv"
	"fjacquet/ledgerline/cmd/normalize"
	"fjacquet/ledgerline/cmd/recurring"
	"fjacquet/ledgerline/cmd/reprocess"
	"fjacquet/ledgerline/cmd/root"
	"fjacquet/ledgerline/cmd/rules"
)

func init() {
	// 1. Initialize root command and persistent flags
	root.Init()

	// 2. Add all subcommands
	root.Cmd.AddCommand(normalize.Cmd)
	root.Cmd.AddCommand(fingerprint.Cmd)
	root.Cmd.AddCommand(importcsv.Cmd)
	root.Cmd.AddCommand(reprocess.Cmd)
	root.Cmd.AddCommand(recurring.Cmd)
	root.Cmd.AddCommand(rules.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
