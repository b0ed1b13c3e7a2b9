package main

import (
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the effective indicator rules in match order",
	RunE:  runRules,
}

func runRules(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	rules, err := cfg.Indicators.ResolveRules()
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"#", "ID", "Category", "Pattern", "Enabled"})
	table.SetAutoWrapText(false)
	for i, r := range rules {
		table.Append([]string{strconv.Itoa(i + 1), r.ID, r.Category, r.Pattern, strconv.FormatBool(r.IsEnabled())})
	}
	table.Render()
	return nil
}
