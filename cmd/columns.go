package cmd

import (
	"fmt"

	"github.com/KaramelBytes/locanalyzer/internal/analysis"
	"github.com/KaramelBytes/locanalyzer/internal/table"
	"github.com/spf13/cobra"
)

var colDelimiter string

var columnsCmd = &cobra.Command{
	Use:   "columns <dataset>",
	Short: "Show which dataset columns were matched to each role",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		delim, err := parseDelimiter(colDelimiter)
		if err != nil {
			return err
		}
		t, err := table.ReadFile(args[0], table.ReadOptions{Delimiter: delim, MaxRows: 1})
		if err != nil {
			return err
		}
		cols := analysis.ResolveColumns(table.Clean(t).Columns())
		out := cmd.OutOrStdout()
		for _, r := range analysis.Roles {
			if name, ok := cols.Lookup(r); ok {
				fmt.Fprintf(out, "✓ %-10s %s\n", r, name)
			} else {
				fmt.Fprintf(out, "⚠ %-10s not found\n", r)
			}
		}
		if !cols.HasCoords() {
			fmt.Fprintln(out, "Map output will be skipped: latitude/longitude not both present.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(columnsCmd)
	columnsCmd.Flags().StringVar(&colDelimiter, "delimiter", "", "input delimiter: ',' | ';' | '|' | 'tab'")
}
