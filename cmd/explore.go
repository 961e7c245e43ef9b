package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/locanalyzer/internal/analysis"
	"github.com/KaramelBytes/locanalyzer/internal/table"
	"github.com/KaramelBytes/locanalyzer/internal/utils"
	"github.com/spf13/cobra"
)

var (
	exOutputDir  string
	exCity       string
	exCuisine    string
	exTop        int
	exBins       int
	exSampleRows int
	exWrite      string
)

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Summarize the artifacts of the last run, optionally filtered by city or cuisine",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		dir := c.OutputDir
		if cmd.Flags().Changed("output-dir") {
			dir = exOutputDir
		}
		if dir, err = utils.ExpandHome(dir); err != nil {
			return err
		}
		samplePath := filepath.Join(dir, c.SampleFile)
		sample, err := table.ReadFile(samplePath, table.ReadOptions{Delimiter: ','})
		if err != nil {
			return fmt.Errorf("read sample (run `locanalyzer run` first): %w", err)
		}
		var stats analysis.CityStats
		st, err := table.ReadFile(filepath.Join(dir, c.CityStatsFile), table.ReadOptions{Delimiter: ','})
		switch {
		case err == nil:
			stats = analysis.ParseCityStats(table.Clean(st))
		case debug:
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: city stats unavailable: %v\n", err)
		}

		rep := analysis.BuildReport(filepath.Base(samplePath), table.Clean(sample), stats, analysis.ReportOptions{
			Filter:     analysis.Filter{City: exCity, Cuisine: exCuisine},
			TopCities:  exTop,
			TopLocal:   exTop,
			RatingBins: exBins,
			SampleRows: exSampleRows,
		})
		md := rep.Markdown()
		if exWrite != "" {
			if err := utils.SafeWriteFile(exWrite, []byte(md)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote report to %s\n", exWrite)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exploreCmd)
	exploreCmd.Flags().StringVar(&exOutputDir, "output-dir", "", "directory holding run artifacts (overrides config)")
	exploreCmd.Flags().StringVar(&exCity, "city", analysis.AllValues, "only include this city")
	exploreCmd.Flags().StringVar(&exCuisine, "cuisine", analysis.AllValues, "only include restaurants serving this cuisine")
	exploreCmd.Flags().IntVar(&exTop, "top", 10, "number of cities and localities to list")
	exploreCmd.Flags().IntVar(&exBins, "bins", 20, "maximum rating histogram bins")
	exploreCmd.Flags().IntVar(&exSampleRows, "sample-rows", 5, "number of sample rows to include")
	exploreCmd.Flags().StringVarP(&exWrite, "output", "w", "", "optional path to write the report (Markdown)")
}
