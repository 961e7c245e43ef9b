package cmd

import (
	"fmt"
	"io"

	"github.com/KaramelBytes/locanalyzer/internal/geomap"
	"github.com/KaramelBytes/locanalyzer/internal/pipeline"
	"github.com/KaramelBytes/locanalyzer/internal/utils"
	"github.com/spf13/cobra"
)

var (
	runOutputDir  string
	runSampleSize int
	runSeed       int64
	runDelimiter  string
	runMaxRows    int
	runNoMap      bool
	runQuiet      bool
)

var pipelineCmd = &cobra.Command{
	Use:   "run [dataset]",
	Short: "Run the pipeline and write sample, city stats, map and run summary",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		opt := pipeline.Options{
			InputPath:     c.DataPath,
			OutputDir:     c.OutputDir,
			MaxRows:       c.MaxRows,
			SampleSize:    c.SampleSize,
			Seed:          c.Seed,
			NoMap:         !c.MapEnabled,
			Map:           geomap.Options{Title: c.MapTitle, Zoom: c.MapZoom, GeohashPrecision: c.GeohashPrecision},
			SampleFile:    c.SampleFile,
			CityStatsFile: c.CityStatsFile,
			MapFile:       c.MapFile,
			SummaryFile:   c.SummaryFile,
			Debug:         debug,
		}
		delim := c.Delimiter
		if len(args) == 1 {
			opt.InputPath = args[0]
		}
		f := cmd.Flags()
		if f.Changed("output-dir") {
			opt.OutputDir = runOutputDir
		}
		if f.Changed("sample-size") {
			if runSampleSize <= 0 {
				return fmt.Errorf("--sample-size must be positive")
			}
			opt.SampleSize = runSampleSize
		}
		if f.Changed("seed") {
			opt.Seed = runSeed
		}
		if f.Changed("delimiter") {
			delim = runDelimiter
		}
		if f.Changed("max-rows") {
			opt.MaxRows = runMaxRows
		}
		if runNoMap {
			opt.NoMap = true
		}
		if opt.Delimiter, err = parseDelimiter(delim); err != nil {
			return err
		}
		if opt.InputPath, err = utils.ExpandHome(opt.InputPath); err != nil {
			return err
		}
		if opt.OutputDir, err = utils.ExpandHome(opt.OutputDir); err != nil {
			return err
		}
		opt.Log = cmd.OutOrStdout()
		if runQuiet {
			opt.Log = io.Discard
		}

		sum, err := pipeline.Run(opt)
		if err != nil {
			return err
		}
		if !runQuiet {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Run %s complete: %d rows in, %d sampled, %d cities\n",
				sum.RunID, sum.Rows.Input, sum.Rows.Sampled, sum.Rows.Cities)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pipelineCmd)
	pipelineCmd.Flags().StringVarP(&runOutputDir, "output-dir", "o", "", "directory for artifacts (overrides config)")
	pipelineCmd.Flags().IntVar(&runSampleSize, "sample-size", 0, "maximum rows in the map sample (overrides config)")
	pipelineCmd.Flags().Int64Var(&runSeed, "seed", 0, "random seed for sampling (overrides config)")
	pipelineCmd.Flags().StringVar(&runDelimiter, "delimiter", "", "input delimiter: ',' | ';' | '|' | 'tab'")
	pipelineCmd.Flags().IntVar(&runMaxRows, "max-rows", 0, "maximum input rows to load (0 = unlimited)")
	pipelineCmd.Flags().BoolVar(&runNoMap, "no-map", false, "skip the HTML map")
	pipelineCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "suppress progress output")
}
