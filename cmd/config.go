package cmd

import (
	"fmt"
	"strconv"

	cfgpkg "github.com/KaramelBytes/locanalyzer/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set locanalyzer configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "data_path: %s\n", c.DataPath)
		if c.Delimiter != "" {
			fmt.Fprintf(out, "delimiter: %q\n", c.Delimiter)
		}
		if c.MaxRows > 0 {
			fmt.Fprintf(out, "max_rows: %d\n", c.MaxRows)
		}
		fmt.Fprintf(out, "output_dir: %s\n", c.OutputDir)
		fmt.Fprintf(out, "sample_file: %s\n", c.SampleFile)
		fmt.Fprintf(out, "city_stats_file: %s\n", c.CityStatsFile)
		fmt.Fprintf(out, "map_file: %s\n", c.MapFile)
		fmt.Fprintf(out, "summary_file: %s\n", c.SummaryFile)
		fmt.Fprintf(out, "sample_size: %d\n", c.SampleSize)
		fmt.Fprintf(out, "seed: %d\n", c.Seed)
		fmt.Fprintf(out, "map_enabled: %t\n", c.MapEnabled)
		fmt.Fprintf(out, "map_title: %s\n", c.MapTitle)
		fmt.Fprintf(out, "map_zoom: %d\n", c.MapZoom)
		fmt.Fprintf(out, "geohash_precision: %d\n", c.GeohashPrecision)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c, err := currentConfig()
		if err != nil {
			return err
		}
		if err := setKey(c, key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func setKey(c *cfgpkg.Global, key, val string) error {
	switch key {
	case "data_path":
		c.DataPath = val
	case "delimiter":
		if _, err := parseDelimiter(val); err != nil {
			return err
		}
		c.Delimiter = val
	case "max_rows":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for max_rows: %v", val)
		}
		c.MaxRows = i
	case "output_dir":
		c.OutputDir = val
	case "sample_file":
		c.SampleFile = val
	case "city_stats_file":
		c.CityStatsFile = val
	case "map_file":
		c.MapFile = val
	case "summary_file":
		c.SummaryFile = val
	case "sample_size":
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return fmt.Errorf("invalid positive int for sample_size: %v", val)
		}
		c.SampleSize = i
	case "seed":
		i, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid int for seed: %w", err)
		}
		c.Seed = i
	case "map_enabled":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for map_enabled: %w", err)
		}
		c.MapEnabled = b
	case "map_title":
		c.MapTitle = val
	case "map_zoom":
		i, err := strconv.Atoi(val)
		if err != nil || i < 1 || i > 19 {
			return fmt.Errorf("invalid map_zoom: %v (use 1-19)", val)
		}
		c.MapZoom = i
	case "geohash_precision":
		i, err := strconv.Atoi(val)
		if err != nil || i < 1 || i > 12 {
			return fmt.Errorf("invalid geohash_precision: %v (use 1-12)", val)
		}
		c.GeohashPrecision = i
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}
