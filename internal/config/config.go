package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Input dataset (delimited text with a header row).
	DataPath  string `mapstructure:"data_path" yaml:"data_path"`
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	MaxRows   int    `mapstructure:"max_rows" yaml:"max_rows"`

	// Artifacts
	OutputDir     string `mapstructure:"output_dir" yaml:"output_dir"`
	SampleFile    string `mapstructure:"sample_file" yaml:"sample_file"`
	CityStatsFile string `mapstructure:"city_stats_file" yaml:"city_stats_file"`
	MapFile       string `mapstructure:"map_file" yaml:"map_file"`
	SummaryFile   string `mapstructure:"summary_file" yaml:"summary_file"`

	// Sampling
	SampleSize int   `mapstructure:"sample_size" yaml:"sample_size"`
	Seed       int64 `mapstructure:"seed" yaml:"seed"`

	// Map rendering
	MapEnabled       bool   `mapstructure:"map_enabled" yaml:"map_enabled"`
	MapTitle         string `mapstructure:"map_title" yaml:"map_title"`
	MapZoom          int    `mapstructure:"map_zoom" yaml:"map_zoom"`
	GeohashPrecision int    `mapstructure:"geohash_precision" yaml:"geohash_precision"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.locanalyzer/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := configDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("LOCANALYZER")
	v.AutomaticEnv()

	v.SetDefault("data_path", "Dataset.csv")
	v.SetDefault("delimiter", "")
	v.SetDefault("max_rows", 0)
	v.SetDefault("output_dir", "outputs")
	v.SetDefault("sample_file", "restaurants_sample.csv")
	v.SetDefault("city_stats_file", "city_stats.csv")
	v.SetDefault("map_file", "restaurants_map.html")
	v.SetDefault("summary_file", "run_summary.yaml")
	v.SetDefault("sample_size", 5000)
	v.SetDefault("seed", 42)
	v.SetDefault("map_enabled", true)
	v.SetDefault("map_title", "Restaurants")
	v.SetDefault("map_zoom", 12)
	v.SetDefault("geohash_precision", 5)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".locanalyzer"), nil
}
