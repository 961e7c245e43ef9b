// Package pipeline runs the batch: load, clean, enrich, sample, aggregate,
// map, and write every artifact into the output directory.
package pipeline

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/locanalyzer/internal/analysis"
	"github.com/KaramelBytes/locanalyzer/internal/geomap"
	"github.com/KaramelBytes/locanalyzer/internal/table"
	"github.com/KaramelBytes/locanalyzer/internal/utils"
)

// Options configures a run.
type Options struct {
	InputPath string
	OutputDir string
	// Delimiter of the input; 0 picks one from the file extension.
	Delimiter rune
	MaxRows   int

	SampleSize int
	Seed       int64

	NoMap bool
	Map   geomap.Options

	SampleFile    string
	CityStatsFile string
	MapFile       string
	SummaryFile   string

	// Log receives progress lines; nil discards them.
	Log   io.Writer
	Debug bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		InputPath:     "Dataset.csv",
		OutputDir:     "outputs",
		SampleSize:    analysis.DefaultSampleSize,
		Seed:          analysis.DefaultSeed,
		Map:           geomap.DefaultOptions(),
		SampleFile:    "restaurants_sample.csv",
		CityStatsFile: "city_stats.csv",
		MapFile:       "restaurants_map.html",
		SummaryFile:   "run_summary.yaml",
	}
}

// RowCounts describes how many rows each stage kept.
type RowCounts struct {
	Input      int `yaml:"input"`
	Cleaned    int `yaml:"cleaned"`
	Geolocated int `yaml:"geolocated"`
	Rated      int `yaml:"rated"`
	Sampled    int `yaml:"sampled"`
	Cities     int `yaml:"cities"`
}

// Artifacts lists the files written by a run.
type Artifacts struct {
	Sample    string `yaml:"sample"`
	CityStats string `yaml:"city_stats"`
	Map       string `yaml:"map,omitempty"`
	Summary   string `yaml:"summary"`
}

// MapOutcome records whether the map was produced and why not.
type MapOutcome struct {
	Written  bool   `yaml:"written"`
	Points   int    `yaml:"points,omitempty"`
	Clusters int    `yaml:"clusters,omitempty"`
	Reason   string `yaml:"reason,omitempty"`
}

// Summary is the key-value record of a run, written as YAML.
type Summary struct {
	RunID      string            `yaml:"run_id"`
	StartedAt  string            `yaml:"started_at"`
	Input      string            `yaml:"input"`
	SampleSize int               `yaml:"sample_size"`
	Seed       int64             `yaml:"seed"`
	Rows       RowCounts         `yaml:"rows"`
	Columns    map[string]string `yaml:"columns"`
	Unresolved []string          `yaml:"unresolved,omitempty"`
	Artifacts  Artifacts         `yaml:"artifacts"`
	Map        MapOutcome        `yaml:"map"`
	Warnings   []string          `yaml:"warnings,omitempty"`
}

// Run executes the pipeline. Only load and artifact-write failures are
// returned; a missing role or a failed map degrades the run instead.
func Run(opt Options) (*Summary, error) {
	def := DefaultOptions()
	if opt.SampleSize <= 0 {
		opt.SampleSize = def.SampleSize
	}
	if opt.OutputDir == "" {
		opt.OutputDir = def.OutputDir
	}
	if opt.SampleFile == "" {
		opt.SampleFile = def.SampleFile
	}
	if opt.CityStatsFile == "" {
		opt.CityStatsFile = def.CityStatsFile
	}
	if opt.MapFile == "" {
		opt.MapFile = def.MapFile
	}
	if opt.SummaryFile == "" {
		opt.SummaryFile = def.SummaryFile
	}
	log := opt.Log
	if log == nil {
		log = io.Discard
	}
	debugf := func(format string, a ...any) {
		if opt.Debug {
			fmt.Fprintf(log, "[debug] "+format+"\n", a...)
		}
	}

	sum := &Summary{
		RunID:      uuid.NewString(),
		StartedAt:  time.Now().UTC().Format(time.RFC3339),
		Input:      opt.InputPath,
		SampleSize: opt.SampleSize,
		Seed:       opt.Seed,
	}
	warn := func(format string, a ...any) {
		msg := fmt.Sprintf(format, a...)
		sum.Warnings = append(sum.Warnings, msg)
		fmt.Fprintf(log, "⚠ %s\n", msg)
	}

	fmt.Fprintln(log, "Loading dataset...")
	raw, err := table.ReadFile(opt.InputPath, table.ReadOptions{Delimiter: opt.Delimiter, MaxRows: opt.MaxRows})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", opt.InputPath, err)
	}
	sum.Rows.Input = raw.Len()
	debugf("loaded %d rows, %d columns", raw.Len(), len(raw.Columns()))

	cleaned := table.Clean(raw)
	sum.Rows.Cleaned = cleaned.Len()
	debugf("%d rows after cleaning", cleaned.Len())

	cols := analysis.ResolveColumns(cleaned.Columns())
	for _, r := range cols.Unresolved() {
		sum.Unresolved = append(sum.Unresolved, string(r))
		warn("no column found for %s", r)
	}

	enriched := analysis.Enrich(cleaned, cols)
	sum.Columns = enriched.Columns.Map()
	sum.Rows.Geolocated = enriched.Geolocated
	sum.Rows.Rated = enriched.Rated
	if cols.HasCoords() && enriched.Geolocated == 0 {
		warn("no row has both coordinates")
	}

	sample := analysis.Sample(enriched, opt.SampleSize, opt.Seed)
	sum.Rows.Sampled = sample.Len()
	stats := analysis.AggregateByCity(enriched)
	sum.Rows.Cities = len(stats)

	// Both tables are encoded and staged before either file is replaced.
	samplePath := filepath.Join(opt.OutputDir, opt.SampleFile)
	sampleCSV, err := encodeTable(samplePath, sample)
	if err != nil {
		return nil, err
	}
	statsPath := filepath.Join(opt.OutputDir, opt.CityStatsFile)
	statsCSV, err := encodeTable(statsPath, stats.Table())
	if err != nil {
		return nil, err
	}

	if err := utils.SafeWriteFiles([]utils.PendingFile{
		{Path: samplePath, Data: sampleCSV},
		{Path: statsPath, Data: statsCSV},
	}); err != nil {
		return nil, fmt.Errorf("write tables: %w", err)
	}
	sum.Artifacts.Sample = samplePath
	sum.Artifacts.CityStats = statsPath
	fmt.Fprintf(log, "✓ Saved sample (%d rows) to %s\n", sample.Len(), samplePath)
	fmt.Fprintf(log, "✓ Saved city stats (%d cities) to %s\n", len(stats), statsPath)

	mapPath := filepath.Join(opt.OutputDir, opt.MapFile)
	sum.Map = buildMap(mapPath, sample, enriched, opt)
	if sum.Map.Written {
		sum.Artifacts.Map = mapPath
		fmt.Fprintf(log, "✓ Saved map (%d points, %d clusters) to %s\n", sum.Map.Points, sum.Map.Clusters, mapPath)
	} else {
		warn("map not created: %s", sum.Map.Reason)
		if err := utils.RemoveStale(mapPath); err != nil {
			warn("%v", err)
		}
	}

	summaryPath := filepath.Join(opt.OutputDir, opt.SummaryFile)
	sum.Artifacts.Summary = summaryPath
	b, err := yaml.Marshal(sum)
	if err != nil {
		return nil, fmt.Errorf("marshal summary: %w", err)
	}
	if err := utils.SafeWriteFile(summaryPath, b); err != nil {
		return nil, fmt.Errorf("write summary: %w", err)
	}
	fmt.Fprintf(log, "✓ Saved run summary to %s\n", summaryPath)
	return sum, nil
}

func buildMap(path string, sample *table.Table, e analysis.Enriched, opt Options) MapOutcome {
	switch {
	case opt.NoMap:
		return MapOutcome{Reason: "disabled"}
	case !e.Columns.HasCoords():
		return MapOutcome{Reason: "latitude/longitude columns not found"}
	case e.Geolocated == 0:
		return MapOutcome{Reason: geomap.ErrNoPoints.Error()}
	}
	res := geomap.Build(path, geomap.Input{
		Sample:    sample,
		Latitude:  e.Columns.Latitude,
		Longitude: e.Columns.Longitude,
		Popup:     analysis.PopupColumns(e.Columns),
	}, opt.Map)
	if !res.OK() {
		return MapOutcome{Reason: res.Err.Error()}
	}
	return MapOutcome{Written: true, Points: res.Points, Clusters: res.Clusters}
}

func encodeTable(path string, t *table.Table) ([]byte, error) {
	b, err := table.Encode(t, ',')
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return b, nil
}
