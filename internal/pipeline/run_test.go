package pipeline

import (
	"bytes"
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/locanalyzer/internal/analysis"
	"github.com/KaramelBytes/locanalyzer/internal/table"
)

const fixture = `lat,long,City,Aggregate Rating,Restaurant Name
28.6,77.2,Delhi,4.1,A
28.7,77.1,Delhi,Rated 3.9/5,B
abc,77.0,Mumbai,3.0,C
19.0,72.8,Mumbai,,D
19.0,72.8,Mumbai,,D
`

func writeFixture(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "restaurants.csv")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestRunEndToEnd(t *testing.T) {
	out := filepath.Join(t.TempDir(), "outputs")
	opt := DefaultOptions()
	opt.InputPath = writeFixture(t, fixture)
	opt.OutputDir = out
	var logBuf bytes.Buffer
	opt.Log = &logBuf

	sum, err := Run(opt)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Rows.Input != 5 || sum.Rows.Cleaned != 4 {
		t.Fatalf("unexpected row counts: %+v", sum.Rows)
	}
	if sum.Rows.Geolocated != 3 || sum.Rows.Sampled != 3 || sum.Rows.Cities != 2 {
		t.Fatalf("unexpected row counts: %+v", sum.Rows)
	}

	sample, err := table.ReadFile(filepath.Join(out, "restaurants_sample.csv"), table.ReadOptions{})
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if sample.Len() != 3 {
		t.Fatalf("sample should only hold geolocated rows, got %d", sample.Len())
	}
	for _, col := range []string{analysis.ColLatitude, analysis.ColLongitude, analysis.ColRatingNum, analysis.ColHasCoords} {
		if !sample.Has(col) {
			t.Fatalf("sample missing column %q: %v", col, sample.Columns())
		}
	}
	for i, v := range sample.Column(analysis.ColHasCoords) {
		if v.Text() != "true" {
			t.Fatalf("row %d should have coordinates", i)
		}
	}
	if got := sample.Row(1).Get(analysis.ColRatingNum).Text(); got != "3.9" {
		t.Fatalf("rating_num for B = %q, want 3.9", got)
	}

	stats, err := table.ReadFile(filepath.Join(out, "city_stats.csv"), table.ReadOptions{})
	if err != nil {
		t.Fatalf("read city stats: %v", err)
	}
	if stats.Len() != 2 {
		t.Fatalf("expected 2 cities, got %d", stats.Len())
	}
	parsed := analysis.ParseCityStats(stats)
	delhi, ok := parsed.Find("Delhi")
	if !ok || delhi.RestaurantsCount != 2 {
		t.Fatalf("unexpected Delhi stats: %+v", delhi)
	}
	if avg, _ := delhi.AvgRating.Float(); math.Abs(avg-4.0) > 1e-9 {
		t.Fatalf("Delhi avg rating = %v, want 4.0", avg)
	}
	mumbai, _ := parsed.Find("Mumbai")
	if avg, _ := mumbai.AvgRating.Float(); mumbai.RestaurantsCount != 2 || avg != 3.0 {
		t.Fatalf("unexpected Mumbai stats: %+v", mumbai)
	}

	if !sum.Map.Written {
		t.Fatalf("map should be written: %+v", sum.Map)
	}
	if _, err := os.Stat(filepath.Join(out, "restaurants_map.html")); err != nil {
		t.Fatalf("map artifact missing: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(out, "run_summary.yaml"))
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	var back Summary
	if err := yaml.Unmarshal(b, &back); err != nil {
		t.Fatalf("parse summary: %v", err)
	}
	if back.RunID != sum.RunID || back.Columns["rating"] != "Aggregate Rating" || back.Columns["latitude"] != "Latitude" {
		t.Fatalf("unexpected summary: %+v", back)
	}
	if !strings.Contains(logBuf.String(), "Loading dataset...") || !strings.Contains(logBuf.String(), "✓ Saved map") {
		t.Fatalf("unexpected log output:\n%s", logBuf.String())
	}
}

func TestRunMissingInput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "outputs")
	opt := DefaultOptions()
	opt.InputPath = filepath.Join(t.TempDir(), "nope.csv")
	opt.OutputDir = out
	_, err := Run(opt)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("no artifacts should be written on load failure")
	}
}

func TestRunWithoutCoordinatesRemovesStaleMap(t *testing.T) {
	out := t.TempDir()
	stale := filepath.Join(out, "restaurants_map.html")
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	opt := DefaultOptions()
	opt.InputPath = writeFixture(t, "City,Rating\nDelhi,4.0\nPune,3.5\n")
	opt.OutputDir = out
	sum, err := Run(opt)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Map.Written || sum.Map.Reason == "" {
		t.Fatalf("map should be skipped with a reason: %+v", sum.Map)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("stale map should be removed")
	}
	if sum.Rows.Sampled != 2 || sum.Rows.Cities != 2 {
		t.Fatalf("unexpected row counts: %+v", sum.Rows)
	}
	found := false
	for _, r := range sum.Unresolved {
		if r == string(analysis.RoleLatitude) {
			found = true
		}
	}
	if !found {
		t.Fatalf("latitude should be unresolved: %v", sum.Unresolved)
	}
}

func TestRunSampleIsDeterministic(t *testing.T) {
	in := writeFixture(t, fixture)
	read := func() []byte {
		opt := DefaultOptions()
		opt.InputPath = in
		opt.OutputDir = t.TempDir()
		opt.SampleSize = 2
		opt.NoMap = true
		if _, err := Run(opt); err != nil {
			t.Fatalf("Run: %v", err)
		}
		b, err := os.ReadFile(filepath.Join(opt.OutputDir, opt.SampleFile))
		if err != nil {
			t.Fatalf("read sample: %v", err)
		}
		return b
	}
	first, second := read(), read()
	if !bytes.Equal(first, second) {
		t.Fatalf("same seed should give the same sample:\n%s\n---\n%s", first, second)
	}
	if n := strings.Count(strings.TrimSpace(string(first)), "\n"); n != 2 {
		t.Fatalf("expected 2 sampled rows, got %d", n)
	}
}

func TestRunMapWriteFailureDegrades(t *testing.T) {
	out := t.TempDir()
	// a non-empty directory where the map file should go cannot be replaced
	blocked := filepath.Join(out, "restaurants_map.html")
	if err := os.MkdirAll(filepath.Join(blocked, "keep"), 0o755); err != nil {
		t.Fatal(err)
	}
	opt := DefaultOptions()
	opt.InputPath = writeFixture(t, fixture)
	opt.OutputDir = out
	sum, err := Run(opt)
	if err != nil {
		t.Fatalf("map failure must not fail the run: %v", err)
	}
	if sum.Map.Written || sum.Map.Reason == "" {
		t.Fatalf("map outcome should carry the failure reason: %+v", sum.Map)
	}
	if sum.Artifacts.Map != "" {
		t.Fatalf("failed map should not be listed as an artifact: %+v", sum.Artifacts)
	}
	for _, name := range []string{"restaurants_sample.csv", "city_stats.csv", "run_summary.yaml"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Fatalf("expected artifact %s: %v", name, err)
		}
	}
}

func TestRunTableWriteFailureKeepsPreviousSample(t *testing.T) {
	out := t.TempDir()
	oldSample := filepath.Join(out, "restaurants_sample.csv")
	if err := os.WriteFile(oldSample, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(out, "city_stats.csv", "keep"), 0o755); err != nil {
		t.Fatal(err)
	}
	opt := DefaultOptions()
	opt.InputPath = writeFixture(t, fixture)
	opt.OutputDir = out
	if _, err := Run(opt); err == nil {
		t.Fatalf("expected error when city stats cannot be written")
	}
	b, err := os.ReadFile(oldSample)
	if err != nil || string(b) != "old" {
		t.Fatalf("previous sample should be untouched, got %q (%v)", b, err)
	}
	if _, err := os.Stat(oldSample + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("staged temp file should be cleaned up")
	}
	if _, err := os.Stat(filepath.Join(out, "run_summary.yaml")); !os.IsNotExist(err) {
		t.Fatalf("no summary should be written after a failed run")
	}
}
