package analysis

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/locanalyzer/internal/table"
)

// Report is a markdown-friendly view of the produced artifacts.
type Report struct {
	Name       string
	Rows       int
	Filter     Filter
	Columns    Columns
	Cuisines   []string
	Cities     CityStats
	Localities []CategoryCount
	Ratings    []Bin
	Samples    *table.Table
	Warnings   []string
}

// ReportOptions controls how much of each section BuildReport keeps.
type ReportOptions struct {
	Filter     Filter
	TopCities  int
	TopLocal   int
	RatingBins int
	SampleRows int
}

// BuildReport summarizes a sample table and its city stats. Localities are
// counted over the unfiltered sample; everything else follows the filter.
func BuildReport(name string, sample *table.Table, stats CityStats, opt ReportOptions) *Report {
	cols := ResolveColumns(sample.Columns())
	filtered := opt.Filter.Apply(sample, cols)
	r := &Report{
		Name:       name,
		Rows:       filtered.Len(),
		Filter:     opt.Filter,
		Columns:    cols,
		Cuisines:   CuisineList(sample, cols),
		Cities:     stats.ByCount(opt.TopCities),
		Localities: TopLocalities(sample, cols, opt.TopLocal),
		Ratings:    RatingHistogram(filtered, cols, opt.RatingBins),
		Samples:    filtered.Head(opt.SampleRows),
	}
	if !cols.HasCoords() {
		r.Warnings = append(r.Warnings, "dataset missing Latitude/Longitude; map view unavailable")
	}
	if cols.Locality == "" {
		r.Warnings = append(r.Warnings, "locality column not found")
	}
	if r.Ratings == nil {
		r.Warnings = append(r.Warnings, "no numeric rating values available")
	}
	return r
}

// Markdown renders the report in compact [SECTION] blocks.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[LOCATION SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	if r.Filter.active(r.Filter.City) || r.Filter.active(r.Filter.Cuisine) {
		b.WriteString(fmt.Sprintf("Filter: city=%s cuisine=%s\n", orAll(r.Filter.City), orAll(r.Filter.Cuisine)))
	}
	b.WriteString(fmt.Sprintf("Restaurants: %d\n", r.Rows))
	if len(r.Cuisines) > 0 {
		b.WriteString(fmt.Sprintf("Cuisines: %d distinct\n", len(r.Cuisines)))
	}

	if len(r.Cities) > 0 {
		b.WriteString("\n[CITY SUMMARY]\n")
		for _, c := range r.Cities {
			b.WriteString(fmt.Sprintf("- %s: %d restaurants, avg rating %s, avg cost %s\n",
				safeVal(c.City), c.RestaurantsCount, fmtOpt(c.AvgRating), fmtOpt(c.AvgCost)))
		}
	}
	if len(r.Localities) > 0 {
		b.WriteString("\n[TOP LOCALITIES]\n")
		for _, l := range r.Localities {
			b.WriteString(fmt.Sprintf("- %s (%d)\n", safeVal(l.Value), l.Count))
		}
	}
	if len(r.Ratings) > 0 {
		b.WriteString("\n[RATING DISTRIBUTION]\n")
		for _, bin := range r.Ratings {
			if bin.Count == 0 {
				continue
			}
			b.WriteString(fmt.Sprintf("- %.2f–%.2f: %d\n", bin.Lo, bin.Hi, bin.Count))
		}
	}
	if r.Samples != nil && r.Samples.Len() > 0 {
		b.WriteString("\n[SAMPLE ROWS]\n")
		cols := r.Samples.Columns()
		b.WriteString("| " + strings.Join(cols, " | ") + " |\n")
		b.WriteString("|" + strings.Repeat(" --- |", len(cols)) + "\n")
		for i := 0; i < r.Samples.Len(); i++ {
			vals := r.Samples.Row(i).Values()
			cells := make([]string, len(vals))
			for j, v := range vals {
				s := v.Text()
				if len(s) > 80 {
					s = s[:77] + "..."
				}
				cells[j] = safeVal(s)
			}
			b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func orAll(s string) string {
	if s == "" {
		return AllValues
	}
	return s
}

func fmtOpt(v table.Value) string {
	f, ok := v.Float()
	if !ok {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", f)
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
