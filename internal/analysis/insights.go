package analysis

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/KaramelBytes/locanalyzer/internal/table"
)

// AllValues is the filter value that disables a filter.
const AllValues = "All"

// Filter narrows a sample table by city and cuisine. Empty or "All" fields
// are ignored.
type Filter struct {
	City    string
	Cuisine string
}

func (f Filter) active(v string) bool { return v != "" && v != AllValues }

// CategoryCount is a value with its number of occurrences.
type CategoryCount struct {
	Value string
	Count int
}

// Bin is one equal-width histogram bucket over [Lo, Hi).
type Bin struct {
	Lo, Hi float64
	Count  int
}

// splitCuisines returns the trimmed, non-empty comma-separated entries of v.
func splitCuisines(v table.Value) []string {
	if v.IsAbsent() {
		return nil
	}
	parts := strings.Split(v.Text(), ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// CuisineList returns the sorted set of cuisines listed in the resolved
// cuisines column.
func CuisineList(t *table.Table, cols Columns) []string {
	if cols.Cuisines == "" {
		return nil
	}
	set := map[string]struct{}{}
	for _, v := range t.Column(cols.Cuisines) {
		for _, c := range splitCuisines(v) {
			set[c] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Apply returns the rows of t that pass f. City matches exactly; cuisine
// matches one listed entry, ignoring case. Filters on unresolved roles are
// ignored.
func (f Filter) Apply(t *table.Table, cols Columns) *table.Table {
	var keep []int
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		if f.active(f.City) && cols.City != "" && row.Get(cols.City).Text() != f.City {
			continue
		}
		if f.active(f.Cuisine) && cols.Cuisines != "" && !hasCuisine(row.Get(cols.Cuisines), f.Cuisine) {
			continue
		}
		keep = append(keep, i)
	}
	return t.Select(keep)
}

func hasCuisine(v table.Value, want string) bool {
	want = strings.TrimSpace(want)
	for _, c := range splitCuisines(v) {
		if strings.EqualFold(c, want) {
			return true
		}
	}
	return false
}

// TopLocalities counts present locality values, highest first (ties by
// name), and keeps at most n.
func TopLocalities(t *table.Table, cols Columns, n int) []CategoryCount {
	if cols.Locality == "" {
		return nil
	}
	counts := map[string]int{}
	for _, v := range t.Column(cols.Locality) {
		if v.IsPresent() {
			counts[v.Text()]++
		}
	}
	tops := make([]CategoryCount, 0, len(counts))
	for k, c := range counts {
		tops = append(tops, CategoryCount{Value: k, Count: c})
	}
	sort.Slice(tops, func(i, j int) bool {
		if tops[i].Count == tops[j].Count {
			return tops[i].Value < tops[j].Value
		}
		return tops[i].Count > tops[j].Count
	})
	if n > 0 && len(tops) > n {
		tops = tops[:n]
	}
	return tops
}

// RatingColumn picks the column to chart ratings from: rating_num when the
// table carries it, else the resolved rating role.
func RatingColumn(t *table.Table, cols Columns) string {
	if t.Has(ColRatingNum) {
		return ColRatingNum
	}
	return cols.Rating
}

// RatingHistogram buckets the numeric ratings of t into at most maxBins
// equal-width bins. It returns nil when no rating parses.
func RatingHistogram(t *table.Table, cols Columns, maxBins int) []Bin {
	col := RatingColumn(t, cols)
	if col == "" {
		return nil
	}
	if maxBins <= 0 {
		maxBins = 20
	}
	var vals []float64
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range t.Column(col) {
		f, ok := table.ParseFloat(v)
		if !ok {
			continue
		}
		vals = append(vals, f)
		lo = math.Min(lo, f)
		hi = math.Max(hi, f)
	}
	if len(vals) == 0 {
		return nil
	}
	if hi == lo {
		return []Bin{{Lo: lo, Hi: hi, Count: len(vals)}}
	}
	width := (hi - lo) / float64(maxBins)
	bins := make([]Bin, maxBins)
	for i := range bins {
		bins[i] = Bin{Lo: lo + float64(i)*width, Hi: lo + float64(i+1)*width}
	}
	for _, f := range vals {
		k := int((f - lo) / width)
		if k >= maxBins {
			k = maxBins - 1
		}
		bins[k].Count++
	}
	return bins
}

// ParseCityStats reads a city-stats table (as written by CityStats.Table)
// back into CityStats. Unparsable counts read as zero.
func ParseCityStats(t *table.Table) CityStats {
	out := make(CityStats, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		s := CityStat{City: row.Get("city").Text()}
		s.RestaurantsCount, _ = strconv.Atoi(strings.TrimSpace(row.Get("restaurants_count").Text()))
		if f, ok := table.ParseFloat(row.Get("avg_rating")); ok {
			s.AvgRating = table.Float(f)
		}
		if f, ok := table.ParseFloat(row.Get("avg_cost")); ok {
			s.AvgCost = table.Float(f)
		}
		out = append(out, s)
	}
	return out
}

// ByCount returns a copy sorted by restaurants_count descending, stable on
// ties, truncated to n when n > 0.
func (cs CityStats) ByCount(n int) CityStats {
	out := make(CityStats, len(cs))
	copy(out, cs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].RestaurantsCount > out[j].RestaurantsCount })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
