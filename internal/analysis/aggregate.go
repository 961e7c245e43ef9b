package analysis

import (
	"strconv"

	"github.com/KaramelBytes/locanalyzer/internal/table"
)

// CityStat holds the summary for one city.
type CityStat struct {
	City             string
	RestaurantsCount int
	// AvgRating and AvgCost are numbers, or absent when nothing parsed.
	AvgRating table.Value
	AvgCost   table.Value
}

// CityStats is the per-city aggregate, ordered by first appearance.
type CityStats []CityStat

// Output columns of CityStats.Table.
var cityStatColumns = []string{"city", "restaurants_count", "avg_rating", "avg_cost"}

// AggregateByCity groups e by its resolved city column. Rows with an absent
// city are skipped; an unresolved city role yields no groups.
func AggregateByCity(e Enriched) CityStats {
	cols := e.Columns
	if cols.City == "" {
		return CityStats{}
	}
	type acc struct {
		rows      int
		names     map[string]struct{}
		ratingSum float64
		ratingN   int
		costSum   float64
		costN     int
	}
	var order []string
	groups := map[string]*acc{}

	t := e.Table
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		city := row.Get(cols.City)
		if city.IsAbsent() {
			continue
		}
		key := city.Text()
		g := groups[key]
		if g == nil {
			g = &acc{names: map[string]struct{}{}}
			groups[key] = g
			order = append(order, key)
		}
		g.rows++
		if cols.Name != "" {
			if nm := row.Get(cols.Name); nm.IsPresent() {
				g.names[nm.Text()] = struct{}{}
			}
		}
		if r, ok := row.Get(ColRatingNum).Float(); ok {
			g.ratingSum += r
			g.ratingN++
		}
		if cols.Cost != "" {
			if c, ok := table.ParseFloat(row.Get(cols.Cost)); ok {
				g.costSum += c
				g.costN++
			}
		}
	}

	out := make(CityStats, 0, len(order))
	for _, key := range order {
		g := groups[key]
		s := CityStat{City: key, RestaurantsCount: g.rows}
		if cols.Name != "" {
			s.RestaurantsCount = len(g.names)
		}
		if g.ratingN > 0 {
			s.AvgRating = table.Float(g.ratingSum / float64(g.ratingN))
		}
		if g.costN > 0 {
			s.AvgCost = table.Float(g.costSum / float64(g.costN))
		}
		out = append(out, s)
	}
	return out
}

// Find returns the stat for city and whether it exists.
func (cs CityStats) Find(city string) (CityStat, bool) {
	for _, s := range cs {
		if s.City == city {
			return s, true
		}
	}
	return CityStat{}, false
}

// Table renders the stats as a four-column table.
func (cs CityStats) Table() *table.Table {
	rows := make([][]table.Value, len(cs))
	for i, s := range cs {
		rows[i] = []table.Value{
			table.String(s.City),
			table.String(strconv.Itoa(s.RestaurantsCount)),
			s.AvgRating,
			s.AvgCost,
		}
	}
	return table.MustNew(cityStatColumns, rows)
}
