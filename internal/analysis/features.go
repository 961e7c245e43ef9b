package analysis

import (
	"regexp"
	"strconv"

	"github.com/KaramelBytes/locanalyzer/internal/table"
)

// Synthetic and canonical column names produced by Enrich.
const (
	ColRatingNum = "rating_num"
	ColHasCoords = "has_coords"
	ColLatitude  = "Latitude"
	ColLongitude = "Longitude"
)

var ratingPattern = regexp.MustCompile(`[0-9]*\.?[0-9]+`)

// Enriched is a cleaned table with rating_num and has_coords attached, plus
// the role bindings that describe it.
type Enriched struct {
	Table   *table.Table
	Columns Columns
	// Rated counts rows with a present rating_num.
	Rated int
	// Geolocated counts rows with has_coords=true.
	Geolocated int
}

// Enrich coerces coordinates, extracts numeric ratings and flags rows with
// both coordinates. It never fails: unparsable cells become absent and
// unresolved roles disable the matching feature.
func Enrich(t *table.Table, cols Columns) Enriched {
	out := Enriched{Table: t, Columns: cols}
	n := t.Len()

	hasCoords := make([]table.Value, n)
	for i := range hasCoords {
		hasCoords[i] = table.Boolean(false)
	}
	if cols.HasCoords() {
		lat := coerceFloats(t.Column(cols.Latitude))
		lon := coerceFloats(t.Column(cols.Longitude))
		out.Table = out.Table.WithColumn(cols.Latitude, lat).WithColumn(cols.Longitude, lon)
		for i := 0; i < n; i++ {
			ok := lat[i].IsPresent() && lon[i].IsPresent()
			hasCoords[i] = table.Boolean(ok)
			if ok {
				out.Geolocated++
			}
		}
		out.Table, out.Columns.Latitude = renameIfFree(out.Table, cols.Latitude, ColLatitude)
		out.Table, out.Columns.Longitude = renameIfFree(out.Table, cols.Longitude, ColLongitude)
	}

	ratings := make([]table.Value, n)
	if cols.Rating != "" {
		for i, v := range t.Column(cols.Rating) {
			ratings[i] = ExtractRating(v)
			if ratings[i].IsPresent() {
				out.Rated++
			}
		}
	}
	out.Table = out.Table.WithColumn(ColRatingNum, ratings).WithColumn(ColHasCoords, hasCoords)
	return out
}

// ExtractRating returns the first integer or decimal number found in the
// textual form of v, e.g. 3.4 from "Rated 3.4/5". No number yields absent.
func ExtractRating(v table.Value) table.Value {
	if v.IsAbsent() {
		return table.Missing()
	}
	m := ratingPattern.FindString(v.Text())
	if m == "" {
		return table.Missing()
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return table.Missing()
	}
	return table.Float(f)
}

func coerceFloats(vals []table.Value) []table.Value {
	out := make([]table.Value, len(vals))
	for i, v := range vals {
		if f, ok := table.ParseFloat(v); ok {
			out[i] = table.Float(f)
		}
	}
	return out
}

// renameIfFree renames from to the canonical name when that name is unused,
// returning the column name the role is now bound to.
func renameIfFree(t *table.Table, from, to string) (*table.Table, string) {
	if from == to || t.Has(to) {
		return t, from
	}
	next, err := t.Rename(from, to)
	if err != nil {
		return t, from
	}
	return next, to
}

// PopupColumns lists the columns shown for each map marker: name, cuisines,
// numeric rating, cost and locality, limited to roles that resolved.
func PopupColumns(cols Columns) []string {
	var out []string
	for _, name := range []string{cols.Name, cols.Cuisines} {
		if name != "" {
			out = append(out, name)
		}
	}
	if cols.Rating != "" {
		out = append(out, ColRatingNum)
	}
	for _, name := range []string{cols.Cost, cols.Locality} {
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}
