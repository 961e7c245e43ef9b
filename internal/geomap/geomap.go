// Package geomap turns a sampled restaurant table into a self-contained
// HTML map. Points and geohash clusters are embedded as GeoJSON.
package geomap

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"sort"

	geohash "github.com/TomiHiltunen/geohash-golang"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/KaramelBytes/locanalyzer/internal/table"
	"github.com/KaramelBytes/locanalyzer/internal/utils"
)

// ErrNoPoints is returned when no row of the sample has both coordinates.
var ErrNoPoints = errors.New("no geolocated points to map")

// Options controls map rendering.
type Options struct {
	Title string
	// Zoom is the initial zoom level around the median point.
	Zoom int
	// GeohashPrecision is the geohash prefix length used to cluster points.
	GeohashPrecision int
}

// DefaultOptions returns the defaults used by the pipeline.
func DefaultOptions() Options {
	return Options{Title: "Restaurants", Zoom: 12, GeohashPrecision: 5}
}

// Input is what the map needs from the pipeline: the sample and the names of
// its coordinate and popup columns.
type Input struct {
	Sample    *table.Table
	Latitude  string
	Longitude string
	Popup     []string
}

// Result is the outcome of Build. Err is non-nil when no artifact was written.
type Result struct {
	Path     string
	Points   int
	Clusters int
	Center   orb.Point
	Err      error
}

// OK reports whether the map artifact was written.
func (r Result) OK() bool { return r.Err == nil }

// Build renders the map and writes it to path atomically.
func Build(path string, in Input, opt Options) Result {
	res := Result{Path: path}
	m, err := Collect(in, opt)
	if err != nil {
		res.Err = err
		return res
	}
	res.Points, res.Clusters, res.Center = len(m.Points.Features), len(m.Clusters.Features), m.Center
	html, err := m.Render(opt)
	if err != nil {
		res.Err = err
		return res
	}
	if err := utils.SafeWriteFile(path, html); err != nil {
		res.Err = fmt.Errorf("write map: %w", err)
	}
	return res
}

// Map is the geometry behind the artifact.
type Map struct {
	Points   *geojson.FeatureCollection
	Clusters *geojson.FeatureCollection
	Center   orb.Point
	Bound    orb.Bound
}

// Collect builds point features (with ordered popup fields) and geohash
// clusters from the rows of in.Sample that carry both coordinates.
func Collect(in Input, opt Options) (*Map, error) {
	if in.Sample == nil || in.Latitude == "" || in.Longitude == "" {
		return nil, ErrNoPoints
	}
	if opt.GeohashPrecision <= 0 {
		opt.GeohashPrecision = DefaultOptions().GeohashPrecision
	}
	points := geojson.NewFeatureCollection()
	var mp orb.MultiPoint
	type cluster struct {
		sumLat, sumLon float64
		n              int
	}
	var order []string
	clusters := map[string]*cluster{}

	for i := 0; i < in.Sample.Len(); i++ {
		row := in.Sample.Row(i)
		lat, okLat := table.ParseFloat(row.Get(in.Latitude))
		lon, okLon := table.ParseFloat(row.Get(in.Longitude))
		if !okLat || !okLon {
			continue
		}
		pt := orb.Point{lon, lat}
		mp = append(mp, pt)

		f := geojson.NewFeature(pt)
		fields := make([][2]string, 0, len(in.Popup))
		for _, col := range in.Popup {
			if !in.Sample.Has(col) {
				continue
			}
			fields = append(fields, [2]string{col, row.Get(col).Text()})
		}
		f.Properties["popup"] = fields
		points.Append(f)

		key := clusterKey(lat, lon, opt.GeohashPrecision)
		c := clusters[key]
		if c == nil {
			c = &cluster{}
			clusters[key] = c
			order = append(order, key)
		}
		c.sumLat += lat
		c.sumLon += lon
		c.n++
	}
	if len(mp) == 0 {
		return nil, ErrNoPoints
	}

	cfc := geojson.NewFeatureCollection()
	for _, key := range order {
		c := clusters[key]
		f := geojson.NewFeature(orb.Point{c.sumLon / float64(c.n), c.sumLat / float64(c.n)})
		f.Properties["geohash"] = key
		f.Properties["count"] = c.n
		cfc.Append(f)
	}
	return &Map{Points: points, Clusters: cfc, Center: medianPoint(mp), Bound: mp.Bound()}, nil
}

func clusterKey(lat, lon float64, precision int) string {
	gh := geohash.Encode(lat, lon)
	if precision < len(gh) {
		gh = gh[:precision]
	}
	return gh
}

func medianPoint(mp orb.MultiPoint) orb.Point {
	xs := make([]float64, len(mp))
	ys := make([]float64, len(mp))
	for i, p := range mp {
		xs[i], ys[i] = p.Lon(), p.Lat()
	}
	return orb.Point{median(xs), median(ys)}
}

func median(v []float64) float64 {
	sort.Float64s(v)
	n := len(v)
	if n%2 == 1 {
		return v[n/2]
	}
	return (v[n/2-1] + v[n/2]) / 2
}

type pageData struct {
	Title     string
	Zoom      int
	CenterLat float64
	CenterLon float64
	Bounds    template.JS
	Points    template.JS
	Clusters  template.JS
}

// Render produces the HTML page for m.
func (m *Map) Render(opt Options) ([]byte, error) {
	if opt.Zoom <= 0 {
		opt.Zoom = DefaultOptions().Zoom
	}
	if opt.Title == "" {
		opt.Title = DefaultOptions().Title
	}
	pts, err := json.Marshal(m.Points)
	if err != nil {
		return nil, fmt.Errorf("marshal points: %w", err)
	}
	cls, err := json.Marshal(m.Clusters)
	if err != nil {
		return nil, fmt.Errorf("marshal clusters: %w", err)
	}
	bounds, err := json.Marshal([][2]float64{
		{m.Bound.Min.Lat(), m.Bound.Min.Lon()},
		{m.Bound.Max.Lat(), m.Bound.Max.Lon()},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal bounds: %w", err)
	}
	var buf bytes.Buffer
	err = pageTmpl.Execute(&buf, pageData{
		Title:     opt.Title,
		Zoom:      opt.Zoom,
		CenterLat: m.Center.Lat(),
		CenterLon: m.Center.Lon(),
		Bounds:    template.JS(bounds),
		Points:    template.JS(pts),
		Clusters:  template.JS(cls),
	})
	if err != nil {
		return nil, fmt.Errorf("render map: %w", err)
	}
	return buf.Bytes(), nil
}
