package geomap

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/locanalyzer/internal/table"
)

func sampleTable() *table.Table {
	s := table.String
	return table.MustNew([]string{"Restaurant Name", "Latitude", "Longitude", "rating_num"}, [][]table.Value{
		{s("Cafe <b>One</b>"), table.Float(28.6), table.Float(77.2), table.Float(4.1)},
		{s("Two"), table.Float(28.6001), table.Float(77.2001), table.Missing()},
		{s("Far"), table.Float(15.5), table.Float(73.8), table.Float(3)},
		{s("Nowhere"), table.Missing(), table.Float(73.8), table.Float(3)},
	})
}

func TestCollectPointsAndClusters(t *testing.T) {
	in := Input{Sample: sampleTable(), Latitude: "Latitude", Longitude: "Longitude", Popup: []string{"Restaurant Name", "rating_num", "Cuisines"}}
	m, err := Collect(in, DefaultOptions())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if got := len(m.Points.Features); got != 3 {
		t.Fatalf("expected 3 points, got %d", got)
	}
	if got := len(m.Clusters.Features); got != 2 {
		t.Fatalf("expected 2 geohash clusters, got %d", got)
	}
	if n := m.Clusters.Features[0].Properties["count"]; n != 2 {
		t.Fatalf("first cluster should hold 2 points, got %v", n)
	}
	popup, ok := m.Points.Features[0].Properties["popup"].([][2]string)
	if !ok || len(popup) != 2 || popup[0][0] != "Restaurant Name" || popup[1] != [2]string{"rating_num", "4.1"} {
		t.Fatalf("unexpected popup fields: %#v", m.Points.Features[0].Properties["popup"])
	}
	if m.Center.Lat() != 28.6 || m.Center.Lon() != 77.2 {
		t.Fatalf("center should be the median point, got %v", m.Center)
	}
}

func TestBuildWritesHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "map.html")
	in := Input{Sample: sampleTable(), Latitude: "Latitude", Longitude: "Longitude", Popup: []string{"Restaurant Name"}}
	res := Build(path, in, DefaultOptions())
	if !res.OK() {
		t.Fatalf("Build failed: %v", res.Err)
	}
	if res.Points != 3 || res.Clusters != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read map: %v", err)
	}
	html := string(b)
	if !strings.Contains(html, `"type":"FeatureCollection"`) {
		t.Fatalf("map should embed GeoJSON")
	}
	if strings.Contains(html, "<b>One</b>") {
		t.Fatalf("popup text must not be embedded as raw HTML")
	}
	if !strings.Contains(html, "L.map(") {
		t.Fatalf("map script missing")
	}
}

func TestBuildWithoutPoints(t *testing.T) {
	s := table.String
	tbl := table.MustNew([]string{"Latitude", "Longitude"}, [][]table.Value{{s("x"), s("1")}})
	path := filepath.Join(t.TempDir(), "map.html")
	res := Build(path, Input{Sample: tbl, Latitude: "Latitude", Longitude: "Longitude"}, DefaultOptions())
	if !errors.Is(res.Err, ErrNoPoints) {
		t.Fatalf("expected ErrNoPoints, got %v", res.Err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("no file should be written on failure")
	}
	if res := Build(path, Input{Sample: tbl}, DefaultOptions()); !errors.Is(res.Err, ErrNoPoints) {
		t.Fatalf("unresolved coordinates should give ErrNoPoints, got %v", res.Err)
	}
}
