package analysis

import (
	"math/rand"
	"sort"

	"github.com/KaramelBytes/locanalyzer/internal/table"
)

const (
	DefaultSampleSize = 5000
	DefaultSeed       = int64(42)
)

// Sample selects at most n rows for the map. Geolocated rows are preferred:
// when any row has coordinates only those rows are considered, and if there
// are more than n of them a seeded uniform draw picks exactly n. Without any
// coordinates the first n rows are returned. Selected rows keep their input
// order, so the same table, n and seed always give the same output. A
// non-positive n yields an empty table.
func Sample(e Enriched, n int, seed int64) *table.Table {
	t := e.Table
	if n <= 0 {
		return t.Head(0)
	}
	var geo []int
	for i, v := range t.Column(ColHasCoords) {
		if b, _ := v.Bool(); b {
			geo = append(geo, i)
		}
	}
	if len(geo) == 0 {
		return t.Head(n)
	}
	if len(geo) <= n {
		return t.Select(geo)
	}
	return t.Select(drawSorted(geo, n, seed))
}

// drawSorted picks n of pool without replacement (partial Fisher-Yates) and
// returns them in ascending order.
func drawSorted(pool []int, n int, seed int64) []int {
	rng := rand.New(rand.NewSource(seed))
	cp := make([]int, len(pool))
	copy(cp, pool)
	for i := 0; i < n; i++ {
		j := i + rng.Intn(len(cp)-i)
		cp[i], cp[j] = cp[j], cp[i]
	}
	picked := cp[:n]
	sort.Ints(picked)
	return picked
}
