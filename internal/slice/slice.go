// Package slice bins irregular model samples onto regular per-depth
// lon/lat grids for contour rendering.
package slice

import (
	"errors"
	"math"
	"sort"

	"github.com/seismo-data/tomo.report/internal/model"
)

// ErrNoData reports that a requested depth has no samples. Callers
// treat it as an empty result, not a failure.
var ErrNoData = errors.New("no data at depth")

// Grid is a dense 2-D array of values indexed by sorted unique
// latitude (rows) and longitude (columns). Cells with no surviving
// sample hold NaN so downstream plotters leave gaps.
type Grid struct {
	Depth float64
	Field model.Field

	lons []float64 // sorted unique, ascending
	lats []float64 // sorted unique, ascending
	vals []float64 // row-major, len = len(lats)*len(lons)
}

// Rows returns the number of distinct latitudes in the slice.
func (g *Grid) Rows() int { return len(g.lats) }

// Cols returns the number of distinct longitudes in the slice.
func (g *Grid) Cols() int { return len(g.lons) }

// Lons returns the sorted distinct longitudes backing the columns.
func (g *Grid) Lons() []float64 { return g.lons }

// Lats returns the sorted distinct latitudes backing the rows.
func (g *Grid) Lats() []float64 { return g.lats }

// At returns the value at row r (latitude index) and column c
// (longitude index). NaN means no data.
func (g *Grid) At(r, c int) float64 { return g.vals[r*len(g.lons)+c] }

// IsEmptyCell reports whether the cell holds the no-data sentinel.
func (g *Grid) IsEmptyCell(r, c int) bool { return math.IsNaN(g.At(r, c)) }

// Filled returns the number of cells holding a value.
func (g *Grid) Filled() int {
	n := 0
	for _, v := range g.vals {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}

// MinMax returns the extrema over filled cells, and false if every
// cell is empty.
func (g *Grid) MinMax() (min, max float64, ok bool) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, v := range g.vals {
		if math.IsNaN(v) {
			continue
		}
		ok = true
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max, ok
}

// Dims implements plotter.GridXYZ. Columns first, per gonum/plot.
func (g *Grid) Dims() (c, r int) { return len(g.lons), len(g.lats) }

// X implements plotter.GridXYZ: longitude of column c.
func (g *Grid) X(c int) float64 { return g.lons[c] }

// Y implements plotter.GridXYZ: latitude of row r.
func (g *Grid) Y(r int) float64 { return g.lats[r] }

// Z implements plotter.GridXYZ.
func (g *Grid) Z(c, r int) float64 { return g.At(r, c) }

// Bin scatters the samples at exactly depth onto a dense grid of the
// selected field. Samples whose resField value is strictly below
// minResolution are skipped and leave their cell empty; a nil
// minResolution disables masking. Duplicate (lon, lat) pairs overwrite
// in table order, last write wins. Returns ErrNoData when no sample
// matches the depth.
func Bin(t *model.Table, depth float64, field, resField model.Field, minResolution *float64) (*Grid, error) {
	var sl []model.Sample
	for _, s := range t.Samples {
		if s.Depth == depth {
			sl = append(sl, s)
		}
	}
	if len(sl) == 0 {
		return nil, ErrNoData
	}

	lons := distinctSorted(sl, func(s model.Sample) float64 { return s.Lon })
	lats := distinctSorted(sl, func(s model.Sample) float64 { return s.Lat })

	g := &Grid{
		Depth: depth,
		Field: field,
		lons:  lons,
		lats:  lats,
		vals:  make([]float64, len(lats)*len(lons)),
	}
	for i := range g.vals {
		g.vals[i] = math.NaN()
	}

	for _, s := range sl {
		if minResolution != nil && resField.Value(s) < *minResolution {
			continue
		}
		r := sort.SearchFloat64s(lats, s.Lat)
		c := sort.SearchFloat64s(lons, s.Lon)
		g.vals[r*len(lons)+c] = field.Value(s)
	}
	return g, nil
}

// Points returns the slice's raw (lon, lat) sample positions in table
// order, for scatter overlays. Masked samples are included: the
// overlay shows where data exists, the fill shows what survived.
func Points(t *model.Table, depth float64) [][2]float64 {
	var pts [][2]float64
	for _, s := range t.Samples {
		if s.Depth == depth {
			pts = append(pts, [2]float64{s.Lon, s.Lat})
		}
	}
	return pts
}

func distinctSorted(samples []model.Sample, get func(model.Sample) float64) []float64 {
	seen := make(map[float64]bool, len(samples))
	var vals []float64
	for _, s := range samples {
		v := get(s)
		if !seen[v] {
			seen[v] = true
			vals = append(vals, v)
		}
	}
	sort.Float64s(vals)
	return vals
}
