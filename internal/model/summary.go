package model

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ColumnStats holds the range and mean of one table column.
type ColumnStats struct {
	Field Field   `json:"field"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
}

// DepthCount is the number of samples observed at one depth.
type DepthCount struct {
	Depth float64 `json:"depth_km"`
	Count int     `json:"count"`
}

// TableSummary describes a loaded model: sample count, per-column
// ranges, and sample counts per depth slice.
type TableSummary struct {
	Name    string        `json:"name"`
	Samples int           `json:"samples"`
	LonMin  float64       `json:"lon_min"`
	LonMax  float64       `json:"lon_max"`
	LatMin  float64       `json:"lat_min"`
	LatMax  float64       `json:"lat_max"`
	Columns []ColumnStats `json:"columns"`
	Depths  []DepthCount  `json:"depths"`
}

// Summarize computes summary statistics for a table. Returns a zero
// summary for an empty table.
func Summarize(t *Table) TableSummary {
	sum := TableSummary{Name: t.Name, Samples: t.Len()}
	if t.Len() == 0 {
		return sum
	}

	lons := make([]float64, t.Len())
	lats := make([]float64, t.Len())
	for i, s := range t.Samples {
		lons[i] = s.Lon
		lats[i] = s.Lat
	}
	sum.LonMin, sum.LonMax = floats.Min(lons), floats.Max(lons)
	sum.LatMin, sum.LatMax = floats.Min(lats), floats.Max(lats)

	for _, f := range []Field{FieldVp, FieldVpResolution, FieldVs, FieldVsResolution} {
		vals := make([]float64, t.Len())
		for i, s := range t.Samples {
			vals[i] = f.Value(s)
		}
		sum.Columns = append(sum.Columns, ColumnStats{
			Field: f,
			Min:   floats.Min(vals),
			Max:   floats.Max(vals),
			Mean:  stat.Mean(vals, nil),
		})
	}

	counts := make(map[float64]int)
	for _, s := range t.Samples {
		counts[s.Depth]++
	}
	for _, d := range t.Depths() {
		sum.Depths = append(sum.Depths, DepthCount{Depth: d, Count: counts[d]})
	}
	return sum
}

// WriteSummary prints a human-readable summary report.
func WriteSummary(w io.Writer, t *Table) {
	sum := Summarize(t)
	fmt.Fprintf(w, "model %s: %d samples\n", sum.Name, sum.Samples)
	if sum.Samples == 0 {
		return
	}
	fmt.Fprintf(w, "  lon range: %.4f .. %.4f\n", sum.LonMin, sum.LonMax)
	fmt.Fprintf(w, "  lat range: %.4f .. %.4f\n", sum.LatMin, sum.LatMax)
	for _, c := range sum.Columns {
		fmt.Fprintf(w, "  %-14s min=%.4f max=%.4f mean=%.4f\n", c.Field, c.Min, c.Max, c.Mean)
	}
	fmt.Fprintf(w, "  depth slices:\n")
	for _, d := range sum.Depths {
		fmt.Fprintf(w, "    %8.2f km: %d samples\n", d.Depth, d.Count)
	}
}
