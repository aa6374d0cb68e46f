// Package model loads 3-D seismic velocity model tables.
//
// A model file is a whitespace-delimited text table with a header row.
// Each data row carries one sample: a longitude/latitude/depth position
// plus P- and S-wave velocities and their resolution scores.
package model

import (
	"fmt"
	"sort"
)

// Sample is one row of a velocity model table. Samples are immutable
// once loaded.
type Sample struct {
	Lon          float64 `json:"lon"`           // degrees east
	Lat          float64 `json:"lat"`           // degrees north
	Depth        float64 `json:"depth_km"`      // kilometres below datum
	Vp           float64 `json:"vp"`            // P-wave velocity, km/s
	VpResolution float64 `json:"vp_resolution"` // confidence score for Vp
	Vs           float64 `json:"vs"`            // S-wave velocity, km/s
	VsResolution float64 `json:"vs_resolution"` // confidence score for Vs
}

// Table is an ordered, read-only sequence of samples from one model file.
type Table struct {
	Name    string
	Samples []Sample
}

// Len returns the number of samples in the table.
func (t *Table) Len() int { return len(t.Samples) }

// Depths returns the sorted distinct depth values present in the table.
func (t *Table) Depths() []float64 {
	seen := make(map[float64]bool)
	var depths []float64
	for _, s := range t.Samples {
		if !seen[s.Depth] {
			seen[s.Depth] = true
			depths = append(depths, s.Depth)
		}
	}
	sort.Float64s(depths)
	return depths
}

// Field selects one of the tracked per-sample quantities.
type Field int

const (
	FieldVp Field = iota
	FieldVs
	FieldVpResolution
	FieldVsResolution
)

var fieldNames = map[Field]string{
	FieldVp:           "Vp",
	FieldVs:           "Vs",
	FieldVpResolution: "Vp_resolution",
	FieldVsResolution: "Vs_resolution",
}

func (f Field) String() string {
	if n, ok := fieldNames[f]; ok {
		return n
	}
	return "unknown"
}

// Unit returns the display unit for the field.
func (f Field) Unit() string {
	switch f {
	case FieldVp, FieldVs:
		return "km/s"
	default:
		return ""
	}
}

// Resolution maps a velocity field to its companion resolution field.
// Resolution fields map to themselves.
func (f Field) Resolution() Field {
	switch f {
	case FieldVp:
		return FieldVpResolution
	case FieldVs:
		return FieldVsResolution
	default:
		return f
	}
}

// Value reads the selected field from a sample.
func (f Field) Value(s Sample) float64 {
	switch f {
	case FieldVp:
		return s.Vp
	case FieldVs:
		return s.Vs
	case FieldVpResolution:
		return s.VpResolution
	case FieldVsResolution:
		return s.VsResolution
	}
	return 0
}

// ParseField resolves a user-supplied value-type name ("Vp" or "Vs",
// or a resolution column name) to a Field. Unknown names are a caller
// error.
func ParseField(name string) (Field, error) {
	switch name {
	case "Vp", "vp":
		return FieldVp, nil
	case "Vs", "vs":
		return FieldVs, nil
	case "Vp_resolution":
		return FieldVpResolution, nil
	case "Vs_resolution":
		return FieldVsResolution, nil
	}
	return 0, fmt.Errorf("unsupported field %q (want Vp or Vs)", name)
}
