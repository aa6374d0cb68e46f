package model

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Recognized header column names. The header row decides column order;
// unlisted columns are rejected so silently misread files fail loudly.
const (
	colLon   = "Lon."
	colLat   = "Lat."
	colDepth = "Z(km)"
	colVp    = "Vp(km/s)"
	colVpRes = "Vp_resolution"
	colVs    = "Vs(km/s)"
	colVsRes = "Vs_resolution"
)

// LoadTable reads a model file from disk. The table name is the file's
// base name without extension.
func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model file: %w", err)
	}
	defer f.Close()

	t, err := ParseTable(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	base := filepath.Base(path)
	t.Name = strings.TrimSuffix(base, filepath.Ext(base))
	return t, nil
}

// ParseTable reads a whitespace-delimited model table with a header
// row. Rows are split on arbitrary whitespace; fields must all parse
// as floats.
func ParseTable(r io.Reader) (*Table, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
		return nil, fmt.Errorf("empty input: missing header row")
	}

	cols, err := parseHeader(strings.Fields(sc.Text()))
	if err != nil {
		return nil, err
	}

	t := &Table{}
	lineNo := 1
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != len(cols) {
			return nil, fmt.Errorf("line %d: got %d columns, want %d", lineNo, len(fields), len(cols))
		}

		var s Sample
		for i, name := range cols {
			v, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: column %s: %w", lineNo, name, err)
			}
			switch name {
			case colLon:
				s.Lon = v
			case colLat:
				s.Lat = v
			case colDepth:
				s.Depth = v
			case colVp:
				s.Vp = v
			case colVpRes:
				s.VpResolution = v
			case colVs:
				s.Vs = v
			case colVsRes:
				s.VsResolution = v
			}
		}
		t.Samples = append(t.Samples, s)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return t, nil
}

// parseHeader validates the header row and returns column names in
// file order. Position columns are required; at least one velocity
// column must be present.
func parseHeader(fields []string) ([]string, error) {
	known := map[string]bool{
		colLon: true, colLat: true, colDepth: true,
		colVp: true, colVpRes: true, colVs: true, colVsRes: true,
	}
	seen := make(map[string]bool)
	for _, f := range fields {
		if !known[f] {
			return nil, fmt.Errorf("unrecognized column %q in header", f)
		}
		if seen[f] {
			return nil, fmt.Errorf("duplicate column %q in header", f)
		}
		seen[f] = true
	}
	for _, required := range []string{colLon, colLat, colDepth} {
		if !seen[required] {
			return nil, fmt.Errorf("header missing required column %q", required)
		}
	}
	if !seen[colVp] && !seen[colVs] {
		return nil, fmt.Errorf("header has no velocity column (%s or %s)", colVp, colVs)
	}
	return fields, nil
}
