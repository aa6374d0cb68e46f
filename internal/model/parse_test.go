package model

import (
	"strings"
	"testing"
)

func TestParseTable(t *testing.T) {
	in := `Lon. Lat. Z(km) Vp(km/s) Vp_resolution Vs(km/s) Vs_resolution
90.00  28.00  0   5.2  0.9  3.0  0.7
90.10  28.00  5  6.0  0.95  3.5  0.9
`
	tab, err := ParseTable(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}
	if tab.Len() != 2 {
		t.Fatalf("Len = %d, want 2", tab.Len())
	}

	s := tab.Samples[0]
	if s.Lon != 90.0 || s.Lat != 28.0 || s.Depth != 0 {
		t.Errorf("sample 0 position = (%v, %v, %v), want (90, 28, 0)", s.Lon, s.Lat, s.Depth)
	}
	if s.Vp != 5.2 || s.VpResolution != 0.9 || s.Vs != 3.0 || s.VsResolution != 0.7 {
		t.Errorf("sample 0 values = %+v", s)
	}
}

// Column order comes from the header, not from a fixed layout.
func TestParseTableHeaderOrder(t *testing.T) {
	in := `Z(km) Lat. Lon. Vs(km/s) Vs_resolution
10 28.0 90.0 3.5 0.9
`
	tab, err := ParseTable(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}
	s := tab.Samples[0]
	if s.Depth != 10 || s.Lat != 28.0 || s.Lon != 90.0 {
		t.Errorf("position = (%v, %v, %v), want (90, 28, 10)", s.Lon, s.Lat, s.Depth)
	}
	if s.Vs != 3.5 || s.VsResolution != 0.9 {
		t.Errorf("Vs = %v res = %v", s.Vs, s.VsResolution)
	}
	if s.Vp != 0 {
		t.Errorf("absent Vp column = %v, want 0", s.Vp)
	}
}

func TestParseTableErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "empty input", in: ""},
		{name: "unknown column", in: "Lon. Lat. Z(km) Vp(km/s) Bogus\n1 2 3 4 5\n"},
		{name: "duplicate column", in: "Lon. Lon. Lat. Z(km) Vp(km/s)\n1 1 2 3 4\n"},
		{name: "missing position column", in: "Lon. Z(km) Vp(km/s)\n1 2 3\n"},
		{name: "no velocity column", in: "Lon. Lat. Z(km)\n1 2 3\n"},
		{
			name: "short row",
			in:   "Lon. Lat. Z(km) Vp(km/s) Vp_resolution\n90.0 28.0 0 5.2\n",
		},
		{
			name: "non-numeric field",
			in:   "Lon. Lat. Z(km) Vp(km/s) Vp_resolution\n90.0 28.0 zero 5.2 0.9\n",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseTable(strings.NewReader(tc.in)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestParseTableSkipsBlankLines(t *testing.T) {
	in := "Lon. Lat. Z(km) Vp(km/s) Vp_resolution\n90.0 28.0 0 5.2 0.9\n\n90.1 28.0 0 5.4 0.5\n"
	tab, err := ParseTable(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}
	if tab.Len() != 2 {
		t.Errorf("Len = %d, want 2", tab.Len())
	}
}
