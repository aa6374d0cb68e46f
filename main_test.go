package main

import (
	"testing"
)

func TestParseDepths(t *testing.T) {
	tests := []struct {
		in      string
		want    []float64
		wantErr bool
	}{
		{in: "0", want: []float64{0}},
		{in: "0,5,20", want: []float64{0, 5, 20}},
		{in: " 0, 5 , 20 ", want: []float64{0, 5, 20}},
		{in: "0,,5", want: []float64{0, 5}},
		{in: "", wantErr: true},
		{in: ",", wantErr: true},
		{in: "0,five", wantErr: true},
	}
	for _, tc := range tests {
		got, err := parseDepths(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseDepths(%q): expected error, got %v", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseDepths(%q): %v", tc.in, err)
			continue
		}
		if len(got) != len(tc.want) {
			t.Errorf("parseDepths(%q) = %v, want %v", tc.in, got, tc.want)
			continue
		}
		for i := range tc.want {
			if got[i] != tc.want[i] {
				t.Errorf("parseDepths(%q) = %v, want %v", tc.in, got, tc.want)
				break
			}
		}
	}
}
