package testutil

import (
	"math"
	"net/http"
	"testing"
)

func TestNewTestRequestAndRecorder(t *testing.T) {
	req := NewTestRequest(http.MethodGet, "/api/depths")
	if req.Method != http.MethodGet || req.URL.Path != "/api/depths" {
		t.Errorf("request = %s %s", req.Method, req.URL.Path)
	}
	if w := NewTestRecorder(); w == nil {
		t.Fatal("nil recorder")
	}
}

func TestAssertValuesEqualTreatsNaNAsEqual(t *testing.T) {
	nan := math.NaN()
	AssertValuesEqual(t, []float64{1, nan, 3}, []float64{1, nan, 3})
}

func TestParseTableString(t *testing.T) {
	tab := ParseTableString(t, `
Lon. Lat. Z(km) Vp(km/s) Vp_resolution
90.0 28.0 0 5.2 0.9
`)
	if tab.Len() != 1 {
		t.Errorf("Len = %d, want 1", tab.Len())
	}
}
