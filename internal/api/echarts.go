package api

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/seismo-data/tomo.report/internal/slice"
)

// viridis hex stops for the echarts visual map
var viridisColors = []string{
	"#440154", "#482777", "#3e4989", "#31688e", "#26828e",
	"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
}

// handleSliceChart renders a quick scatter plot (HTML) of one depth
// slice using go-echarts. This is a debugging-only endpoint to eyeball
// a slice without rendering PNGs.
// Query params:
//   - depth (required, km) and field (optional; default Vp)
//   - max_points (optional; default 8000) to reduce payload size
func (s *Server) handleSliceChart(w http.ResponseWriter, r *http.Request) {
	depth, field, err := s.sliceParams(r)
	if err != nil {
		s.writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	g, err := slice.Bin(s.table, depth, field, field.Resolution(), nil)
	if errors.Is(err, slice.ErrNoData) {
		s.writeJSONError(w, http.StatusNotFound, fmt.Sprintf("no data at depth %g", depth))
		return
	}
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	maxPoints := 8000
	if mp := r.URL.Query().Get("max_points"); mp != "" {
		if v, err := strconv.Atoi(mp); err == nil && v > 100 && v <= 50000 {
			maxPoints = v
		}
	}

	// Flatten filled cells, downsampling by stride to stay within
	// maxPoints.
	total := g.Filled()
	stride := 1
	if total > maxPoints {
		stride = int(math.Ceil(float64(total) / float64(maxPoints)))
	}

	data := make([]opts.ScatterData, 0, total/stride+1)
	n := 0
	for row := 0; row < g.Rows(); row++ {
		for col := 0; col < g.Cols(); col++ {
			if g.IsEmptyCell(row, col) {
				continue
			}
			if n%stride == 0 {
				data = append(data, opts.ScatterData{
					Value: []interface{}{g.X(col), g.Y(row), g.At(row, col)},
				})
			}
			n++
		}
	}

	min, max, ok := g.MinMax()
	if !ok {
		min, max = 0, 1
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Depth Slice",
			Theme:     "dark",
			Width:     "900px",
			Height:    "700px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s @ %g km", field, depth),
			Subtitle: fmt.Sprintf("model=%s points=%d stride=%d", s.table.Name, len(data), stride),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{
			Min: g.Lons()[0], Max: g.Lons()[g.Cols()-1],
			Name: "Longitude (deg)", NameLocation: "middle", NameGap: 25,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Min: g.Lats()[0], Max: g.Lats()[g.Rows()-1],
			Name: "Latitude (deg)", NameLocation: "middle", NameGap: 30,
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(min),
			Max:        float32(max),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: viridisColors},
		}),
	)

	scatter.AddSeries("slice", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
