// Package api serves a loaded velocity model over HTTP: summary and
// depth listings as JSON, rendered depth slices as PNG, and an
// echarts-based debug view.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/seismo-data/tomo.report/internal/config"
	"github.com/seismo-data/tomo.report/internal/model"
	"github.com/seismo-data/tomo.report/internal/render"
	"github.com/seismo-data/tomo.report/internal/slice"
)

type Server struct {
	table *model.Table
	cfg   *config.RenderConfig
}

func NewServer(table *model.Table, cfg *config.RenderConfig) *Server {
	if cfg == nil {
		cfg = config.DefaultRenderConfig()
	}
	return &Server{table: table, cfg: cfg}
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/summary", s.handleSummary)
	mux.HandleFunc("/api/depths", s.handleDepths)
	mux.HandleFunc("/api/slice.png", s.handleSlicePNG)
	mux.HandleFunc("/debug/slice", s.handleSliceChart)
	mux.HandleFunc("/", s.homeHandler)
	return mux
}

func (s *Server) homeHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	fmt.Fprintf(w, "tomo.report: model %s (%d samples)\n\n", s.table.Name, s.table.Len())
	fmt.Fprintln(w, "GET /api/summary")
	fmt.Fprintln(w, "GET /api/depths")
	fmt.Fprintln(w, "GET /api/slice.png?depth=<km>&field=Vp|Vs&min_resolution=<f>&scatter=1")
	fmt.Fprintln(w, "GET /debug/slice?depth=<km>&field=Vp|Vs")
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeJSON(w, model.Summarize(s.table))
}

func (s *Server) handleDepths(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeJSON(w, map[string]any{"depths": s.table.Depths()})
}

// sliceParams parses the query parameters shared by the slice
// endpoints: a required exact depth and an optional field selector.
func (s *Server) sliceParams(r *http.Request) (depth float64, field model.Field, err error) {
	q := r.URL.Query()

	depthStr := q.Get("depth")
	if depthStr == "" {
		return 0, 0, fmt.Errorf("missing required parameter depth")
	}
	depth, err = strconv.ParseFloat(depthStr, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad depth %q", depthStr)
	}

	field = model.FieldVp
	if name := q.Get("field"); name != "" {
		field, err = model.ParseField(name)
		if err != nil {
			return 0, 0, err
		}
	}
	return depth, field, nil
}

func (s *Server) handleSlicePNG(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	depth, field, err := s.sliceParams(r)
	if err != nil {
		s.writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	minRes := s.cfg.MinResolution
	if mr := r.URL.Query().Get("min_resolution"); mr != "" {
		v, err := strconv.ParseFloat(mr, 64)
		if err != nil {
			s.writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("bad min_resolution %q", mr))
			return
		}
		minRes = &v
	}

	g, err := slice.Bin(s.table, depth, field, field.Resolution(), minRes)
	if errors.Is(err, slice.ErrNoData) {
		s.writeJSONError(w, http.StatusNotFound, fmt.Sprintf("no data at depth %g", depth))
		return
	}
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	opts := render.FromConfig(s.cfg)
	if r.URL.Query().Get("scatter") == "1" {
		opts.Scatter = true
	}

	var pts [][2]float64
	if opts.Scatter {
		pts = slice.Points(s.table, depth)
	}

	fig, err := render.SliceFigure(g, pts, opts)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render slice: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if _, err := fig.WriteTo(w); err != nil {
		// headers already sent; nothing left to do but log upstream
		return
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func (s *Server) writeJSONError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
