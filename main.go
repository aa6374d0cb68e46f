package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/seismo-data/tomo.report/internal/api"
	"github.com/seismo-data/tomo.report/internal/config"
	"github.com/seismo-data/tomo.report/internal/db"
	"github.com/seismo-data/tomo.report/internal/model"
	"github.com/seismo-data/tomo.report/internal/render"
	"github.com/seismo-data/tomo.report/internal/slice"
)

var (
	input      = flag.String("input", "", "Path to a velocity model table")
	dbPath     = flag.String("db", "", "Path to a model cache database (optional)")
	modelName  = flag.String("model", "", "Cached model name to load when -input is not given")
	stats      = flag.Bool("stats", false, "Print summary statistics")
	depthsFlag = flag.String("depths", "", "Comma-separated depths (km) to render")
	fieldName  = flag.String("field", "Vp", "Value type to render: Vp or Vs")
	minRes     = flag.Float64("min-resolution", -1, "Mask samples with resolution below this cutoff (negative disables)")
	scatter    = flag.Bool("scatter", false, "Overlay raw sample positions on each slice")
	panel      = flag.Bool("panel", false, "Also compose rendered slices into one panel image")
	outDir     = flag.String("out", "plots", "Base directory for rendered figures")
	configPath = flag.String("config", "", "Path to a render settings JSON file")
	serve      = flag.Bool("serve", false, "Serve the model over HTTP")
	listen     = flag.String("listen", ":8080", "Listen address")
)

func main() {
	flag.Parse()

	cfg := config.DefaultRenderConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadRenderConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}
	if *minRes >= 0 {
		cfg.MinResolution = minRes
	}
	if *scatter {
		t := true
		cfg.ShowScatter = &t
	}

	table, err := loadModel()
	if err != nil {
		log.Fatalf("failed to load model: %v", err)
	}
	log.Printf("loaded model %s: %d samples, %d depth slices",
		table.Name, table.Len(), len(table.Depths()))

	if *stats {
		model.WriteSummary(os.Stdout, table)
	}

	if *depthsFlag != "" {
		if err := renderSlices(table, cfg); err != nil {
			log.Fatalf("failed to render slices: %v", err)
		}
	}

	if *serve {
		runServer(table, cfg)
	}
}

// loadModel resolves the model table from -input, the cache, or both.
// With both -input and -db the parsed table is imported unless a model
// of the same name is already cached.
func loadModel() (*model.Table, error) {
	if *input == "" && *dbPath == "" {
		return nil, fmt.Errorf("one of -input or -db is required")
	}

	if *input != "" {
		table, err := model.LoadTable(*input)
		if err != nil {
			return nil, err
		}
		if *dbPath != "" {
			cache, err := db.NewDB(*dbPath)
			if err != nil {
				return nil, fmt.Errorf("open cache: %w", err)
			}
			defer cache.Close()
			if _, err := cache.FindModel(table.Name); err != nil {
				id, err := cache.ImportTable(table.Name, *input, table)
				if err != nil {
					return nil, fmt.Errorf("import into cache: %w", err)
				}
				log.Printf("cached model %s as %s", table.Name, id)
			}
		}
		return table, nil
	}

	if *modelName == "" {
		return nil, fmt.Errorf("-model is required when loading from -db")
	}
	cache, err := db.NewDB(*dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	defer cache.Close()

	info, err := cache.FindModel(*modelName)
	if err != nil {
		return nil, err
	}
	return cache.Table(info.ModelID)
}

// renderSlices bins and renders each requested depth into a fresh run
// directory. Depths with no data are logged and skipped.
func renderSlices(table *model.Table, cfg *config.RenderConfig) error {
	field, err := model.ParseField(*fieldName)
	if err != nil {
		return err
	}
	depths, err := parseDepths(*depthsFlag)
	if err != nil {
		return err
	}

	runDir, err := render.MakeRunDir(*outDir, table.Name)
	if err != nil {
		return err
	}
	opts := render.FromConfig(cfg)

	var figs []*render.Figure
	for _, depth := range depths {
		g, err := slice.Bin(table, depth, field, field.Resolution(), cfg.MinResolution)
		if errors.Is(err, slice.ErrNoData) {
			log.Printf("no data at depth %g km, skipping", depth)
			continue
		}
		if err != nil {
			return err
		}

		var pts [][2]float64
		if opts.Scatter {
			pts = slice.Points(table, depth)
		}
		fig, err := render.SliceFigure(g, pts, opts)
		if err != nil {
			return fmt.Errorf("depth %g: %w", depth, err)
		}

		out := filepath.Join(runDir, render.SliceFilename(field, depth))
		if err := fig.Save(out); err != nil {
			return fmt.Errorf("depth %g: %w", depth, err)
		}
		log.Printf("wrote %s (%d/%d cells filled)", out, g.Filled(), g.Rows()*g.Cols())
		figs = append(figs, fig)
	}

	if *panel && len(figs) > 0 {
		p, err := render.ComposePanels(figs, *cfg.PanelColumns)
		if err != nil {
			return err
		}
		out := filepath.Join(runDir, "panel.png")
		if err := p.Save(out); err != nil {
			return err
		}
		log.Printf("wrote %s", out)
	}
	return nil
}

func parseDepths(s string) ([]float64, error) {
	var depths []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("bad depth %q: %w", part, err)
		}
		depths = append(depths, d)
	}
	if len(depths) == 0 {
		return nil, fmt.Errorf("no depths given")
	}
	return depths, nil
}

// runServer serves the model until SIGINT/SIGTERM, then shuts down
// gracefully.
func runServer(table *model.Table, cfg *config.RenderConfig) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mux := api.NewServer(table, cfg).ServeMux()
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("got request %q", r.URL.Path)
		mux.ServeHTTP(w, r)
	})

	server := &http.Server{
		Addr:    *listen,
		Handler: h,
	}

	go func() {
		log.Printf("HTTP server listening on %s", *listen)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	log.Printf("graceful shutdown complete")
}
