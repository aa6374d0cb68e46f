// Package render builds depth-slice figures with gonum/plot.
//
// Figures are in-memory objects; nothing touches disk until the
// caller saves them.
package render

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/seismo-data/tomo.report/internal/config"
	"github.com/seismo-data/tomo.report/internal/slice"
)

// Options control figure styling. Zero values are replaced by the
// config defaults in FromConfig.
type Options struct {
	Levels           int
	PaletteDivisions int
	Width            vg.Length
	Height           vg.Length
	Scatter          bool
	ScatterRadius    vg.Length
}

// FromConfig translates a render config into plot options.
func FromConfig(cfg *config.RenderConfig) Options {
	return Options{
		Levels:           *cfg.ContourLevels,
		PaletteDivisions: *cfg.PaletteDivisions,
		Width:            vg.Length(*cfg.FigureWidthInches) * vg.Inch,
		Height:           vg.Length(*cfg.FigureHeightInches) * vg.Inch,
		Scatter:          *cfg.ShowScatter,
		ScatterRadius:    vg.Points(*cfg.ScatterRadius),
	}
}

// Figure is one rendered depth slice: the map plot plus its colorbar.
// Bar is nil when the grid had no filled cells.
type Figure struct {
	Map *plot.Plot
	Bar *plot.Plot

	width  vg.Length
	height vg.Length
}

// SliceFigure renders a binned grid as a filled map with contour
// lines. pts, when non-empty and opts.Scatter is set, is overlaid as
// raw sample positions. An all-empty grid still produces a figure with
// axes and title so batch runs stay uniform.
func SliceFigure(g *slice.Grid, pts [][2]float64, opts Options) (*Figure, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s @ %g km", g.Field, g.Depth)
	p.X.Label.Text = "Longitude (deg)"
	p.Y.Label.Text = "Latitude (deg)"

	fig := &Figure{Map: p, width: opts.Width, height: opts.Height}

	min, max, ok := g.MinMax()
	if ok {
		if min == max {
			// degenerate range breaks the colormap scale
			max = min + 1e-9
		}
		cm := moreland.SmoothBlueRed()
		cm.SetMin(min)
		cm.SetMax(max)

		pal := cm.Palette(opts.PaletteDivisions)
		hm := plotter.NewHeatMap(g, pal)
		hm.Min = min
		hm.Max = max
		hm.NaN = color.Transparent
		p.Add(hm)

		if opts.Levels > 1 {
			ct := plotter.NewContour(g, contourLevels(min, max, opts.Levels), pal)
			p.Add(ct)
		}

		bar := plot.New()
		bar.Title.Text = fmt.Sprintf("%s (%s)", g.Field, g.Field.Unit())
		bar.Add(&plotter.ColorBar{ColorMap: cm})
		bar.HideY()
		bar.X.Padding = 0
		fig.Bar = bar
	}

	if opts.Scatter && len(pts) > 0 {
		xys := make(plotter.XYs, len(pts))
		for i, pt := range pts {
			xys[i] = plotter.XY{X: pt[0], Y: pt[1]}
		}
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, fmt.Errorf("scatter overlay: %w", err)
		}
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		sc.GlyphStyle.Radius = opts.ScatterRadius
		sc.GlyphStyle.Color = color.Gray{Y: 64}
		p.Add(sc)
	}

	return fig, nil
}

// contourLevels returns n evenly spaced interior levels in (min, max).
// The extrema themselves are skipped: contours at the exact data
// bounds render as degenerate single-point paths.
func contourLevels(min, max float64, n int) []float64 {
	levels := make([]float64, 0, n)
	step := (max - min) / float64(n+1)
	for i := 1; i <= n; i++ {
		levels = append(levels, min+float64(i)*step)
	}
	return levels
}

// canvas draws the map, with the colorbar (when present) in a strip
// underneath, onto a fresh raster canvas.
func (f *Figure) canvas() *vgimg.Canvas {
	if f.Bar == nil {
		img := vgimg.New(f.width, f.height)
		f.Map.Draw(draw.New(img))
		return img
	}

	barHeight := f.height / 5
	img := vgimg.New(f.width, f.height+barHeight)
	dc := draw.New(img)

	mapArea := draw.Crop(dc, 0, 0, barHeight, 0)
	barArea := draw.Crop(dc, 0, 0, 0, -f.height)
	f.Map.Draw(mapArea)
	f.Bar.Draw(barArea)
	return img
}

// WriteTo renders the figure as a PNG stream.
func (f *Figure) WriteTo(w io.Writer) (int64, error) {
	png := vgimg.PngCanvas{Canvas: f.canvas()}
	return png.WriteTo(w)
}

// Save writes the figure as a PNG file.
func (f *Figure) Save(path string) error {
	return writePNG(f.canvas(), path)
}

// Panel tiles several slice figures onto one canvas.
type Panel struct {
	plots [][]*plot.Plot
	rows  int
	cols  int

	tileWidth  vg.Length
	tileHeight vg.Length
}

// ComposePanels lays out figures left to right, top to bottom, cols
// per row. Trailing tiles in the last row stay blank.
func ComposePanels(figs []*Figure, cols int) (*Panel, error) {
	if len(figs) == 0 {
		return nil, fmt.Errorf("no figures to compose")
	}
	if cols < 1 {
		cols = 1
	}
	rows := (len(figs) + cols - 1) / cols

	plots := make([][]*plot.Plot, rows)
	for r := 0; r < rows; r++ {
		plots[r] = make([]*plot.Plot, cols)
		for c := 0; c < cols; c++ {
			i := r*cols + c
			if i < len(figs) {
				plots[r][c] = figs[i].Map
			}
		}
	}

	return &Panel{
		plots:      plots,
		rows:       rows,
		cols:       cols,
		tileWidth:  figs[0].width,
		tileHeight: figs[0].height,
	}, nil
}

// Save writes the composed panel as a PNG.
func (p *Panel) Save(path string) error {
	img := vgimg.New(p.tileWidth*vg.Length(p.cols), p.tileHeight*vg.Length(p.rows))
	dc := draw.New(img)

	t := draw.Tiles{
		Rows: p.rows,
		Cols: p.cols,
		PadX: vg.Millimeter,
		PadY: vg.Millimeter,
	}
	canvases := plot.Align(p.plots, t, dc)
	for r := 0; r < p.rows; r++ {
		for c := 0; c < p.cols; c++ {
			if p.plots[r][c] != nil {
				p.plots[r][c].Draw(canvases[r][c])
			}
		}
	}

	return writePNG(img, path)
}

func writePNG(img *vgimg.Canvas, path string) error {
	w, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer w.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

// SliceFilename names a per-depth output file, e.g. "Vp_010.0km.png".
func SliceFilename(field fmt.Stringer, depth float64) string {
	return fmt.Sprintf("%s_%05.1fkm.png", field, depth)
}

// MakeRunDir creates a fresh output directory for one render run:
// <base>/<model>/<timestamp>-<short id>.
func MakeRunDir(base, modelName string) (string, error) {
	ts := time.Now().Format("20060102_150405")
	dir := filepath.Join(base, modelName, ts+"-"+uuid.NewString()[:8])
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}
	return dir, nil
}
