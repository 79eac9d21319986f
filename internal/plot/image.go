package plot

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/MBP16/SIR-Modeling/internal/config"
	"github.com/MBP16/SIR-Modeling/internal/sim"
)

type Format int

const (
	PNG Format = iota
	SVG
)

// FormatFor picks the image format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return PNG, nil
	case ".svg":
		return SVG, nil
	}
	return PNG, fmt.Errorf("unsupported image extension %q", filepath.Ext(path))
}

// Figure size in inches; pixel size is this times the configured DPI.
const (
	figureWidth  = 6.4
	figureHeight = 4.8
)

// Chart builds the S/I/R line chart described by cfg.
func Chart(traj sim.Trajectory, cfg config.PlotConfig) (*chart.Chart, error) {
	s := traj.Series()
	if s.Len() < 2 {
		return nil, fmt.Errorf("plot: need at least two entries, have %d", s.Len())
	}
	dpi := cfg.DPI
	if dpi <= 0 {
		dpi = config.DefaultDPI
	}

	graph := &chart.Chart{
		Title:  cfg.Title,
		Width:  int(figureWidth * float64(dpi)),
		Height: int(figureHeight * float64(dpi)),
		DPI:    float64(dpi),
		XAxis: chart.XAxis{
			Name:  cfg.XLabel,
			Style: chart.Style{FontSize: 10.0},
		},
		YAxis: chart.YAxis{
			Name:  cfg.YLabel,
			Style: chart.Style{FontSize: 10.0},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    cfg.SLabel,
				XValues: s.T,
				YValues: s.S,
				Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 2.0},
			},
			chart.ContinuousSeries{
				Name:    cfg.ILabel,
				XValues: s.T,
				YValues: s.I,
				Style:   chart.Style{StrokeColor: chart.ColorRed, StrokeWidth: 2.0},
			},
			chart.ContinuousSeries{
				Name:    cfg.RLabel,
				XValues: s.T,
				YValues: s.R,
				Style:   chart.Style{StrokeColor: chart.ColorGreen, StrokeWidth: 2.0},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(graph)}
	return graph, nil
}

func Image(w io.Writer, traj sim.Trajectory, cfg config.PlotConfig, format Format) error {
	graph, err := Chart(traj, cfg)
	if err != nil {
		return err
	}
	provider := chart.PNG
	if format == SVG {
		provider = chart.SVG
	}
	return graph.Render(provider, w)
}

// SaveImage renders to path, choosing the format from its extension.
func SaveImage(path string, traj sim.Trajectory, cfg config.PlotConfig) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Image(file, traj, cfg, format); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
