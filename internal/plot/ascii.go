package plot

import (
	"github.com/guptarohit/asciigraph"

	"github.com/MBP16/SIR-Modeling/internal/config"
	"github.com/MBP16/SIR-Modeling/internal/sim"
)

type Options struct {
	Height  int
	Width   int
	Caption string
}

func DefaultOptions() Options {
	return Options{Height: 15, Width: 80}
}

// ASCII draws S, I and R on one terminal chart. Labels come from cfg.
func ASCII(traj sim.Trajectory, cfg config.PlotConfig, opts Options) string {
	s := traj.Series()
	if s.Len() == 0 {
		return ""
	}
	caption := opts.Caption
	if caption == "" {
		caption = cfg.Title
	}

	return asciigraph.PlotMany([][]float64{s.S, s.I, s.R},
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red, asciigraph.Green),
		asciigraph.SeriesLegends(cfg.SLabel, cfg.ILabel, cfg.RLabel),
	)
}

// Column draws a single named column ("S", "I", "R", "dSdt", "dIdt",
// "dRdt"); derivative columns skip the initial entry.
func Column(traj sim.Trajectory, name string, opts Options) (string, error) {
	data, err := column(traj.Series(), name)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", nil
	}
	caption := opts.Caption
	if caption == "" {
		caption = name
	}
	return asciigraph.Plot(data,
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Caption(caption),
	), nil
}
