package plot

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MBP16/SIR-Modeling/internal/compute"
	"github.com/MBP16/SIR-Modeling/internal/config"
	"github.com/MBP16/SIR-Modeling/internal/sim"
)

func baseline(t *testing.T) sim.Trajectory {
	t.Helper()
	cols, err := compute.NewCPUBackend().Model(context.Background(), sim.DefaultParams())
	require.NoError(t, err)
	traj, err := cols.Trajectory()
	require.NoError(t, err)
	return traj
}

func TestASCII(t *testing.T) {
	out := ASCII(baseline(t), config.DefaultPlotConfig(), DefaultOptions())

	assert.Contains(t, out, "SIR Model Graph")
	assert.Contains(t, out, "Susceptible")
	assert.Contains(t, out, "Infected")
	assert.Contains(t, out, "Recovered")
}

func TestColumn(t *testing.T) {
	traj := baseline(t)

	out, err := Column(traj, "dIdt", Options{Height: 5, Width: 40})
	require.NoError(t, err)
	assert.Contains(t, out, "dIdt")

	_, err = Column(traj, "Q", DefaultOptions())
	assert.Error(t, err)
}

func TestFormatFor(t *testing.T) {
	f, err := FormatFor("SIR_MODEL_GRAPH.png")
	require.NoError(t, err)
	assert.Equal(t, PNG, f)

	f, err = FormatFor("out/graph.SVG")
	require.NoError(t, err)
	assert.Equal(t, SVG, f)

	_, err = FormatFor("graph.gif")
	assert.Error(t, err)
}

func TestChart(t *testing.T) {
	cfg := config.DefaultPlotConfig()
	cfg.DPI = 100

	graph, err := Chart(baseline(t), cfg)
	require.NoError(t, err)

	assert.Equal(t, "SIR Model Graph", graph.Title)
	assert.Equal(t, 640, graph.Width)
	assert.Equal(t, 480, graph.Height)
	assert.Equal(t, "Time", graph.XAxis.Name)
	assert.Equal(t, "Number of people", graph.YAxis.Name)
	assert.Len(t, graph.Series, 3)
}

func TestChartNeedsTwoEntries(t *testing.T) {
	tab, err := sim.NewTable([]sim.Row{{Time: "0", S: "1", I: "1", R: "0"}})
	require.NoError(t, err)

	_, err = Chart(tab, config.DefaultPlotConfig())
	assert.Error(t, err)
}

func TestImage(t *testing.T) {
	cfg := config.DefaultPlotConfig()
	cfg.DPI = 72
	traj := baseline(t)

	var png bytes.Buffer
	require.NoError(t, Image(&png, traj, cfg, PNG))
	assert.True(t, bytes.HasPrefix(png.Bytes(), []byte("\x89PNG")))

	var svg bytes.Buffer
	require.NoError(t, Image(&svg, traj, cfg, SVG))
	assert.True(t, strings.Contains(svg.String(), "<svg"))
	assert.True(t, strings.Contains(svg.String(), "Recovered"))
}

func TestSaveImage(t *testing.T) {
	cfg := config.DefaultPlotConfig()
	cfg.DPI = 72
	path := filepath.Join(t.TempDir(), cfg.File)

	require.NoError(t, SaveImage(path, baseline(t), cfg))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	assert.Error(t, SaveImage(filepath.Join(t.TempDir(), "graph.bmp"), baseline(t), cfg))
}
