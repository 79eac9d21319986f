package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MBP16/SIR-Modeling/internal/export"
	"github.com/MBP16/SIR-Modeling/internal/metrics"
	"github.com/MBP16/SIR-Modeling/internal/sim"
)

const (
	// lines used by header, column titles, sparkline, summary and hints
	chrome    = 9
	minPage   = 3
	cellWidth = 12
)

var columnNames = [3]string{"S", "I", "R"}

// Browser pages through the recorded entries of one run.
type Browser struct {
	title   string
	traj    sim.Trajectory
	series  sim.Series
	summary metrics.Summary

	cursor, offset int
	column         int
	width, height  int

	theme Theme
	st    styles
}

func NewBrowser(title string, traj sim.Trajectory) Browser {
	return Browser{
		title:   title,
		traj:    traj,
		series:  traj.Series(),
		summary: metrics.Summarize(traj),
		column:  1,
		width:   100,
		height:  24,
		theme:   ThemeClinical,
		st:      newStyles(ThemeClinical),
	}
}

// WithTheme selects a theme by name.
func (b Browser) WithTheme(name string) Browser {
	b.theme = GetTheme(name)
	b.st = newStyles(b.theme)
	return b
}

func (b Browser) Cursor() int    { return b.cursor }
func (b Browser) Column() string { return columnNames[b.column] }
func (b Browser) Theme() Theme   { return b.theme }

func (b Browser) Init() tea.Cmd { return nil }

func (b Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return b.handleKey(msg)
	case tea.WindowSizeMsg:
		b.width, b.height = msg.Width, msg.Height
		b.scroll()
	}
	return b, nil
}

func (b Browser) handleKey(msg tea.KeyMsg) (Browser, tea.Cmd) {
	last := b.traj.Len() - 1
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return b, tea.Quit
	case "up", "k":
		b.cursor--
	case "down", "j":
		b.cursor++
	case "pgup", "b":
		b.cursor -= b.pageSize()
	case "pgdown", "f", " ":
		b.cursor += b.pageSize()
	case "home", "g":
		b.cursor = 0
	case "end", "G":
		b.cursor = last
	case "p":
		b.cursor = b.peakIndex()
	case "tab", "c":
		b.column = (b.column + 1) % len(columnNames)
	case "t":
		b.theme = nextTheme(b.theme)
		b.st = newStyles(b.theme)
	}
	b.cursor = min(max(b.cursor, 0), max(last, 0))
	b.scroll()
	return b, nil
}

func (b Browser) pageSize() int {
	return max(b.height-chrome, minPage)
}

func (b *Browser) scroll() {
	page := b.pageSize()
	if b.cursor < b.offset {
		b.offset = b.cursor
	}
	if b.cursor >= b.offset+page {
		b.offset = b.cursor - page + 1
	}
}

func (b Browser) peakIndex() int {
	for k, v := range b.series.I {
		if v == b.summary.PeakInfected {
			return k
		}
	}
	return 0
}

func (b Browser) View() string {
	var sb strings.Builder
	n := b.traj.Len()

	sb.WriteString(b.st.header.Render(fmt.Sprintf("%s  entry %d/%d", b.title, b.cursor, max(n-1, 0))))
	sb.WriteString("\n")

	for _, h := range export.Header {
		sb.WriteString(b.st.label.Render(pad(h)))
	}
	sb.WriteString("\n")

	end := min(b.offset+b.pageSize(), n)
	for k := b.offset; k < end; k++ {
		row := b.traj.Row(k)
		cells := []string{row.Time, row.S, row.I, row.R}
		if row.HasDerivative {
			cells = append(cells, row.DS, row.DI, row.DR)
		} else {
			cells = append(cells, export.NoDerivative, export.NoDerivative, export.NoDerivative)
		}
		line := ""
		for j, c := range cells {
			cell := pad(c)
			if j >= 1 && j <= 3 {
				cell = b.st.compartments[j-1].Render(cell)
			}
			line += cell
		}
		if k == b.cursor {
			sb.WriteString(b.st.cursor.Render("▶ ") + line)
		} else {
			sb.WriteString("  " + line)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	values := [][]float64{b.series.S, b.series.I, b.series.R}[b.column]
	spark := Sparkline(values, min(b.width-8, 80), b.cursor, b.st.compartments[b.column], b.st.cursor)
	sb.WriteString(b.st.label.Render(fmt.Sprintf("%-3s ", columnNames[b.column])) + spark + "\n")

	sb.WriteString(b.st.label.Render("peak I ") +
		b.st.value.Render(fmt.Sprintf("%.4f", b.summary.PeakInfected)) +
		b.st.label.Render(" at t=") +
		b.st.value.Render(fmt.Sprintf("%.4f", b.summary.PeakTime)) +
		b.st.label.Render("  drift ") +
		b.st.value.Render(fmt.Sprintf("%.3g", b.summary.ConservationDrift)))
	if b.summary.Negative {
		sb.WriteString("  " + b.st.warning.Render("negative compartment"))
	}
	sb.WriteString("\n")

	sb.WriteString(b.st.hint.Render("j/k move  f/b page  g/G ends  p peak  c column  t theme (" + b.theme.Name + ")  q quit"))
	return sb.String()
}

func pad(s string) string {
	if len(s) > cellWidth-1 {
		s = s[:cellWidth-1]
	}
	return s + strings.Repeat(" ", cellWidth-len(s))
}

// Run opens the browser full screen until the user quits.
func Run(title string, traj sim.Trajectory, theme string) error {
	p := tea.NewProgram(NewBrowser(title, traj).WithTheme(theme), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
