package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	header   lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	hint     lipgloss.Style
	cursor   lipgloss.Style
	warning  lipgloss.Style
	panel    lipgloss.Style
	compartments [3]lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Text).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Muted),
		label: lipgloss.NewStyle().Foreground(t.Muted),
		value: lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		hint:  lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		cursor: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary),
		warning: lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 1),
		compartments: [3]lipgloss.Style{
			lipgloss.NewStyle().Foreground(t.Susceptible),
			lipgloss.NewStyle().Foreground(t.Infected),
			lipgloss.NewStyle().Foreground(t.Recovered),
		},
	}
}

// Sparkline renders values scaled to width cells, marking the cell that
// holds index mark.
func Sparkline(values []float64, width, mark int, style, marker lipgloss.Style) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}

	// Sparkline characters from low to high
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	step := max(len(values)/width, 1)

	var result strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		norm := (values[i*step] - lo) / rng
		idx := min(max(int(norm*float64(len(chars)-1)), 0), len(chars)-1)

		c := string(chars[idx])
		if mark >= i*step && mark < (i+1)*step {
			result.WriteString(marker.Render(c))
			continue
		}
		result.WriteString(style.Render(c))
	}
	return result.String()
}
