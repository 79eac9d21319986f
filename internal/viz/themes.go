package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI
type Theme struct {
	Name        string
	Primary     lipgloss.Color
	Muted       lipgloss.Color
	Text        lipgloss.Color
	Susceptible lipgloss.Color
	Infected    lipgloss.Color
	Recovered   lipgloss.Color
	Warning     lipgloss.Color
}

// Available themes
var (
	ThemeClinical = Theme{
		Name:        "clinical",
		Primary:     lipgloss.Color("#00ffff"),
		Muted:       lipgloss.Color("#666688"),
		Text:        lipgloss.Color("#ffffff"),
		Susceptible: lipgloss.Color("#0074d9"),
		Infected:    lipgloss.Color("#ff4136"),
		Recovered:   lipgloss.Color("#2ecc40"),
		Warning:     lipgloss.Color("#ffaa00"),
	}

	ThemeRetroGreen = Theme{
		Name:        "retro",
		Primary:     lipgloss.Color("#00ff00"), // Green phosphor
		Muted:       lipgloss.Color("#005500"),
		Text:        lipgloss.Color("#00ff00"),
		Susceptible: lipgloss.Color("#88ff88"),
		Infected:    lipgloss.Color("#ffff00"),
		Recovered:   lipgloss.Color("#00cc00"),
		Warning:     lipgloss.Color("#ffff00"),
	}

	ThemeMinimal = Theme{
		Name:        "minimal",
		Primary:     lipgloss.Color("#ffffff"),
		Muted:       lipgloss.Color("#888888"),
		Text:        lipgloss.Color("#ffffff"),
		Susceptible: lipgloss.Color("#cccccc"),
		Infected:    lipgloss.Color("#0088ff"),
		Recovered:   lipgloss.Color("#888888"),
		Warning:     lipgloss.Color("#ffaa00"),
	}

	ThemeSunset = Theme{
		Name:        "sunset",
		Primary:     lipgloss.Color("#ff6b6b"), // Coral
		Muted:       lipgloss.Color("#8b6b8c"),
		Text:        lipgloss.Color("#fff5f5"),
		Susceptible: lipgloss.Color("#feca57"),
		Infected:    lipgloss.Color("#ff4757"),
		Recovered:   lipgloss.Color("#5fd068"),
		Warning:     lipgloss.Color("#ffc048"),
	}

	// All available themes
	Themes = []Theme{
		ThemeClinical,
		ThemeRetroGreen,
		ThemeMinimal,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeClinical
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

func nextTheme(current Theme) Theme {
	for i, t := range Themes {
		if t.Name == current.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}
