package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme for the grid and status panel.
type Theme struct {
	Name   string
	Live   lipgloss.Color
	Dead   lipgloss.Color
	Cursor lipgloss.Color
	Accent lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Stable lipgloss.Color
	Active lipgloss.Color
}

// Available themes
var (
	ThemeCyberpunk = Theme{
		Name:   "cyberpunk",
		Live:   lipgloss.Color("#ff00ff"), // Magenta
		Dead:   lipgloss.Color("#2a2a3a"),
		Cursor: lipgloss.Color("#ffff00"),
		Accent: lipgloss.Color("#00ffff"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#666666"),
		Stable: lipgloss.Color("#ff8800"),
		Active: lipgloss.Color("#00ff00"),
	}

	ThemeRetroGreen = Theme{
		Name:   "retro",
		Live:   lipgloss.Color("#00ff00"), // Green phosphor
		Dead:   lipgloss.Color("#003300"),
		Cursor: lipgloss.Color("#88ff88"),
		Accent: lipgloss.Color("#00cc00"),
		Text:   lipgloss.Color("#00ff00"),
		Muted:  lipgloss.Color("#005500"),
		Stable: lipgloss.Color("#ffff00"),
		Active: lipgloss.Color("#88ff88"),
	}

	ThemeMinimal = Theme{
		Name:   "minimal",
		Live:   lipgloss.Color("#ffffff"),
		Dead:   lipgloss.Color("#333333"),
		Cursor: lipgloss.Color("#0088ff"),
		Accent: lipgloss.Color("#cccccc"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#888888"),
		Stable: lipgloss.Color("#ffaa00"),
		Active: lipgloss.Color("#00ff00"),
	}

	ThemeOcean = Theme{
		Name:   "ocean",
		Live:   lipgloss.Color("#00a8cc"), // Ocean blue
		Dead:   lipgloss.Color("#001a33"),
		Cursor: lipgloss.Color("#ffd700"),
		Accent: lipgloss.Color("#0077be"),
		Text:   lipgloss.Color("#e0f0ff"),
		Muted:  lipgloss.Color("#4488aa"),
		Stable: lipgloss.Color("#ffcc00"),
		Active: lipgloss.Color("#00ff88"),
	}

	// All available themes
	Themes = []Theme{
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeMinimal,
		ThemeOcean,
	}
)

// GetTheme returns a theme by name, falling back to cyberpunk.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCyberpunk
}

// NextTheme returns the theme after t, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
