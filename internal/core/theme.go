package core

import "strings"

// Theme selects the light or dark palette.
type Theme bool

const (
	Light Theme = false
	Dark  Theme = true
)

// ParseTheme reads "dark" or "light". The boolean reports whether s was recognised.
func ParseTheme(s string) (Theme, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dark", "true", "on", "1":
		return Dark, true
	case "light", "false", "off", "0":
		return Light, true
	}
	return Light, false
}

func (t Theme) String() string {
	if t == Dark {
		return "dark"
	}
	return "light"
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	return !t
}

// Palette is the set of color tokens the page and charts are styled with.
type Palette struct {
	Theme  string `json:"theme"`
	Class  string `json:"class"`
	Accent string `json:"accent"`
	Text   string `json:"text"`
	Grid   string `json:"grid"`
	// Alt colors the second slice of donut charts.
	Alt string `json:"alt"`
}

// PaletteFor returns the palette of theme t.
func PaletteFor(t Theme) Palette {
	if t == Dark {
		return Palette{
			Theme:  "dark",
			Class:  "dark-theme",
			Accent: "#00d2ff",
			Text:   "#f8fafc",
			Grid:   "rgba(0,210,255,0.1)",
			Alt:    "#334155",
		}
	}
	return Palette{
		Theme:  "light",
		Class:  "light-theme",
		Accent: "#003366",
		Text:   "#0f172a",
		Grid:   "rgba(0,0,0,0.05)",
		Alt:    "#00d2ff",
	}
}
