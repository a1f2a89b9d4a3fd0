package config

// ThemeKey is the persistence key of the selected theme id.
const ThemeKey = "editor.theme"

// DefaultTheme is the theme used when none is persisted.
const DefaultTheme = "github"

// Theme is a preview theme. Style names the chroma style used for the
// highlighting stylesheet.
type Theme struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Style       string `json:"style"`
}

var themes = []Theme{
	{ID: "github", Name: "GitHub", Description: "Classic GitHub look", Category: "light", Style: "github"},
	{ID: "material", Name: "Material", Description: "Material Design", Category: "light", Style: "material"},
	{ID: "dracula", Name: "Dracula", Description: "Dark theme", Category: "dark", Style: "dracula"},
	{ID: "solarized", Name: "Solarized", Description: "Solarized palette", Category: "light", Style: "solarized-light"},
	{ID: "nord", Name: "Nord", Description: "Arctic palette", Category: "dark", Style: "nord"},
	{ID: "monokai", Name: "Monokai", Description: "Classic Monokai", Category: "dark", Style: "monokai"},
	{ID: "minimal", Name: "Minimal", Description: "Minimal styling", Category: "light", Style: "bw"},
	{ID: "academic", Name: "Academic", Description: "Academic paper style", Category: "light", Style: "tango"},
}

// Themes returns the theme table.
func Themes() []Theme {
	return append([]Theme(nil), themes...)
}

// LookupTheme returns the theme with id.
func LookupTheme(id string) (Theme, bool) {
	for _, t := range themes {
		if t.ID == id {
			return t, true
		}
	}
	return Theme{}, false
}
