package render

import "github.com/charmbracelet/lipgloss"

// Theme holds the styles and glyphs the terminal renderer draws with.
type Theme struct {
	Name    string
	Primary lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
	Icons   ThemeIcons
}

// ThemeIcons are the status glyphs plus one glyph per coverage state.
// Coverage glyphs must stay distinguishable without color.
type ThemeIcons struct {
	Pass      string
	Fail      string
	Warn      string
	Info      string
	Covered   string
	Uncovered string
	NonExec   string
}

// DefaultTheme returns a vibrant color theme.
func DefaultTheme() Theme {
	return Theme{
		Name:    "default",
		Primary: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),  // blue
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("34")),  // green
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // orange
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")), // red
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("242")), // gray
		Bold:    lipgloss.NewStyle().Bold(true),
		Icons: ThemeIcons{
			Pass:      "✓",
			Fail:      "✗",
			Warn:      "⚠",
			Info:      "●",
			Covered:   "█",
			Uncovered: "▒",
			NonExec:   "·",
		},
	}
}

// OrcaTheme returns a muted palette for long review sessions.
func OrcaTheme() Theme {
	return Theme{
		Name:    "orca",
		Primary: lipgloss.NewStyle().Foreground(lipgloss.Color("75")),  // pale blue
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("108")), // sage green
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("179")), // muted gold
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("167")), // muted red
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")), // lighter gray
		Bold:    lipgloss.NewStyle().Bold(true),
		Icons: ThemeIcons{
			Pass:      "✓",
			Fail:      "✗",
			Warn:      "!",
			Info:      "·",
			Covered:   "▇",
			Uncovered: "▁",
			NonExec:   " ",
		},
	}
}

// MonoTheme is plain ASCII with no color, for NO_COLOR and dumb terminals.
func MonoTheme() Theme {
	return Theme{
		Name:    "mono",
		Primary: lipgloss.NewStyle(),
		Success: lipgloss.NewStyle(),
		Warning: lipgloss.NewStyle(),
		Error:   lipgloss.NewStyle(),
		Muted:   lipgloss.NewStyle(),
		Bold:    lipgloss.NewStyle().Bold(true),
		Icons: ThemeIcons{
			Pass:      "+",
			Fail:      "x",
			Warn:      "!",
			Info:      "*",
			Covered:   "#",
			Uncovered: "x",
			NonExec:   ".",
		},
	}
}

// ThemeByName returns a theme by name, defaulting to DefaultTheme.
func ThemeByName(name string) Theme {
	switch name {
	case "orca":
		return OrcaTheme()
	case "mono":
		return MonoTheme()
	default:
		return DefaultTheme()
	}
}
