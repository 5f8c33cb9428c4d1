package main

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Bold(true)

	chipStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("238")).
			Padding(0, 1)

	chipFocusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Bold(true).
			Padding(0, 1)

	chipMixedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Background(lipgloss.Color("238")).
			Padding(0, 1)

	bufferBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Background(lipgloss.Color("234")).
			Padding(0, 1)

	bufferActiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62")).
				Bold(true).
				Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("111"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// mixedMarker is what a widget shows when the selected shapes disagree.
const mixedMarker = "mixed"

const defaultColor = "gray"

// paletteColor carries both renderings of a swatch color: the 256-color
// index for the terminal grid and RGB for PNG export.
type paletteColor struct {
	Name    string
	ANSI    string
	R, G, B float64
}

var palette = []paletteColor{
	{"gray", "246", 0.60, 0.63, 0.65},
	{"red", "203", 0.88, 0.19, 0.19},
	{"orange", "215", 0.97, 0.40, 0.03},
	{"yellow", "221", 0.98, 0.69, 0.02},
	{"green", "114", 0.25, 0.75, 0.34},
	{"cyan", "80", 0.13, 0.72, 0.81},
	{"blue", "75", 0.20, 0.60, 0.94},
	{"purple", "135", 0.52, 0.37, 0.97},
	{"pink", "212", 0.90, 0.29, 0.50},
}

func colorByName(name string) paletteColor {
	for _, c := range palette {
		if c.Name == name {
			return c
		}
	}
	return palette[0]
}

// nextColor cycles the palette by delta, wrapping at both ends.
func nextColor(name string, delta int) string {
	idx := 0
	for i, c := range palette {
		if c.Name == name {
			idx = i
			break
		}
	}
	idx = ((idx+delta)%len(palette) + len(palette)) % len(palette)
	return palette[idx].Name
}

// fgCode returns the raw ANSI sequence the grid renderer writes for a
// palette color.
func fgCode(name string) string {
	return "\x1b[38;5;" + colorByName(name).ANSI + "m"
}

const (
	ansiReset  = "\x1b[0m"
	ansiSelect = "\x1b[1;38;5;231m"
)
