package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/wrlog/internal/models"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// modeColors tints the mode badge so the three leaderboards are easy to tell apart in a long list.
var modeColors = map[string]lipgloss.Color{
	models.Sprint.String():    lipgloss.Color("#3FA7FF"),
	models.Challenge.String(): lipgloss.Color("#FF5F87"),
	models.Stunt.String():     lipgloss.Color("#FFD75F"),
}

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title  lipgloss.Style
	ok     lipgloss.Style
	err    lipgloss.Style
	warn   lipgloss.Style
	help   lipgloss.Style
	record lipgloss.Style
	label  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title:  NewBold(t).MarginBottom(1),
		ok:     NewBold(s),
		err:    NewBold(e),
		warn:   NewStyle(w),
		help:   NewEm(h),
		record: NewBold(s),
		label:  NewStyle(h),
	}
}

// Mode renders a mode name as a colored badge; unknown modes are left plain.
func (p *Palette) Mode(mode string) string {
	color, ok := modeColors[mode]
	if !ok {
		return mode
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#1C1C1C")).Background(color).Padding(0, 1).Render(mode)
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
