package ui

import (
	"strconv"

	"github.com/nconklindev/stylematch/internal/compare"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/lipgloss"
)

// Palette: teal for the app chrome, green for matched styles, red for misses.
var (
	colorAccent = lipgloss.Color("#2EC4B6")
	colorMatch  = lipgloss.Color("#9BE564")
	colorMiss   = lipgloss.Color("#FF4757")
	colorMuted  = lipgloss.Color("#6B7280")
	colorInk    = lipgloss.Color("#0B132B")
	colorPaper  = lipgloss.Color("#F8F9FA")
)

var (
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorInk).
			Background(colorAccent).
			Padding(0, 1).
			MarginTop(1)

	captionStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	badgeStyle = lipgloss.NewStyle().
			Foreground(colorInk).
			Background(colorMuted).
			Padding(0, 1)

	// matchRowStyle draws a green gutter beside each previewed match.
	matchRowStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(colorMatch).
			PaddingLeft(1)

	chipStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	activeChipStyle = chipStyle.
			Bold(true).
			Foreground(colorInk).
			Background(colorAccent)

	keysStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			MarginTop(1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), true, false, false, false).
			BorderForeground(colorAccent).
			Padding(1, 1)
)

// outcomeStyle colours a status line. A zero-match run is shown like an error.
func outcomeStyle(kind compare.StatusKind) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	switch kind {
	case compare.StatusSuccess:
		return base.Foreground(colorMatch)
	case compare.StatusNoMatch, compare.StatusError:
		return base.Foreground(colorMiss)
	default:
		return base.Foreground(colorPaper)
	}
}

// stepBadge renders the numbered chip for a picker step: green once done,
// teal while active, grey while pending.
func stepBadge(step, current int) string {
	style := badgeStyle
	switch {
	case step < current:
		style = style.Background(colorMatch)
	case step == current:
		style = style.Background(colorAccent).Bold(true)
	}
	return style.Render(strconv.Itoa(step))
}

func pickerStyles() filepicker.Styles {
	s := filepicker.DefaultStyles()
	s.Cursor = lipgloss.NewStyle().Foreground(colorAccent)
	s.Symlink = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
	s.Directory = lipgloss.NewStyle().Foreground(colorAccent)
	s.File = lipgloss.NewStyle().Foreground(colorPaper)
	s.Permission = lipgloss.NewStyle().Foreground(colorMuted)
	s.Selected = lipgloss.NewStyle().Foreground(colorInk).Background(colorAccent)
	s.FileSize = lipgloss.NewStyle().Foreground(colorMuted).Width(8).Align(lipgloss.Right)
	return s
}
