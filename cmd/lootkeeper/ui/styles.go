package ui

import (
	"github.com/charmbracelet/lipgloss"

	"lootkeeper/internal/types"
)

// Styles collects the lipgloss styles the previewer renders with.
type Styles struct {
	Header  lipgloss.Style
	Block   lipgloss.Style
	Control lipgloss.Style
	Dimmed  lipgloss.Style
	Status  lipgloss.Style
}

// DefaultStyles returns the default preview styling.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().Bold(true).Padding(0, 1).
			Border(lipgloss.NormalBorder(), false, false, true, false),
		Block:   lipgloss.NewStyle().Padding(0, 1),
		Control: lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder()),
		Dimmed:  lipgloss.NewStyle().Faint(true).Padding(0, 1).Border(lipgloss.RoundedBorder()),
		Status:  lipgloss.NewStyle().Faint(true),
	}
}

// accentColor maps a payload accent to a lipgloss color.
func accentColor(a types.Accent) lipgloss.Color {
	switch a {
	case types.AccentSuccess:
		return lipgloss.Color("42")
	case types.AccentMixed:
		return lipgloss.Color("214")
	case types.AccentFailure:
		return lipgloss.Color("196")
	}
	return lipgloss.Color("245")
}
