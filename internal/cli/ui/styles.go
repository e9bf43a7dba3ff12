package ui

import "github.com/charmbracelet/lipgloss"

const cardWidth = 48

// Styles defines all lipgloss styles used in the CLI
var Styles = struct {
	Bold        lipgloss.Style
	Muted       lipgloss.Style
	Banner      lipgloss.Style
	Card        lipgloss.Style
	CardBanner  lipgloss.Style
	CardTag     lipgloss.Style
	CardTitle   lipgloss.Style
	Placeholder lipgloss.Style
	SuccessBox  lipgloss.Style
	ErrorBox    lipgloss.Style
	Modal       lipgloss.Style
	Button      lipgloss.Style
	ButtonOff   lipgloss.Style
	Focused     lipgloss.Style
	Toast       lipgloss.Style
}{
	Bold:  lipgloss.NewStyle().Bold(true),
	Muted: lipgloss.NewStyle().Foreground(lipgloss.Color("245")), // Gray

	Banner: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("86")).
		Padding(0, 1),

	Card: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("212")).
		Padding(0, 1).
		Width(cardWidth),

	CardBanner: lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true), // Pink
	CardTag:    lipgloss.NewStyle().Foreground(lipgloss.Color("229")),            // Yellow
	CardTitle:  lipgloss.NewStyle().Bold(true),

	Placeholder: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true).
			MarginTop(1).
			MarginBottom(1),

	SuccessBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("42")).
		Padding(0, 1).
		Width(60),

	ErrorBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("196")).
		Padding(0, 1).
		Width(60),

	Modal: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("86")).
		Padding(1, 2).
		Width(52),

	Button: lipgloss.NewStyle().
		Foreground(lipgloss.Color("231")).
		Background(lipgloss.Color("205")).
		Padding(0, 1),

	ButtonOff: lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Background(lipgloss.Color("238")).
			Padding(0, 1),

	Focused: lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),

	Toast: lipgloss.NewStyle().
		Foreground(lipgloss.Color("231")).
		Background(lipgloss.Color("236")).
		Padding(0, 1),
}
