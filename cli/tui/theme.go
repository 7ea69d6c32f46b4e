package tui

import "github.com/charmbracelet/lipgloss"

// Theme holds every style the browser renders with
type Theme struct {
	TitleStyle         lipgloss.Style
	BorderStyle        lipgloss.Style
	PreviewBorderStyle lipgloss.Style
	NormalItemStyle    lipgloss.Style
	CursorStyle        lipgloss.Style
	GroupStyle         lipgloss.Style
	AssetStyle         lipgloss.Style
	MarkedStyle        lipgloss.Style
	PreviewStyle       lipgloss.Style
	LabelStyle         lipgloss.Style
	ErrorStyle         lipgloss.Style
	StatusBarStyle     lipgloss.Style
	CommandStyle       lipgloss.Style
	HelpStyle          lipgloss.Style
}

func DefaultTheme() *Theme {
	accent := lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7D79F6"}
	subtle := lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
	marked := lipgloss.AdaptiveColor{Light: "#1F8A4C", Dark: "#43BF6D"}
	failed := lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#FF5F5F"}

	return &Theme{
		TitleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(accent).
			Padding(0, 1),
		BorderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(subtle).
			Padding(0, 1),
		PreviewBorderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
		NormalItemStyle: lipgloss.NewStyle(),
		CursorStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(accent),
		GroupStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),
		AssetStyle: lipgloss.NewStyle().
			PaddingLeft(2),
		MarkedStyle: lipgloss.NewStyle().
			PaddingLeft(2).
			Foreground(marked),
		PreviewStyle: lipgloss.NewStyle(),
		LabelStyle: lipgloss.NewStyle().
			Foreground(subtle).
			Width(10),
		ErrorStyle: lipgloss.NewStyle().
			Foreground(failed),
		StatusBarStyle: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#343433", Dark: "#C1C6B2"}).
			Background(lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#353533"}).
			Padding(0, 1),
		CommandStyle: lipgloss.NewStyle().
			Foreground(accent),
		HelpStyle: lipgloss.NewStyle().
			Foreground(subtle),
	}
}
