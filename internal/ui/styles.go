package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/gubarz/coursemd/internal/config"
)

// StyleManager encapsulates all TUI styles and provides methods for style operations
type StyleManager struct {
	// List view styles
	Number   lipgloss.Style
	Title    lipgloss.Style
	Unit     lipgloss.Style
	Badge    lipgloss.Style
	Selected lipgloss.Style
	Cursor   lipgloss.Style
	Dim      lipgloss.Style

	// Editor styles
	Label       lipgloss.Style
	ActiveLabel lipgloss.Style

	// Chrome styles
	Border  lipgloss.Style
	Divider lipgloss.Style
	Status  lipgloss.Style
	Error   lipgloss.Style

	// Colors for direct access
	SelectedBg lipgloss.Color
}

// DefaultStyles returns a StyleManager with default styles
func DefaultStyles() *StyleManager {
	return &StyleManager{
		Number:      lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		Title:       lipgloss.NewStyle().Bold(true),
		Unit:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Badge:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Selected:    lipgloss.NewStyle().Background(lipgloss.Color("236")),
		Cursor:      lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		Dim:         lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Label:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		ActiveLabel: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		Border:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")),
		Divider:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Status:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Error:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		SelectedBg:  lipgloss.Color("236"),
	}
}

// LoadFromConfig updates styles based on configuration
func (s *StyleManager) LoadFromConfig() {
	accent := lipgloss.Color(config.GetColorAccent())
	dim := lipgloss.Color(config.GetColorDim())
	border := lipgloss.Color(config.GetColorBorder())
	selectedBg := lipgloss.Color(config.GetColorSelected())
	errColor := lipgloss.Color(config.GetColorError())

	s.Number = lipgloss.NewStyle().Foreground(accent)
	s.Title = lipgloss.NewStyle().Bold(true)
	s.Unit = lipgloss.NewStyle().Foreground(dim)
	s.Badge = lipgloss.NewStyle().Foreground(dim)
	s.Selected = lipgloss.NewStyle().Background(selectedBg)
	s.Cursor = lipgloss.NewStyle().Foreground(accent)
	s.Dim = lipgloss.NewStyle().Foreground(dim)

	s.Label = lipgloss.NewStyle().Foreground(dim)
	s.ActiveLabel = lipgloss.NewStyle().Bold(true).Foreground(accent)

	s.Border = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border)
	s.Divider = lipgloss.NewStyle().Foreground(border)
	s.Status = lipgloss.NewStyle().Foreground(dim)
	s.Error = lipgloss.NewStyle().Bold(true).Foreground(errColor)
	s.SelectedBg = selectedBg
}

// WithSelection returns a copy of the given style with the selected background applied
func (s *StyleManager) WithSelection(style lipgloss.Style) lipgloss.Style {
	return style.Background(s.SelectedBg)
}

// Global style manager instance
var styles = DefaultStyles()

// RefreshStyles updates the global styles from config
func RefreshStyles() {
	styles.LoadFromConfig()
}
