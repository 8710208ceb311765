package theme

import "github.com/charmbracelet/lipgloss"

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	StatusIdle       *lipgloss.Style
	StatusConnecting *lipgloss.Style
	StatusConnected  *lipgloss.Style
	PaneBorder       *lipgloss.Style
	PaneTitle        *lipgloss.Style
	LogLine          *lipgloss.Style
	LogEcho          *lipgloss.Style
	LogError         *lipgloss.Style
	Prompt           *lipgloss.Style
	Input            *lipgloss.Style
	Cursor           *lipgloss.Style
	PickerBorder     *lipgloss.Style
	PickerTitle      *lipgloss.Style
	PickerItem       *lipgloss.Style
	PickerAddress    *lipgloss.Style
	PickerSelected   *lipgloss.Style
	PickerEmpty      *lipgloss.Style
}

var defaultStyles = Styles{
	StatusIdle: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	StatusConnecting: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
	),
	StatusConnected: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	PaneBorder: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	),
	PaneTitle: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	LogLine: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	),
	LogEcho: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	),
	LogError: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Prompt: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	Input: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Cursor: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("33")).Blink(true),
	),
	PickerBorder: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
	),
	PickerTitle: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true),
	),
	PickerItem: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	PickerAddress: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
	),
	PickerSelected: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
	),
	PickerEmpty: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
	),
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
