package tui

import "github.com/charmbracelet/lipgloss"

// Color palette.
const (
	ColorHeader   = lipgloss.Color("86")
	ColorSubtle   = lipgloss.Color("241")
	ColorSelected = lipgloss.Color("212")
	ColorHandle   = lipgloss.Color("110")
	ColorCritical = lipgloss.Color("196")
	ColorWarning  = lipgloss.Color("214")
	ColorInfo     = lipgloss.Color("39")
	ColorBorder   = lipgloss.Color("62")
)

//nolint:gochecknoglobals // Shared lipgloss styles.
var (
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorHeader)

	SubtleStyle = lipgloss.NewStyle().Foreground(ColorSubtle)

	SelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorSelected)

	HandleStyle = lipgloss.NewStyle().Foreground(ColorHandle)

	CriticalStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorCritical)

	WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)

	InfoStyle = lipgloss.NewStyle().Foreground(ColorInfo)

	AffordanceStyle = lipgloss.NewStyle().Foreground(ColorInfo).Faint(true)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)
)
