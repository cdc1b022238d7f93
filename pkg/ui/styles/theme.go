// Package styles holds the colors and text styles used by the chat console.
package styles

import (
	"charm.land/lipgloss/v2"
)

// Color palette - ANSI 256 colors
var (
	ColorAccent    = lipgloss.Color("14")  // Cyan, banner and info lines
	ColorModel     = lipgloss.Color("12")  // Blue "Chatbot:" label
	ColorTextMuted = lipgloss.Color("245") // Secondary/muted text
	ColorError     = lipgloss.Color("196") // Error messages
	ColorWarning   = lipgloss.Color("214") // Rendering warnings
)

// Text styles
var (
	// InfoStyle for banner lines and command feedback
	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)

	// TitleStyle for the banner title and farewell
	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	// ModelLabelStyle for the reply label
	ModelLabelStyle = lipgloss.NewStyle().
			Foreground(ColorModel).
			Bold(true)

	// TextMutedStyle for the thinking indicator
	TextMutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)
)

// Feedback styles
var (
	// ErrorStyle for error messages
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	// WarningStyle for non-fatal warnings
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)
)

// Welcome message styles
var (
	// WelcomeBorderStyle for welcome box borders
	WelcomeBorderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("99"))

	// WelcomeKeyStyle for command names
	WelcomeKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("222")).
			Bold(true)

	// WelcomeVersionStyle for version info (dimmed)
	WelcomeVersionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("244"))
)
