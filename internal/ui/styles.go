// Package ui provides terminal styling for autofix CLI output.
package ui

import "github.com/charmbracelet/lipgloss"

// Semantic status colors with adaptive light/dark mode support.
var (
	ColorPass = lipgloss.AdaptiveColor{
		Light: "#86b300",
		Dark:  "#c2d94c",
	}
	ColorWarn = lipgloss.AdaptiveColor{
		Light: "#f2ae49",
		Dark:  "#ffb454",
	}
	ColorFail = lipgloss.AdaptiveColor{
		Light: "#f07171",
		Dark:  "#f07178",
	}
	ColorMuted = lipgloss.AdaptiveColor{
		Light: "#828c99",
		Dark:  "#6c7680",
	}
	ColorAccent = lipgloss.AdaptiveColor{
		Light: "#399ee6",
		Dark:  "#59c2ff",
	}
)

// Status styles - consistent across all output.
var (
	PassStyle   = lipgloss.NewStyle().Foreground(ColorPass)
	WarnStyle   = lipgloss.NewStyle().Foreground(ColorWarn)
	FailStyle   = lipgloss.NewStyle().Foreground(ColorFail)
	MutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	AccentStyle = lipgloss.NewStyle().Foreground(ColorAccent)
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
)

// Status icons.
const (
	IconPass = "✓"
	IconWarn = "⚠"
	IconFail = "✗"
	IconSkip = "-"
)

// RenderPass renders text with pass (green) styling.
func RenderPass(s string) string { return PassStyle.Render(s) }

// RenderWarn renders text with warning (yellow) styling.
func RenderWarn(s string) string { return WarnStyle.Render(s) }

// RenderFail renders text with failure (red) styling.
func RenderFail(s string) string { return FailStyle.Render(s) }

// RenderMuted renders de-emphasized text.
func RenderMuted(s string) string { return MutedStyle.Render(s) }

// RenderAccent renders highlighted text such as branch names.
func RenderAccent(s string) string { return AccentStyle.Render(s) }
