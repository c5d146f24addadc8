// Copyright (c) 2025 GlyphOS Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the shared visual styling for glyphchat.
// All colors use Lip Gloss AdaptiveColor for automatic light/dark
// terminal detection.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// =============================================================================
// PALETTE
// =============================================================================

// Violet - primary accent, assistant output
var Violet = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}

// Cyan - brand color, prompts, inline code
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// Emerald - success states
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// Rose - errors and failed render fragments
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Amber - warnings, busy indicator
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// SurfaceDim - code block and math block backgrounds
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#181825"}

// Overlay - borders and separators
var Overlay = lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#313244"}

// TextPrimary - main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"}

// TextSecondary - labels, status line
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A6ADC8"}

// TextMuted - hints, timestamps, affordance labels
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}

// =============================================================================
// SHARED STYLES
// =============================================================================

var (
	// Prompt is the input prompt marker.
	Prompt = lipgloss.NewStyle().Foreground(Cyan).Bold(true)

	// ErrorText flags failed operations and render errors.
	ErrorText = lipgloss.NewStyle().Foreground(Rose).Bold(true)

	// Hint renders muted helper text.
	Hint = lipgloss.NewStyle().Foreground(TextMuted)

	// StatusLine renders the footer status bar.
	StatusLine = lipgloss.NewStyle().Foreground(TextSecondary)

	// Badge renders small labels on block containers.
	Badge = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(SurfaceDim).
		Padding(0, 1).
		Bold(true)
)

// =============================================================================
// TERMINAL DETECTION
// =============================================================================

// HasDarkBackground reports whether the terminal background is dark.
// Used to pick the glamour style that matches the palette.
func HasDarkBackground() bool {
	return termenv.HasDarkBackground()
}

// ColorProfile returns the detected terminal color capability.
func ColorProfile() termenv.Profile {
	return termenv.ColorProfile()
}

// GlamourStyle returns the glamour style name matching the terminal.
func GlamourStyle() string {
	if HasDarkBackground() {
		return "dark"
	}
	return "light"
}
