// Copyright (c) 2025 GlyphOS Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/glyphos/glyphchat/internal/session"
	"github.com/glyphos/glyphchat/internal/ui/styles"
)

// =============================================================================
// CHAT STATE
// =============================================================================

// State tracks what the view is doing.
type State int

const (
	StateReady     State = iota // Ready for input
	StateStreaming              // Response in flight
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	state State

	// Dimensions
	width  int
	height int

	// Exchange plumbing
	controller *session.Controller
	cancel     context.CancelFunc

	// Transcript: settled exchanges plus the one in flight.
	transcript []string
	pending    string // prompt currently streaming
	frame      string // latest rendered frame for the pending prompt

	// Run metadata for the header
	providerName string
	modelName    string

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	statusMsg string
}

// New builds the chat model around a wired controller.
func New(controller *session.Controller, providerName, modelName string) Model {
	input := textinput.New()
	input.Placeholder = "Ask anything..."
	input.Prompt = "❯ "
	input.PromptStyle = styles.Prompt
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Prompt

	vp := viewport.New(80, 20)

	return Model{
		state:        StateReady,
		controller:   controller,
		providerName: providerName,
		modelName:    modelName,
		viewport:     vp,
		input:        input,
		spinner:      sp,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// submitCmd drives one exchange off the event loop. Frames arrive via
// the ProgramSink; this command only reports settlement.
func (m *Model) submitCmd(prompt string) tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	controller := m.controller
	return func() tea.Msg {
		sess, err := controller.Submit(ctx, prompt)
		return DoneMsg{Session: sess, Err: err}
	}
}
