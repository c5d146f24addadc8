// Copyright (c) 2025 GlyphOS Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/glyphos/glyphchat/internal/session"
	"github.com/glyphos/glyphchat/internal/ui/styles"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case FrameMsg:
		return m.handleFrame(msg)

	case DoneMsg:
		return m.handleDone(msg)

	case NoticeMsg:
		m.statusMsg = msg.Text
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	// Header, status line, and input each take one row.
	vpHeight := msg.Height - 3
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.viewport.Width = msg.Width
	m.viewport.Height = vpHeight
	m.input.Width = msg.Width - 4
	m.refreshViewport()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {

	case "ctrl+c":
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case "esc":
		if m.state == StateStreaming && m.cancel != nil {
			m.cancel()
			m.statusMsg = "cancelling..."
			return m, nil
		}

	case "enter":
		prompt := strings.TrimSpace(m.input.Value())
		if prompt == "" {
			return m, nil
		}
		if m.state == StateStreaming {
			m.statusMsg = "still streaming, esc to cancel"
			return m, nil
		}
		m.state = StateStreaming
		m.statusMsg = ""
		m.pending = prompt
		m.frame = ""
		m.input.Reset()
		m.refreshViewport()
		return m, tea.Batch(m.submitCmd(prompt), m.spinner.Tick)

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleFrame(msg FrameMsg) (tea.Model, tea.Cmd) {
	m.frame = msg.Content
	m.refreshViewport()
	return m, nil
}

func (m Model) handleDone(msg DoneMsg) (tea.Model, tea.Cmd) {
	// The final frame already arrived; fold the exchange into the
	// settled transcript.
	m.transcript = append(m.transcript, m.renderExchange(m.pending, m.frame))
	m.pending = ""
	m.frame = ""
	m.state = StateReady
	m.cancel = nil

	if msg.Err != nil && errors.Is(msg.Err, session.ErrBusy) {
		m.statusMsg = "still streaming, esc to cancel"
	}

	m.refreshViewport()
	return m, nil
}

// renderExchange lays out one settled prompt/response pair.
func (m Model) renderExchange(prompt, response string) string {
	var sb strings.Builder
	sb.WriteString(styles.Prompt.Render("❯ " + prompt))
	sb.WriteString("\n\n")
	sb.WriteString(response)
	sb.WriteString("\n")
	return sb.String()
}

func (m *Model) refreshViewport() {
	var sb strings.Builder
	for _, ex := range m.transcript {
		sb.WriteString(ex)
		sb.WriteString("\n")
	}
	if m.pending != "" {
		sb.WriteString(m.renderExchange(m.pending, m.frame))
	}
	m.viewport.SetContent(sb.String())
	m.viewport.GotoBottom()
}
