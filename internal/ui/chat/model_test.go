// Copyright (c) 2025 GlyphOS Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func testModel() Model {
	m := New(nil, "local", "llama3.2")
	m, _ = toChat(m.Update(tea.WindowSizeMsg{Width: 80, Height: 24}))
	return m
}

func toChat(tm tea.Model, cmd tea.Cmd) (Model, tea.Cmd) {
	return tm.(Model), cmd
}

func TestFrameReplacesPrevious(t *testing.T) {
	m := testModel()
	m.state = StateStreaming
	m.pending = "hello"

	m, _ = toChat(m.Update(FrameMsg{Content: "partial"}))
	m, _ = toChat(m.Update(FrameMsg{Content: "partial answer"}))

	view := m.viewport.View()
	if !strings.Contains(view, "partial answer") {
		t.Errorf("latest frame missing from viewport:\n%s", view)
	}
}

func TestDoneFoldsExchange(t *testing.T) {
	m := testModel()
	m.state = StateStreaming
	m.pending = "hello"
	m, _ = toChat(m.Update(FrameMsg{Content: "the answer", Final: true}))

	m, _ = toChat(m.Update(DoneMsg{}))

	if m.state != StateReady {
		t.Errorf("state = %v, want StateReady", m.state)
	}
	if len(m.transcript) != 1 {
		t.Fatalf("transcript len = %d, want 1", len(m.transcript))
	}
	if !strings.Contains(m.transcript[0], "hello") || !strings.Contains(m.transcript[0], "the answer") {
		t.Errorf("folded exchange = %q", m.transcript[0])
	}
	if m.pending != "" || m.frame != "" {
		t.Error("pending exchange not cleared")
	}
}

func TestEmptyPromptIgnored(t *testing.T) {
	m := testModel()

	m, cmd := toChat(m.Update(tea.KeyMsg{Type: tea.KeyEnter}))

	if cmd != nil {
		t.Error("empty prompt should not start an exchange")
	}
	if m.state != StateReady {
		t.Errorf("state = %v, want StateReady", m.state)
	}
}

func TestEnterWhileStreamingRejected(t *testing.T) {
	m := testModel()
	m.state = StateStreaming
	m.input.SetValue("second question")

	m, cmd := toChat(m.Update(tea.KeyMsg{Type: tea.KeyEnter}))

	if cmd != nil {
		t.Error("submission during streaming must not start a command")
	}
	if m.statusMsg == "" {
		t.Error("rejection should set a status hint")
	}
}

func TestStatusLineStates(t *testing.T) {
	m := testModel()

	if !strings.Contains(m.statusView(), "enter to send") {
		t.Errorf("ready status = %q", m.statusView())
	}

	m.state = StateStreaming
	if !strings.Contains(m.statusView(), "esc to cancel") {
		t.Errorf("streaming status = %q", m.statusView())
	}
}
