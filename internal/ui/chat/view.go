// Copyright (c) 2025 GlyphOS Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/glyphos/glyphchat/internal/ui/styles"
)

// View implements tea.Model.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.headerView())
	sb.WriteString("\n")
	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")
	sb.WriteString(m.input.View())
	sb.WriteString("\n")
	sb.WriteString(m.statusView())

	return sb.String()
}

func (m Model) headerView() string {
	return styles.Badge.Render("glyphchat") + " " +
		styles.Hint.Render(m.providerName+" · "+m.modelName)
}

func (m Model) statusView() string {
	if m.state == StateStreaming {
		return m.spinner.View() + styles.Hint.Render(" streaming · esc to cancel")
	}
	if m.statusMsg != "" {
		return styles.Hint.Render(m.statusMsg)
	}
	return styles.StatusLine.Render("enter to send · ctrl+c to quit")
}
