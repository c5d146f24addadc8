// Copyright (c) 2025 GlyphOS Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// PROGRAM SINK
// =============================================================================

// ProgramSink forwards rendered frames into the Bubble Tea event loop.
// The program reference is set after tea.NewProgram, so access is
// guarded; frames arriving before the program starts are dropped.
type ProgramSink struct {
	mu      sync.Mutex
	program *tea.Program
}

// SetProgram installs the running program. Call once, before the first
// Submit.
func (s *ProgramSink) SetProgram(p *tea.Program) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.program = p
}

// Apply implements session.Sink.
func (s *ProgramSink) Apply(frame string, final bool) {
	s.mu.Lock()
	p := s.program
	s.mu.Unlock()
	if p == nil {
		return
	}
	p.Send(FrameMsg{Content: frame, Final: final})
}
