// Copyright (c) 2025 GlyphOS Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// SESSION STATE
// =============================================================================

// Status tracks where a session is in its lifecycle.
type Status int

const (
	// StatusPending means the request has been accepted but no bytes
	// have arrived yet.
	StatusPending Status = iota
	// StatusStreaming means at least one delta has been appended.
	StatusStreaming
	// StatusComplete means the stream ended cleanly.
	StatusComplete
	// StatusFailed means the stream ended with an error. The buffer
	// still holds whatever text arrived before the failure.
	StatusFailed
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusStreaming:
		return "streaming"
	case StatusComplete:
		return "complete"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Session is one prompt/response exchange. It is owned by the
// Controller for its whole lifetime; callers only see it through the
// Archiver after the exchange settles.
type Session struct {
	ID          uuid.UUID
	Provider    string
	Model       string
	Temperature float64
	Prompt      string
	StartedAt   time.Time
	FinishedAt  time.Time
	Status      Status

	buffer strings.Builder
}

// New starts a pending session for one exchange.
func New(provider, model string, temperature float64, prompt string) *Session {
	return &Session{
		ID:          uuid.New(),
		Provider:    provider,
		Model:       model,
		Temperature: temperature,
		Prompt:      prompt,
		StartedAt:   time.Now(),
		Status:      StatusPending,
	}
}

// Append accumulates response text. Only the goroutine driving the
// stream may call it.
func (s *Session) Append(text string) {
	s.buffer.WriteString(text)
}

// Text returns the accumulated response so far.
func (s *Session) Text() string {
	return s.buffer.String()
}

// Duration reports how long the exchange ran. Zero until finished.
func (s *Session) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
