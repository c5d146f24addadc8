// Copyright (c) 2025 GlyphOS Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/glyphos/glyphchat/internal/session"
)

// =============================================================================
// BUBBLE TEA MESSAGES
// =============================================================================

// FrameMsg carries one rendered frame of the in-flight response. Each
// frame supersedes the previous one; Final marks the last frame of the
// exchange.
type FrameMsg struct {
	Content string
	Final   bool
}

// DoneMsg reports that the exchange settled. Err is the stream error,
// if any; the error text is already part of the final frame.
type DoneMsg struct {
	Session *session.Session
	Err     error
}

// NoticeMsg shows a transient status-line notice.
type NoticeMsg struct {
	Text string
}
