// Copyright (c) 2025 GlyphOS Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat is the interactive TUI: a transcript viewport, a prompt
// input, and a status line. Streaming happens off the Bubble Tea loop;
// rendered frames arrive as messages and replace the in-flight
// response in place.
package chat
