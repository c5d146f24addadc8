// Copyright (c) 2025 GlyphOS Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the glyphchat command surface: the default
// TUI, one-shot ask mode, a plain line-based REPL, and history
// management.
package cli
