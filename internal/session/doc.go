// Copyright (c) 2025 GlyphOS Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the lifecycle of a chat exchange: one prompt in,
// one streamed response out, rendered incrementally along the way.
//
// A Controller holds at most one active session. Submissions made while
// a stream is in flight are rejected with ErrBusy rather than queued;
// the single-session invariant keeps the render sink's output ordering
// trivial to reason about.
package session
