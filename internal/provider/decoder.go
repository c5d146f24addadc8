// Copyright (c) 2025 GlyphOS Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"context"
	"io"
)

// =============================================================================
// DELTA STREAM
// =============================================================================

// Delta is one incremental fragment of generated content. Deltas carry
// no identity beyond arrival order; concatenating them in order yields
// the running response buffer.
type Delta struct {
	Text string
}

// EmitFunc receives each decoded Delta. Decoders call it strictly in
// arrival order and never after Decode returns.
type EmitFunc func(Delta)

// Decoder turns a raw response body into a sequence of deltas for one
// wire shape. Decode blocks until the stream completes, the context is
// cancelled, or an unrecoverable error occurs.
//
// Decoders must tolerate a chunk boundary splitting a logical record:
// partial lines are buffered across reads and only complete records are
// parsed. On stream end any non-empty trailing fragment is parsed once
// more so a final unterminated record is not dropped. Malformed records
// are skipped, never fatal.
type Decoder interface {
	Decode(ctx context.Context, body io.Reader, emit EmitFunc) error
}
