// Copyright (c) 2025 GlyphOS Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/glyphos/glyphchat/internal/session"
)

// =============================================================================
// ASK MODE
// =============================================================================

// HandleAsk answers one question and exits. On a TTY the response
// redraws in place as it streams; piped output gets only the final
// frame.
func HandleAsk(controller *session.Controller, args Args) error {
	query := strings.TrimSpace(args.Query)
	if query == "" {
		return fmt.Errorf("ask requires a question")
	}

	ctx, cancel := signalContext()
	defer cancel()

	_, err := controller.Submit(ctx, query)
	return err
}

// signalContext cancels on SIGINT/SIGTERM so a stuck stream dies with
// a clean terminal.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// =============================================================================
// STDOUT SINK
// =============================================================================

// StdoutSink renders frames to stdout. On a TTY each frame erases the
// previous one, giving ask mode the same live-document feel as the
// TUI. Without a TTY only the final frame is written.
type StdoutSink struct {
	tty   bool
	lines int
}

// NewStdoutSink builds a sink bound to the current stdout.
func NewStdoutSink() *StdoutSink {
	return &StdoutSink{tty: IsStdoutTTY()}
}

// Apply implements session.Sink.
func (s *StdoutSink) Apply(frame string, final bool) {
	if !s.tty {
		if final {
			fmt.Println(frame)
		}
		return
	}

	if s.lines > 0 {
		// Move to the top of the previous frame and wipe it.
		fmt.Printf("\033[%dA\033[J", s.lines)
	}
	fmt.Println(frame)
	s.lines = strings.Count(frame, "\n") + 1

	if final {
		s.lines = 0
	}
}

// warnf prints a styled warning to stderr.
func warnf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
}
