// Copyright (c) 2025 GlyphOS Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/glyphos/glyphchat/internal/ui/styles"
)

// =============================================================================
// MARKDOWN FORMATTER
// =============================================================================

// Formatter renders markdown text into styled terminal output. It is
// the external markup collaborator of the render pipeline; the pipeline
// only hands it placeholder-substituted text.
type Formatter interface {
	Format(markdown string) (string, error)
}

// GlamourFormatter is the glamour-backed Formatter used in production.
type GlamourFormatter struct {
	mu       sync.Mutex
	renderer *glamour.TermRenderer
	width    int
}

// NewGlamourFormatter creates a formatter wrapping at the given width.
func NewGlamourFormatter(width int) (*GlamourFormatter, error) {
	if width <= 0 {
		width = 80
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(styles.GlamourStyle()),
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	return &GlamourFormatter{renderer: renderer, width: width}, nil
}

// Format implements Formatter. The underlying glamour renderer is not
// safe for concurrent use, so calls are serialized.
func (f *GlamourFormatter) Format(markdown string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out, err := f.renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("markdown render failed: %w", err)
	}
	return out, nil
}

// Width returns the wrap width the formatter was built with.
func (f *GlamourFormatter) Width() int {
	return f.width
}

// =============================================================================
// PLAIN FORMATTER
// =============================================================================

// PlainFormatter passes text through untouched. Used as the fallback
// when no styled terminal is available, and by tests that assert on
// pipeline structure rather than ANSI output.
type PlainFormatter struct{}

// Format implements Formatter.
func (PlainFormatter) Format(markdown string) (string, error) {
	return strings.TrimRight(markdown, "\n") + "\n", nil
}
