// Copyright (c) 2025 GlyphOS Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"strings"
)

// =============================================================================
// INCREMENTAL DOCUMENT RENDERER
// =============================================================================

// Renderer re-renders the running response buffer into styled output.
// It never mutates the buffer; callers own it.
type Renderer struct {
	formatter Formatter
	math      MathRenderer
	diagram   DiagramRenderer
	width     int
}

// New wires a renderer from its collaborators. Nil math or diagram
// engines fall back to the shipped terminal implementations.
func New(formatter Formatter, math MathRenderer, diagram DiagramRenderer, width int) *Renderer {
	if math == nil {
		math = NewTermMathRenderer()
	}
	if diagram == nil {
		diagram = NewBoxDiagramRenderer()
	}
	if width <= 0 {
		width = 80
	}
	return &Renderer{
		formatter: formatter,
		math:      math,
		diagram:   diagram,
		width:     width,
	}
}

// NewDefault builds the production renderer: glamour markdown, terminal
// math, framed diagrams.
func NewDefault(width int) (*Renderer, error) {
	formatter, err := NewGlamourFormatter(width)
	if err != nil {
		return nil, err
	}
	return New(formatter, nil, nil, width), nil
}

// Render produces the visual form of the buffer. final enables the
// expensive one-time steps (diagram rendering, code affordances); it
// must only be set after the stream has completed.
//
// Render is a pure function of (buffer, final): invoking it twice with
// the same arguments yields the same output, and the final pass adds
// exactly the diagram/code decoration without altering prose.
func (r *Renderer) Render(buffer string, final bool) string {
	substituted, blocks := Extract(buffer, final)

	out, err := r.formatter.Format(substituted)
	if err != nil {
		// A formatter failure downgrades to plain text; the response
		// must stay readable.
		out = substituted
	}

	for _, block := range blocks {
		out = strings.ReplaceAll(out, placeholder(block.Index), r.renderBlock(block))
	}

	return out
}

// renderBlock renders one extracted region. Failures collapse to a
// flagged error span containing the raw source.
func (r *Renderer) renderBlock(block ExtractedBlock) string {
	switch block.Kind {
	case KindDisplayMath:
		out, err := r.math.Render(block.Source, true)
		if err != nil {
			return errorSpan("math error", block.Source)
		}
		return out

	case KindInlineMath:
		out, err := r.math.Render(block.Source, false)
		if err != nil {
			return errorSpan("math error", block.Source)
		}
		return out

	case KindDiagram:
		out, err := r.diagram.Render(block.Source)
		if err != nil {
			return errorSpan("diagram error", block.Source)
		}
		return out

	case KindCode:
		return codeBlock{lang: block.Lang, code: block.Source, width: r.width}.render()
	}

	return block.Source
}
