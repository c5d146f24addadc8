// Copyright (c) 2025 GlyphOS Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"regexp"
	"strconv"
	"strings"
)

// =============================================================================
// EXTRACTED BLOCKS
// =============================================================================

// BlockKind classifies an extracted region.
type BlockKind int

const (
	// KindDisplayMath is a $$...$$ region; may span multiple lines.
	KindDisplayMath BlockKind = iota

	// KindInlineMath is a $...$ region; must not span a blank line.
	KindInlineMath

	// KindDiagram is a fenced diagram block (final pass only).
	KindDiagram

	// KindCode is a generic fenced code block (final pass only).
	KindCode
)

// ExtractedBlock records one region pulled out of the buffer for the
// duration of a render pass. The list is rebuilt per pass and its
// positional index doubles as the placeholder suffix.
type ExtractedBlock struct {
	Index  int
	Kind   BlockKind
	Source string
	Lang   string
}

// placeholder returns the token substituted for block n. The marker
// syntax never occurs in normal prose and carries no markdown meaning,
// so the formatter passes it through intact.
func placeholder(n int) string {
	return "{{GLYPH:" + strconv.Itoa(n) + "}}"
}

// =============================================================================
// EXTRACTION PASS
// =============================================================================

var (
	// Display math first, so a display block's dollars are never
	// misread as two inline blocks.
	displayMathRe = regexp.MustCompile(`(?s)\$\$(.+?)\$\$`)

	// Inline math may span a single newline but not a blank line;
	// the blank-line constraint is checked per match.
	inlineMathRe = regexp.MustCompile(`(?s)\$([^$]+?)\$`)
)

// Extract scans the buffer and replaces special regions with
// placeholder tokens, returning the substituted text and the extracted
// blocks in positional order.
//
// Fenced regions are located first so math extraction never fires
// inside code (a shell snippet's "$PATH" is not an equation). In final
// mode the fences themselves are extracted for diagram rendering and
// code affordances; on intermediate passes they are left for the
// markdown formatter.
func Extract(text string, final bool) (string, []ExtractedBlock) {
	var blocks []ExtractedBlock
	add := func(kind BlockKind, source, lang string) string {
		blocks = append(blocks, ExtractedBlock{
			Index:  len(blocks),
			Kind:   kind,
			Source: source,
			Lang:   lang,
		})
		return placeholder(len(blocks) - 1)
	}

	var parts []string
	for _, seg := range splitFences(text) {
		if !seg.fence {
			parts = append(parts, extractMath(seg.text(), add))
			continue
		}

		if !final {
			parts = append(parts, seg.raw())
			continue
		}

		kind := KindCode
		if isDiagramLang(seg.lang) {
			kind = KindDiagram
		}
		parts = append(parts, add(kind, seg.text(), seg.lang))
	}

	return strings.Join(parts, "\n"), blocks
}

// extractMath replaces math regions in prose with placeholders,
// display math first, then inline.
func extractMath(text string, add func(BlockKind, string, string) string) string {
	text = displayMathRe.ReplaceAllStringFunc(text, func(m string) string {
		source := strings.TrimSpace(m[2 : len(m)-2])
		if source == "" {
			return m
		}
		return add(KindDisplayMath, source, "")
	})

	text = inlineMathRe.ReplaceAllStringFunc(text, func(m string) string {
		source := m[1 : len(m)-1]
		if strings.TrimSpace(source) == "" || spansBlankLine(source) {
			return m
		}
		return add(KindInlineMath, strings.TrimSpace(source), "")
	})

	return text
}

// spansBlankLine reports whether the text crosses a paragraph break.
// A line that holds only whitespace still separates paragraphs.
func spansBlankLine(s string) bool {
	lines := strings.Split(s, "\n")
	for i := 1; i < len(lines)-1; i++ {
		if strings.TrimSpace(lines[i]) == "" {
			return true
		}
	}
	return false
}

// isDiagramLang reports whether a fence language tag names a diagram
// source the diagram engine understands.
func isDiagramLang(lang string) bool {
	switch strings.ToLower(lang) {
	case "mermaid", "diagram":
		return true
	}
	return false
}

// =============================================================================
// FENCE SCANNING
// =============================================================================

// segment is a run of lines that is either prose or one fenced block.
type segment struct {
	fence  bool
	lang   string
	lines  []string
	closed bool
}

// text joins the segment body without fence markers.
func (s segment) text() string {
	return strings.Join(s.lines, "\n")
}

// raw reconstructs the fenced block as it appeared in the buffer.
func (s segment) raw() string {
	out := "```" + s.lang
	if len(s.lines) > 0 {
		out += "\n" + strings.Join(s.lines, "\n")
	}
	if s.closed {
		out += "\n```"
	}
	return out
}

// splitFences splits the buffer into prose and fenced-code segments.
// An unclosed fence at the end of the buffer (common mid-stream) is
// treated as a fence segment so its contents stay protected.
func splitFences(text string) []segment {
	var segs []segment
	cur := segment{}

	flush := func() {
		if cur.fence || len(cur.lines) > 0 {
			segs = append(segs, cur)
		}
		cur = segment{}
	}

	for _, line := range strings.Split(text, "\n") {
		marker := strings.HasPrefix(strings.TrimSpace(line), "```")
		switch {
		case marker && !cur.fence:
			flush()
			cur.fence = true
			cur.lang = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "```"))
		case marker && cur.fence:
			cur.closed = true
			flush()
		case cur.fence:
			cur.lines = append(cur.lines, line)
		default:
			cur.lines = append(cur.lines, line)
		}
	}
	flush()

	return segs
}
