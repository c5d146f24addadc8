// Copyright (c) 2025 GlyphOS Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/glyphos/glyphchat/internal/ui/styles"
)

// =============================================================================
// CODE BLOCK AFFORDANCES
// =============================================================================

// codeBlock renders a fenced code block on the final pass: syntax
// highlighting, line numbers, a language badge, and the copy/save
// affordance line. Rendering is pure, so re-running the final pass
// never duplicates the toolbar.
type codeBlock struct {
	lang  string
	code  string
	width int
}

// render produces the framed block.
func (c codeBlock) render() string {
	code := strings.TrimRight(c.code, "\n")

	lang := c.lang
	if lang == "" {
		lang = detectLanguage(code)
	}

	highlighted := highlightCode(code, lang)

	lineNumStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Width(4).
		Align(lipgloss.Right).
		MarginRight(1)

	var body []string
	for i, line := range strings.Split(highlighted, "\n") {
		body = append(body, lineNumStyle.Render(strconv.Itoa(i+1))+line)
	}

	header := ""
	if lang != "" {
		header = styles.Badge.Render(lang) + "\n"
	}

	// The affordance line mirrors the copy/download controls of the
	// original surface; in a terminal they become key hints.
	affordances := styles.Hint.Render("⧉ copy: y   ⇩ save: s")

	width := c.width - 4
	if width < 20 {
		width = 20
	}

	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Overlay).
		Padding(0, 1).
		MaxWidth(width).
		Render(header+strings.Join(body, "\n")) + "\n" + affordances
}

// =============================================================================
// SYNTAX HIGHLIGHTING
// =============================================================================

// highlightCode applies chroma highlighting, falling back to the plain
// source when tokenization fails.
func highlightCode(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}

	return buf.String()
}

// detectLanguage guesses the language of an untagged code block.
func detectLanguage(code string) string {
	lexer := lexers.Analyse(code)
	if lexer == nil {
		return ""
	}
	return lexer.Config().Name
}
