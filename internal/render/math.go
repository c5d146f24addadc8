// Copyright (c) 2025 GlyphOS Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/glyphos/glyphchat/internal/ui/styles"
)

// =============================================================================
// MATH RENDERER
// =============================================================================

// MathRenderer renders one math source region. display selects block
// presentation over inline. A non-nil error marks the source as
// malformed; the pipeline then shows a flagged error span instead.
type MathRenderer interface {
	Render(source string, display bool) (string, error)
}

// ErrMalformedMath indicates a math source the renderer cannot typeset.
var ErrMalformedMath = errors.New("malformed math expression")

// TermMathRenderer typesets math for the terminal: common TeX commands
// become their unicode glyphs, simple exponents become superscripts,
// and display blocks get a framed container.
type TermMathRenderer struct {
	displayStyle lipgloss.Style
	inlineStyle  lipgloss.Style
}

// NewTermMathRenderer creates the default terminal math renderer.
func NewTermMathRenderer() *TermMathRenderer {
	return &TermMathRenderer{
		displayStyle: lipgloss.NewStyle().
			Foreground(styles.Violet).
			Background(styles.SurfaceDim).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(styles.Overlay).
			Padding(0, 2),
		inlineStyle: lipgloss.NewStyle().
			Foreground(styles.Violet).
			Italic(true),
	}
}

// Render implements MathRenderer.
func (r *TermMathRenderer) Render(source string, display bool) (string, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return "", ErrMalformedMath
	}
	if !balancedDelimiters(source) {
		return "", ErrMalformedMath
	}

	typeset := typesetMath(source)

	if display {
		return r.displayStyle.Render(typeset), nil
	}
	return r.inlineStyle.Render(typeset), nil
}

// balancedDelimiters checks brace/bracket/paren pairing, the one class
// of malformed input worth rejecting outright.
func balancedDelimiters(s string) bool {
	var stack []rune
	pairs := map[rune]rune{'}': '{', ']': '[', ')': '('}

	for _, r := range s {
		switch r {
		case '{', '[', '(':
			stack = append(stack, r)
		case '}', ']', ')':
			if len(stack) == 0 || stack[len(stack)-1] != pairs[r] {
				return false
			}
			stack = stack[:len(stack)-1]
		}
	}
	return len(stack) == 0
}

// texGlyphs maps the TeX commands that show up in model output to
// their unicode forms.
var texGlyphs = []struct{ tex, glyph string }{
	{`\times`, "×"},
	{`\cdot`, "·"},
	{`\pm`, "±"},
	{`\div`, "÷"},
	{`\leq`, "≤"},
	{`\geq`, "≥"},
	{`\neq`, "≠"},
	{`\approx`, "≈"},
	{`\infty`, "∞"},
	{`\sum`, "∑"},
	{`\prod`, "∏"},
	{`\int`, "∫"},
	{`\sqrt`, "√"},
	{`\partial`, "∂"},
	{`\nabla`, "∇"},
	{`\rightarrow`, "→"},
	{`\to`, "→"},
	{`\leftarrow`, "←"},
	{`\alpha`, "α"},
	{`\beta`, "β"},
	{`\gamma`, "γ"},
	{`\delta`, "δ"},
	{`\epsilon`, "ε"},
	{`\theta`, "θ"},
	{`\lambda`, "λ"},
	{`\mu`, "μ"},
	{`\pi`, "π"},
	{`\sigma`, "σ"},
	{`\phi`, "φ"},
	{`\omega`, "ω"},
	{`\Delta`, "Δ"},
	{`\Sigma`, "Σ"},
	{`\Omega`, "Ω"},
}

// superscripts maps plain characters to their superscript forms for
// simple exponents like x^2.
var superscripts = map[rune]rune{
	'0': '⁰', '1': '¹', '2': '²', '3': '³', '4': '⁴',
	'5': '⁵', '6': '⁶', '7': '⁷', '8': '⁸', '9': '⁹',
	'n': 'ⁿ', 'i': 'ⁱ', '+': '⁺', '-': '⁻',
}

// typesetMath applies the glyph table and superscript conversion.
func typesetMath(source string) string {
	out := source
	for _, g := range texGlyphs {
		out = strings.ReplaceAll(out, g.tex, g.glyph)
	}

	var sb strings.Builder
	runes := []rune(out)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '^' && i+1 < len(runes) {
			if sup, ok := superscripts[runes[i+1]]; ok {
				sb.WriteRune(sup)
				i++
				continue
			}
		}
		sb.WriteRune(runes[i])
	}

	return sb.String()
}

// =============================================================================
// RENDER ERROR SPANS
// =============================================================================

// errorSpan produces the visibly flagged fragment shown when a math or
// diagram region fails to render. The raw source stays readable; one
// bad expression never blanks the response.
func errorSpan(label, source string) string {
	return styles.ErrorText.Render("["+label+"]") + " " + styles.Hint.Render(source)
}
