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
// DIAGRAM RENDERER
// =============================================================================

// DiagramRenderer renders diagram source into a terminal container.
// Only invoked on the final render pass; a non-nil error yields an
// inline error span rather than aborting the document.
type DiagramRenderer interface {
	Render(source string) (string, error)
}

// ErrEmptyDiagram indicates a diagram fence with no drawable content.
var ErrEmptyDiagram = errors.New("empty diagram source")

// BoxDiagramRenderer draws mermaid-style flow definitions as a framed
// edge list. It understands the "graph"/"flowchart" header and simple
// "A --> B" edges; anything else is shown verbatim inside the frame.
type BoxDiagramRenderer struct {
	frame lipgloss.Style
	title lipgloss.Style
}

// NewBoxDiagramRenderer creates the default diagram renderer.
func NewBoxDiagramRenderer() *BoxDiagramRenderer {
	return &BoxDiagramRenderer{
		frame: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(styles.Overlay).
			Padding(0, 2),
		title: styles.Badge,
	}
}

// Render implements DiagramRenderer.
func (r *BoxDiagramRenderer) Render(source string) (string, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return "", ErrEmptyDiagram
	}

	var (
		kind  = "diagram"
		lines []string
	)

	for i, line := range strings.Split(source, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if i == 0 {
			if k, ok := diagramKind(line); ok {
				kind = k
				continue
			}
		}

		lines = append(lines, drawEdge(line))
	}

	if len(lines) == 0 {
		return "", ErrEmptyDiagram
	}

	body := r.title.Render(kind) + "\n" + strings.Join(lines, "\n")
	return r.frame.Render(body), nil
}

// diagramKind recognizes mermaid header lines.
func diagramKind(line string) (string, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", false
	}
	switch strings.ToLower(fields[0]) {
	case "graph", "flowchart":
		return "flowchart", true
	case "sequencediagram":
		return "sequence", true
	case "statediagram", "statediagram-v2":
		return "state", true
	}
	return "", false
}

// drawEdge converts arrow syntax to drawn connectors.
var edgeGlyphs = []struct{ from, to string }{
	{"-->", "──▶"},
	{"->>", "──▶"},
	{"---", "───"},
	{"->", "─▶"},
}

func drawEdge(line string) string {
	for _, e := range edgeGlyphs {
		line = strings.ReplaceAll(line, e.from, " "+e.to+" ")
	}
	return strings.Join(strings.Fields(line), " ")
}
