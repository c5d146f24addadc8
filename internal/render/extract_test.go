// Copyright (c) 2025 GlyphOS Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"strings"
	"testing"
)

func TestExtractDisplayBeforeInline(t *testing.T) {
	// A display block's dollars must never be misread as two inline
	// blocks.
	text, blocks := Extract("before $$x^2$$ after", false)

	if len(blocks) != 1 {
		t.Fatalf("blocks = %d, want 1", len(blocks))
	}
	if blocks[0].Kind != KindDisplayMath {
		t.Errorf("Kind = %v, want KindDisplayMath", blocks[0].Kind)
	}
	if blocks[0].Source != "x^2" {
		t.Errorf("Source = %q, want %q", blocks[0].Source, "x^2")
	}
	if !strings.Contains(text, placeholder(0)) {
		t.Errorf("substituted text missing placeholder: %q", text)
	}
	if strings.Contains(text, "$") {
		t.Errorf("dollars left in substituted text: %q", text)
	}
}

func TestExtractDisplayAndInline(t *testing.T) {
	text, blocks := Extract("solve $$x^2$$ where $y$ holds", false)

	if len(blocks) != 2 {
		t.Fatalf("blocks = %d, want 2", len(blocks))
	}
	if blocks[0].Kind != KindDisplayMath || blocks[0].Source != "x^2" {
		t.Errorf("block 0 = %+v", blocks[0])
	}
	if blocks[1].Kind != KindInlineMath || blocks[1].Source != "y" {
		t.Errorf("block 1 = %+v", blocks[1])
	}
	for i := range blocks {
		if !strings.Contains(text, placeholder(i)) {
			t.Errorf("missing placeholder %d in %q", i, text)
		}
	}
}

func TestExtractDisplaySpansLines(t *testing.T) {
	_, blocks := Extract("$$a\n+ b\n+ c$$", false)

	if len(blocks) != 1 || blocks[0].Kind != KindDisplayMath {
		t.Fatalf("blocks = %+v", blocks)
	}
	if !strings.Contains(blocks[0].Source, "+ b") {
		t.Errorf("Source = %q", blocks[0].Source)
	}
}

func TestExtractInlineRejectsBlankLineSpan(t *testing.T) {
	// Inline math must not span a paragraph break. A separator line
	// that holds only whitespace still counts as blank.
	for _, input := range []string{
		"a $x\n\ny$ b",
		"a $x\n \ny$ b",
		"a $x\n\t\ny$ b",
	} {
		text, blocks := Extract(input, false)

		if len(blocks) != 0 {
			t.Fatalf("Extract(%q) blocks = %+v, want none", input, blocks)
		}
		if !strings.Contains(text, "$x") {
			t.Errorf("Extract(%q) text = %q", input, text)
		}
	}
}

func TestExtractInlineAllowsSingleSoftBreak(t *testing.T) {
	_, blocks := Extract("a $x +\ny$ b", false)

	if len(blocks) != 1 || blocks[0].Kind != KindInlineMath {
		t.Fatalf("blocks = %+v, want one inline math block", blocks)
	}
}

func TestExtractLeavesCodeFencesAloneIntermediate(t *testing.T) {
	// A shell snippet's $PATH is not an equation, and fences are left
	// for the markdown formatter on intermediate passes.
	input := "prose\n```bash\necho $PATH and $HOME\n```\ntail"

	text, blocks := Extract(input, false)

	if len(blocks) != 0 {
		t.Fatalf("blocks = %+v, want none", blocks)
	}
	if text != input {
		t.Errorf("text = %q, want unchanged input", text)
	}
}

func TestExtractFinalPullsCodeAndDiagramFences(t *testing.T) {
	input := "intro\n```go\nfmt.Println(1)\n```\nmiddle\n```mermaid\ngraph TD\nA --> B\n```\n"

	text, blocks := Extract(input, true)

	if len(blocks) != 2 {
		t.Fatalf("blocks = %d, want 2", len(blocks))
	}
	if blocks[0].Kind != KindCode || blocks[0].Lang != "go" {
		t.Errorf("block 0 = %+v", blocks[0])
	}
	if blocks[1].Kind != KindDiagram {
		t.Errorf("block 1 = %+v", blocks[1])
	}
	if strings.Contains(text, "```") {
		t.Errorf("fences left in substituted text: %q", text)
	}
}

func TestExtractUnclosedFenceMidStream(t *testing.T) {
	// Mid-stream buffers routinely end inside an open fence; its
	// contents must stay protected from math extraction.
	input := "look:\n```python\nprice = \"$5\""

	text, blocks := Extract(input, false)

	if len(blocks) != 0 {
		t.Fatalf("blocks = %+v, want none", blocks)
	}
	if !strings.Contains(text, "$5") {
		t.Errorf("text = %q", text)
	}
}

func TestExtractStableAcrossInvocations(t *testing.T) {
	input := "x $$a$$ y $b$ z"

	text1, blocks1 := Extract(input, false)
	text2, blocks2 := Extract(input, false)

	if text1 != text2 {
		t.Errorf("texts differ: %q vs %q", text1, text2)
	}
	if len(blocks1) != len(blocks2) {
		t.Fatalf("block counts differ")
	}
	for i := range blocks1 {
		if blocks1[i] != blocks2[i] {
			t.Errorf("block %d differs: %+v vs %+v", i, blocks1[i], blocks2[i])
		}
	}
}

func TestPlaceholderDistinct(t *testing.T) {
	if placeholder(0) == placeholder(1) {
		t.Error("placeholders must be positionally unique")
	}
	if strings.Contains("ordinary prose, even $math$ or {braces}", placeholder(0)) {
		t.Error("placeholder collides with plausible prose")
	}
}
