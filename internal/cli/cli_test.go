// Copyright (c) 2025 GlyphOS Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"testing"
)

func TestParseCommands(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		want Command
	}{
		{"no args is TUI", nil, CmdTUI},
		{"ask", []string{"ask", "hello"}, CmdAsk},
		{"chat", []string{"chat"}, CmdChat},
		{"history", []string{"history"}, CmdHistory},
		{"config", []string{"config"}, CmdConfig},
		{"version", []string{"version"}, CmdVersion},
		{"help", []string{"help"}, CmdHelp},
		{"bare words become ask", []string{"what", "is", "go"}, CmdAsk},
		{"plain with no command is chat", []string{"--plain"}, CmdChat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, _ := parse(tt.raw)
			if cmd != tt.want {
				t.Errorf("parse(%v) = %v, want %v", tt.raw, cmd, tt.want)
			}
		})
	}
}

func TestParseAskQuery(t *testing.T) {
	_, args := parse([]string{"ask", "what", "is", "the", "time"})
	if args.Query != "what is the time" {
		t.Errorf("Query = %q", args.Query)
	}

	_, args = parse([]string{"explain", "goroutines"})
	if args.Query != "explain goroutines" {
		t.Errorf("bare Query = %q", args.Query)
	}
}

func TestParseGlobalFlags(t *testing.T) {
	cmd, args := parse([]string{"--provider", "openrouter", "-m", "some/model", "--width=100", "ask", "hi"})

	if cmd != CmdAsk {
		t.Fatalf("cmd = %v", cmd)
	}
	if args.Provider != "openrouter" {
		t.Errorf("Provider = %q", args.Provider)
	}
	if args.Model != "some/model" {
		t.Errorf("Model = %q", args.Model)
	}
	if args.Width != 100 {
		t.Errorf("Width = %d", args.Width)
	}
	if args.Query != "hi" {
		t.Errorf("Query = %q", args.Query)
	}
}

func TestParseFlagsAfterCommand(t *testing.T) {
	cmd, args := parse([]string{"ask", "hello", "--provider", "gemini"})

	if cmd != CmdAsk {
		t.Fatalf("cmd = %v", cmd)
	}
	if args.Provider != "gemini" {
		t.Errorf("Provider = %q", args.Provider)
	}
	if args.Query != "hello" {
		t.Errorf("Query = %q", args.Query)
	}
}

func TestParseHistoryOps(t *testing.T) {
	tests := []struct {
		raw     []string
		op, arg string
	}{
		{[]string{"history"}, "", ""},
		{[]string{"history", "list"}, "list", ""},
		{[]string{"history", "show", "abc123"}, "show", "abc123"},
		{[]string{"history", "search", "rate", "limits"}, "search", "rate limits"},
		{[]string{"history", "rm", "abc123"}, "rm", "abc123"},
	}
	for _, tt := range tests {
		cmd, args := parse(tt.raw)
		if cmd != CmdHistory {
			t.Errorf("parse(%v) cmd = %v", tt.raw, cmd)
		}
		if args.HistoryOp != tt.op || args.HistoryArg != tt.arg {
			t.Errorf("parse(%v) = %q/%q, want %q/%q", tt.raw, args.HistoryOp, args.HistoryArg, tt.op, tt.arg)
		}
	}
}

func TestRenderWidthConfigured(t *testing.T) {
	if w := RenderWidth(96); w != 96 {
		t.Errorf("RenderWidth(96) = %d", w)
	}
	// Unconfigured width falls back to detection; in tests stdout is
	// not a terminal, so the default applies.
	if w := RenderWidth(0); w != DefaultTerminalWidth {
		t.Errorf("RenderWidth(0) = %d", w)
	}
}
