// Copyright (c) 2025 GlyphOS Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/glyphos/glyphchat/internal/config"
	"github.com/glyphos/glyphchat/internal/history"
	"github.com/glyphos/glyphchat/internal/session"
	"github.com/glyphos/glyphchat/internal/ui/styles"
)

// =============================================================================
// LINE EDITOR
// =============================================================================

// LineEditor wraps liner with persistent input history.
type LineEditor struct {
	line        *liner.State
	historyFile string
}

// NewLineEditor creates an editor with history loaded from the config
// directory.
func NewLineEditor() *LineEditor {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.Dir()
	if err != nil {
		dir = os.TempDir()
	}
	ed := &LineEditor{
		line:        line,
		historyFile: filepath.Join(dir, "input_history"),
	}

	if f, err := os.Open(ed.historyFile); err == nil {
		ed.line.ReadHistory(f)
		f.Close()
	}
	return ed
}

// ReadInput reads one line, recording non-empty input in history.
func (ed *LineEditor) ReadInput(prompt string) (string, error) {
	input, err := ed.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		ed.line.AppendHistory(input)
	}
	return input, nil
}

// Close persists history and restores the terminal.
func (ed *LineEditor) Close() {
	if err := os.MkdirAll(filepath.Dir(ed.historyFile), 0755); err == nil {
		if f, err := os.OpenFile(ed.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			ed.line.WriteHistory(f)
			f.Close()
		}
	}
	ed.line.Close()
}

// =============================================================================
// PLAIN REPL
// =============================================================================

// HandleChat runs the line-based REPL: read a prompt, stream the
// answer, repeat. It is the fallback for terminals where the TUI is
// unwanted or unavailable.
func HandleChat(controller *session.Controller, store *history.Store, providerName, modelName string) error {
	ed := NewLineEditor()
	defer ed.Close()

	fmt.Println(styles.Badge.Render("glyphchat") + " " + styles.Hint.Render(providerName+" · "+modelName))
	fmt.Println(styles.Hint.Render("/help for commands, /quit to exit"))
	fmt.Println()

	for {
		input, err := ed.ReadInput("❯ ")
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			fmt.Println()
			return nil
		}
		if err != nil {
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if quit := handleReplCommand(input, store); quit {
				return nil
			}
			continue
		}

		ctx, cancel := signalContext()
		_, err = controller.Submit(ctx, input)
		cancel()
		if err != nil {
			// The error text is already in the rendered output; only
			// busy rejections need a separate notice.
			if errors.Is(err, session.ErrBusy) {
				warnf("a response is still streaming")
			}
		}
		fmt.Println()
	}
}

// handleReplCommand dispatches /-commands. Returns true to exit.
func handleReplCommand(input string, store *history.Store) bool {
	fields := strings.Fields(input)
	cmd := fields[0]

	switch cmd {
	case "/quit", "/q", "/exit":
		return true

	case "/help", "/h":
		fmt.Println(styles.Hint.Render(`  /history [term]   recent sessions, optionally filtered
  /quit             exit`))

	case "/history":
		if store == nil {
			warnf("history is disabled")
			return false
		}
		var metas []history.Meta
		var err error
		if len(fields) > 1 {
			metas, err = store.Search(strings.Join(fields[1:], " "), 10)
		} else {
			metas, err = store.List(10)
		}
		if err != nil {
			warnf("history: %v", err)
			return false
		}
		printHistoryList(metas)

	default:
		warnf("unknown command %s", cmd)
	}
	return false
}
