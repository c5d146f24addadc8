// glyphchat - streaming LLM chat with live document rendering.
//
// Copyright (c) 2025 GlyphOS Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glyphos/glyphchat/internal/cli"
	"github.com/glyphos/glyphchat/internal/config"
	"github.com/glyphos/glyphchat/internal/history"
	"github.com/glyphos/glyphchat/internal/provider"
	"github.com/glyphos/glyphchat/internal/render"
	"github.com/glyphos/glyphchat/internal/session"
	"github.com/glyphos/glyphchat/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdVersion:
		fmt.Printf("glyphchat %s (%s, %s)\n", Version, GitCommit, BuildDate)
		return
	case cli.CmdHelp:
		cli.PrintUsage()
		return
	}

	setupLogging()

	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}

	if cmd == cli.CmdConfig {
		if err := config.Save(cfg); err != nil {
			fatal(err)
		}
		path, _ := config.Path()
		fmt.Println("wrote", path)
		return
	}

	pc, err := cfg.Provider(args.Provider)
	if err != nil {
		fatal(err)
	}
	if args.Model != "" {
		pc.Model = args.Model
	}

	width := args.Width
	if width == 0 {
		width = cfg.RenderWidth
	}
	width = cli.RenderWidth(width)

	renderer, err := render.NewDefault(width)
	if err != nil {
		fatal(err)
	}

	if cmd == cli.CmdHistory {
		store := openHistory(cfg)
		if store == nil {
			fatal(fmt.Errorf("history is unavailable"))
		}
		defer store.Close()
		if err := cli.HandleHistory(store, renderer, args); err != nil {
			fatal(err)
		}
		return
	}

	var store *history.Store
	if cfg.HistoryEnabled {
		store = openHistory(cfg)
		if store != nil {
			defer store.Close()
		}
	}

	switch cmd {
	case cli.CmdAsk:
		controller := newController(pc, renderer, cli.NewStdoutSink(), store)
		if err := cli.HandleAsk(controller, args); err != nil {
			fatal(err)
		}

	case cli.CmdChat:
		controller := newController(pc, renderer, cli.NewStdoutSink(), store)
		if err := cli.HandleChat(controller, store, pc.Name, pc.Model); err != nil {
			fatal(err)
		}

	case cli.CmdTUI:
		runTUI(pc, renderer, store)
	}
}

// newController assembles the exchange pipeline for one provider. A
// nil store disables archiving.
func newController(pc provider.Config, renderer *render.Renderer, sink session.Sink, store *history.Store) *session.Controller {
	var archiver session.Archiver
	if store != nil {
		archiver = store
	}
	client := provider.NewClient(pc)
	return session.NewController(client, renderer, sink, archiver, pc.Name, pc.Model, pc.Temperature)
}

// runTUI starts the Bubble Tea interface.
func runTUI(pc provider.Config, renderer *render.Renderer, store *history.Store) {
	sink := &chat.ProgramSink{}
	controller := newController(pc, renderer, sink, store)
	model := chat.New(controller, pc.Name, pc.Model)

	p := tea.NewProgram(model, tea.WithAltScreen())
	sink.SetProgram(p)

	// Live edits to the config file surface as a status notice; the
	// running session keeps its provider until restart.
	if path, err := config.Path(); err == nil {
		if w, err := config.NewWatcher(path, func(*config.Config) {
			p.Send(chat.NoticeMsg{Text: "config changed on disk; restart to apply"})
		}); err == nil {
			defer w.Close()
		}
	}

	if _, err := p.Run(); err != nil {
		fatal(err)
	}
}

// openHistory opens the archive, preferring the configured path.
// Failures disable history rather than aborting a chat.
func openHistory(cfg *config.Config) *history.Store {
	path := cfg.HistoryPath
	if path == "" {
		var err error
		path, err = config.DefaultHistoryPath()
		if err != nil {
			log.Printf("history disabled: %v", err)
			return nil
		}
	}
	store, err := history.Open(path)
	if err != nil {
		log.Printf("history disabled: %v", err)
		return nil
	}
	return store
}

// setupLogging sends the standard logger to a file so stray output
// never corrupts the terminal.
func setupLogging() {
	dir, err := config.Dir()
	if err != nil {
		return
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return
	}
	f, err := os.OpenFile(filepath.Join(dir, "glyphchat.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return
	}
	log.SetOutput(f)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
