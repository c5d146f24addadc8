// Copyright (c) 2025 GlyphOS Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/glyphos/glyphchat/internal/history"
	"github.com/glyphos/glyphchat/internal/render"
	"github.com/glyphos/glyphchat/internal/ui/styles"
)

// =============================================================================
// HISTORY COMMAND
// =============================================================================

// HandleHistory dispatches the history subcommands.
func HandleHistory(store *history.Store, renderer *render.Renderer, args Args) error {
	switch args.HistoryOp {
	case "", "list":
		metas, err := store.List(20)
		if err != nil {
			return err
		}
		printHistoryList(metas)
		return nil

	case "search":
		if args.HistoryArg == "" {
			return fmt.Errorf("history search requires a term")
		}
		metas, err := store.Search(args.HistoryArg, 20)
		if err != nil {
			return err
		}
		printHistoryList(metas)
		return nil

	case "show":
		if args.HistoryArg == "" {
			return fmt.Errorf("history show requires a session ID")
		}
		rec, err := store.Get(args.HistoryArg)
		if err != nil {
			return err
		}
		fmt.Println(styles.Prompt.Render("❯ " + rec.Prompt))
		fmt.Println()
		fmt.Println(renderer.Render(rec.Response, true))
		return nil

	case "export":
		if args.HistoryArg == "" {
			return fmt.Errorf("history export requires a session ID")
		}
		doc, err := store.ExportMarkdown(args.HistoryArg)
		if err != nil {
			return err
		}
		fmt.Print(doc)
		return nil

	case "rm", "delete":
		if args.HistoryArg == "" {
			return fmt.Errorf("history rm requires a session ID")
		}
		if err := store.Delete(args.HistoryArg); err != nil {
			return err
		}
		fmt.Println("deleted", args.HistoryArg)
		return nil

	default:
		return fmt.Errorf("unknown history operation %q", args.HistoryOp)
	}
}

// printHistoryList renders session metadata rows.
func printHistoryList(metas []history.Meta) {
	if len(metas) == 0 {
		fmt.Println(styles.Hint.Render("no archived sessions"))
		return
	}
	for _, m := range metas {
		id := m.ID
		if len(id) > 8 {
			id = id[:8]
		}
		fmt.Printf("%s  %s  %-10s  %s\n",
			styles.Badge.Render(id),
			m.StartedAt.Format("2006-01-02 15:04"),
			m.Provider,
			m.Preview)
	}
}
