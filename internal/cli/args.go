// Copyright (c) 2025 GlyphOS Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// =============================================================================
// COMMANDS
// =============================================================================

// Command identifies the selected subcommand.
type Command int

const (
	CmdTUI     Command = iota // default: interactive TUI
	CmdAsk                    // one-shot question
	CmdChat                   // plain line-based REPL
	CmdHistory                // archived session management
	CmdConfig                 // write the default config file
	CmdVersion
	CmdHelp
)

// Args holds parsed command-line state shared across commands.
type Args struct {
	// Global flags
	Provider string // --provider NAME
	Model    string // --model NAME
	Width    int    // --width N
	Plain    bool   // --plain: no TUI, line-based output

	// Ask: the question text
	Query string

	// History subcommand ("list", "show", "search", "export", "rm")
	// and its argument.
	HistoryOp  string
	HistoryArg string
}

// Parse reads os.Args into a command selection. Flags may appear
// before or after the subcommand.
func Parse() (Command, Args) {
	return parse(os.Args[1:])
}

func parse(raw []string) (Command, Args) {
	var args Args
	var positional []string

	i := 0
	for i < len(raw) {
		arg := raw[i]
		if !strings.HasPrefix(arg, "-") {
			positional = append(positional, arg)
			i++
			continue
		}

		name := strings.TrimLeft(arg, "-")
		value := ""
		if j := strings.IndexByte(name, '='); j >= 0 {
			name, value = name[:j], name[j+1:]
		}
		takeValue := func() string {
			if value != "" {
				return value
			}
			if i+1 < len(raw) && !strings.HasPrefix(raw[i+1], "-") {
				i++
				return raw[i]
			}
			return ""
		}

		switch name {
		case "provider", "p":
			args.Provider = takeValue()
		case "model", "m":
			args.Model = takeValue()
		case "width", "w":
			if n, err := strconv.Atoi(takeValue()); err == nil {
				args.Width = n
			}
		case "plain":
			args.Plain = true
		case "version":
			return CmdVersion, args
		case "help", "h":
			return CmdHelp, args
		default:
			fmt.Fprintf(os.Stderr, "unknown flag --%s\n", name)
		}
		i++
	}

	if len(positional) == 0 {
		if args.Plain {
			return CmdChat, args
		}
		return CmdTUI, args
	}

	cmd := strings.ToLower(positional[0])
	rest := positional[1:]

	switch cmd {
	case "ask":
		args.Query = strings.Join(rest, " ")
		return CmdAsk, args

	case "chat":
		return CmdChat, args

	case "history":
		if len(rest) > 0 {
			args.HistoryOp = strings.ToLower(rest[0])
		}
		if len(rest) > 1 {
			args.HistoryArg = strings.Join(rest[1:], " ")
		}
		return CmdHistory, args

	case "config":
		return CmdConfig, args

	case "version":
		return CmdVersion, args

	case "help":
		return CmdHelp, args

	default:
		// Bare words are treated as an ask query.
		args.Query = strings.Join(positional, " ")
		return CmdAsk, args
	}
}

// PrintUsage writes command help to stdout.
func PrintUsage() {
	fmt.Println(`glyphchat - streaming LLM chat for the terminal

Usage:
  glyphchat                       Interactive TUI
  glyphchat ask "question"        One-shot question, answer to stdout
  glyphchat chat                  Plain line-based REPL
  glyphchat history [op] [arg]    Archived sessions
  glyphchat config                Write the default config file

History operations:
  list                 Newest sessions (default)
  show ID              Full session, rendered
  search TERM          Prompt/response text search
  export ID            Session as markdown to stdout
  rm ID                Delete a session

Flags:
  -p, --provider NAME  Provider from config (local, openrouter, gemini)
  -m, --model NAME     Override the provider's model
  -w, --width N        Render width (default: terminal width)
  --plain              Line-based output, no TUI`)
}
