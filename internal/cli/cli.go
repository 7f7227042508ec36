// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"go.uber.org/zap"

	"github.com/jeranaias/ragplay-tui/internal/config"
	"github.com/jeranaias/ragplay-tui/internal/session"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdUpload
	CmdChat
	CmdConfig
	CmdVersion
	CmdHelp
)

// String returns the command name as typed by the user.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdAsk:
		return "ask"
	case CmdUpload:
		return "upload"
	case CmdChat:
		return "chat"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	API        string // --api overrides api.base_url
	ConfigPath string // --config
	NoMode     bool   // --no-mode: backend has no mode field
	NoHistory  bool   // --no-history: backend keeps only the last exchange
	Verbose    bool   // --verbose: debug logging
	JSON       bool   // --json: machine-readable output

	// Command-specific
	Query      string
	Mode       string
	File       string
	Subcommand string

	// Raw args (remaining after flag parsing)
	Raw []string
}

// Env carries the process-wide dependencies commands run against.
type Env struct {
	Config     *config.Config
	Controller *session.Controller
	Logger     *zap.Logger

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// StdinPiped reports whether Stdin is a pipe rather than a terminal.
	StdinPiped bool

	// RenderMarkdown renders answers with glamour.
	RenderMarkdown bool
}

func (e *Env) fill() {
	if e.Stdin == nil {
		e.Stdin = os.Stdin
	}
	if e.Stdout == nil {
		e.Stdout = os.Stdout
	}
	if e.Stderr == nil {
		e.Stderr = os.Stderr
	}
	if e.Logger == nil {
		e.Logger = zap.NewNop()
	}
	if e.Config == nil {
		e.Config = config.Default()
	}
}

const usageText = `ragplay - terminal client for a RAG agent backend

Index a text document on the backend, then ask questions about it in
one of three answer modes: document, web, or general.

Usage:
  ragplay                         Start the TUI (default)
  ragplay ask [--mode m] "q"      Ask a single question (reads stdin when piped)
  ragplay upload <file>           Index a local file
  ragplay chat                    Interactive line-based chat
  ragplay config [show|path|init] Show, locate, or create the config file
  ragplay version                 Show version information
  ragplay help                    Show this help

Global Flags:
  --api URL         Backend base URL (default: http://localhost:8000)
  --config PATH     Config file (default: ~/.ragplay/config.toml)
  --no-mode         Backend does not accept a mode field
  --no-history      Backend keeps only the last exchange
  --verbose         Debug logging
  --json            Machine-readable output for ask, upload and config show

Ask Flags:
  -m, --mode MODE   document (default), web, or general

Chat Commands:
  /mode [name]      Show or switch the answer mode
  /upload <file>    Index a local file
  /history          List answered questions
  /export [json]    Write the transcript to a file
  /help             Show chat commands
  /quit             Exit

TUI Keys:
  enter ask   tab mode   ctrl+o choose file   ctrl+u upload
  ctrl+y copy answer   ctrl+e export   pgup/pgdn scroll   ctrl+c quit

Environment:
  RAGPLAY_API, RAGPLAY_RPS, RAGPLAY_LOG_LEVEL, RAGPLAY_LOG_FILE
  A .env file in the working directory is loaded first.

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "ragplay version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
	fmt.Fprintf(w, "  Go:         %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// =============================================================================
// PARSING
// =============================================================================

// Parse parses os.Args.
func Parse() (Command, Args, error) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses command-line arguments and returns the command and args.
func ParseArgs(argv []string) (Command, Args, error) {
	remaining, parsed, err := parseGlobalFlags(argv)
	if err != nil {
		return CmdHelp, parsed, err
	}

	if len(remaining) == 0 {
		return CmdTUI, parsed, nil
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsed.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsed, nil

	case "ask", "a":
		err := parseAskArgs(&parsed, remaining)
		return CmdAsk, parsed, err

	case "upload", "index", "u":
		p := NewArgParser(remaining)
		parsed.File = JoinPositionalArgs(p, 0)
		return CmdUpload, parsed, nil

	case "chat", "c":
		return CmdChat, parsed, nil

	case "config":
		parsed.Subcommand = NewArgParser(remaining).Subcommand()
		return CmdConfig, parsed, nil

	case "version", "-v", "--version":
		return CmdVersion, parsed, nil

	case "help", "-h", "--help":
		return CmdHelp, parsed, nil

	default:
		return CmdHelp, parsed, &UsageError{Message: fmt.Sprintf("unknown command %q", cmd)}
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
// Global flags may appear before or after the command.
func parseGlobalFlags(args []string) ([]string, Args, error) {
	var remaining []string
	var parsed Args

	takeValue := func(i int, name string) (string, error) {
		if i+1 >= len(args) {
			return "", &UsageError{Message: name + " requires a value"}
		}
		return args[i+1], nil
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch {
		case arg == "--no-mode":
			parsed.NoMode = true
		case arg == "--no-history":
			parsed.NoHistory = true
		case arg == "--verbose":
			parsed.Verbose = true
		case arg == "--json":
			parsed.JSON = true
		case arg == "--api":
			v, err := takeValue(i, arg)
			if err != nil {
				return nil, parsed, err
			}
			parsed.API = v
			i++
		case arg == "--config":
			v, err := takeValue(i, arg)
			if err != nil {
				return nil, parsed, err
			}
			parsed.ConfigPath = v
			i++
		case strings.HasPrefix(arg, "--api="):
			parsed.API = strings.TrimPrefix(arg, "--api=")
		case strings.HasPrefix(arg, "--config="):
			parsed.ConfigPath = strings.TrimPrefix(arg, "--config=")
		default:
			remaining = append(remaining, arg)
		}
	}

	return remaining, parsed, nil
}

// parseAskArgs parses ask command specific arguments.
func parseAskArgs(args *Args, remaining []string) error {
	var query []string

	for i := 0; i < len(remaining); i++ {
		arg := remaining[i]

		switch {
		case arg == "-m" || arg == "--mode":
			if i+1 >= len(remaining) {
				return &UsageError{Message: arg + " requires a value"}
			}
			i++
			args.Mode = remaining[i]
		case strings.HasPrefix(arg, "--mode="):
			args.Mode = strings.TrimPrefix(arg, "--mode=")
		case arg == "--":
			query = append(query, remaining[i+1:]...)
			i = len(remaining)
		default:
			query = append(query, arg)
		}
	}

	args.Query = strings.Join(query, " ")
	return nil
}

// =============================================================================
// DISPATCH
// =============================================================================

// Run executes every command except the TUI, which main owns.
func Run(ctx context.Context, cmd Command, args Args, env *Env) error {
	env.fill()

	switch cmd {
	case CmdAsk:
		return RunAsk(ctx, args, env)
	case CmdUpload:
		return RunUpload(ctx, args, env)
	case CmdChat:
		return RunChat(ctx, args, env)
	case CmdConfig:
		return RunConfig(args, env)
	case CmdVersion:
		PrintVersion(env.Stdout)
		return nil
	case CmdHelp:
		PrintUsage(env.Stdout)
		return nil
	default:
		return fmt.Errorf("command %s cannot run outside the TUI", cmd)
	}
}
