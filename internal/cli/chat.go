// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"go.uber.org/zap"

	"github.com/jeranaias/ragplay-tui/internal/config"
	"github.com/jeranaias/ragplay-tui/internal/document"
	"github.com/jeranaias/ragplay-tui/internal/export"
	"github.com/jeranaias/ragplay-tui/internal/model"
	"github.com/jeranaias/ragplay-tui/internal/session"
	"github.com/jeranaias/ragplay-tui/internal/util"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// lineReader is the prompt source of the REPL.
type lineReader interface {
	Prompt(prompt string) (string, error)
}

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
	logger      *zap.Logger
}

// NewChatCLI creates a liner-backed prompt with history kept in the
// config directory.
func NewChatCLI(logger *zap.Logger) *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	line.SetCompleter(completeCommand)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}

	c := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(dir, "chat_history"),
		logger:      logger,
	}
	if f, err := os.Open(c.historyFile); err == nil {
		if _, err := c.line.ReadHistory(f); err != nil {
			logger.Debug("reading chat history", zap.Error(err))
		}
		f.Close()
	}
	return c
}

// Prompt reads a line and records non-empty input in the history.
func (c *ChatCLI) Prompt(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() {
	if err := os.MkdirAll(filepath.Dir(c.historyFile), 0700); err == nil {
		if f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			if _, err := c.line.WriteHistory(f); err != nil {
				c.logger.Debug("writing chat history", zap.Error(err))
			}
			f.Close()
		}
	}
	c.line.Close()
}

var chatCommands = []string{"/mode", "/upload", "/history", "/export", "/help", "/quit"}

func completeCommand(line string) []string {
	if !strings.HasPrefix(line, "/") {
		return nil
	}
	var out []string
	for _, c := range chatCommands {
		if strings.HasPrefix(c, line) {
			out = append(out, c)
		}
	}
	return out
}

// =============================================================================
// REPL
// =============================================================================

// RunChat handles "ragplay chat".
func RunChat(ctx context.Context, args Args, env *Env) error {
	env.fill()

	c := NewChatCLI(env.Logger)
	defer c.Close()

	return runREPL(ctx, env, c)
}

// runREPL reads lines until /quit, EOF, or ctrl+c. Command failures are
// printed and the loop continues.
func runREPL(ctx context.Context, env *Env, in lineReader) error {
	r := &repl{ctx: ctx, env: env, ctl: env.Controller, out: env.Stdout}
	r.printWelcome()

	for {
		line, err := in.Prompt(r.prompt())
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				r.printSummary()
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}
		if r.handle(line) {
			r.printSummary()
			return nil
		}
	}
}

type repl struct {
	ctx context.Context
	env *Env
	ctl *session.Controller
	out io.Writer
}

func (r *repl) prompt() string {
	if r.ctl.Capabilities().SupportsMode {
		return r.ctl.Mode().String() + "> "
	}
	return "> "
}

func (r *repl) printWelcome() {
	fmt.Fprintln(r.out, TitleStyle.Render("RAG Agent Playground"))
	fmt.Fprintln(r.out, DimStyle.Render("Type a question, or /help for commands. /quit exits."))
}

func (r *repl) printSummary() {
	fmt.Fprintln(r.out, DimStyle.Render(fmt.Sprintf("%d question(s) answered this session.", len(r.ctl.Snapshot().Exchanges()))))
}

// handle runs one input line and reports whether the REPL should exit.
func (r *repl) handle(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if !strings.HasPrefix(line, "/") {
		r.ask(line)
		return false
	}

	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(cmd) {
	case "/quit", "/q", "/exit":
		return true
	case "/help", "/h", "/?":
		r.printHelp()
	case "/mode", "/m":
		r.mode(rest)
	case "/upload", "/u":
		r.upload(rest)
	case "/history":
		r.history()
	case "/export":
		r.export(rest)
	default:
		r.printError(fmt.Errorf("unknown command %s (try /help)", cmd))
	}
	return false
}

func (r *repl) printError(err error) {
	msg, _ := describeError(err)
	fmt.Fprintln(r.out, ErrorStyle.Render("Error: ")+msg)
}

func (r *repl) printHelp() {
	rows := [][2]string{
		{"/mode [name]", "show or switch the answer mode"},
		{"/upload <file>", "index a local file"},
		{"/history", "list answered questions"},
		{"/export [json]", "write the transcript to a file"},
		{"/quit", "exit"},
	}
	for _, row := range rows {
		fmt.Fprintln(r.out, RenderLabel(row[0])+ValueStyle.Render(row[1]))
	}
}

func (r *repl) ask(question string) {
	item, err := r.ctl.Ask(r.ctx, question)
	if err != nil {
		logRemote(r.env.Logger, "ask failed", err)
		r.printError(err)
		return
	}
	fmt.Fprintln(r.out, renderAnswer(r.env, item.Answer))
}

func (r *repl) mode(arg string) {
	if arg == "" {
		if !r.ctl.Capabilities().SupportsMode {
			fmt.Fprintln(r.out, DimStyle.Render("This backend does not support modes."))
			return
		}
		fmt.Fprintln(r.out, RenderLabel("Mode")+RenderMode(r.ctl.Mode()))
		return
	}

	m, err := model.ParseMode(arg)
	if err != nil {
		r.printError(err)
		return
	}
	if err := r.ctl.SetMode(m); err != nil {
		r.printError(err)
		return
	}
	fmt.Fprintln(r.out, RenderLabel("Mode")+RenderMode(m))
}

func (r *repl) upload(path string) {
	if path == "" {
		if doc := r.ctl.PendingFile(); doc != nil && doc.Path != "" {
			path = doc.Path
		} else {
			r.printError(errors.New("usage: /upload <file>"))
			return
		}
	}

	doc, err := document.Load(path)
	if err != nil {
		r.printError(err)
		return
	}
	if err := r.ctl.Upload(r.ctx, doc); err != nil {
		logRemote(r.env.Logger, "upload failed", err)
		r.printError(err)
		return
	}
	fmt.Fprintln(r.out, SuccessStyle.Render(session.NoticeIndexed))
}

func (r *repl) history() {
	items := r.ctl.Snapshot().Exchanges()
	if len(items) == 0 {
		fmt.Fprintln(r.out, DimStyle.Render("No questions answered yet."))
		return
	}
	width := GetTerminalWidth() - 20
	for i, item := range items {
		fmt.Fprintf(r.out, "%3d. %s %s\n", i+1,
			DimStyle.Render("["+item.Mode.Label()+"]"),
			util.TruncateWidth(util.SingleLine(item.Question), width))
	}
}

func (r *repl) export(arg string) {
	format, err := export.ParseFormat(arg)
	if err != nil {
		r.printError(err)
		return
	}
	t := export.FromSnapshot(r.ctl.Snapshot())
	if len(t.Items) == 0 {
		fmt.Fprintln(r.out, DimStyle.Render("Nothing to export yet."))
		return
	}

	opts := export.DefaultOptions()
	opts.OutputDir = r.env.Config.UI.ExportDir
	exporter, err := export.New(format, opts)
	if err != nil {
		r.printError(err)
		return
	}
	path, err := export.ExportToFile(t, exporter, opts)
	if err != nil {
		r.printError(err)
		return
	}
	fmt.Fprintln(r.out, SuccessStyle.Render("Exported to ")+path)
}
