// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/ragplay-tui/internal/config"
	"github.com/jeranaias/ragplay-tui/internal/model"
	"github.com/jeranaias/ragplay-tui/internal/ragapi"
	"github.com/jeranaias/ragplay-tui/internal/session"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

type fakeBackend struct {
	questions []string
	modes     []model.Mode
	uploads   []string
	askErr    error
	uploadErr error
}

func (f *fakeBackend) IndexDocument(_ context.Context, doc model.Document) error {
	f.uploads = append(f.uploads, doc.Name)
	return f.uploadErr
}

func (f *fakeBackend) AskQuestion(_ context.Context, q string, m model.Mode) (model.Answer, error) {
	f.questions = append(f.questions, q)
	f.modes = append(f.modes, m)
	if f.askErr != nil {
		return model.Answer{}, f.askErr
	}
	return model.Answer{Text: "answer to " + q}, nil
}

func newEnv(t *testing.T, backend *fakeBackend, opts ...session.Option) (*Env, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	cfg := config.Default()
	cfg.UI.ExportDir = t.TempDir()
	return &Env{
		Config:     cfg,
		Controller: session.New(backend, backend, opts...),
		Stdin:      strings.NewReader(""),
		Stdout:     out,
		Stderr:     io.Discard,
	}, out
}

type scriptedReader struct {
	lines []string
}

func (s *scriptedReader) Prompt(string) (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

// =============================================================================
// PARSING
// =============================================================================

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name  string
		argv  []string
		cmd   Command
		check func(t *testing.T, a Args)
	}{
		{
			name: "no args opens the TUI",
			argv: nil,
			cmd:  CmdTUI,
		},
		{
			name: "ask with mode and multi-word query",
			argv: []string{"ask", "--mode", "web", "what", "is", "new?"},
			cmd:  CmdAsk,
			check: func(t *testing.T, a Args) {
				assert.Equal(t, "web", a.Mode)
				assert.Equal(t, "what is new?", a.Query)
			},
		},
		{
			name: "ask with mode equals form",
			argv: []string{"ask", "-m", "general", "hi"},
			cmd:  CmdAsk,
			check: func(t *testing.T, a Args) {
				assert.Equal(t, "general", a.Mode)
				assert.Equal(t, "hi", a.Query)
			},
		},
		{
			name: "global flags before and after the command",
			argv: []string{"--api", "http://rag:9000", "ask", "q", "--json", "--no-mode"},
			cmd:  CmdAsk,
			check: func(t *testing.T, a Args) {
				assert.Equal(t, "http://rag:9000", a.API)
				assert.True(t, a.JSON)
				assert.True(t, a.NoMode)
				assert.Equal(t, "q", a.Query)
			},
		},
		{
			name: "upload keeps spaces in path",
			argv: []string{"upload", "my", "notes.txt"},
			cmd:  CmdUpload,
			check: func(t *testing.T, a Args) {
				assert.Equal(t, "my notes.txt", a.File)
			},
		},
		{
			name: "config subcommand and config path",
			argv: []string{"--config=/tmp/c.toml", "config", "init", "--force"},
			cmd:  CmdConfig,
			check: func(t *testing.T, a Args) {
				assert.Equal(t, "/tmp/c.toml", a.ConfigPath)
				assert.Equal(t, "init", a.Subcommand)
			},
		},
		{
			name: "verbose and no-history",
			argv: []string{"chat", "--verbose", "--no-history"},
			cmd:  CmdChat,
			check: func(t *testing.T, a Args) {
				assert.True(t, a.Verbose)
				assert.True(t, a.NoHistory)
			},
		},
		{name: "version", argv: []string{"version"}, cmd: CmdVersion},
		{name: "help flag", argv: []string{"--help"}, cmd: CmdHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args, err := ParseArgs(tt.argv)
			require.NoError(t, err)
			assert.Equal(t, tt.cmd, cmd)
			if tt.check != nil {
				tt.check(t, args)
			}
		})
	}
}

func TestParseArgsErrors(t *testing.T) {
	for _, argv := range [][]string{
		{"frobnicate"},
		{"--api"},
		{"ask", "--mode"},
	} {
		_, _, err := ParseArgs(argv)
		assert.True(t, IsUsageError(err), "argv %v", argv)
	}
}

func TestArgParser(t *testing.T) {
	p := NewArgParser([]string{"show", "--format=json", "--force", "--out", "dir", "--", "--literal"})
	assert.Equal(t, "show", p.Subcommand())
	assert.Equal(t, "json", p.Flag("format"))
	assert.Equal(t, "dir", p.Flag("--out"))
	assert.True(t, p.BoolFlag("force"))
	assert.Equal(t, []string{"show", "--literal"}, p.PositionalFrom(0))
	assert.Equal(t, "x", p.FlagOrDefault("missing", "x"))
	assert.Equal(t, "", p.Positional(5))
	assert.Equal(t, 2, p.PositionalCount())
}

// =============================================================================
// ASK
// =============================================================================

func TestRunAsk(t *testing.T) {
	backend := &fakeBackend{}
	env, out := newEnv(t, backend)

	err := RunAsk(context.Background(), Args{Query: "What is X?", Mode: "web"}, env)
	require.NoError(t, err)

	assert.Equal(t, []model.Mode{model.ModeWeb}, backend.modes)
	assert.Contains(t, out.String(), "answer to What is X?")
	assert.Contains(t, out.String(), "Web RAG")
}

func TestRunAskReadsPipedStdin(t *testing.T) {
	backend := &fakeBackend{}
	env, _ := newEnv(t, backend)
	env.Stdin = strings.NewReader("  from the pipe\n")
	env.StdinPiped = true

	require.NoError(t, RunAsk(context.Background(), Args{}, env))
	assert.Equal(t, []string{"from the pipe"}, backend.questions)
}

func TestRunAskJSON(t *testing.T) {
	env, out := newEnv(t, &fakeBackend{})

	require.NoError(t, RunAsk(context.Background(), Args{Query: "q", JSON: true}, env))

	var resp struct {
		Success bool    `json:"success"`
		Data    AskData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "answer to q", resp.Data.Answer)
	assert.Equal(t, "document", resp.Data.Mode)
	assert.NotEmpty(t, resp.Data.ID)
}

func TestRunAskJSONError(t *testing.T) {
	backend := &fakeBackend{askErr: &ragapi.RemoteError{Op: ragapi.OpChat, Kind: ragapi.KindStatus, StatusCode: 400, Message: "index is empty"}}
	env, out := newEnv(t, backend)

	err := RunAsk(context.Background(), Args{Query: "q", JSON: true}, env)
	require.Error(t, err)

	var resp JSONResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "index is empty", *resp.Error)

	var stderr bytes.Buffer
	assert.Equal(t, ExitError, handleError(&stderr, err, true))
	assert.Empty(t, stderr.String(), "JSON errors are not repeated on stderr")
}

func TestRunAskValidation(t *testing.T) {
	backend := &fakeBackend{}
	env, _ := newEnv(t, backend)

	err := RunAsk(context.Background(), Args{Query: "   "}, env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty question")
	assert.Empty(t, backend.questions)

	err = RunAsk(context.Background(), Args{Query: "q", Mode: "telepathy"}, env)
	assert.True(t, IsUsageError(err))
}

func TestRunAskModeUnsupported(t *testing.T) {
	backend := &fakeBackend{}
	env, out := newEnv(t, backend, session.WithCapabilities(session.Capabilities{KeepsHistory: true}))

	err := RunAsk(context.Background(), Args{Query: "q", Mode: "web"}, env)
	assert.ErrorIs(t, err, session.ErrModeUnsupported)

	require.NoError(t, RunAsk(context.Background(), Args{Query: "q"}, env))
	assert.Equal(t, []model.Mode{model.ModeUnset}, backend.modes)
	assert.NotContains(t, out.String(), "Document RAG")
}

// =============================================================================
// UPLOAD
// =============================================================================

func TestRunUpload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("Project X notes."), 0644))

	backend := &fakeBackend{}
	env, out := newEnv(t, backend)

	require.NoError(t, RunUpload(context.Background(), Args{File: path}, env))
	assert.Equal(t, []string{"notes.txt"}, backend.uploads)
	assert.Contains(t, out.String(), session.NoticeIndexed)
}

func TestRunUploadErrors(t *testing.T) {
	env, _ := newEnv(t, &fakeBackend{})
	err := RunUpload(context.Background(), Args{}, env)
	assert.True(t, IsUsageError(err))

	err = RunUpload(context.Background(), Args{File: filepath.Join(t.TempDir(), "nope.txt")}, env)
	assert.Error(t, err)

	pdf := filepath.Join(t.TempDir(), "paper.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.4"), 0644))
	backend := &fakeBackend{}
	env, _ = newEnv(t, backend)
	err = RunUpload(context.Background(), Args{File: pdf}, env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
	assert.Empty(t, backend.uploads)
}

func TestRunUploadRemoteFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	backend := &fakeBackend{uploadErr: &ragapi.RemoteError{Op: ragapi.OpUpload, Kind: ragapi.KindTransport, Message: ragapi.MsgUploadFailed, Cause: errors.New("connection refused")}}
	env, _ := newEnv(t, backend)

	err := RunUpload(context.Background(), Args{File: path}, env)
	require.Error(t, err)

	var stderr bytes.Buffer
	assert.Equal(t, ExitError, handleError(&stderr, err, false))
	assert.Contains(t, stderr.String(), "Upload failed.")
	assert.NotContains(t, stderr.String(), "connection refused")
}

// =============================================================================
// CHAT REPL
// =============================================================================

func TestREPL(t *testing.T) {
	backend := &fakeBackend{}
	env, out := newEnv(t, backend)

	in := &scriptedReader{lines: []string{
		"",
		"/mode web",
		"hello there",
		"/mode",
		"/history",
		"/bogus",
		"/export",
		"/quit",
		"never asked",
	}}
	require.NoError(t, runREPL(context.Background(), env, in))

	text := out.String()
	assert.Equal(t, []string{"hello there"}, backend.questions)
	assert.Equal(t, []model.Mode{model.ModeWeb}, backend.modes)
	assert.Contains(t, text, "answer to hello there")
	assert.Contains(t, text, "Web RAG")
	assert.Contains(t, text, "1. ")
	assert.Contains(t, text, "unknown command /bogus")
	assert.Contains(t, text, "Exported to ")
	assert.Contains(t, text, "1 question(s) answered")

	files, err := os.ReadDir(env.Config.UI.ExportDir)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestREPLErrorsDoNotEndSession(t *testing.T) {
	backend := &fakeBackend{askErr: &ragapi.RemoteError{Op: ragapi.OpChat, Kind: ragapi.KindStatus, Message: ragapi.MsgChatError}}
	env, out := newEnv(t, backend)

	in := &scriptedReader{lines: []string{"first", "/upload", "/export", "/mode nope"}}
	require.NoError(t, runREPL(context.Background(), env, in))

	text := out.String()
	assert.Contains(t, text, "Chat error.")
	assert.Contains(t, text, "usage: /upload <file>")
	assert.Contains(t, text, "Nothing to export yet.")
	assert.Contains(t, text, "invalid mode")
	assert.Contains(t, text, "0 question(s) answered")
}

func TestREPLUpload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("Project X notes."), 0644))

	backend := &fakeBackend{}
	env, out := newEnv(t, backend)

	require.NoError(t, runREPL(context.Background(), env, &scriptedReader{lines: []string{"/upload " + path}}))
	assert.Equal(t, []string{"notes.txt"}, backend.uploads)
	assert.Contains(t, out.String(), session.NoticeIndexed)
}

func TestCompleteCommand(t *testing.T) {
	assert.Equal(t, []string{"/mode"}, completeCommand("/mo"))
	assert.Len(t, completeCommand("/"), len(chatCommands))
	assert.Nil(t, completeCommand("hello"))
}

// =============================================================================
// CONFIG, VERSION, HELP
// =============================================================================

func TestRunConfig(t *testing.T) {
	env, out := newEnv(t, &fakeBackend{})
	path := filepath.Join(t.TempDir(), "config.toml")
	args := Args{ConfigPath: path}

	args.Raw = []string{"path"}
	require.NoError(t, RunConfig(args, env))
	assert.Equal(t, path+"\n", out.String())

	args.Raw = []string{"init"}
	require.NoError(t, RunConfig(args, env))
	_, err := os.Stat(path)
	require.NoError(t, err)

	err = RunConfig(args, env)
	assert.ErrorContains(t, err, "already exists")

	args.Raw = []string{"init", "--force"}
	assert.NoError(t, RunConfig(args, env))

	out.Reset()
	args.Raw = []string{"show"}
	require.NoError(t, RunConfig(args, env))
	assert.Contains(t, out.String(), "base_url")

	args.Raw = []string{"frob"}
	assert.True(t, IsUsageError(RunConfig(args, env)))
}

func TestRunConfigShowJSON(t *testing.T) {
	env, out := newEnv(t, &fakeBackend{})
	require.NoError(t, RunConfig(Args{JSON: true}, env))

	var resp struct {
		Success bool          `json:"success"`
		Data    config.Config `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "http://localhost:8000", resp.Data.API.BaseURL)
}

func TestRunVersionAndHelp(t *testing.T) {
	env, out := newEnv(t, &fakeBackend{})

	require.NoError(t, Run(context.Background(), CmdVersion, Args{}, env))
	assert.Contains(t, out.String(), "ragplay version "+Version)

	out.Reset()
	require.NoError(t, Run(context.Background(), CmdHelp, Args{}, env))
	assert.Contains(t, out.String(), "ragplay ask")

	assert.Error(t, Run(context.Background(), CmdTUI, Args{}, env))
}

func TestHandleError(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, ExitSuccess, handleError(&buf, nil, false))
	assert.Empty(t, buf.String())

	assert.Equal(t, ExitError, handleError(&buf, &UsageError{Message: "bad flag"}, false))
	assert.Contains(t, buf.String(), "bad flag")
	assert.Contains(t, buf.String(), "ragplay help")
}
