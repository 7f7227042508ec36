// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/jeranaias/ragplay-tui/internal/model"
)

// maxStdinQuestion caps how much piped input becomes a question.
const maxStdinQuestion = 1 << 20

// RunAsk handles "ragplay ask". The question comes from the arguments, or
// from stdin when nothing was given and stdin is piped.
//
// Examples:
//
//	ragplay ask "What is the document about?"
//	ragplay ask --mode web "Any news on project X?"
//	cat question.txt | ragplay ask --json
func RunAsk(ctx context.Context, args Args, env *Env) error {
	env.fill()

	question := args.Query
	if strings.TrimSpace(question) == "" && env.StdinPiped {
		data, err := io.ReadAll(io.LimitReader(env.Stdin, maxStdinQuestion))
		if err != nil {
			return fmt.Errorf("read question from stdin: %w", err)
		}
		question = strings.TrimSpace(string(data))
	}

	if args.Mode != "" {
		mode, err := model.ParseMode(args.Mode)
		if err != nil {
			return &UsageError{Message: err.Error()}
		}
		if err := env.Controller.SetMode(mode); err != nil {
			return err
		}
	}

	return OutputJSON(env.Stdout, args.JSON, CmdAsk.String(), func() (interface{}, error) {
		item, err := env.Controller.Ask(ctx, question)
		if err != nil {
			logRemote(env.Logger, "ask failed", err)
			return nil, err
		}

		if !args.JSON {
			if env.Controller.Capabilities().SupportsMode {
				fmt.Fprintln(env.Stdout, DimStyle.Render("["+item.Mode.Label()+"]"))
			}
			fmt.Fprintln(env.Stdout, renderAnswer(env, item.Answer))
		}
		return AskData{
			ID:         item.ID,
			Question:   item.Question,
			Answer:     item.Answer,
			Mode:       item.Mode.String(),
			AnsweredAt: item.AnsweredAt,
		}, nil
	})
}

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// renderAnswer renders markdown answers for a terminal. Piped output and a
// disabled ui.render_markdown both get the raw text.
func renderAnswer(env *Env, text string) string {
	if !env.RenderMarkdown {
		return text
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(GetTerminalWidth()-4),
	)
	if err != nil {
		env.Logger.Debug("markdown renderer unavailable", zap.Error(err))
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

// logRemote records the full diagnostic of a failed call.
func logRemote(logger *zap.Logger, msg string, err error) {
	_, diag := describeError(err)
	if diag == "" {
		logger.Debug(msg, zap.Error(err))
		return
	}
	logger.Warn(msg, zap.String("diagnostic", diag))
}
