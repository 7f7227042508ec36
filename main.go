// ragplay - terminal client for a RAG agent backend.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/ragplay-tui/internal/cli"
	"github.com/jeranaias/ragplay-tui/internal/config"
	"github.com/jeranaias/ragplay-tui/internal/logging"
	"github.com/jeranaias/ragplay-tui/internal/orchestrator"
	"github.com/jeranaias/ragplay-tui/internal/ragapi"
	"github.com/jeranaias/ragplay-tui/internal/session"
	"github.com/jeranaias/ragplay-tui/internal/ui/chat"
	"github.com/jeranaias/ragplay-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	os.Exit(run())
}

func run() int {
	cmd, args, err := cli.Parse()
	if err != nil {
		return cli.HandleError(err, args.JSON)
	}

	// Help and version need neither config nor backend.
	if cmd == cli.CmdHelp || cmd == cli.CmdVersion {
		return cli.HandleError(cli.Run(context.Background(), cmd, args, &cli.Env{}), args.JSON)
	}

	cfg, err := loadConfig(args)
	if err != nil {
		return cli.HandleError(err, args.JSON)
	}

	logger, err := logging.New(cfg.LoggingOptions())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
		logger = logging.Nop()
	}
	defer logger.Sync() //nolint:errcheck

	ctl := newController(cfg, logger)
	logger.Info("session started",
		zap.String("command", cmd.String()),
		zap.String("session_id", ctl.ID()),
		zap.String("api", cfg.API.BaseURL),
		zap.Bool("supports_mode", cfg.Session.SupportsMode),
		zap.Bool("keeps_history", cfg.Session.KeepsHistory),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cmd == cli.CmdTUI {
		err = runTUI(ctx, cfg, ctl, logger)
	} else {
		err = cli.Run(ctx, cmd, args, &cli.Env{
			Config:         cfg,
			Controller:     ctl,
			Logger:         logger,
			Stdin:          os.Stdin,
			Stdout:         os.Stdout,
			Stderr:         os.Stderr,
			StdinPiped:     cli.IsStdinPiped(),
			RenderMarkdown: cfg.UI.RenderMarkdown && cli.IsStdoutTTY() && !args.JSON,
		})
	}
	if err != nil {
		logger.Debug("command failed", zap.String("command", cmd.String()), zap.Error(err))
	}
	return cli.HandleError(err, args.JSON)
}

// loadConfig reads the config file and applies command-line overrides.
// Flags win over environment variables, which win over the file.
func loadConfig(args cli.Args) (*config.Config, error) {
	cfg, err := config.Load(args.ConfigPath)
	if err != nil {
		return nil, err
	}

	if args.API != "" {
		cfg.API.BaseURL = args.API
	}
	if args.NoMode {
		cfg.Session.SupportsMode = false
	}
	if args.NoHistory {
		cfg.Session.KeepsHistory = false
	}
	if args.Verbose {
		cfg.Logging.Level = "debug"
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

// newController wires the backend client into a session controller.
func newController(cfg *config.Config, logger *zap.Logger) *session.Controller {
	client := ragapi.NewClient(&ragapi.ClientConfig{
		BaseURL:           cfg.API.BaseURL,
		UserAgent:         "ragplay/" + Version,
		RequestsPerSecond: cfg.API.RequestsPerSecond,
		Logger:            logger,
	})

	return session.New(client, client,
		session.WithCapabilities(session.Capabilities{
			SupportsMode: cfg.Session.SupportsMode,
			KeepsHistory: cfg.Session.KeepsHistory,
		}),
		session.WithUploadPolicy(orchestrator.UploadPolicy{
			AllowedExtensions: cfg.Upload.AllowedExtensions,
			MaxBytes:          cfg.Upload.MaxBytes,
		}),
		session.WithLogger(logger),
	)
}

// runTUI runs the full-screen playground until the user quits.
func runTUI(ctx context.Context, cfg *config.Config, ctl *session.Controller, logger *zap.Logger) error {
	if err := cli.RequiresTTY("run the TUI"); err != nil {
		return err
	}

	m := chat.New(chat.Config{
		Controller:     ctl,
		Theme:          styles.NewTheme(cfg.UI.Theme),
		Logger:         logger,
		RenderMarkdown: cfg.UI.RenderMarkdown,
		ExportDir:      cfg.UI.ExportDir,
		Watch:          cfg.Upload.Watch,
		Context:        ctx,
		Backend:        cfg.API.BaseURL,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if fm, ok := final.(chat.Model); ok {
		fm.Close()
	}
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI error: %w", err)
	}
	logger.Info("session ended", zap.Int("answered", len(ctl.Snapshot().Exchanges())))
	return nil
}
