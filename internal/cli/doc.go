// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the non-interactive commands of ragplay.
//
// Running ragplay with no command opens the TUI. The other commands share
// one session controller per process:
//
//	ragplay ask [--mode m] "question"   Ask once (reads stdin when piped)
//	ragplay upload <file>               Index a local file
//	ragplay chat                        Line-based REPL
//	ragplay config [show|path|init]     Inspect or create the config file
//	ragplay version | help
//
// # Usage
//
//	cmd, args, err := cli.ParseArgs(os.Args[1:])
//	env := &cli.Env{Config: cfg, Controller: ctl, ...}
//	err = cli.Run(ctx, cmd, args, env)
//	os.Exit(cli.HandleError(err, args.JSON))
//
// Every failure is returned as an error; HandleError prints "Error: ..." to
// stderr and maps it to exit code 1.
package cli
