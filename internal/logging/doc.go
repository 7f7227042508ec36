// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the zap logger used across ragplay.
//
// The terminal UI owns stdout and stderr while it runs, so log output goes
// only to a size-rotated JSON file managed by lumberjack. Components receive
// a *zap.Logger by injection; tests use Nop.
//
// # Usage
//
//	logger, err := logging.New(logging.Config{File: "~/.ragplay/ragplay.log", Level: "info"})
//	defer logger.Sync()
//	logger.Info("session started", zap.String("api", baseURL))
package logging
