// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for ragplay.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// a project-local .env file, environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - APIConfig: where the retrieval backend lives
//   - SessionConfig: controller capabilities (mode selector, history)
//   - UploadConfig: which files may be indexed
//   - LoggingConfig: log file and level
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (RAGPLAY_*), including values from ./.env
//   - --config PATH, or ~/.ragplay/config.toml, or ~/.ragplay/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	client := ragapi.NewClient(&ragapi.ClientConfig{BaseURL: cfg.API.BaseURL})
package config
