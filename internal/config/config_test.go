// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"RAGPLAY_API", "RAGPLAY_RPS", "RAGPLAY_LOG_LEVEL", "RAGPLAY_LOG_FILE"} {
		t.Setenv(k, "")
	}
	t.Setenv("HOME", t.TempDir())
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.True(t, cfg.Session.SupportsMode)
	assert.True(t, cfg.Session.KeepsHistory)
	assert.Equal(t, []string{".txt"}, cfg.Upload.AllowedExtensions)
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().API.BaseURL, cfg.API.BaseURL)
}

func TestLoad_TOMLOverlaysDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[api]
base_url = "http://rag.internal:9000/"

[session]
supports_mode = false
`), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://rag.internal:9000", cfg.API.BaseURL, "trailing slash trimmed")
	assert.False(t, cfg.Session.SupportsMode)
	assert.True(t, cfg.Session.KeepsHistory, "absent keys keep defaults")
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_JSON(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"api":{"base_url":"http://json.example:8000"}}`), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://json.example:8000", cfg.API.BaseURL)
}

func TestLoad_MalformedFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[api\nbase_url ="), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestApplyEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("RAGPLAY_API", "http://env.example:1234")
	t.Setenv("RAGPLAY_RPS", "2.5")
	t.Setenv("RAGPLAY_LOG_LEVEL", "DEBUG")
	t.Setenv("RAGPLAY_LOG_FILE", "off")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://env.example:1234", cfg.API.BaseURL)
	assert.Equal(t, 2.5, cfg.API.RequestsPerSecond)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Empty(t, cfg.Logging.File)
}

func TestApplyEnvOverrides_BadRPS(t *testing.T) {
	clearEnv(t)
	t.Setenv("RAGPLAY_RPS", "fast")

	_, err := Load("")
	assert.ErrorContains(t, err, "RAGPLAY_RPS")
}

func TestValidate_ReportsTOMLFieldNames(t *testing.T) {
	cfg := Default()
	cfg.API.BaseURL = "not a url"
	cfg.Logging.Level = "loud"
	cfg.Upload.AllowedExtensions = []string{"txt"}
	cfg.Upload.MaxBytes = -1

	err := cfg.Validate()
	require.Error(t, err)

	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))

	fields := make([]string, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, e.Field)
	}
	assert.Contains(t, fields, "api.base_url")
	assert.Contains(t, fields, "logging.level")
	assert.Contains(t, fields, "upload.allowed_extensions[0]")
	assert.Contains(t, fields, "upload.max_bytes")
}

func TestSaveThenLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.API.BaseURL = "http://saved.example:8000"
	cfg.Session.KeepsHistory = false
	require.NoError(t, Save(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.API.BaseURL, loaded.API.BaseURL)
	assert.False(t, loaded.Session.KeepsHistory)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("RAGPLAY_TEST_DOTENV=from-file\n"), 0600))
	t.Setenv("RAGPLAY_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("RAGPLAY_TEST_DOTENV"))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("RAGPLAY_TEST_DOTENV"))

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}

func TestString(t *testing.T) {
	out := Default().String()
	assert.Contains(t, out, "[api]")
	assert.Contains(t, out, "base_url")
}
