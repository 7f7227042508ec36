// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/jeranaias/ragplay-tui/internal/logging"
	"github.com/jeranaias/ragplay-tui/internal/util"
)

// CurrentVersion is the config schema version written by Save.
const CurrentVersion = "1"

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete ragplay configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	API     APIConfig     `toml:"api" json:"api"`
	Session SessionConfig `toml:"session" json:"session"`
	Upload  UploadConfig  `toml:"upload" json:"upload"`
	Logging LoggingConfig `toml:"logging" json:"logging"`
	UI      UIConfig      `toml:"ui" json:"ui"`
}

// APIConfig describes the retrieval backend.
type APIConfig struct {
	// BaseURL is the backend root; /upload and /chat are appended to it.
	BaseURL string `toml:"base_url" json:"base_url" validate:"required,url"`
	// RequestsPerSecond paces outbound calls (0 = unlimited).
	RequestsPerSecond float64 `toml:"requests_per_second" json:"requests_per_second" validate:"gte=0"`
}

// SessionConfig selects the controller's capability set.
type SessionConfig struct {
	// SupportsMode enables the document/web/general selector.
	SupportsMode bool `toml:"supports_mode" json:"supports_mode"`
	// KeepsHistory appends every answer to the conversation log
	// instead of only showing the latest one.
	KeepsHistory bool `toml:"keeps_history" json:"keeps_history"`
}

// UploadConfig restricts which files may be submitted for indexing.
type UploadConfig struct {
	// AllowedExtensions lists accepted filename extensions (empty = any).
	AllowedExtensions []string `toml:"allowed_extensions" json:"allowed_extensions" validate:"dive,startswith=."`
	// MaxBytes caps the document size (0 = unlimited).
	MaxBytes int64 `toml:"max_bytes" json:"max_bytes" validate:"gte=0"`
	// Watch reloads the selected file when it changes on disk.
	Watch bool `toml:"watch" json:"watch"`
}

// LoggingConfig controls the rotated log file.
type LoggingConfig struct {
	File       string `toml:"file" json:"file"`
	Level      string `toml:"level" json:"level" validate:"oneof=debug info warn warning error"`
	MaxSizeMB  int    `toml:"max_size_mb" json:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `toml:"max_backups" json:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `toml:"max_age_days" json:"max_age_days" validate:"gte=0"`
	Compress   bool   `toml:"compress" json:"compress"`
}

// UIConfig contains presentation settings.
type UIConfig struct {
	// Theme is "dark", "light" or "auto".
	Theme string `toml:"theme" json:"theme" validate:"oneof=dark light auto"`
	// RenderMarkdown renders answers with glamour.
	RenderMarkdown bool `toml:"render_markdown" json:"render_markdown"`
	// ExportDir is where transcripts are written (empty = current directory).
	ExportDir string `toml:"export_dir" json:"export_dir"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		API: APIConfig{
			BaseURL: "http://localhost:8000",
		},
		Session: SessionConfig{
			SupportsMode: true,
			KeepsHistory: true,
		},
		Upload: UploadConfig{
			AllowedExtensions: []string{".txt"},
			MaxBytes:          10 << 20,
		},
		Logging: LoggingConfig{
			File:       "~/.ragplay/ragplay.log",
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 30,
			Compress:   true,
		},
		UI: UIConfig{
			Theme:          "auto",
			RenderMarkdown: true,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the ragplay configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".ragplay"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from path, or from the default locations when
// path is empty (TOML first, then JSON, then built-in defaults).
// A ./.env file is read first; environment overrides are applied last.
func Load(path string) (*Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	cfg := Default()

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := decodeFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadDotEnv loads KEY=value pairs from path into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// findConfigFile returns the first existing default config file, or "".
func findConfigFile() string {
	for _, locate := range []func() (string, error){ConfigPathTOML, ConfigPathJSON} {
		p, err := locate()
		if err != nil {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// decodeFile overlays the file at path onto cfg. Keys absent from the file
// keep their current values.
func decodeFile(cfg *Config, path string) error {
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read JSON config %s: %w", path, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to decode JSON config %s: %w", path, err)
		}
		return nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML config %s: %w", path, err)
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes cfg as TOML to path (the default TOML location when empty).
// The file is written atomically with owner-only permissions.
func Save(cfg *Config, path string) error {
	if path == "" {
		p, err := ConfigPathTOML()
		if err != nil {
			return err
		}
		path = p
	}

	var buf bytes.Buffer
	buf.WriteString("# ragplay configuration file\n")
	buf.WriteString("# Environment variables RAGPLAY_* override these values.\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// String renders the configuration as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return buf.String()
}

// =============================================================================
// DEFAULTS AND OVERRIDES
// =============================================================================

// SetDefaults fills zero-valued fields that have no meaningful zero.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaults.API.BaseURL
	}
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")

	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
	c.Logging.Level = strings.ToLower(c.Logging.Level)

	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}

	for i, ext := range c.Upload.AllowedExtensions {
		c.Upload.AllowedExtensions[i] = strings.ToLower(strings.TrimSpace(ext))
	}
}

// ApplyEnvOverrides applies environment variable overrides.
//
// Supported variables:
//   - RAGPLAY_API: overrides api.base_url
//   - RAGPLAY_RPS: overrides api.requests_per_second
//   - RAGPLAY_LOG_LEVEL: overrides logging.level
//   - RAGPLAY_LOG_FILE: overrides logging.file ("off" disables logging)
func (c *Config) ApplyEnvOverrides() error {
	if api := os.Getenv("RAGPLAY_API"); api != "" {
		c.API.BaseURL = api
	}

	if rps := os.Getenv("RAGPLAY_RPS"); rps != "" {
		v, err := strconv.ParseFloat(rps, 64)
		if err != nil {
			return fmt.Errorf("invalid RAGPLAY_RPS %q: %w", rps, err)
		}
		c.API.RequestsPerSecond = v
	}

	if level := os.Getenv("RAGPLAY_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}

	if file := os.Getenv("RAGPLAY_LOG_FILE"); file != "" {
		if strings.EqualFold(file, "off") {
			c.Logging.File = ""
		} else {
			c.Logging.File = file
		}
	}
	return nil
}

// LoggingOptions converts the logging section for the logging package.
func (c *Config) LoggingOptions() logging.Config {
	return logging.Config{
		File:       c.Logging.File,
		Level:      c.Logging.Level,
		MaxSizeMB:  c.Logging.MaxSizeMB,
		MaxBackups: c.Logging.MaxBackups,
		MaxAgeDays: c.Logging.MaxAgeDays,
		Compress:   c.Logging.Compress,
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their TOML key so messages match the config file.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the configuration and returns ValidateErrors on failure.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	errs := make(ValidateErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, ValidationError{
			Field:   fieldPath(fe.Namespace()),
			Message: describe(fe),
		})
	}
	return errs
}

// fieldPath strips the root struct name: "Config.api.base_url" -> "api.base_url".
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url":
		return fmt.Sprintf("invalid URL %q", fe.Value())
	case "oneof":
		return fmt.Sprintf("invalid value %q, must be one of: %s", fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gte":
		return "cannot be negative"
	case "startswith":
		return fmt.Sprintf("%q must start with %q", fe.Value(), fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
