// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ragapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/jeranaias/ragplay-tui/internal/model"
)

// maxErrorBody bounds how much of a failure body is read for detail parsing.
const maxErrorBody = 1 << 20

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the backend root (default: http://localhost:8000).
	BaseURL string

	// HTTPClient performs requests (default: a client without a timeout).
	HTTPClient *http.Client

	// UserAgent is sent on every request.
	UserAgent string

	// RequestsPerSecond paces outbound calls; 0 disables pacing.
	RequestsPerSecond float64

	// Logger receives request diagnostics (default: no-op).
	Logger *zap.Logger
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:    "http://localhost:8000",
		HTTPClient: &http.Client{},
		UserAgent:  "ragplay",
		Logger:     zap.NewNop(),
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the retrieval backend. It is safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewClient creates a client, filling zero-valued config fields with defaults.
func NewClient(config *ClientConfig) *Client {
	defaults := DefaultConfig()
	if config == nil {
		config = defaults
	}

	cfg := *config
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.BaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = defaults.HTTPClient
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaults.UserAgent
	}
	if cfg.Logger == nil {
		cfg.Logger = defaults.Logger
	}

	c := &Client{
		config:     &cfg,
		httpClient: cfg.HTTPClient,
		logger:     cfg.Logger.Named("ragapi"),
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return c
}

// BaseURL returns the normalized backend root.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// OPERATIONS
// =============================================================================

// IndexDocument uploads doc to POST /upload as multipart field "file".
func (c *Client) IndexDocument(ctx context.Context, doc model.Document) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	contentType := doc.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(doc.Name)))
	h.Set("Content-Type", contentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return &RemoteError{Op: OpUpload, Kind: KindTransport, Message: MsgUploadFailed, Cause: err}
	}
	if _, err := part.Write(doc.Content); err != nil {
		return &RemoteError{Op: OpUpload, Kind: KindTransport, Message: MsgUploadFailed, Cause: err}
	}
	if err := mw.Close(); err != nil {
		return &RemoteError{Op: OpUpload, Kind: KindTransport, Message: MsgUploadFailed, Cause: err}
	}

	resp, err := c.post(ctx, OpUpload, "/upload", mw.FormDataContentType(), &buf)
	if err != nil {
		return err
	}
	drainAndClose(resp.Body)
	return nil
}

// AskQuestion sends question to POST /chat. The "mode" field is omitted
// when mode is ModeUnset.
func (c *Client) AskQuestion(ctx context.Context, question string, mode model.Mode) (model.Answer, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("question", question); err != nil {
		return model.Answer{}, &RemoteError{Op: OpChat, Kind: KindTransport, Message: MsgChatError, Cause: err}
	}
	if mode != model.ModeUnset {
		if err := mw.WriteField("mode", mode.String()); err != nil {
			return model.Answer{}, &RemoteError{Op: OpChat, Kind: KindTransport, Message: MsgChatError, Cause: err}
		}
	}
	if err := mw.Close(); err != nil {
		return model.Answer{}, &RemoteError{Op: OpChat, Kind: KindTransport, Message: MsgChatError, Cause: err}
	}

	resp, err := c.post(ctx, OpChat, "/chat", mw.FormDataContentType(), &buf)
	if err != nil {
		return model.Answer{}, err
	}
	defer drainAndClose(resp.Body)

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return model.Answer{}, &RemoteError{Op: OpChat, Kind: KindDecode, Message: MsgChatError, Cause: err}
	}
	if result.Answer == nil {
		return model.Answer{}, &RemoteError{
			Op:      OpChat,
			Kind:    KindDecode,
			Message: MsgChatError,
			Cause:   fmt.Errorf("response has no answer field"),
		}
	}

	return model.Answer{Text: *result.Answer}, nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// post sends a request and returns the response for any 2xx status.
// Every other outcome is returned as a *RemoteError.
func (c *Client) post(ctx context.Context, op, path, contentType string, body io.Reader) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &RemoteError{Op: op, Kind: KindTransport, Message: fallbackMessage(op), Cause: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, body)
	if err != nil {
		return nil, &RemoteError{Op: op, Kind: KindTransport, Message: fallbackMessage(op), Cause: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		remoteErr := &RemoteError{Op: op, Kind: KindTransport, Message: fallbackMessage(op), Cause: err}
		c.logger.Warn("request failed",
			zap.String("op", op),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return nil, remoteErr
	}

	c.logger.Debug("request completed",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	defer drainAndClose(resp.Body)
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	message := parseDetail(data)
	if message == "" {
		message = fallbackMessage(op)
	}
	return nil, &RemoteError{Op: op, Kind: KindStatus, StatusCode: resp.StatusCode, Message: message}
}

// drainAndClose empties and closes a response body so the connection can be reused.
func drainAndClose(r io.ReadCloser) {
	io.Copy(io.Discard, r)
	r.Close()
}
