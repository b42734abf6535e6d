// Package judgeapi is the HTTP client of the judge backend REST API.
// Every failure it returns is one of the apierror kinds.
package judgeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/programme-lv/ojclient/apierror"
	"github.com/programme-lv/ojclient/logger"
)

const maxBodyBytes = 4 << 20

type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithTimeout sets a whole-request timeout. Zero keeps the transport default.
// It applies to a copy of the HTTP client, whatever the option order.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) log(ctx context.Context) *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return logger.FromContext(ctx)
}

// do performs one request. A nil out discards the response body.
func (c *Client) do(ctx context.Context, method, path, token string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &apierror.NetworkError{Cause: fmt.Errorf("failed to encode request: %w", err)}
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &apierror.NetworkError{Cause: fmt.Errorf("failed to build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log := c.log(ctx)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug("judge request failed", "method", method, "path", path, "error", err)
		return &apierror.NetworkError{Cause: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	log.Debug("judge request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	if err != nil {
		return &apierror.NetworkError{Status: resp.StatusCode, Cause: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return classify(resp.StatusCode, respBody)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &apierror.NetworkError{Status: resp.StatusCode, Cause: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

type detailEntry struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// classify maps a non-2xx response onto an apierror kind.
func classify(status int, body []byte) error {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return &apierror.NetworkError{Status: status, Cause: fmt.Errorf("unstructured error body: %w", err)}
	}

	detail := bytes.TrimSpace(eb.Detail)
	if len(detail) > 0 {
		switch detail[0] {
		case '[':
			var entries []detailEntry
			if err := json.Unmarshal(detail, &entries); err == nil {
				fields := make([]apierror.FieldError, 0, len(entries))
				for _, e := range entries {
					fields = append(fields, apierror.FieldError{Field: fieldRef(e.Loc), Msg: e.Msg})
				}
				return &apierror.ValidationError{Status: status, Fields: fields}
			}
		case '"':
			var msg string
			if err := json.Unmarshal(detail, &msg); err == nil && msg != "" {
				return &apierror.AuthError{Status: status, Detail: msg}
			}
		}
	}

	if eb.Message != "" {
		return &apierror.AuthError{Status: status, Detail: eb.Message}
	}
	return &apierror.NetworkError{Status: status, Cause: errors.New("error response without detail")}
}

// fieldRef picks loc[1] ("body", "<field>") or "field" when absent.
func fieldRef(loc []any) string {
	if len(loc) > 1 {
		switch v := loc[1].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return "field"
}
