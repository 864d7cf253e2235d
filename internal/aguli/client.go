// Package aguli is a client for the Aguli TV REST backend that stores the
// content managed from the admin console.
package aguli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/aguli-tv/aguli-admin/logging"
)

const (
	resourcePrefix    = "/api/v1/aguli_tv"
	maxResponseBytes  = 4 << 20
	maxErrorTextRunes = 300
)

// Options configures a Client.
type Options struct {
	// BaseURL is the backend origin, e.g. https://api.aguli.tv.
	BaseURL string
	// APIKey is sent as the key query parameter on category endpoints.
	APIKey string
	// Token is the bearer token for push notifications.
	Token      string
	HTTPClient *http.Client
	Logger     *logging.Logger
}

// Client calls the Aguli REST API.
type Client struct {
	base       *url.URL
	apiKey     string
	token      string
	httpClient *http.Client
	logger     *logging.Logger
}

// New validates opts and returns a Client.
func New(opts Options) (*Client, error) {
	raw := strings.TrimSpace(opts.BaseURL)
	if raw == "" {
		return nil, errors.New("aguli: base URL is required")
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("aguli: parse base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("aguli: base URL %q must be http or https", raw)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		base:       base,
		apiKey:     strings.TrimSpace(opts.APIKey),
		token:      strings.TrimSpace(opts.Token),
		httpClient: httpClient,
		logger:     opts.Logger,
	}, nil
}

// ErrInvalid is wrapped by errors for input rejected before any request is
// sent.
var ErrInvalid = errors.New("aguli: invalid input")

// APIError is returned when the backend answers with a non-2xx status or
// with a JSON envelope whose success flag is false.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("aguli %s %s: status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("aguli %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// envelope is the backend's common response wrapper. Success is a pointer
// because some list endpoints omit it.
type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type request struct {
	method      string
	path        string
	query       url.Values
	contentType string
	body        io.Reader
	bearer      bool
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = c.base.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do performs req and returns the response body after checking the HTTP
// status and, when present, the envelope's success flag.
func (c *Client) do(ctx context.Context, req request) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.endpoint(req.path, req.query), req.body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if req.bearer {
		if c.token == "" {
			return nil, errors.New("aguli: bearer token not configured")
		}
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}
	requestID := logging.RequestIDFromContext(ctx)
	if requestID != "" {
		httpReq.Header.Set("X-Request-ID", requestID)
	}

	log := c.logger.WithRequestID(requestID).WithCategory("aguli").WithFields(map[string]any{
		"method": req.method,
		"path":   req.path,
	})

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.WithField("duration_ms", time.Since(start).Milliseconds()).Error("aguli request failed", err)
		return nil, fmt.Errorf("aguli %s %s: %w", req.method, req.path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("aguli %s %s: read response: %w", req.method, req.path, err)
	}
	log = log.WithFields(map[string]any{
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &APIError{
			Method:     req.method,
			Path:       req.path,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Header.Get("Content-Type"), body),
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		log.Warn(apiErr.Message)
		return nil, apiErr
	}

	var env envelope
	if json.Unmarshal(body, &env) == nil && env.Success != nil && !*env.Success {
		apiErr := &APIError{
			Method:     req.method,
			Path:       req.path,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(env.Message),
		}
		log.Warn("aguli rejected request: " + apiErr.Message)
		return nil, apiErr
	}
	log.Debug("aguli request completed")
	return body, nil
}

// doJSON marshals payload as the request body.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, payload any, bearer bool) ([]byte, error) {
	var body io.Reader
	contentType := ""
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("aguli: encode %s body: %w", path, err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, request{method: method, path: path, query: query, contentType: contentType, body: body, bearer: bearer})
}

// decodeData unmarshals the envelope's data field into out.
func decodeData(body []byte, out any) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("aguli: decode envelope: %w", err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("aguli: decode data: %w", err)
	}
	return nil
}

// errorMessage extracts a human-readable reason from an error response. The
// backend answers JSON with a message field; proxies in front of it answer
// HTML pages, from which the title or first heading is used.
func errorMessage(contentType string, body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}
	var env envelope
	if json.Unmarshal(trimmed, &env) == nil && strings.TrimSpace(env.Message) != "" {
		return strings.TrimSpace(env.Message)
	}
	if strings.Contains(contentType, "html") || bytes.HasPrefix(bytes.ToLower(trimmed), []byte("<!doctype html")) || bytes.HasPrefix(bytes.ToLower(trimmed), []byte("<html")) {
		if doc, err := goquery.NewDocumentFromReader(bytes.NewReader(trimmed)); err == nil {
			for _, sel := range []string{"title", "h1", "body"} {
				if text := collapseSpace(doc.Find(sel).First().Text()); text != "" {
					return clip(text)
				}
			}
		}
	}
	return clip(collapseSpace(string(trimmed)))
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func clip(s string) string {
	r := []rune(s)
	if len(r) <= maxErrorTextRunes {
		return s
	}
	return string(r[:maxErrorTextRunes]) + "…"
}
