// Package gateway implements the HTTP client side of the proxy: building
// backend URLs, forwarding credentials and bodies, and normalizing backend
// error responses into the JSON envelope the browser expects.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
)

// Client talks to the exam platform backend. It is safe for concurrent use;
// every call is an independent request-response cycle with no shared state.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a backend client for the given base URL. A trailing slash on
// the base URL is tolerated.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

// Request describes a single outbound backend call.
type Request struct {
	Method      string
	Path        string // backend path, e.g. "/api/sessions"
	Query       url.Values
	Auth        string // Authorization header value, forwarded verbatim when set
	RequestID   string // X-Request-ID correlation header
	Body        io.Reader
	ContentType string // empty means no Content-Type header is sent
}

// Response is a fully read backend response.
type Response struct {
	Status int
	Body   []byte
}

// OK reports whether the backend answered with a 2xx status.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// JSON decodes the response body into a generic map. Using a map rather
// than a struct preserves backend fields the gateway does not know about,
// which several envelopes spread back to the browser verbatim.
func (r *Response) JSON() (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal(r.Body, &m); err != nil {
		return nil, fmt.Errorf("decode backend response: %w", err)
	}
	return m, nil
}

// JSONList decodes a JSON array response body.
func (r *Response) JSONList() ([]json.RawMessage, error) {
	var list []json.RawMessage
	if err := json.Unmarshal(r.Body, &list); err != nil {
		return nil, fmt.Errorf("decode backend list response: %w", err)
	}
	return list, nil
}

// ErrorEnvelope converts a non-2xx backend body into the error object
// returned to the browser: the backend's own JSON error when parseable,
// otherwise the raw text wrapped as {error: text}. An empty body falls back
// to the given message.
func (r *Response) ErrorEnvelope(fallback string) map[string]any {
	var m map[string]any
	if err := json.Unmarshal(r.Body, &m); err == nil && m != nil {
		return m
	}
	text := strings.TrimSpace(string(r.Body))
	if text == "" {
		text = fallback
	}
	return map[string]any{"error": text}
}

// Do issues one HTTP call to the backend and reads the full response body.
// The context bounds the call; a deadline expiry surfaces as an error for
// which IsTimeout returns true.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, req.Body)
	if err != nil {
		return nil, fmt.Errorf("build backend request: %w", err)
	}
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	if req.Auth != "" {
		httpReq.Header.Set("Authorization", req.Auth)
	}
	if req.RequestID != "" {
		httpReq.Header.Set("X-Request-ID", req.RequestID)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call backend %s %s: %w", req.Method, req.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read backend response: %w", err)
	}

	return &Response{Status: resp.StatusCode, Body: body}, nil
}

// IsTimeout reports whether err was caused by a deadline expiry or a
// network-level timeout rather than an ordinary transport failure.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// JSONBody marshals v for use as a JSON request body.
func JSONBody(v any) (io.Reader, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return strings.NewReader(string(data)), nil
}
