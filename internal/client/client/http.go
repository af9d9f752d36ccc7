package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/qrtag/internal/common"
	"github.com/dmitrijs2005/qrtag/internal/logging"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
)

// TokenStore is the part of the Session Store the client depends on.
type TokenStore interface {
	// Token returns the current bearer token, or "" when there is none.
	Token(ctx context.Context) string
	ClearToken(ctx context.Context) error
}

// Request describes one API call.
type Request struct {
	Endpoint string
	Method   string // GET when empty
	Body     any
	Headers  map[string]string
}

const (
	DefaultTimeout = 15 * time.Second

	// maxErrorBody caps how much of a failed response is read when looking
	// for its message field.
	maxErrorBody = 64 << 10
)

// HTTPClient talks to the tag API at a fixed base URL.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
	logger     logging.Logger
	maxRetries uint64
	retryDelay time.Duration
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.httpClient = hc }
}

// WithTimeout bounds every request, including reading its body.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.logger = l }
}

// WithRetries enables up to n extra attempts, delay apart, for transport
// failures of idempotent requests. HTTP error statuses are never retried.
func WithRetries(n uint64, delay time.Duration) Option {
	return func(c *HTTPClient) {
		c.maxRetries = n
		c.retryDelay = delay
	}
}

func NewHTTPClient(baseURL string, tokens TokenStore, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		tokens:     tokens,
		logger:     logging.Discard(),
		retryDelay: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do sends req and decodes a 2xx JSON body into out (skipped when out is nil
// or the body is empty). Any other outcome is a *RequestFailedError; a 401
// additionally clears the token store before Do returns.
func (c *HTTPClient) Do(ctx context.Context, req Request, out any) error {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var payload []byte
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return transportError(err)
		}
		payload = b
	}

	started := time.Now()
	resp, err := c.send(ctx, method, req, payload)
	if err != nil {
		c.logger.Warn(ctx, "request failed", "method", method, "endpoint", req.Endpoint, "error", err)
		return transportError(err)
	}
	defer resp.Body.Close()

	c.logger.Debug(ctx, "request completed",
		"method", method, "endpoint", req.Endpoint, "status", resp.StatusCode, "duration", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.failure(ctx, resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError(err)
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return transportError(err)
	}
	return nil
}

// send builds and issues the request, retrying transport failures of
// idempotent methods when retries are enabled. The token is read anew for
// every attempt.
func (c *HTTPClient) send(ctx context.Context, method string, req Request, payload []byte) (*http.Response, error) {
	attempt := func(ctx context.Context) (*http.Response, error) {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+req.Endpoint, body)
		if err != nil {
			return nil, err
		}
		c.setHeaders(ctx, httpReq, req.Headers)
		return c.httpClient.Do(httpReq)
	}

	if c.maxRetries == 0 || !idempotent(method) {
		return attempt(ctx)
	}

	var resp *http.Response
	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewConstant(c.retryDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		r, err := attempt(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			c.logger.Debug(ctx, "retrying request", "method", method, "endpoint", req.Endpoint, "error", err)
			return retry.RetryableError(err)
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *HTTPClient) setHeaders(ctx context.Context, r *http.Request, extra map[string]string) {
	r.Header.Set("Content-Type", common.ContentTypeJSON)
	r.Header.Set("Accept", common.ContentTypeJSON)
	r.Header.Set(common.RequestIDHeader, uuid.NewString())
	if token := c.tokens.Token(ctx); token != "" {
		r.Header.Set(common.AuthorizationHeader, common.BearerScheme+" "+token)
	}
	for k, v := range extra {
		r.Header.Set(k, v)
	}
}

func (c *HTTPClient) failure(ctx context.Context, resp *http.Response) error {
	var body struct {
		Message string `json:"message"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	_ = json.Unmarshal(raw, &body)

	if resp.StatusCode == http.StatusUnauthorized {
		if err := c.tokens.ClearToken(ctx); err != nil {
			c.logger.Error(ctx, "failed to clear rejected token", "error", err)
		} else {
			c.logger.Warn(ctx, "token rejected, session cleared", "endpoint", resp.Request.URL.Path)
		}
	}

	return statusError(resp.StatusCode, body.Message)
}

func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete, http.MethodOptions:
		return true
	}
	return false
}

// IsUnauthorized is shorthand for errors.Is(err, ErrUnauthorized).
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
