// Package remote holds the shared machinery of the provider clients: a JSON
// request helper, error classification into the application taxonomy,
// batched parallel reads and the fetch boundary that turns failures into
// published errors.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"dashboard/internal/errors"

	"go.uber.org/zap"
)

// maxErrorBody bounds how much of a failed response is read for classification
const maxErrorBody = 1 << 20

// Response carries the status and headers of a completed request
type Response struct {
	Status int
	Header http.Header
}

// RequestOption decorates an outgoing request
type RequestOption func(*http.Request)

// WithHeader sets a request header
func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) { r.Header.Set(key, value) }
}

// WithBasicAuth sets basic credentials
func WithBasicAuth(user, password string) RequestOption {
	return func(r *http.Request) { r.SetBasicAuth(user, password) }
}

// WithBearer sets a bearer token
func WithBearer(token string) RequestOption {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

// Client issues JSON requests and classifies failures
type Client struct {
	http      *http.Client
	classify  Classifier
	userAgent string
	logger    *zap.Logger
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithUserAgent sets the User-Agent header on every request
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) { c.userAgent = ua }
}

// WithClientLogger sets the request logger
func WithClientLogger(l *zap.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient wraps httpClient. classify turns non-2xx responses into errors;
// nil uses DefaultMessages.
func NewClient(httpClient *http.Client, classify Classifier, opts ...ClientOption) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if classify == nil {
		classify = StatusClassifier(DefaultMessages, nil, nil)
	}
	c := &Client{
		http:     httpClient,
		classify: classify,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do sends body (JSON-encoded unless nil) and decodes a 2xx response into
// out (skipped when out is nil). A body that does not match out's schema
// is an Unknown error. Non-2xx responses go through the classifier; the
// Response is returned alongside so callers can read headers either way.
func (c *Client) Do(ctx context.Context, method, url string, body, out any, opts ...RequestOption) (*Response, error) {
	raw, resp, err := c.send(ctx, method, url, body, opts)
	if err != nil {
		return resp, err
	}
	if out != nil && len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp, errors.NewUnknownError("unexpected response shape", err)
		}
	}
	return resp, nil
}

// DoRaw is Do without decoding; it returns the response body bytes
func (c *Client) DoRaw(ctx context.Context, method, url string, body any, opts ...RequestOption) ([]byte, *Response, error) {
	return c.send(ctx, method, url, body, opts)
}

func (c *Client) send(ctx context.Context, method, url string, body any, opts []RequestOption) ([]byte, *Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, nil, errors.NewUnknownError("failed to encode request", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, nil, errors.NewUnknownError("failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	for _, opt := range opts {
		opt(req)
	}

	start := time.Now()
	httpResp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("method", method),
			zap.String("host", req.URL.Host),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, nil, transportError(err)
	}
	defer httpResp.Body.Close()

	resp := &Response{Status: httpResp.StatusCode, Header: httpResp.Header}
	c.logger.Debug("request complete",
		zap.String("method", method),
		zap.String("host", req.URL.Host),
		zap.String("path", req.URL.Path),
		zap.Int("status", httpResp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(httpResp.Body, maxErrorBody))
		apiErr := c.classify(httpResp.StatusCode, raw)
		if appErr, ok := errors.AsAppError(apiErr); ok {
			appErr.WithContext("status", httpResp.StatusCode)
		}
		return raw, resp, apiErr
	}

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, resp, errors.NewUnknownError("failed to read response", err)
	}
	return raw, resp, nil
}

func transportError(err error) error {
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.NewTimeoutError("remote request", err.Error())
	case stderrors.Is(err, context.Canceled):
		return err
	default:
		return errors.NewUnknownError("could not reach the service", err)
	}
}
