package slack

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Response is what a Transport hands back after a POST completed.
type Response struct {
	StatusCode int
	Body       []byte
}

// Transport performs a single HTTP POST. Implementations must release any
// connection resources before returning.
type Transport interface {
	Post(ctx context.Context, url string, body []byte, header http.Header) (*Response, error)
}

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 64 * 1024

// HTTPTransport is a Transport backed by net/http.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport creates an HTTPTransport. A zero timeout means none.
func NewHTTPTransport(timeout time.Duration) *HTTPTransport {
	return &HTTPTransport{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Post implements Transport.
func (t *HTTPTransport) Post(ctx context.Context, rawURL string, body []byte, header http.Header) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		// Drain and close body to reuse connections.
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &Response{StatusCode: resp.StatusCode}, fmt.Errorf("read response: %w", err)
	}
	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}

// RedactURL reduces a webhook URL to scheme and host for logging. The path
// of an incoming-webhook URL is its secret.
func RedactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "<invalid-url>"
	}
	return u.Scheme + "://" + u.Host + "/<redacted>"
}
