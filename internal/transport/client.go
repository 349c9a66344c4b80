// Package transport provides the HTTP plumbing shared by the graph API
// client: authentication, common headers, and JSON response decoding.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/tracefold/graphpub/pkg/errors"
)

// DefaultTimeout is the default timeout for HTTP requests.
var DefaultTimeout = 30 * time.Second

// Client provides HTTP client functionality with authentication.
type Client struct {
	http   *http.Client
	auth   Authenticator
	apiKey string
}

// New creates a transport client with the specified authenticator and key.
func New(auth Authenticator, apiKey string) *Client {
	if auth == nil {
		auth = &NoAuth{}
	}
	return &Client{
		http:   &http.Client{Timeout: DefaultTimeout},
		auth:   auth,
		apiKey: apiKey,
	}
}

// Do performs an HTTP request with authentication and common headers applied.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.apiKey != "" {
		c.auth.Apply(req, c.apiKey)
	}

	req.Header.Set("Accept", "application/json")
	if req.Method == http.MethodPost || req.Method == http.MethodPut || req.Method == http.MethodPatch {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.http.Do(req)
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapAPI("create request", url, err)
	}
	return c.Do(req)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, url string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.WrapAPI("encode request", url, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.WrapAPI("create request", url, err)
	}
	return c.Do(req)
}

// Decode reads and decodes a JSON response body into target, closing the
// body. Non-2xx statuses become an APIError carrying the status code.
func Decode(resp *http.Response, operation, resource string, target any) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapAPI(operation, resource, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.NewAPIError(operation, resource, resp.StatusCode, nil)
	}

	if target == nil {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapAPI(operation, resource, err)
	}
	return nil
}
