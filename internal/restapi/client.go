// Package restapi is the authenticated JSON client used for the vault and
// order endpoints.
package restapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// PartnerAttributionHeader carries the partner attribution id when set.
const PartnerAttributionHeader = "PayPal-Partner-Attribution-Id"

const maxBodySize = 8 << 20

// Auth is the authorization scheme of a request.
type Auth interface {
	header() string
}

// Bearer authorizes with an access token.
type Bearer string

func (b Bearer) header() string { return "Bearer " + string(b) }

// Basic authorizes with client credentials.
type Basic struct {
	ClientID     string
	ClientSecret string
}

func (b Basic) header() string {
	raw := b.ClientID + ":" + b.ClientSecret
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(raw))
}

// Request describes one API call.
type Request struct {
	Method               string
	Path                 string
	Body                 interface{}
	Auth                 Auth
	PartnerAttributionID string
	Headers              map[string]string
}

// APIError is returned for responses with status >= 400.
type APIError struct {
	StatusCode int
	Name       string `json:"name"`
	Message    string `json:"message"`
	DebugID    string        `json:"debug_id"`
	Details    []ErrorDetail `json:"details,omitempty"`
	Body       string        `json:"-"`
}

// ErrorDetail is one field-level problem reported in an error body. Field is
// a JSON pointer into the request, e.g. /payment_source/card/number.
type ErrorDetail struct {
	Field       string `json:"field"`
	Value       string `json:"value,omitempty"`
	Issue       string `json:"issue"`
	Description string `json:"description"`
}

func (e *APIError) Error() string {
	if e.Name != "" || e.Message != "" {
		return fmt.Sprintf("request failed with status %d: %s: %s", e.StatusCode, e.Name, e.Message)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Body)
}

// Client issues requests against a base URL. It never retries; callers get
// at most one attempt per call.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// ClientConfig configures the client.
type ClientConfig struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// NewClient creates a client. A zero timeout falls back to 30s.
func NewClient(cfg ClientConfig) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		httpClient: hc,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// Do executes the request and decodes a JSON response into target (which may
// be nil). The raw response body is returned for callers that need it.
func (c *Client) Do(ctx context.Context, r Request, target interface{}) ([]byte, error) {
	url := r.Path
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = c.baseURL + r.Path
	}

	var bodyReader io.Reader
	if r.Body != nil {
		jsonBody, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.Auth != nil {
		req.Header.Set("Authorization", r.Auth.header())
	}
	if r.PartnerAttributionID != "" {
		req.Header.Set(PartnerAttributionHeader, r.PartnerAttributionID)
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		_ = json.Unmarshal(body, apiErr)
		return body, apiErr
	}

	if target != nil && len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, target); err != nil {
			return body, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return body, nil
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}, auth Auth, target interface{}) error {
	_, err := c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body, Auth: auth}, target)
	return err
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, auth Auth, target interface{}) error {
	_, err := c.Do(ctx, Request{Method: http.MethodGet, Path: path, Auth: auth}, target)
	return err
}
