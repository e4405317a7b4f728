package ledgersdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is a client for the ledger service. All operations are plain HTTP
// round trips; the caller supplies a bearer token where the endpoint needs
// one.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// Token is the bearer token sent on authenticated requests. Leave empty
	// for the public endpoints.
	Token string
}

// NewClient creates a ledger service client.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// WithToken returns a shallow copy of the client carrying the given bearer
// token.
func (c *Client) WithToken(token string) *Client {
	copied := *c
	copied.Token = token
	return &copied
}

// RegisterClient registers a new client and returns the signed envelope.
func (c *Client) RegisterClient(ctx context.Context, req RegisterClientRequest) (*RegisterClientResponse, error) {
	var out RegisterClientResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/clients", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListClients returns the registered clients. Requires a token with the
// read scope.
func (c *Client) ListClients(ctx context.Context) (*ClientListResponse, error) {
	var out ClientListResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/clients", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetLedger returns the most recent chain entries, newest first.
func (c *Client) GetLedger(ctx context.Context) (*LedgerListResponse, error) {
	var out LedgerListResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/ledger", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTip returns the current chain tip.
func (c *Client) GetTip(ctx context.Context) (*TipResponse, error) {
	var out TipResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/ledger/tip", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// CrossSign asks the peer to counter-sign the presented tip.
func (c *Client) CrossSign(ctx context.Context, req CrossSignRequest) (*CrossSignResponse, error) {
	var out CrossSignResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/cross-sign", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetServerKey returns the service's Ed25519 public key.
func (c *Client) GetServerKey(ctx context.Context) (*ServerKeyResponse, error) {
	var out ServerKeyResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/server-key", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Healthy reports whether the peer's readiness probe passes.
func (c *Client) Healthy(ctx context.Context) error {
	var out HealthResponse
	return c.doJSON(ctx, http.MethodGet, "/readyz", nil, &out, http.StatusOK)
}

// url builds a complete URL by appending the path to the base URL.
func (c *Client) url(path string) string {
	return c.BaseURL + path
}

// doJSON performs an HTTP round trip with optional JSON body and decodes
// the JSON response into target. Non-expected status codes come back as a
// typed *APIError.
func (c *Client) doJSON(
	ctx context.Context,
	method, path string,
	body, target any,
	expectedStatus int,
) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	// Read body once for both error parsing and success decoding
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp, bodyBytes)
	}

	if target != nil {
		if err := json.Unmarshal(bodyBytes, target); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
