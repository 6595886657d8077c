package shopsdk

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

// SDKClient is a client for the minishop backend. It provides access to
// unauthenticated operations and can create authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a new shop client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Login authenticates with username and password and returns a Session
// carrying the bearer token.
func (c *SDKClient) Login(ctx context.Context, username, password string) (*Session, error) {
	var out LoginResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/auth/login", LoginRequest{
		Username: username,
		Password: password,
	}, &out, http.StatusOK)
	if err != nil {
		return nil, err
	}

	return &Session{
		client:      c,
		accessToken: out.AccessToken,
		user:        out.User,
	}, nil
}

// NewSessionFromToken creates a session from an existing access token,
// e.g. one persisted from an earlier login.
func (c *SDKClient) NewSessionFromToken(accessToken string) *Session {
	return &Session{client: c, accessToken: accessToken}
}

// AcceptInvitation redeems an invitation token and registers a new account.
// This is a public operation; the resulting account can then Login.
func (c *SDKClient) AcceptInvitation(ctx context.Context, req AcceptInvitationRequest) (UserResponse, error) {
	var out UserResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/invitations/accept", req, &out, http.StatusCreated)
	return out, err
}

// GetLiveness checks that the service process is up.
func (c *SDKClient) GetLiveness(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.doJSON(ctx, http.MethodGet, "/livez", nil, &out, http.StatusOK)
	return out, err
}

// GetReadiness checks that the service can reach its database.
func (c *SDKClient) GetReadiness(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.doJSON(ctx, http.MethodGet, "/readyz", nil, &out, http.StatusOK)
	return out, err
}

// url builds a complete URL by appending the path to the base URL.
func (c *SDKClient) url(path string) string {
	return c.BaseURL + path
}

// doJSON performs an unauthenticated JSON request and decodes the response
// into out. A nil body sends no payload; a nil out discards the response.
func (c *SDKClient) doJSON(
	ctx context.Context,
	method, path string,
	body any,
	out any,
	expectedStatus int,
) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}

	return decodeJSON(resp, out, expectedStatus)
}

// decodeJSON decodes a JSON response into target, returning a typed
// *APIError when the status does not match.
func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp, bodyBytes)
	}

	if target == nil || len(bodyBytes) == 0 {
		return nil
	}

	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
