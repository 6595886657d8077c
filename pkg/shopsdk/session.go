package shopsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Session is an authenticated client. Access tokens are short-lived JWTs;
// when one expires the caller logs in again for a fresh session.
type Session struct {
	client      *SDKClient
	accessToken string
	user        UserResponse
}

// AccessToken returns the bearer token backing this session, e.g. for
// persisting across restarts.
func (s *Session) AccessToken() string {
	return s.accessToken
}

// User returns the profile captured at login time. It is zero for sessions
// created from a bare token; use Me for a fresh copy.
func (s *Session) User() UserResponse {
	return s.user
}

// Me fetches the caller's own profile.
func (s *Session) Me(ctx context.Context) (UserResponse, error) {
	var out UserResponse
	err := s.doJSON(ctx, http.MethodGet, "/v1/me", nil, &out, http.StatusOK)
	return out, err
}

// Logout invalidates the session server-side.
func (s *Session) Logout(ctx context.Context) error {
	return s.doJSON(ctx, http.MethodPost, "/v1/auth/logout", nil, nil, http.StatusNoContent)
}

// ListUsers returns user accounts, optionally filtered by a search term.
func (s *Session) ListUsers(ctx context.Context, search string) ([]UserResponse, error) {
	path := "/v1/users"
	if search != "" {
		path += "?search=" + url.QueryEscape(search)
	}
	var out []UserResponse
	err := s.doJSON(ctx, http.MethodGet, path, nil, &out, http.StatusOK)
	return out, err
}

// GetUser returns one user account by id.
func (s *Session) GetUser(ctx context.Context, id string) (UserResponse, error) {
	var out UserResponse
	err := s.doJSON(ctx, http.MethodGet, "/v1/users/"+url.PathEscape(id), nil, &out, http.StatusOK)
	return out, err
}

// CreateUser creates a user account directly, bypassing the invitation
// flow. Admin only.
func (s *Session) CreateUser(ctx context.Context, req CreateUserRequest) (UserResponse, error) {
	var out UserResponse
	err := s.doJSON(ctx, http.MethodPost, "/v1/users", req, &out, http.StatusCreated)
	return out, err
}

// UpdateUser mutates a user account. Admin only.
func (s *Session) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (UserResponse, error) {
	var out UserResponse
	err := s.doJSON(ctx, http.MethodPatch, "/v1/users/"+url.PathEscape(id), req, &out, http.StatusOK)
	return out, err
}

// DeleteUser removes a user account. Admin only.
func (s *Session) DeleteUser(ctx context.Context, id string) error {
	return s.doJSON(ctx, http.MethodDelete, "/v1/users/"+url.PathEscape(id), nil, nil, http.StatusNoContent)
}

// ListInvitations returns all invitations with their derived status.
func (s *Session) ListInvitations(ctx context.Context) ([]InvitationResponse, error) {
	var out []InvitationResponse
	err := s.doJSON(ctx, http.MethodGet, "/v1/invitations", nil, &out, http.StatusOK)
	return out, err
}

// CreateInvitation invites an email address with a role.
func (s *Session) CreateInvitation(ctx context.Context, req CreateInvitationRequest) (InvitationResponse, error) {
	var out InvitationResponse
	err := s.doJSON(ctx, http.MethodPost, "/v1/invitations", req, &out, http.StatusCreated)
	return out, err
}

// ResendInvitation re-sends an active invitation's original link.
func (s *Session) ResendInvitation(ctx context.Context, id string) error {
	return s.doJSON(ctx, http.MethodPost, "/v1/invitations/"+url.PathEscape(id)+"/resend", nil, nil, http.StatusNoContent)
}

// RevokeInvitation marks an invitation revoked so its token can never be
// redeemed.
func (s *Session) RevokeInvitation(ctx context.Context, id string) error {
	return s.doJSON(ctx, http.MethodPost, "/v1/invitations/"+url.PathEscape(id)+"/revoke", nil, nil, http.StatusNoContent)
}

// ListProducts returns the catalog, optionally filtered and ordered.
func (s *Session) ListProducts(ctx context.Context, search, ordering string) ([]ProductResponse, error) {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	if ordering != "" {
		q.Set("ordering", ordering)
	}
	path := "/v1/products"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out []ProductResponse
	err := s.doJSON(ctx, http.MethodGet, path, nil, &out, http.StatusOK)
	return out, err
}

// GetProduct returns one product by id.
func (s *Session) GetProduct(ctx context.Context, id string) (ProductResponse, error) {
	var out ProductResponse
	err := s.doJSON(ctx, http.MethodGet, "/v1/products/"+url.PathEscape(id), nil, &out, http.StatusOK)
	return out, err
}

// CreateProduct adds a product to the catalog. Admin or manager only.
func (s *Session) CreateProduct(ctx context.Context, req ProductRequest) (ProductResponse, error) {
	var out ProductResponse
	err := s.doJSON(ctx, http.MethodPost, "/v1/products", req, &out, http.StatusCreated)
	return out, err
}

// UpdateProduct replaces a product's fields. Admin or manager only.
func (s *Session) UpdateProduct(ctx context.Context, id string, req ProductRequest) (ProductResponse, error) {
	var out ProductResponse
	err := s.doJSON(ctx, http.MethodPut, "/v1/products/"+url.PathEscape(id), req, &out, http.StatusOK)
	return out, err
}

// DeleteProduct removes a product. Admin or manager only.
func (s *Session) DeleteProduct(ctx context.Context, id string) error {
	return s.doJSON(ctx, http.MethodDelete, "/v1/products/"+url.PathEscape(id), nil, nil, http.StatusNoContent)
}

// ListOrders returns all orders. Any authenticated role may read.
func (s *Session) ListOrders(ctx context.Context) ([]OrderResponse, error) {
	var out []OrderResponse
	err := s.doJSON(ctx, http.MethodGet, "/v1/orders", nil, &out, http.StatusOK)
	return out, err
}

// GetOrder returns one order by id.
func (s *Session) GetOrder(ctx context.Context, id string) (OrderResponse, error) {
	var out OrderResponse
	err := s.doJSON(ctx, http.MethodGet, "/v1/orders/"+url.PathEscape(id), nil, &out, http.StatusOK)
	return out, err
}

// CreateOrder places an order.
func (s *Session) CreateOrder(ctx context.Context, req CreateOrderRequest) (OrderResponse, error) {
	var out OrderResponse
	err := s.doJSON(ctx, http.MethodPost, "/v1/orders", req, &out, http.StatusCreated)
	return out, err
}

// UpdateOrder mutates an order's status or items. Admin only.
func (s *Session) UpdateOrder(ctx context.Context, id string, req UpdateOrderRequest) (OrderResponse, error) {
	var out OrderResponse
	err := s.doJSON(ctx, http.MethodPatch, "/v1/orders/"+url.PathEscape(id), req, &out, http.StatusOK)
	return out, err
}

// DeleteOrder removes an order. Admin only.
func (s *Session) DeleteOrder(ctx context.Context, id string) error {
	return s.doJSON(ctx, http.MethodDelete, "/v1/orders/"+url.PathEscape(id), nil, nil, http.StatusNoContent)
}

// doJSON performs an authenticated JSON request and decodes the response
// into out.
func (s *Session) doJSON(
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

	req, err := http.NewRequestWithContext(ctx, method, s.client.url(path), reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}

	return decodeJSON(resp, out, expectedStatus)
}
