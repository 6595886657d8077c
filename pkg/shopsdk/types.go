package shopsdk

// ErrorResponse is the wire form of every API error.
type ErrorResponse struct {
	// Error is the machine-readable error code (e.g. "forbidden")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`
}

// LoginRequest carries credentials for POST /v1/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the successful login payload.
type LoginResponse struct {
	// AccessToken is the JWT used to authenticate subsequent requests
	AccessToken string `json:"access_token"`

	// TokenType is always "Bearer"
	TokenType string `json:"token_type"`

	// ExpiresIn is the access token lifetime in seconds
	ExpiresIn int `json:"expires_in"`

	// User is the authenticated user's profile
	User UserResponse `json:"user"`
}

// UserResponse is the public view of a user account.
type UserResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`

	// Role is the single effective role resolved from superuser status and
	// group memberships: ADMIN, MANAGER or STAFF.
	Role   string   `json:"role"`
	Groups []string `json:"groups"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// CreateUserRequest creates a user directly (admin flow, bypassing
// invitations).
type CreateUserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`

	// Role is the role to grant: ADMIN, MANAGER or STAFF. Only an admin
	// caller may grant ADMIN.
	Role string `json:"role"`
}

// UpdateUserRequest mutates a user. Nil fields are left unchanged.
type UpdateUserRequest struct {
	Email     *string `json:"email,omitempty"`
	Password  *string `json:"password,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Role      *string `json:"role,omitempty"`
}

// CreateInvitationRequest invites an email address with a role.
type CreateInvitationRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// InvitationResponse is the public view of an invitation.
type InvitationResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`

	// Status is derived: pending, accepted, revoked or expired
	Status string `json:"status"`

	ExpiresAt string `json:"expires_at"`
	UsedAt    string `json:"used_at,omitempty"`
	RevokedAt string `json:"revoked_at,omitempty"`
	InvitedBy string `json:"invited_by,omitempty"`
	CreatedAt string `json:"created_at"`
}

// AcceptInvitationRequest redeems an invitation token and registers the
// account.
type AcceptInvitationRequest struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// ProductRequest creates or fully replaces a product.
type ProductRequest struct {
	Name       string `json:"name"`
	SKU        string `json:"sku"`
	PriceCents int64  `json:"price_cents"`
	Stock      int64  `json:"stock"`
	IsActive   bool   `json:"is_active"`
}

// ProductResponse is the public view of a catalog product.
type ProductResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	SKU        string `json:"sku"`
	PriceCents int64  `json:"price_cents"`
	Stock      int64  `json:"stock"`
	IsActive   bool   `json:"is_active"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// OrderItemRequest is one line of a new order.
type OrderItemRequest struct {
	ProductID string `json:"product_id"`
	Qty       int64  `json:"qty"`
}

// CreateOrderRequest places an order. UserID is optional; staff callers may
// order on behalf of another user, everyone else orders as themselves.
type CreateOrderRequest struct {
	UserID string             `json:"user_id,omitempty"`
	Items  []OrderItemRequest `json:"items"`
}

// UpdateOrderRequest mutates an order. Nil fields are left unchanged.
type UpdateOrderRequest struct {
	Status *string            `json:"status,omitempty"`
	Items  []OrderItemRequest `json:"items,omitempty"`
}

// OrderItemResponse is one line of an order. PriceCents is the price
// snapshot taken when the order was placed.
type OrderItemResponse struct {
	ID         string `json:"id"`
	ProductID  string `json:"product_id"`
	Qty        int64  `json:"qty"`
	PriceCents int64  `json:"price_cents"`
}

// OrderResponse is the public view of an order including its items.
type OrderResponse struct {
	ID         string              `json:"id"`
	UserID     string              `json:"user_id"`
	Status     string              `json:"status"`
	Items      []OrderItemResponse `json:"items"`
	TotalCents int64               `json:"total_cents"`
	CreatedAt  string              `json:"created_at"`
	UpdatedAt  string              `json:"updated_at"`
}

// HealthResponse is returned from the health probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports per-dependency readiness.
type HealthChecks struct {
	Database string `json:"database"`
}
