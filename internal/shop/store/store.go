package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopcore/minishop/internal/shop/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
	ErrReferenced    = errors.New("store: row is referenced by other rows")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users
	Groups() Groups
	Invitations() Invitations
	Products() Products
	Orders() Orders

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. This is the
	// recommended way to run multi-step writes.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used during login and username-availability checks.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// GetUserByEmail backs the "email already registered" checks.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// ListUsers returns users newest-first. A non-empty search filters by
	// substring on username, email and names.
	ListUsers(ctx context.Context, search string) ([]domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateUser mutates profile fields, is_staff and the password hash, and
	// bumps updated_at.
	UpdateUser(ctx context.Context, u domain.User) error

	// DeleteUser removes the user; membership rows cascade per schema.
	DeleteUser(ctx context.Context, userID string) error

	// IsEmpty returns true if there are no users (bootstrap check).
	IsEmpty(ctx context.Context) (bool, error)
}

type Groups interface {
	// GroupNamesForUser returns the names of every group the user belongs to.
	GroupNamesForUser(ctx context.Context, userID string) ([]string, error)

	// AssignUserToGroup adds the user to the named group, creating the group
	// row on first use. Re-assignment is a no-op.
	AssignUserToGroup(ctx context.Context, userID, name string) error

	// ReplaceUserGroups clears the user's memberships and assigns exactly the
	// named groups.
	ReplaceUserGroups(ctx context.Context, userID string, names []string) error
}

type Invitations interface {
	// CreateInvitation writes a new invitation. The token column carries a
	// unique index; a duplicate insert surfaces ErrAlreadyExists.
	CreateInvitation(ctx context.Context, inv domain.Invitation) error

	// GetInvitationByID returns an invitation by id.
	GetInvitationByID(ctx context.Context, id string) (domain.Invitation, error)

	// GetInvitationByToken looks up an invitation by its opaque token.
	GetInvitationByToken(ctx context.Context, token string) (domain.Invitation, error)

	// ListInvitations returns all invitations newest-first.
	ListInvitations(ctx context.Context) ([]domain.Invitation, error)

	// HasActiveInvitation reports whether an unused, unrevoked invitation
	// with expiry after now exists for the email.
	HasActiveInvitation(ctx context.Context, email string, now time.Time) (bool, error)

	// MarkInvitationUsed sets used_at (transaction-friendly; the service
	// guards the single-use invariant).
	MarkInvitationUsed(ctx context.Context, id string, usedAt time.Time) error

	// MarkInvitationRevoked sets revoked_at.
	MarkInvitationRevoked(ctx context.Context, id string, revokedAt time.Time) error

	// DeleteInvitationsExpiredBefore purges pending invitations whose expiry
	// passed before the cutoff. Used/revoked rows are kept as history.
	DeleteInvitationsExpiredBefore(ctx context.Context, cutoff time.Time) error
}

type Products interface {
	GetProductByID(ctx context.Context, id string) (domain.Product, error)

	GetProductBySKU(ctx context.Context, sku string) (domain.Product, error)

	// ListProducts returns products filtered by an optional name/SKU search
	// and sorted by the given ordering ("created_at", "price", "stock",
	// prefix "-" for descending; default newest-first).
	ListProducts(ctx context.Context, search, ordering string) ([]domain.Product, error)

	CreateProduct(ctx context.Context, p domain.Product) error

	UpdateProduct(ctx context.Context, p domain.Product) error

	DeleteProduct(ctx context.Context, id string) error
}

type Orders interface {
	// CreateOrder inserts the order and its items.
	CreateOrder(ctx context.Context, o domain.Order) error

	// GetOrderByID returns the order including its items.
	GetOrderByID(ctx context.Context, id string) (domain.Order, error)

	// ListOrders returns all orders (items included) newest-first.
	ListOrders(ctx context.Context) ([]domain.Order, error)

	// UpdateOrderStatus sets the status and bumps updated_at.
	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error

	// ReplaceOrderItems deletes the order's items and inserts the given set.
	ReplaceOrderItems(ctx context.Context, orderID string, items []domain.OrderItem) error

	DeleteOrder(ctx context.Context, id string) error
}
