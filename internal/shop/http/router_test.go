package http_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopcore/minishop/internal/shop/domain"
	shophttp "github.com/shopcore/minishop/internal/shop/http"
	"github.com/shopcore/minishop/internal/shop/notify"
	"github.com/shopcore/minishop/internal/shop/service"
	"github.com/shopcore/minishop/internal/shop/store"
	"github.com/shopcore/minishop/internal/shop/store/drivers/sqlite"
	"github.com/shopcore/minishop/pkg/cryptox"
	"github.com/shopcore/minishop/pkg/idx"
	"github.com/shopcore/minishop/pkg/jwtx"
	"github.com/shopcore/minishop/pkg/shopsdk"
	"github.com/stretchr/testify/require"
)

// testServer runs the full router behind httptest and talks to it through
// the SDK, the same way an external consumer would.
type testServer struct {
	client *shopsdk.SDKClient
	store  store.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "shop-test.db")
	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens, err := jwtx.NewHS256([]byte("router-test-secret"), "minishop-test")
	require.NoError(t, err)

	router := shophttp.NewRouter(tokens, "test", st, logger)
	router.AuthService = &service.AuthService{
		Store:     st,
		Signer:    tokens,
		Issuer:    "minishop-test",
		AccessTTL: time.Hour,
	}
	router.UserService = &service.UserService{Store: st}
	router.InviteService = &service.InviteService{
		Store:   st,
		Sender:  &notify.LogSender{Logger: logger},
		BaseURL: "http://shop.test",
	}
	router.ProductService = &service.ProductService{Store: st}
	router.OrderService = &service.OrderService{Store: st}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testServer{client: shopsdk.NewSDKClient(srv.URL), store: st}
}

// seedAccount inserts a user with password "pw" in the group backing role.
func (ts *testServer) seedAccount(t *testing.T, username string, role domain.Role) domain.User {
	t.Helper()
	ctx := context.Background()

	hash, err := cryptox.HashPassword("pw")
	require.NoError(t, err)

	u := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		IsStaff:      role.IsStaffRole(),
	}
	require.NoError(t, ts.store.Users().CreateUser(ctx, u))
	require.NoError(t, ts.store.Groups().AssignUserToGroup(ctx, u.ID, role.GroupName()))
	return u
}

func (ts *testServer) login(t *testing.T, username string) *shopsdk.Session {
	t.Helper()
	sess, err := ts.client.Login(context.Background(), username, "pw")
	require.NoError(t, err)
	return sess
}

func requireAPIError(t *testing.T, err error, status int, code string) *shopsdk.APIError {
	t.Helper()
	var apiErr *shopsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.StatusCode)
	require.Equal(t, code, apiErr.Code)
	return apiErr
}

func TestRouter_LoginAndMe(t *testing.T) {
	ctx := context.Background()
	ts := newTestServer(t)
	ts.seedAccount(t, "mona", domain.RoleManager)

	sess := ts.login(t, "mona")
	require.NotEmpty(t, sess.AccessToken())

	me, err := sess.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "mona", me.Username)
	require.Equal(t, "MANAGER", me.Role)
	require.Contains(t, me.Groups, "manager")

	_, err = ts.client.Login(ctx, "mona", "wrong")
	requireAPIError(t, err, http.StatusUnauthorized, shopsdk.ErrorCodeInvalidGrant)
}

func TestRouter_RejectsBadTokens(t *testing.T) {
	ctx := context.Background()
	ts := newTestServer(t)

	_, err := ts.client.NewSessionFromToken("not-a-jwt").Me(ctx)
	requireAPIError(t, err, http.StatusUnauthorized, shopsdk.ErrorCodeInvalidToken)

	_, err = ts.client.NewSessionFromToken("").ListUsers(ctx, "")
	requireAPIError(t, err, http.StatusUnauthorized, shopsdk.ErrorCodeInvalidToken)
}

func TestRouter_PolicyGates(t *testing.T) {
	ctx := context.Background()
	ts := newTestServer(t)
	ts.seedAccount(t, "root", domain.RoleAdmin)
	ts.seedAccount(t, "mike", domain.RoleManager)
	ts.seedAccount(t, "sam", domain.RoleStaff)

	admin := ts.login(t, "root")
	manager := ts.login(t, "mike")
	staff := ts.login(t, "sam")

	t.Run("manager reads but cannot mutate users", func(t *testing.T) {
		_, err := manager.ListUsers(ctx, "")
		require.NoError(t, err)

		_, err = manager.CreateUser(ctx, shopsdk.CreateUserRequest{
			Username: "intruder",
			Email:    "intruder@example.com",
			Password: "pw",
			Role:     "staff",
		})
		requireAPIError(t, err, http.StatusForbidden, shopsdk.ErrorCodeForbidden)
	})

	t.Run("staff cannot write products, manager can", func(t *testing.T) {
		req := shopsdk.ProductRequest{Name: "Beans", SKU: "BEAN-001", PriceCents: 1450, Stock: 10, IsActive: true}

		_, err := staff.CreateProduct(ctx, req)
		requireAPIError(t, err, http.StatusForbidden, shopsdk.ErrorCodeForbidden)

		_, err = manager.CreateProduct(ctx, req)
		require.NoError(t, err)
	})

	t.Run("staff reads a single order but cannot mutate it", func(t *testing.T) {
		products, err := staff.ListProducts(ctx, "", "")
		require.NoError(t, err)
		require.Len(t, products, 1)

		order, err := admin.CreateOrder(ctx, shopsdk.CreateOrderRequest{
			Items: []shopsdk.OrderItemRequest{{ProductID: products[0].ID, Qty: 2}},
		})
		require.NoError(t, err)

		got, err := staff.GetOrder(ctx, order.ID)
		require.NoError(t, err)
		require.Equal(t, order.ID, got.ID)

		paid := "paid"
		_, err = staff.UpdateOrder(ctx, order.ID, shopsdk.UpdateOrderRequest{Status: &paid})
		requireAPIError(t, err, http.StatusForbidden, shopsdk.ErrorCodeForbidden)

		// The collection route is stricter than the item route: staff may
		// not place orders at all.
		_, err = staff.CreateOrder(ctx, shopsdk.CreateOrderRequest{
			Items: []shopsdk.OrderItemRequest{{ProductID: products[0].ID, Qty: 1}},
		})
		requireAPIError(t, err, http.StatusForbidden, shopsdk.ErrorCodeForbidden)
	})
}

func TestRouter_AcceptTokenFailuresIndistinguishable(t *testing.T) {
	ctx := context.Background()
	ts := newTestServer(t)
	ts.seedAccount(t, "root", domain.RoleAdmin)
	admin := ts.login(t, "root")

	created, err := admin.CreateInvitation(ctx, shopsdk.CreateInvitationRequest{
		Email: "ghost@example.com",
		Role:  "staff",
	})
	require.NoError(t, err)

	// The API never exposes the token; pull it from storage the way the
	// emailed link would carry it.
	inv, err := ts.store.Invitations().GetInvitationByID(ctx, created.ID)
	require.NoError(t, err)
	require.NoError(t, admin.RevokeInvitation(ctx, created.ID))

	_, errRevoked := ts.client.AcceptInvitation(ctx, shopsdk.AcceptInvitationRequest{
		Token: inv.Token, Username: "ghost", Password: "pw",
	})
	_, errUnknown := ts.client.AcceptInvitation(ctx, shopsdk.AcceptInvitationRequest{
		Token: "never-issued-token", Username: "ghost", Password: "pw",
	})

	// A revoked token and a token that never existed must be impossible to
	// tell apart from the outside.
	revoked := requireAPIError(t, errRevoked, http.StatusBadRequest, shopsdk.ErrorCodeInvalidRequest)
	unknown := requireAPIError(t, errUnknown, http.StatusBadRequest, shopsdk.ErrorCodeInvalidRequest)
	require.Equal(t, revoked.Description, unknown.Description)
}

func TestRouter_InvitationOnboardingFlow(t *testing.T) {
	ctx := context.Background()
	ts := newTestServer(t)
	ts.seedAccount(t, "root", domain.RoleAdmin)
	admin := ts.login(t, "root")

	created, err := admin.CreateInvitation(ctx, shopsdk.CreateInvitationRequest{
		Email: "newhire@example.com",
		Role:  "manager",
	})
	require.NoError(t, err)
	require.Equal(t, "pending", created.Status)

	inv, err := ts.store.Invitations().GetInvitationByID(ctx, created.ID)
	require.NoError(t, err)

	registered, err := ts.client.AcceptInvitation(ctx, shopsdk.AcceptInvitationRequest{
		Token: inv.Token, Username: "newhire", Password: "pw",
	})
	require.NoError(t, err)
	require.Equal(t, "MANAGER", registered.Role)

	sess, err := ts.client.Login(ctx, "newhire", "pw")
	require.NoError(t, err)
	me, err := sess.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "newhire@example.com", me.Email)
	require.Equal(t, "MANAGER", me.Role)

	listed, err := admin.ListInvitations(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, "accepted", listed[0].Status)

	err = admin.ResendInvitation(ctx, created.ID)
	requireAPIError(t, err, http.StatusConflict, shopsdk.ErrorCodeConflict)

	err = admin.RevokeInvitation(ctx, idx.New().String())
	apiErr := requireAPIError(t, err, http.StatusNotFound, shopsdk.ErrorCodeNotFound)
	require.Equal(t, "invitation not found", apiErr.Description)
}
