package service_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopcore/minishop/internal/shop/domain"
	"github.com/shopcore/minishop/internal/shop/store"
	"github.com/shopcore/minishop/internal/shop/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

// newTestStore opens a throwaway sqlite database with migrations applied.
func newTestStore(t *testing.T) store.Store {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "shop-test.db")
	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

// recordingSender captures notifications instead of delivering them.
type recordingSender struct {
	mu   sync.Mutex
	sent []sentMessage
}

type sentMessage struct {
	Recipient string
	Subject   string
	Body      string
}

func (s *recordingSender) Send(_ context.Context, recipient, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentMessage{Recipient: recipient, Subject: subject, Body: body})
	return nil
}

func (s *recordingSender) messages() []sentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sentMessage(nil), s.sent...)
}

// seedUser inserts a user directly through the store.
func seedUser(t *testing.T, st store.Store, u domain.User, groups ...string) domain.User {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, st.Users().CreateUser(ctx, u))
	for _, g := range groups {
		require.NoError(t, st.Groups().AssignUserToGroup(ctx, u.ID, g))
	}
	return u
}

// seedProduct inserts a product directly through the store.
func seedProduct(t *testing.T, st store.Store, p domain.Product) domain.Product {
	t.Helper()
	require.NoError(t, st.Products().CreateProduct(context.Background(), p))
	return p
}

// pastTime is a convenience for expiry timestamps already behind us.
func pastTime(d time.Duration) time.Time {
	return time.Now().UTC().Add(-d)
}
