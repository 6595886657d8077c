package http

import (
	"context"
	"net/http"

	"github.com/shopcore/minishop/internal/shop/policy"
	"github.com/shopcore/minishop/internal/shop/service"
	"github.com/shopcore/minishop/pkg/httpx"
	"github.com/shopcore/minishop/pkg/shopsdk"
	"github.com/shopcore/minishop/pkg/slogx"
)

type profileCtxKey struct{}

// profileFromContext returns the caller's profile placed there by the
// identity middleware.
func profileFromContext(ctx context.Context) (service.Profile, bool) {
	p, ok := ctx.Value(profileCtxKey{}).(service.Profile)
	return p, ok
}

// IdentityMiddleware loads the authenticated caller's account, group
// memberships and effective role and attaches them to the request context.
// It must run after httpx.AuthnMiddleware. A token whose subject no longer
// exists is treated as invalid.
func IdentityMiddleware(users *service.UserService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			userID := httpx.UserIDFromContext(ctx)
			if userID == "" {
				shopsdk.ErrInvalidToken.WriteError(w)
				return
			}

			profile, err := users.GetProfile(ctx, userID)
			if err != nil {
				log.Warn("failed to load caller profile", "user_id", userID, "err", err)
				shopsdk.ErrInvalidToken.WriteError(w)
				return
			}

			ctx = context.WithValue(ctx, profileCtxKey{}, profile)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAccess gates a route on the role policy. item marks single-object
// routes (e.g. /v1/orders/{id}) as opposed to collection routes; the
// distinction only matters for orders.
func RequireAccess(resource policy.Resource, item bool) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profile, ok := profileFromContext(r.Context())
			if !ok {
				shopsdk.ErrInvalidToken.WriteError(w)
				return
			}

			if !policy.Decide(profile.Role, resource, policy.ClassifyMethod(r.Method), item) {
				shopsdk.ErrForbidden.WriteError(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
