package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/shopcore/minishop/internal/shop/policy"
	"github.com/shopcore/minishop/internal/shop/service"
	"github.com/shopcore/minishop/internal/shop/store"
	"github.com/shopcore/minishop/pkg/httpx"
	"github.com/shopcore/minishop/pkg/jwtx"
	"github.com/shopcore/minishop/pkg/slogx"

	_ "github.com/shopcore/minishop/api/shop" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	AuthService    *service.AuthService
	UserService    *service.UserService
	InviteService  *service.InviteService
	ProductService *service.ProductService
	OrderService   *service.OrderService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerInvitations()
	r.registerProducts()
	r.registerOrders()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Minishop API
//	@version		0.1.0
//	@description	Small commerce backend with invitation-based onboarding and role-gated access.
//	@description
//	@description	Roles resolve from group memberships (ADMIN > MANAGER > STAFF); superusers are always ADMIN.
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// identified is the standard stack for authenticated routes: verify the JWT,
// load the caller's profile and role, then apply the policy gate for the
// resource, all under a per-user rate limit.
func (r *Router) identified(h http.Handler, resource policy.Resource, item bool, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		IdentityMiddleware(r.UserService),
		RequireAccess(resource, item),
		httpx.RateLimitByUser(limit),
	)
}

func (r *Router) registerAuth() {
	// POST /auth/login - strict rate limit by IP (authentication attempts)
	loginHandler := &LoginHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /auth/logout - authenticated, lenient
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(LogoutHandler(),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerUsers() {
	// GET /me - any authenticated caller, no policy gate
	r.Mux.Handle("GET /v1/me",
		httpx.Chain(MeHandler(),
			httpx.AuthnMiddleware(r.verifier),
			IdentityMiddleware(r.UserService),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	h := &UsersHandler{UserService: r.UserService}

	r.Mux.Handle("GET /v1/users",
		r.identified(http.HandlerFunc(h.HandleList), policy.Users, false, httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/users",
		r.identified(http.HandlerFunc(h.HandleCreate), policy.Users, false, httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/users/{id}",
		r.identified(http.HandlerFunc(h.HandleGet), policy.Users, true, httpx.ModerateLimit))
	r.Mux.Handle("PATCH /v1/users/{id}",
		r.identified(http.HandlerFunc(h.HandleUpdate), policy.Users, true, httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/users/{id}",
		r.identified(http.HandlerFunc(h.HandleDelete), policy.Users, true, httpx.ModerateLimit))
}

func (r *Router) registerInvitations() {
	h := &InvitationsHandler{InviteService: r.InviteService}

	// Invitation management rides the users policy: admins mutate, managers
	// may read the list.
	r.Mux.Handle("GET /v1/invitations",
		r.identified(http.HandlerFunc(h.HandleList), policy.Users, false, httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/invitations",
		r.identified(http.HandlerFunc(h.HandleCreate), policy.Users, false, httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/invitations/{id}/resend",
		r.identified(http.HandlerFunc(h.HandleResend), policy.Users, true, httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/invitations/{id}/revoke",
		r.identified(http.HandlerFunc(h.HandleRevoke), policy.Users, true, httpx.ModerateLimit))

	// POST /invitations/accept - strict rate limit by IP (public signup endpoint)
	acceptHandler := &InviteAcceptHandler{
		InviteService: r.InviteService,
		UserService:   r.UserService,
	}
	r.Mux.Handle("POST /v1/invitations/accept",
		httpx.Chain(acceptHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerProducts() {
	h := &ProductsHandler{ProductService: r.ProductService}

	r.Mux.Handle("GET /v1/products",
		r.identified(http.HandlerFunc(h.HandleList), policy.Products, false, httpx.LenientLimit))
	r.Mux.Handle("POST /v1/products",
		r.identified(http.HandlerFunc(h.HandleCreate), policy.Products, false, httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/products/{id}",
		r.identified(http.HandlerFunc(h.HandleGet), policy.Products, true, httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/products/{id}",
		r.identified(http.HandlerFunc(h.HandleUpdate), policy.Products, true, httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/products/{id}",
		r.identified(http.HandlerFunc(h.HandleDelete), policy.Products, true, httpx.ModerateLimit))
}

func (r *Router) registerOrders() {
	h := &OrdersHandler{OrderService: r.OrderService}

	r.Mux.Handle("GET /v1/orders",
		r.identified(http.HandlerFunc(h.HandleList), policy.Orders, false, httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/orders",
		r.identified(http.HandlerFunc(h.HandleCreate), policy.Orders, false, httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/orders/{id}",
		r.identified(http.HandlerFunc(h.HandleGet), policy.Orders, true, httpx.ModerateLimit))
	r.Mux.Handle("PATCH /v1/orders/{id}",
		r.identified(http.HandlerFunc(h.HandleUpdate), policy.Orders, true, httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/orders/{id}",
		r.identified(http.HandlerFunc(h.HandleDelete), policy.Orders, true, httpx.ModerateLimit))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
