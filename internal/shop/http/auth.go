package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/shopcore/minishop/internal/shop/service"
	"github.com/shopcore/minishop/pkg/httpx"
	"github.com/shopcore/minishop/pkg/shopsdk"
	"github.com/shopcore/minishop/pkg/slogx"
)

type LoginHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Login Endpoint
//	@Description	Authenticates with username and password and returns a bearer access token plus the caller's profile.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		shopsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	shopsdk.LoginResponse	"access_token, token_type, expires_in, user"
//	@Failure		400		{object}	shopsdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	shopsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req shopsdk.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shopsdk.ErrInvalidRequest.WithDescription("invalid JSON body").WriteError(w)
		return
	}
	if req.Username == "" || req.Password == "" {
		shopsdk.ErrInvalidRequest.WithDescription("username and password are required").WriteError(w)
		return
	}

	sess, err := h.AuthService.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			shopsdk.ErrInvalidGrant.WriteError(w)
			return
		}
		log.Error("login failed", "err", err)
		shopsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, shopsdk.LoginResponse{
		AccessToken: sess.Token,
		TokenType:   "Bearer",
		ExpiresIn:   int(time.Until(sess.ExpiresAt).Seconds()),
		User:        renderProfile(sess.Profile),
	})
}

// LogoutHandler godoc
//
//	@Summary		Logout Endpoint
//	@Description	Ends the session. Access tokens are short-lived JWTs, so logout is client-driven: the server acknowledges and the client discards the token.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Success		204	"no content"
//	@Failure		401	{object}	shopsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/auth/logout [post].
func LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := slogx.FromContext(r.Context())
		log.Info("user logged out", "user_id", httpx.UserIDFromContext(r.Context()))
		w.WriteHeader(http.StatusNoContent)
	}
}
