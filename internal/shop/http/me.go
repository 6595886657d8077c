package http

import (
	"net/http"

	"github.com/shopcore/minishop/pkg/httpx"
	"github.com/shopcore/minishop/pkg/shopsdk"
)

// MeHandler godoc
//
//	@Summary		Current User Endpoint
//	@Description	Returns the authenticated caller's profile including group memberships and the resolved effective role.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	shopsdk.UserResponse	"profile with role and groups"
//	@Failure		401	{object}	shopsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/me [get].
func MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, ok := profileFromContext(r.Context())
		if !ok {
			shopsdk.ErrInvalidToken.WriteError(w)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, renderProfile(profile))
	}
}
