package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopcore/minishop/internal/shop/service"
	"github.com/shopcore/minishop/pkg/httpx"
	"github.com/shopcore/minishop/pkg/shopsdk"
	"github.com/shopcore/minishop/pkg/slogx"
)

type InviteAcceptHandler struct {
	InviteService *service.InviteService
	UserService   *service.UserService
}

// ServeHTTP godoc
//
//	@Summary		Accept Invitation Endpoint
//	@Description	Redeems an invitation token and registers the account. Public endpoint; an unknown token gets the same error as a malformed one.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		shopsdk.AcceptInvitationRequest	true	"Token plus chosen credentials"
//	@Success		201		{object}	shopsdk.UserResponse			"registered account"
//	@Failure		400		{object}	shopsdk.ErrorResponse			"error, error_description"
//	@Failure		409		{object}	shopsdk.ErrorResponse			"error, error_description"
//	@Router			/v1/invitations/accept [post].
func (h *InviteAcceptHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req shopsdk.AcceptInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shopsdk.ErrInvalidRequest.WithDescription("invalid JSON body").WriteError(w)
		return
	}

	u, err := h.InviteService.AcceptInvitation(ctx, req.Token, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInviteNotFound), errors.Is(err, service.ErrInviteInactive):
			// Bad and dead tokens both read as a 400 here so the endpoint
			// does not confirm which tokens ever existed.
			shopsdk.ErrInvalidRequest.WithDescription(service.ErrInviteNotFound.Error()).WriteError(w)
		default:
			writeInviteError(w, log, err)
		}
		return
	}

	profile, err := h.UserService.GetProfile(ctx, u.ID)
	if err != nil {
		log.Error("failed to load registered profile", "user_id", u.ID, "err", err)
		shopsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, renderProfile(profile))
}
