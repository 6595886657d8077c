package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopcore/minishop/internal/shop/service"
	"github.com/shopcore/minishop/pkg/httpx"
	"github.com/shopcore/minishop/pkg/shopsdk"
	"github.com/shopcore/minishop/pkg/slogx"
)

type InvitationsHandler struct {
	InviteService *service.InviteService
}

// HandleList godoc
//
//	@Summary		List Invitations Endpoint
//	@Description	Lists all invitations newest-first with their derived status (pending, accepted, revoked or expired).
//	@Tags			Invitations
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		shopsdk.InvitationResponse	"invitations"
//	@Failure		401	{object}	shopsdk.ErrorResponse		"error, error_description"
//	@Failure		403	{object}	shopsdk.ErrorResponse		"error, error_description"
//	@Router			/v1/invitations [get].
func (h *InvitationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	now := time.Now().UTC()

	invs, err := h.InviteService.ListInvitations(ctx)
	if err != nil {
		log.Error("failed to list invitations", "err", err)
		shopsdk.ErrServerError.WriteError(w)
		return
	}

	out := make([]shopsdk.InvitationResponse, 0, len(invs))
	for _, inv := range invs {
		out = append(out, renderInvitation(inv, now))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleCreate godoc
//
//	@Summary		Create Invitation Endpoint
//	@Description	Invites an email address with a role. The invitee receives a link carrying a single-use token valid for 72 hours.
//	@Tags			Invitations
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		shopsdk.CreateInvitationRequest	true	"Email and role"
//	@Success		201		{object}	shopsdk.InvitationResponse		"created invitation"
//	@Failure		400		{object}	shopsdk.ErrorResponse			"error, error_description"
//	@Failure		409		{object}	shopsdk.ErrorResponse			"error, error_description"
//	@Router			/v1/invitations [post].
func (h *InvitationsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req shopsdk.CreateInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shopsdk.ErrInvalidRequest.WithDescription("invalid JSON body").WriteError(w)
		return
	}

	inv, err := h.InviteService.CreateInvitation(ctx, req.Email, req.Role, httpx.UserIDFromContext(ctx))
	if err != nil {
		writeInviteError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, renderInvitation(inv, time.Now().UTC()))
}

// HandleResend godoc
//
//	@Summary		Resend Invitation Endpoint
//	@Description	Re-sends the original invitation link. The token and expiry are unchanged. Only active invitations can be re-sent.
//	@Tags			Invitations
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Invitation id"
//	@Success		204	"no content"
//	@Failure		404	{object}	shopsdk.ErrorResponse	"error, error_description"
//	@Failure		409	{object}	shopsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/invitations/{id}/resend [post].
func (h *InvitationsHandler) HandleResend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := h.InviteService.ResendInvitation(ctx, r.PathValue("id")); err != nil {
		writeInviteError(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRevoke godoc
//
//	@Summary		Revoke Invitation Endpoint
//	@Description	Marks an invitation revoked so its token can never be redeemed. Revoking an expired-but-unused invitation succeeds; an already-accepted one cannot be revoked.
//	@Tags			Invitations
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Invitation id"
//	@Success		204	"no content"
//	@Failure		404	{object}	shopsdk.ErrorResponse	"error, error_description"
//	@Failure		409	{object}	shopsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/invitations/{id}/revoke [post].
func (h *InvitationsHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := h.InviteService.RevokeInvitation(ctx, r.PathValue("id")); err != nil {
		writeInviteError(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeInviteError maps invitation service errors onto API error responses.
func writeInviteError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrInviteNotFound):
		// Admin routes look invitations up by id, so the token-centric
		// service message would be misleading here.
		shopsdk.ErrNotFound.WithDescription("invitation not found").WriteError(w)
	case errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrMissingFields):
		shopsdk.ErrInvalidRequest.WithDescription(err.Error()).WriteError(w)
	case errors.Is(err, service.ErrActiveInviteExists),
		errors.Is(err, service.ErrEmailRegistered),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrInviteInactive),
		errors.Is(err, service.ErrInviteAlreadyRevoked),
		errors.Is(err, service.ErrInviteAlreadyAccepted):
		(&shopsdk.APIError{
			StatusCode:  http.StatusConflict,
			Code:        shopsdk.ErrorCodeConflict,
			Description: err.Error(),
		}).WriteError(w)
	default:
		log.Error("invitation operation failed", "err", err)
		shopsdk.ErrServerError.WriteError(w)
	}
}
