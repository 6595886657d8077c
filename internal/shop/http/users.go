package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shopcore/minishop/internal/shop/service"
	"github.com/shopcore/minishop/pkg/httpx"
	"github.com/shopcore/minishop/pkg/shopsdk"
	"github.com/shopcore/minishop/pkg/slogx"
)

type UsersHandler struct {
	UserService *service.UserService
}

// HandleList godoc
//
//	@Summary		List Users Endpoint
//	@Description	Lists user accounts newest-first, optionally filtered by a search term over username, email and names.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Param			search	query		string	false	"Substring filter"
//	@Success		200		{array}		shopsdk.UserResponse	"accounts"
//	@Failure		401		{object}	shopsdk.ErrorResponse	"error, error_description"
//	@Failure		403		{object}	shopsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/users [get].
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	profiles, err := h.UserService.ListUsers(ctx, r.URL.Query().Get("search"))
	if err != nil {
		log.Error("failed to list users", "err", err)
		shopsdk.ErrServerError.WriteError(w)
		return
	}

	out := make([]shopsdk.UserResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, renderProfile(p))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleCreate godoc
//
//	@Summary		Create User Endpoint
//	@Description	Creates an account directly, bypassing the invitation flow. Only an admin caller may grant the ADMIN role.
//	@Tags			Users
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		shopsdk.CreateUserRequest	true	"Account fields"
//	@Success		201		{object}	shopsdk.UserResponse		"created account"
//	@Failure		400		{object}	shopsdk.ErrorResponse		"error, error_description"
//	@Failure		403		{object}	shopsdk.ErrorResponse		"error, error_description"
//	@Failure		409		{object}	shopsdk.ErrorResponse		"error, error_description"
//	@Router			/v1/users [post].
func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	actor, ok := profileFromContext(ctx)
	if !ok {
		shopsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req shopsdk.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shopsdk.ErrInvalidRequest.WithDescription("invalid JSON body").WriteError(w)
		return
	}

	profile, err := h.UserService.CreateUser(ctx, service.CreateUserParams{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
		Role:      req.Role,
	}, actor.Role)
	if err != nil {
		writeUserError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, renderProfile(profile))
}

// HandleGet godoc
//
//	@Summary		Get User Endpoint
//	@Description	Returns one account by id with its resolved role.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"User id"
//	@Success		200	{object}	shopsdk.UserResponse	"account"
//	@Failure		404	{object}	shopsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/users/{id} [get].
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	profile, err := h.UserService.GetProfile(ctx, r.PathValue("id"))
	if err != nil {
		writeUserError(w, log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, renderProfile(profile))
}

// HandleUpdate godoc
//
//	@Summary		Update User Endpoint
//	@Description	Applies partial updates to an account. Omitted fields are left unchanged. Only an admin caller may grant the ADMIN role.
//	@Tags			Users
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"User id"
//	@Param			request	body		shopsdk.UpdateUserRequest	true	"Fields to change"
//	@Success		200		{object}	shopsdk.UserResponse		"updated account"
//	@Failure		400		{object}	shopsdk.ErrorResponse		"error, error_description"
//	@Failure		403		{object}	shopsdk.ErrorResponse		"error, error_description"
//	@Failure		404		{object}	shopsdk.ErrorResponse		"error, error_description"
//	@Router			/v1/users/{id} [patch].
func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	actor, ok := profileFromContext(ctx)
	if !ok {
		shopsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req shopsdk.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shopsdk.ErrInvalidRequest.WithDescription("invalid JSON body").WriteError(w)
		return
	}

	profile, err := h.UserService.UpdateUser(ctx, r.PathValue("id"), service.UpdateUserParams{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
		Role:      req.Role,
	}, actor.Role)
	if err != nil {
		writeUserError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, renderProfile(profile))
}

// HandleDelete godoc
//
//	@Summary		Delete User Endpoint
//	@Description	Removes an account. Group memberships cascade.
//	@Tags			Users
//	@Security		BearerAuth
//	@Param			id	path	string	true	"User id"
//	@Success		204	"no content"
//	@Failure		404	{object}	shopsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/users/{id} [delete].
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := h.UserService.DeleteUser(ctx, r.PathValue("id")); err != nil {
		writeUserError(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeUserError maps user service errors onto API error responses.
func writeUserError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		shopsdk.ErrNotFound.WithDescription("user not found").WriteError(w)
	case errors.Is(err, service.ErrMissingFields), errors.Is(err, service.ErrInvalidEmail), errors.Is(err, service.ErrInvalidRole):
		shopsdk.ErrInvalidRequest.WithDescription(err.Error()).WriteError(w)
	case errors.Is(err, service.ErrOnlyAdminSetAdmin):
		shopsdk.ErrForbidden.WithDescription(err.Error()).WriteError(w)
	case errors.Is(err, service.ErrUsernameTaken), errors.Is(err, service.ErrEmailRegistered):
		(&shopsdk.APIError{
			StatusCode:  http.StatusConflict,
			Code:        shopsdk.ErrorCodeConflict,
			Description: err.Error(),
		}).WriteError(w)
	default:
		log.Error("user operation failed", "err", err)
		shopsdk.ErrServerError.WriteError(w)
	}
}
