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

type OrdersHandler struct {
	OrderService *service.OrderService
}

// HandleList godoc
//
//	@Summary		List Orders Endpoint
//	@Description	Lists all orders newest-first including their items and price snapshots.
//	@Tags			Orders
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		shopsdk.OrderResponse	"orders"
//	@Failure		401	{object}	shopsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/orders [get].
func (h *OrdersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	orders, err := h.OrderService.ListOrders(ctx)
	if err != nil {
		log.Error("failed to list orders", "err", err)
		shopsdk.ErrServerError.WriteError(w)
		return
	}

	out := make([]shopsdk.OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, renderOrder(o))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleCreate godoc
//
//	@Summary		Create Order Endpoint
//	@Description	Places an order. Item prices are snapshotted from the catalog at order time. A non-staff caller always orders as themselves; staff may order on behalf of another user via user_id.
//	@Tags			Orders
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		shopsdk.CreateOrderRequest	true	"Items, optional owner"
//	@Success		201		{object}	shopsdk.OrderResponse		"created order"
//	@Failure		400		{object}	shopsdk.ErrorResponse		"error, error_description"
//	@Failure		409		{object}	shopsdk.ErrorResponse		"error, error_description"
//	@Router			/v1/orders [post].
func (h *OrdersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	caller, ok := profileFromContext(ctx)
	if !ok {
		shopsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req shopsdk.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shopsdk.ErrInvalidRequest.WithDescription("invalid JSON body").WriteError(w)
		return
	}

	// Only staff may pick the order's owner; everyone else orders as
	// themselves regardless of what the body says.
	ownerID := caller.User.ID
	if req.UserID != "" && caller.User.IsStaff {
		ownerID = req.UserID
	}

	items := make([]service.OrderItemParams, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, service.OrderItemParams{ProductID: it.ProductID, Qty: it.Qty})
	}

	order, err := h.OrderService.CreateOrder(ctx, ownerID, items)
	if err != nil {
		writeOrderError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, renderOrder(order))
}

// HandleGet godoc
//
//	@Summary		Get Order Endpoint
//	@Description	Returns one order by id including its items.
//	@Tags			Orders
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Order id"
//	@Success		200	{object}	shopsdk.OrderResponse	"order"
//	@Failure		404	{object}	shopsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/orders/{id} [get].
func (h *OrdersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	order, err := h.OrderService.GetOrder(ctx, r.PathValue("id"))
	if err != nil {
		writeOrderError(w, log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, renderOrder(order))
}

// HandleUpdate godoc
//
//	@Summary		Update Order Endpoint
//	@Description	Mutates an order's status (pending, paid, cancelled) or replaces its items with fresh price snapshots. Omitted fields are left unchanged.
//	@Tags			Orders
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Order id"
//	@Param			request	body		shopsdk.UpdateOrderRequest	true	"Fields to change"
//	@Success		200		{object}	shopsdk.OrderResponse		"updated order"
//	@Failure		400		{object}	shopsdk.ErrorResponse		"error, error_description"
//	@Failure		404		{object}	shopsdk.ErrorResponse		"error, error_description"
//	@Router			/v1/orders/{id} [patch].
func (h *OrdersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req shopsdk.UpdateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shopsdk.ErrInvalidRequest.WithDescription("invalid JSON body").WriteError(w)
		return
	}

	orderID := r.PathValue("id")

	if req.Status != nil {
		if _, err := h.OrderService.UpdateOrderStatus(ctx, orderID, *req.Status); err != nil {
			writeOrderError(w, log, err)
			return
		}
	}

	if len(req.Items) > 0 {
		items := make([]service.OrderItemParams, 0, len(req.Items))
		for _, it := range req.Items {
			items = append(items, service.OrderItemParams{ProductID: it.ProductID, Qty: it.Qty})
		}
		if _, err := h.OrderService.ReplaceOrderItems(ctx, orderID, items); err != nil {
			writeOrderError(w, log, err)
			return
		}
	}

	order, err := h.OrderService.GetOrder(ctx, orderID)
	if err != nil {
		writeOrderError(w, log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, renderOrder(order))
}

// HandleDelete godoc
//
//	@Summary		Delete Order Endpoint
//	@Description	Removes an order and its items.
//	@Tags			Orders
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Order id"
//	@Success		204	"no content"
//	@Failure		404	{object}	shopsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/orders/{id} [delete].
func (h *OrdersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := h.OrderService.DeleteOrder(ctx, r.PathValue("id")); err != nil {
		writeOrderError(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeOrderError maps order service errors onto API error responses.
func writeOrderError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		shopsdk.ErrNotFound.WithDescription(err.Error()).WriteError(w)
	case errors.Is(err, service.ErrEmptyOrder),
		errors.Is(err, service.ErrInvalidQty),
		errors.Is(err, service.ErrInvalidOrderStatus),
		errors.Is(err, service.ErrUserNotFound):
		shopsdk.ErrInvalidRequest.WithDescription(err.Error()).WriteError(w)
	case errors.Is(err, service.ErrProductUnavailable):
		(&shopsdk.APIError{
			StatusCode:  http.StatusConflict,
			Code:        shopsdk.ErrorCodeConflict,
			Description: err.Error(),
		}).WriteError(w)
	default:
		log.Error("order operation failed", "err", err)
		shopsdk.ErrServerError.WriteError(w)
	}
}
