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

type ProductsHandler struct {
	ProductService *service.ProductService
}

// HandleList godoc
//
//	@Summary		List Products Endpoint
//	@Description	Lists catalog products, optionally filtered by a name/SKU search term and ordered by created_at, price or stock (prefix "-" for descending).
//	@Tags			Products
//	@Security		BearerAuth
//	@Produce		json
//	@Param			search		query		string	false	"Substring filter on name and SKU"
//	@Param			ordering	query		string	false	"Sort key"
//	@Success		200			{array}		shopsdk.ProductResponse	"products"
//	@Failure		401			{object}	shopsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/products [get].
func (h *ProductsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	q := r.URL.Query()

	products, err := h.ProductService.ListProducts(ctx, q.Get("search"), q.Get("ordering"))
	if err != nil {
		log.Error("failed to list products", "err", err)
		shopsdk.ErrServerError.WriteError(w)
		return
	}

	out := make([]shopsdk.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, renderProduct(p))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleCreate godoc
//
//	@Summary		Create Product Endpoint
//	@Description	Adds a product to the catalog. SKUs are unique and an active product must carry a non-zero price.
//	@Tags			Products
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		shopsdk.ProductRequest	true	"Product fields"
//	@Success		201		{object}	shopsdk.ProductResponse	"created product"
//	@Failure		400		{object}	shopsdk.ErrorResponse	"error, error_description"
//	@Failure		409		{object}	shopsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/products [post].
func (h *ProductsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req shopsdk.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shopsdk.ErrInvalidRequest.WithDescription("invalid JSON body").WriteError(w)
		return
	}

	product, err := h.ProductService.CreateProduct(ctx, service.ProductParams{
		Name:       req.Name,
		SKU:        req.SKU,
		PriceCents: req.PriceCents,
		Stock:      req.Stock,
		IsActive:   req.IsActive,
	})
	if err != nil {
		writeProductError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, renderProduct(product))
}

// HandleGet godoc
//
//	@Summary		Get Product Endpoint
//	@Description	Returns one product by id.
//	@Tags			Products
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Product id"
//	@Success		200	{object}	shopsdk.ProductResponse	"product"
//	@Failure		404	{object}	shopsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/products/{id} [get].
func (h *ProductsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	product, err := h.ProductService.GetProduct(ctx, r.PathValue("id"))
	if err != nil {
		writeProductError(w, log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, renderProduct(product))
}

// HandleUpdate godoc
//
//	@Summary		Update Product Endpoint
//	@Description	Replaces all product fields. Order items keep the price snapshot taken when the order was placed.
//	@Tags			Products
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Product id"
//	@Param			request	body		shopsdk.ProductRequest	true	"Product fields"
//	@Success		200		{object}	shopsdk.ProductResponse	"updated product"
//	@Failure		400		{object}	shopsdk.ErrorResponse	"error, error_description"
//	@Failure		404		{object}	shopsdk.ErrorResponse	"error, error_description"
//	@Failure		409		{object}	shopsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/products/{id} [put].
func (h *ProductsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req shopsdk.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shopsdk.ErrInvalidRequest.WithDescription("invalid JSON body").WriteError(w)
		return
	}

	product, err := h.ProductService.UpdateProduct(ctx, r.PathValue("id"), service.ProductParams{
		Name:       req.Name,
		SKU:        req.SKU,
		PriceCents: req.PriceCents,
		Stock:      req.Stock,
		IsActive:   req.IsActive,
	})
	if err != nil {
		writeProductError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, renderProduct(product))
}

// HandleDelete godoc
//
//	@Summary		Delete Product Endpoint
//	@Description	Removes a product. Deletion is blocked while order items still reference it.
//	@Tags			Products
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Product id"
//	@Success		204	"no content"
//	@Failure		404	{object}	shopsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/products/{id} [delete].
func (h *ProductsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := h.ProductService.DeleteProduct(ctx, r.PathValue("id")); err != nil {
		writeProductError(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeProductError maps product service errors onto API error responses.
func writeProductError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		shopsdk.ErrNotFound.WithDescription(err.Error()).WriteError(w)
	case errors.Is(err, service.ErrInvalidProduct),
		errors.Is(err, service.ErrActiveZeroPrice),
		errors.Is(err, service.ErrNegativeQuantity):
		shopsdk.ErrInvalidRequest.WithDescription(err.Error()).WriteError(w)
	case errors.Is(err, service.ErrSKUTaken),
		errors.Is(err, service.ErrProductInOrders):
		(&shopsdk.APIError{
			StatusCode:  http.StatusConflict,
			Code:        shopsdk.ErrorCodeConflict,
			Description: err.Error(),
		}).WriteError(w)
	default:
		log.Error("product operation failed", "err", err)
		shopsdk.ErrServerError.WriteError(w)
	}
}
