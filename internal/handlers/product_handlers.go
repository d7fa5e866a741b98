package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"webstore/internal/common"
	"webstore/internal/middleware"
	"webstore/internal/models"
	"webstore/internal/services"

	"github.com/labstack/echo/v4"
)

// ProductHandlers serves the product CRUD surface.
type ProductHandlers struct {
	service         services.ProductService
	emptyUpdateNoOp bool
}

func NewProductHandlers(service services.ProductService, emptyUpdateNoOp bool) *ProductHandlers {
	return &ProductHandlers{service: service, emptyUpdateNoOp: emptyUpdateNoOp}
}

// Create adds a product owned by the caller.
//
//	@Summary	Create a product
//	@Tags		product
//	@Accept		json
//	@Produce	json
//	@Param		request	body		models.ProductInput	true	"product details"
//	@Success	201		{object}	models.Product
//	@Failure	400		{object}	common.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/product [post]
func (h *ProductHandlers) Create(c echo.Context) error {
	ctx := c.Request().Context()

	requesterID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}

	var input models.ProductInput
	if err := c.Bind(&input); err != nil {
		return common.RespondError(c, common.NewInvalidInput("invalid request body"))
	}

	product, err := h.service.Create(ctx, requesterID, &input)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, product)
}

// List returns the caller's products.
//
//	@Summary	List own products
//	@Tags		product
//	@Produce	json
//	@Param		limit	query		int	false	"page size"
//	@Param		offset	query		int	false	"page offset"
//	@Success	200		{array}		models.Product
//	@Security	BearerAuth
//	@Router		/v1/product [get]
func (h *ProductHandlers) List(c echo.Context) error {
	ctx := c.Request().Context()

	requesterID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	products, err := h.service.List(ctx, requesterID, limit, offset)
	if err != nil {
		return common.RespondError(c, err)
	}
	if products == nil {
		products = []*models.Product{}
	}
	return c.JSON(http.StatusOK, products)
}

// Get returns a single product.
//
//	@Summary	Get a product
//	@Tags		product
//	@Produce	json
//	@Param		id	path		int	true	"product id"
//	@Success	200	{object}	models.Product
//	@Failure	404	{object}	common.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/product/{id} [get]
func (h *ProductHandlers) Get(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ParseID(c.Param("id"), "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	product, err := h.service.GetByID(ctx, id)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// Update partially updates a product.
//
//	@Summary	Update a product
//	@Tags		product
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int					true	"product id"
//	@Param		request	body		models.ProductPatch	true	"fields to change"
//	@Success	200		{object}	models.Product
//	@Failure	400		{object}	common.ErrorResponse
//	@Failure	403		{object}	common.ErrorResponse
//	@Failure	404		{object}	common.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/product/{id} [patch]
func (h *ProductHandlers) Update(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ParseID(c.Param("id"), "id")
	if err != nil {
		return common.RespondError(c, err)
	}
	requesterID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}

	var patch models.ProductPatch
	if err := c.Bind(&patch); err != nil {
		return common.RespondError(c, common.NewInvalidInput("invalid request body"))
	}

	product, err := h.service.Update(ctx, id, requesterID, &patch)
	if err != nil {
		if errors.Is(err, services.ErrNoUpdate) {
			if h.emptyUpdateNoOp {
				return c.NoContent(http.StatusNoContent)
			}
			return common.RespondError(c, common.NewInvalidInput("request body contains no fields to update"))
		}
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// Replace fully replaces a product.
//
//	@Summary	Replace a product
//	@Tags		product
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int					true	"product id"
//	@Param		request	body		models.ProductInput	true	"replacement product"
//	@Success	200		{object}	models.Product
//	@Failure	400		{object}	common.ErrorResponse
//	@Failure	403		{object}	common.ErrorResponse
//	@Failure	404		{object}	common.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/product/{id} [put]
func (h *ProductHandlers) Replace(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ParseID(c.Param("id"), "id")
	if err != nil {
		return common.RespondError(c, err)
	}
	requesterID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}

	var input models.ProductInput
	if err := c.Bind(&input); err != nil {
		return common.RespondError(c, common.NewInvalidInput("invalid request body"))
	}

	product, err := h.service.Replace(ctx, id, requesterID, &input)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// Delete removes a product and its images.
//
//	@Summary	Delete a product
//	@Tags		product
//	@Param		id	path	int	true	"product id"
//	@Success	204
//	@Failure	403	{object}	common.ErrorResponse
//	@Failure	404	{object}	common.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/product/{id} [delete]
func (h *ProductHandlers) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ParseID(c.Param("id"), "id")
	if err != nil {
		return common.RespondError(c, err)
	}
	requesterID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}

	if err := h.service.Delete(ctx, id, requesterID); err != nil {
		return common.RespondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
