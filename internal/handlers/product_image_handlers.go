package handlers

import (
	"io"
	"net/http"

	"webstore/internal/common"
	"webstore/internal/middleware"
	"webstore/internal/models"
	"webstore/internal/services"

	"github.com/labstack/echo/v4"
)

// maxImageBytes caps the accepted upload size at 10 MiB.
const maxImageBytes = 10 << 20

// ProductImageHandlers serves image attachment endpoints.
type ProductImageHandlers struct {
	service services.ProductImageService
}

func NewProductImageHandlers(service services.ProductImageService) *ProductImageHandlers {
	return &ProductImageHandlers{service: service}
}

// List returns all images attached to a product.
//
//	@Summary	List product images
//	@Tags		product-image
//	@Produce	json
//	@Param		id	path		int	true	"product id"
//	@Success	200	{array}		models.ProductImage
//	@Failure	403	{object}	common.ErrorResponse
//	@Failure	404	{object}	common.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/product/{id}/image [get]
func (h *ProductImageHandlers) List(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := common.ParseID(c.Param("id"), "id")
	if err != nil {
		return common.RespondError(c, err)
	}
	requesterID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}

	images, err := h.service.List(ctx, productID, requesterID)
	if err != nil {
		return common.RespondError(c, err)
	}
	if images == nil {
		images = []*models.ProductImage{}
	}
	return c.JSON(http.StatusOK, images)
}

// Upload attaches an image to a product.
//
//	@Summary	Upload a product image
//	@Tags		product-image
//	@Accept		mpfd
//	@Produce	json
//	@Param		id		path		int		true	"product id"
//	@Param		file	formData	file	true	"image file"
//	@Success	201		{object}	models.ProductImage
//	@Failure	400		{object}	common.ErrorResponse
//	@Failure	403		{object}	common.ErrorResponse
//	@Failure	404		{object}	common.ErrorResponse
//	@Failure	502		{object}	common.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/product/{id}/image [post]
func (h *ProductImageHandlers) Upload(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := common.ParseID(c.Param("id"), "id")
	if err != nil {
		return common.RespondError(c, err)
	}
	requesterID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return common.RespondError(c, common.NewInvalidInput("file is required"))
	}
	if fileHeader.Size > maxImageBytes {
		return common.RespondError(c, common.NewInvalidInput("file exceeds the 10MB size limit"))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return common.RespondError(c, common.NewInvalidInput("failed to read uploaded file"))
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxImageBytes+1))
	if err != nil {
		return common.RespondError(c, common.NewInvalidInput("failed to read uploaded file"))
	}
	if len(data) > maxImageBytes {
		return common.RespondError(c, common.NewInvalidInput("file exceeds the 10MB size limit"))
	}

	image, err := h.service.Upload(ctx, productID, requesterID, fileHeader.Filename, data)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, image)
}

// Get returns a single product image.
//
//	@Summary	Get a product image
//	@Tags		product-image
//	@Produce	json
//	@Param		id		path		int	true	"product id"
//	@Param		imageId	path		int	true	"image id"
//	@Success	200		{object}	models.ProductImage
//	@Failure	403		{object}	common.ErrorResponse
//	@Failure	404		{object}	common.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/product/{id}/image/{imageId} [get]
func (h *ProductImageHandlers) Get(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := common.ParseID(c.Param("id"), "id")
	if err != nil {
		return common.RespondError(c, err)
	}
	imageID, err := common.ParseID(c.Param("imageId"), "imageId")
	if err != nil {
		return common.RespondError(c, err)
	}
	requesterID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}

	image, err := h.service.Get(ctx, productID, imageID, requesterID)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, image)
}

// Delete removes a product image.
//
//	@Summary	Delete a product image
//	@Tags		product-image
//	@Param		id		path	int	true	"product id"
//	@Param		imageId	path	int	true	"image id"
//	@Success	204
//	@Failure	403	{object}	common.ErrorResponse
//	@Failure	404	{object}	common.ErrorResponse
//	@Failure	502	{object}	common.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/product/{id}/image/{imageId} [delete]
func (h *ProductImageHandlers) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := common.ParseID(c.Param("id"), "id")
	if err != nil {
		return common.RespondError(c, err)
	}
	imageID, err := common.ParseID(c.Param("imageId"), "imageId")
	if err != nil {
		return common.RespondError(c, err)
	}
	requesterID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}

	if err := h.service.Delete(ctx, productID, imageID, requesterID); err != nil {
		return common.RespondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
