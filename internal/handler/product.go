package handler

import (
	"net/http"
	"strconv"

	"artmarket-storefront/internal/client"
	"artmarket-storefront/internal/middleware"
	"artmarket-storefront/internal/service"

	"github.com/labstack/echo/v4"
)

type ProductHandler struct {
	catalogService service.CatalogService
}

func NewProductHandler(catalogService service.CatalogService) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
	}
}

func (h *ProductHandler) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	q := client.ProductQuery{Keyword: c.QueryParam("keyword")}
	if raw := c.QueryParam("pageNumber"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid pageNumber")
		}
		q.Page = page
	}

	page, err := h.catalogService.List(ctx, q)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, page)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	product, err := h.catalogService.Get(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req client.ProductInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	product, err := h.catalogService.Create(ctx, middleware.CurrentSession(c), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req client.ProductInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	product, err := h.catalogService.Update(ctx, middleware.CurrentSession(c), c.Param("id"), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.catalogService.Delete(ctx, middleware.CurrentSession(c), c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHandler) ApproveProduct(c echo.Context) error {
	ctx := c.Request().Context()

	product, err := h.catalogService.Approve(ctx, middleware.CurrentSession(c), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) DeclineProduct(c echo.Context) error {
	ctx := c.Request().Context()

	product, err := h.catalogService.Decline(ctx, middleware.CurrentSession(c), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) ToggleFeatured(c echo.Context) error {
	ctx := c.Request().Context()

	product, err := h.catalogService.ToggleFeatured(ctx, middleware.CurrentSession(c), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) ByArtist(c echo.Context) error {
	ctx := c.Request().Context()

	products, err := h.catalogService.ByArtist(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) ByCategory(c echo.Context) error {
	ctx := c.Request().Context()

	products, err := h.catalogService.ByCategory(ctx, c.Param("category"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, products)
}
