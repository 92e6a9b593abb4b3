package handler

import (
	"net/http"

	"artmarket-storefront/internal/dto"
	"artmarket-storefront/internal/middleware"
	"artmarket-storefront/internal/model"
	"artmarket-storefront/internal/service"

	"github.com/labstack/echo/v4"
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()

	cart, err := h.cartService.Get(ctx, middleware.CurrentSession(c).ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) SetItem(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.SetCartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	cart, err := h.cartService.SetItem(ctx, middleware.CurrentSession(c).ID, c.Param("productId"), req.Quantity)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()

	cart, err := h.cartService.RemoveItem(ctx, middleware.CurrentSession(c).ID, c.Param("productId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) Clear(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.cartService.Clear(ctx, middleware.CurrentSession(c).ID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) SetShipping(c echo.Context) error {
	ctx := c.Request().Context()

	var req model.ShippingAddress
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	cart, err := h.cartService.SetShippingAddress(ctx, middleware.CurrentSession(c).ID, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) SetPaymentMethod(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.PaymentMethodRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	cart, err := h.cartService.SetPaymentMethod(ctx, middleware.CurrentSession(c).ID, req.PaymentMethod)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) SetPackaging(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.PackagingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	cart, err := h.cartService.SetPackaging(ctx, middleware.CurrentSession(c).ID, req.Packaging)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := h.cartService.PlaceOrder(ctx, middleware.CurrentSession(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, &dto.PlaceOrderResponse{
		OrderID: order.ID,
	})
}
