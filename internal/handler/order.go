package handler

import (
	"net/http"

	"artmarket-storefront/internal/dto"
	"artmarket-storefront/internal/middleware"
	"artmarket-storefront/internal/service"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	view, err := h.orderService.View(ctx, middleware.CurrentSession(c), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, view)
}

func (h *OrderHandler) PayOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.PayRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	view, err := h.orderService.Pay(ctx, middleware.CurrentSession(c), c.Param("id"), c.Param("gateway"), &req)
	middleware.RecordOrderAction(string(service.ActionPay), err == nil)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, view)
}

func (h *OrderHandler) ShipOrder(c echo.Context) error {
	ctx := c.Request().Context()

	view, err := h.orderService.Ship(ctx, middleware.CurrentSession(c), c.Param("id"))
	middleware.RecordOrderAction(string(service.ActionShip), err == nil)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, view)
}

func (h *OrderHandler) ConfirmReceipt(c echo.Context) error {
	ctx := c.Request().Context()

	view, err := h.orderService.ConfirmReceipt(ctx, middleware.CurrentSession(c), c.Param("id"))
	middleware.RecordOrderAction(string(service.ActionMarkDelivered), err == nil)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, view)
}

func (h *OrderHandler) OpenDispute(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.DisputeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	view, err := h.orderService.OpenDispute(ctx, middleware.CurrentSession(c), c.Param("id"), &req)
	middleware.RecordOrderAction(string(service.ActionOpenDispute), err == nil)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, view)
}

func (h *OrderHandler) ResolveDispute(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ResolveDisputeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	view, err := h.orderService.ResolveDispute(ctx, middleware.CurrentSession(c), c.Param("id"), &req)
	middleware.RecordOrderAction(string(service.ActionResolveDispute), err == nil)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, view)
}

func (h *OrderHandler) ListMine(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.orderService.ListMine(ctx, middleware.CurrentSession(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) ListSeller(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.orderService.ListSeller(ctx, middleware.CurrentSession(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) ListAll(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.orderService.ListAll(ctx, middleware.CurrentSession(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) ListDisputes(c echo.Context) error {
	ctx := c.Request().Context()

	disputes, err := h.orderService.ListDisputes(ctx, middleware.CurrentSession(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, disputes)
}

func (h *OrderHandler) PaymentKeys(c echo.Context) error {
	ctx := c.Request().Context()

	keys, err := h.orderService.PaymentKeys(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, keys)
}
