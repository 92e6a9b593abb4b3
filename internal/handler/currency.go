package handler

import (
	"net/http"
	"strings"

	"artmarket-storefront/internal/dto"
	"artmarket-storefront/internal/middleware"
	"artmarket-storefront/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type CurrencyHandler struct {
	currencyService service.CurrencyService
}

func NewCurrencyHandler(currencyService service.CurrencyService) *CurrencyHandler {
	return &CurrencyHandler{
		currencyService: currencyService,
	}
}

func (h *CurrencyHandler) GetCurrency(c echo.Context) error {
	return c.JSON(http.StatusOK, h.currencyService.Describe(middleware.CurrentSession(c)))
}

func (h *CurrencyHandler) SelectCurrency(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.SelectCurrencyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	session := middleware.CurrentSession(c)
	if err := h.currencyService.Select(ctx, session.ID, req.Currency); err != nil {
		return err
	}
	session.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))

	return c.JSON(http.StatusOK, h.currencyService.Describe(session))
}

// Convert prices an NGN amount in the requested currency, or the session's
// selected one when no code is given.
func (h *CurrencyHandler) Convert(c echo.Context) error {
	amount, err := decimal.NewFromString(c.QueryParam("amount"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid amount")
	}

	code := c.QueryParam("code")
	if code == "" {
		code = h.currencyService.Describe(middleware.CurrentSession(c)).Selected
	}
	code = strings.ToUpper(code)

	converted, err := h.currencyService.Convert(amount, code)
	if err != nil {
		return err
	}
	formatted, err := h.currencyService.Format(amount, code)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &dto.ConvertResponse{
		Currency:  code,
		Amount:    converted,
		Formatted: formatted,
	})
}

func (h *CurrencyHandler) Refresh(c echo.Context) error {
	ctx := c.Request().Context()

	session := middleware.CurrentSession(c)
	if !session.Authenticated() {
		return service.ErrNotAuthenticated
	}
	if !session.IsAdmin {
		return service.ErrForbidden
	}

	if err := h.currencyService.Refresh(ctx); err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "currency rates unavailable, keeping current table")
	}

	return c.JSON(http.StatusOK, h.currencyService.Describe(session))
}
