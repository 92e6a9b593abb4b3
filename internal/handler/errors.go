package handler

import (
	"errors"
	"net/http"

	"artmarket-storefront/internal/client"
	"artmarket-storefront/internal/repository"
	"artmarket-storefront/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

type errorResponse struct {
	Message string `json:"message"`
}

func statusFor(err error) int {
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.StatusCode
	case errors.Is(err, service.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrActionNotAllowed),
		errors.Is(err, service.ErrActionInFlight):
		return http.StatusConflict
	case errors.Is(err, service.ErrPaymentDeclined):
		return http.StatusPaymentRequired
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrMissingShipping),
		errors.Is(err, service.ErrMissingPaymentMethod),
		errors.Is(err, service.ErrUnknownGateway),
		errors.Is(err, service.ErrUnknownCurrency),
		errors.Is(err, service.ErrInvalidPackaging),
		errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// HTTPErrorHandler renders every error as {"message": ...}. Backend errors
// keep the backend's status and message; unexpected errors get the generic
// fallback so internals do not leak.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		msg := http.StatusText(httpErr.Code)
		if m, ok := httpErr.Message.(string); ok && m != "" {
			msg = m
		}
		writeError(c, httpErr.Code, msg)
		return
	}

	status := statusFor(err)
	msg := err.Error()
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		msg = client.UserMessage(err)
	case status == http.StatusInternalServerError:
		log.Errorf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
		msg = client.FallbackMessage
	}
	writeError(c, status, msg)
}

func writeError(c echo.Context, status int, msg string) {
	var err error
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, errorResponse{Message: msg})
	}
	if err != nil {
		log.Errorf("write error response: %v", err)
	}
}
