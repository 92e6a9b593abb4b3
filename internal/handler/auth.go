package handler

import (
	"net/http"

	"artmarket-storefront/internal/dto"
	"artmarket-storefront/internal/middleware"
	"artmarket-storefront/internal/service"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	sessionService service.SessionService
}

func NewAuthHandler(sessionService service.SessionService) *AuthHandler {
	return &AuthHandler{
		sessionService: sessionService,
	}
}

func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.NewSessionResponse(middleware.CurrentSession(c)))
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	session, err := h.sessionService.Login(ctx, middleware.CurrentSession(c).ID, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.NewSessionResponse(session))
}

func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.sessionService.Logout(ctx, middleware.CurrentSession(c).ID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	session, pending, err := h.sessionService.Register(ctx, middleware.CurrentSession(c).ID, &req)
	if err != nil {
		return err
	}

	resp := dto.NewSessionResponse(session)
	resp.PendingVerification = pending
	return c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.VerifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	session, err := h.sessionService.VerifyOTP(ctx, middleware.CurrentSession(c).ID, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.NewSessionResponse(session))
}

func (h *AuthHandler) ResendOTP(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.EmailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	if err := h.sessionService.ResendOTP(ctx, req.Email); err != nil {
		return err
	}

	return c.NoContent(http.StatusAccepted)
}

func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.EmailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	if err := h.sessionService.ForgotPassword(ctx, req.Email); err != nil {
		return err
	}

	return c.NoContent(http.StatusAccepted)
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	if err := h.sessionService.ResetPassword(ctx, &req); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
