package handler

import (
	"net/http"

	"artmarket-storefront/internal/client"
	"artmarket-storefront/internal/dto"
	"artmarket-storefront/internal/middleware"
	"artmarket-storefront/internal/service"

	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := h.userService.Profile(ctx, middleware.CurrentSession(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()

	var req client.ProfileInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	user, err := h.userService.UpdateProfile(ctx, middleware.CurrentSession(c), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) RequestSeller(c echo.Context) error {
	ctx := c.Request().Context()

	var req client.SellerRequestInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	user, err := h.userService.RequestSeller(ctx, middleware.CurrentSession(c), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) ApproveSeller(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := h.userService.ApproveSeller(ctx, middleware.CurrentSession(c), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) DeclineSeller(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := h.userService.DeclineSeller(ctx, middleware.CurrentSession(c), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) ToggleFeaturedArtist(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := h.userService.ToggleFeaturedArtist(ctx, middleware.CurrentSession(c), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) AddToWishlist(c echo.Context) error {
	ctx := c.Request().Context()

	wishlist, err := h.userService.AddToWishlist(ctx, middleware.CurrentSession(c), c.Param("productId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &dto.WishlistResponse{Wishlist: wishlist})
}

func (h *UserHandler) RemoveFromWishlist(c echo.Context) error {
	ctx := c.Request().Context()

	wishlist, err := h.userService.RemoveFromWishlist(ctx, middleware.CurrentSession(c), c.Param("productId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &dto.WishlistResponse{Wishlist: wishlist})
}
