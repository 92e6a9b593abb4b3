package server

import (
	"context"
	"net/http"

	"artmarket-storefront/internal/handler"
	storefrontmw "artmarket-storefront/internal/middleware"
	"artmarket-storefront/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	echo            *echo.Echo
	sessionService  service.SessionService
	secureCookies   bool
	authHandler     *handler.AuthHandler
	cartHandler     *handler.CartHandler
	currencyHandler *handler.CurrencyHandler
	orderHandler    *handler.OrderHandler
	productHandler  *handler.ProductHandler
	userHandler     *handler.UserHandler
}

func NewServer(
	sessionService service.SessionService,
	cartService service.CartService,
	currencyService service.CurrencyService,
	orderService service.OrderService,
	catalogService service.CatalogService,
	userService service.UserService,
	secureCookies bool,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.HTTPErrorHandler

	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(storefrontmw.PrometheusMiddleware())

	s := &Server{
		echo:            e,
		sessionService:  sessionService,
		secureCookies:   secureCookies,
		authHandler:     handler.NewAuthHandler(sessionService),
		cartHandler:     handler.NewCartHandler(cartService),
		currencyHandler: handler.NewCurrencyHandler(currencyService),
		orderHandler:    handler.NewOrderHandler(orderService),
		productHandler:  handler.NewProductHandler(catalogService),
		userHandler:     handler.NewUserHandler(userService),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api.Use(storefrontmw.SessionMiddleware(s.sessionService, s.secureCookies))

	// -------- session --------
	auth := api.Group("/auth")
	auth.GET("/me", s.authHandler.Me)
	auth.POST("/login", s.authHandler.Login)
	auth.POST("/logout", s.authHandler.Logout)
	auth.POST("/register", s.authHandler.Register)
	auth.POST("/verify-otp", s.authHandler.VerifyOTP)
	auth.POST("/resend-otp", s.authHandler.ResendOTP)
	auth.POST("/forgot-password", s.authHandler.ForgotPassword)
	auth.POST("/reset-password", s.authHandler.ResetPassword)

	// -------- cart / checkout --------
	cart := api.Group("/cart")
	cart.GET("", s.cartHandler.GetCart)
	cart.DELETE("", s.cartHandler.Clear)
	cart.PUT("/items/:productId", s.cartHandler.SetItem)
	cart.DELETE("/items/:productId", s.cartHandler.RemoveItem)
	cart.PUT("/shipping", s.cartHandler.SetShipping)
	cart.PUT("/payment-method", s.cartHandler.SetPaymentMethod)
	cart.PUT("/packaging", s.cartHandler.SetPackaging)
	cart.POST("/checkout", s.cartHandler.Checkout)

	// -------- currency --------
	currency := api.Group("/currency")
	currency.GET("", s.currencyHandler.GetCurrency)
	currency.PUT("", s.currencyHandler.SelectCurrency)
	currency.GET("/convert", s.currencyHandler.Convert)
	currency.POST("/refresh", s.currencyHandler.Refresh)

	// -------- orders --------
	orders := api.Group("/orders")
	orders.GET("", s.orderHandler.ListAll)
	orders.GET("/mine", s.orderHandler.ListMine)
	orders.GET("/seller", s.orderHandler.ListSeller)
	orders.GET("/:id", s.orderHandler.GetOrder)
	orders.POST("/:id/pay/:gateway", s.orderHandler.PayOrder)
	orders.POST("/:id/ship", s.orderHandler.ShipOrder)
	orders.POST("/:id/deliver", s.orderHandler.ConfirmReceipt)
	orders.POST("/:id/dispute", s.orderHandler.OpenDispute)
	orders.PUT("/:id/dispute", s.orderHandler.ResolveDispute)
	api.GET("/disputes", s.orderHandler.ListDisputes)

	// -------- products --------
	products := api.Group("/products")
	products.GET("", s.productHandler.ListProducts)
	products.POST("", s.productHandler.CreateProduct)
	products.GET("/:id", s.productHandler.GetProduct)
	products.PUT("/:id", s.productHandler.UpdateProduct)
	products.DELETE("/:id", s.productHandler.DeleteProduct)
	products.POST("/:id/approve", s.productHandler.ApproveProduct)
	products.POST("/:id/decline", s.productHandler.DeclineProduct)
	products.POST("/:id/featured", s.productHandler.ToggleFeatured)
	api.GET("/artists/:id/products", s.productHandler.ByArtist)
	api.GET("/categories/:category/products", s.productHandler.ByCategory)

	// -------- users --------
	users := api.Group("/users")
	users.GET("/profile", s.userHandler.GetProfile)
	users.PUT("/profile", s.userHandler.UpdateProfile)
	users.POST("/seller-request", s.userHandler.RequestSeller)
	users.POST("/:id/seller/approve", s.userHandler.ApproveSeller)
	users.POST("/:id/seller/decline", s.userHandler.DeclineSeller)
	users.POST("/:id/featured", s.userHandler.ToggleFeaturedArtist)
	users.POST("/wishlist/:productId", s.userHandler.AddToWishlist)
	users.DELETE("/wishlist/:productId", s.userHandler.RemoveFromWishlist)

	// -------- config --------
	api.GET("/config/payment-keys", s.orderHandler.PaymentKeys)
}

// Echo exposes the router, mainly for httptest.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
