package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"artmarket-storefront/internal/client"
	"artmarket-storefront/internal/config"
	"artmarket-storefront/internal/repository"
	"artmarket-storefront/internal/server"
	"artmarket-storefront/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("Failed to parse config: %v", err)
	}
	setupLogging(cfg.Log)

	db, err := client.InitDBClient(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to init database: %v", err)
	}

	pricing, err := service.NewPricing(&cfg.Checkout)
	if err != nil {
		log.Fatalf("Invalid checkout config: %v", err)
	}

	marketplaceClient := client.NewMarketplaceClient(&cfg.Marketplace)
	ratesClient := client.NewRatesClient(cfg.Currency.RatesURL)

	sessionRepo := repository.NewSessionRepository(db)
	cartRepo := repository.NewCartRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	currencyService := service.NewCurrencyService(ratesClient, sessionRepo, cfg.Currency.Default, service.FallbackRates())

	var providers []service.PaymentProvider
	for _, gateway := range cfg.Gateways() {
		switch gateway {
		case "paypal":
			providers = append(providers, service.NewPaypalProvider(client.NewPaypalClient(&cfg.Paypal), currencyService))
		case "braintree":
			providers = append(providers, service.NewBraintreeProvider(
				client.NewBraintreeClient(&cfg.BrainTree), currencyService, cfg.BrainTree.Currency))
		case "paystack":
			providers = append(providers, service.NewPaystackProvider(client.NewPaystackClient(&cfg.Paystack)))
		}
	}
	if len(providers) == 0 {
		log.Warn("No payment gateway configured, orders cannot be paid")
	}

	sessionService := service.NewSessionService(sessionRepo, marketplaceClient, cfg.Currency.Default)
	orderService := service.NewOrderService(marketplaceClient, paymentRepo, providers...)
	cartService := service.NewCartService(cartRepo, marketplaceClient, pricing, orderService.Gateways(), cfg.Checkout.PackagingOptions)
	catalogService := service.NewCatalogService(marketplaceClient)
	userService := service.NewUserService(marketplaceClient, sessionService)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go currencyService.Run(ctx, cfg.Currency.RefreshInterval)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	// Init HTTP server
	srv := server.NewServer(
		sessionService,
		cartService,
		currencyService,
		orderService,
		catalogService,
		userService,
		cfg.HTTP.SecureCookies,
	)

	log.Infof("Starting HTTP server on %s (%s)", serverAddr, cfg.Environment.Name)
	go func() {
		if err := srv.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info("Signal received, starting graceful shutdown...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func setupLogging(cfg config.Log) {
	switch strings.ToLower(cfg.Level) {
	case "debug":
		log.SetLevel(log.DEBUG)
	case "warn":
		log.SetLevel(log.WARN)
	case "error":
		log.SetLevel(log.ERROR)
	default:
		log.SetLevel(log.INFO)
	}

	if cfg.Format == "text" {
		log.SetHeader("${time_rfc3339} ${level} ${short_file}:${line}")
	}
}
