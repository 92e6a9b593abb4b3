package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"artmarket-storefront/internal/client"
	"artmarket-storefront/internal/config"
	"artmarket-storefront/internal/middleware"
	"artmarket-storefront/internal/repository"
	"artmarket-storefront/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend serves the handful of marketplace endpoints the flow touches.
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "p1" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Product not found"}`))
			return
		}
		_, _ = w.Write([]byte(`{"_id":"p1","name":"Sunset","price":100,"countInStock":3,"user":"seller"}`))
	})
	mux.HandleFunc("POST /api/users/login", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"_id":"buyer","name":"Ada","email":"ada@example.com","token":"opaque"}`))
	})
	mux.HandleFunc("GET /api/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer opaque" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Not authorized, token failed"}`))
			return
		}
		_, _ = w.Write([]byte(`{"_id":"o1","user":{"_id":"buyer"},
			"orderItems":[{"product":"p1","name":"Sunset","qty":1,"price":100,"seller":"seller"}],
			"totalPrice":125,"isPaid":false,"isShipped":false,"status":"pending"}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type testClient struct {
	t      *testing.T
	srv    *Server
	cookie *http.Cookie
}

func newTestClient(t *testing.T) *testClient {
	t.Helper()

	backend := fakeBackend(t)

	db, err := client.InitDBClient(config.Database{Driver: "sqlite", URL: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	pricing, err := service.NewPricing(&config.Checkout{FreeShippingThreshold: "100", ShippingFee: "10", TaxRate: "0.15"})
	require.NoError(t, err)

	marketplace := client.NewMarketplaceClient(&config.Marketplace{BaseURL: backend.URL, Timeout: 5 * time.Second})
	sessionRepo := repository.NewSessionRepository(db)

	sessionService := service.NewSessionService(sessionRepo, marketplace, "NGN")
	orderService := service.NewOrderService(marketplace, repository.NewPaymentRepository(db))
	cartService := service.NewCartService(repository.NewCartRepository(db), marketplace, pricing, []string{"paystack"}, []string{"standard"})
	currencyService := service.NewCurrencyService(client.NewRatesClient(backend.URL+"/rates"), sessionRepo, "NGN", service.FallbackRates())

	srv := NewServer(
		sessionService,
		cartService,
		currencyService,
		orderService,
		service.NewCatalogService(marketplace),
		service.NewUserService(marketplace, sessionService),
		false,
	)
	return &testClient{t: t, srv: srv}
}

func (c *testClient) do(method, path, body string) *httptest.ResponseRecorder {
	c.t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}

	rec := httptest.NewRecorder()
	c.srv.Echo().ServeHTTP(rec, req)

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == middleware.SessionCookie {
			c.cookie = cookie
		}
	}
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestServer_Health(t *testing.T) {
	c := newTestClient(t)

	rec := c.do(http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, c.cookie)

	rec = c.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_CartAndCheckoutFlow(t *testing.T) {
	c := newTestClient(t)

	rec := c.do(http.MethodGet, "/api/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, c.cookie)
	sessionID := c.cookie.Value

	rec = c.do(http.MethodPut, "/api/cart/items/p1", `{"quantity":2}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	totals := decode(t, rec)["totals"].(map[string]any)
	assert.Equal(t, "200", totals["itemsPrice"])
	assert.Equal(t, "0", totals["shippingPrice"])
	assert.Equal(t, "30", totals["taxPrice"])
	assert.Equal(t, "230", totals["totalPrice"])

	rec = c.do(http.MethodPut, "/api/cart/items/p1", `{"quantity":9}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodPut, "/api/cart/items/nope", `{"quantity":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product not found", decode(t, rec)["message"])

	rec = c.do(http.MethodPost, "/api/cart/checkout", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = c.do(http.MethodPost, "/api/auth/login", `{"email":"ada@example.com","password":"Secret123"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, decode(t, rec)["authenticated"])
	assert.Equal(t, sessionID, c.cookie.Value)

	// the cart survived the login
	rec = c.do(http.MethodGet, "/api/cart", "")
	items := decode(t, rec)["items"].([]any)
	assert.Len(t, items, 1)

	rec = c.do(http.MethodPost, "/api/cart/checkout", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_OrderView(t *testing.T) {
	c := newTestClient(t)

	rec := c.do(http.MethodGet, "/api/orders/o1", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = c.do(http.MethodPost, "/api/auth/login", `{"email":"ada@example.com","password":"Secret123"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = c.do(http.MethodGet, "/api/orders/o1", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view := decode(t, rec)
	assert.Equal(t, true, view["isBuyer"])
	assert.Equal(t, []any{"pay", "open_dispute"}, view["actions"])
	assert.Nil(t, view["payGateways"])

	// shipping is not offered to the buyer
	rec = c.do(http.MethodPost, "/api/orders/o1/ship", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = c.do(http.MethodPost, "/api/orders/o1/pay/paypal", `{"paypalOrderId":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Currency(t *testing.T) {
	c := newTestClient(t)

	rec := c.do(http.MethodGet, "/api/currency/convert?amount=10000&code=USD", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "$6.60", decode(t, rec)["formatted"])

	rec = c.do(http.MethodPut, "/api/currency", `{"currency":"gbp"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "GBP", decode(t, rec)["selected"])

	rec = c.do(http.MethodGet, "/api/currency/convert?amount=2500", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "£1.30", decode(t, rec)["formatted"])

	rec = c.do(http.MethodPut, "/api/currency", `{"currency":"JPY"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodPost, "/api/currency/refresh", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
