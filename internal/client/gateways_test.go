package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"artmarket-storefront/internal/config"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaystackClient_VerifyTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/transaction/verify/ref-ok":
			_, _ = w.Write([]byte(`{"status":true,"message":"Verification successful","data":{
				"reference":"ref-ok","status":"success","amount":1150000,"currency":"NGN",
				"paid_at":"2026-01-02T10:00:00.000Z","customer":{"email":"ada@example.com"}}}`))
		case "/transaction/verify/ref-missing":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"status":false,"message":"Transaction reference not found"}`))
		default:
			_, _ = w.Write([]byte(`{"status":false,"message":""}`))
		}
	}))
	defer srv.Close()

	c := NewPaystackClient(&config.Paystack{BaseApiURL: srv.URL, SecretKey: "sk_test"})

	tx, err := c.VerifyTransaction(context.Background(), "ref-ok")
	require.NoError(t, err)
	assert.Equal(t, "success", tx.Status)
	assert.Equal(t, int64(1150000), tx.AmountKobo)
	assert.Equal(t, "ada@example.com", tx.CustomerEmail)

	_, err = c.VerifyTransaction(context.Background(), "ref-missing")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Transaction reference not found", apiErr.Message)

	_, err = c.VerifyTransaction(context.Background(), "ref-odd")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, FallbackMessage, apiErr.Message)
}

func TestRatesClient_FetchRates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":"success","base_code":"NGN","rates":{"NGN":1,"USD":0.00066}}`))
	}))
	defer srv.Close()

	rates, err := NewRatesClient(srv.URL).FetchRates(context.Background())
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("0.00066").Equal(rates["USD"]))
}

func TestRatesClient_FetchRatesFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewRatesClient(srv.URL).FetchRates(context.Background())
	assert.Error(t, err)

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"rates":{}}`))
	}))
	defer empty.Close()

	_, err = NewRatesClient(empty.URL).FetchRates(context.Background())
	assert.Error(t, err)
}

func newTestPaypal(t *testing.T, capture http.HandlerFunc) PaypalClient {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/oauth2/token" {
			capture(w, r)
			return
		}
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "client-id", user)
		assert.Equal(t, "secret", pass)
		_, _ = w.Write([]byte(`{"access_token":"A21AA","token_type":"Bearer"}`))
	}))
	t.Cleanup(srv.Close)
	return NewPaypalClient(&config.Paypal{BaseApiURL: srv.URL, ClientID: "client-id", ClientSecret: "secret"})
}

func TestPaypalClient_CaptureOrder(t *testing.T) {
	c := newTestPaypal(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/checkout/orders/5O190127TN364715T/capture", r.URL.Path)
		assert.Equal(t, "Bearer A21AA", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{
			"id": "5O190127TN364715T",
			"status": "COMPLETED",
			"payer": {"payer_id": "QYR5Z8XDVJNXQ", "email_address": "buyer@example.com"},
			"purchase_units": [{"payments": {"captures": [{
				"id": "3C679366HH908993F",
				"status": "COMPLETED",
				"update_time": "2026-01-02T10:00:00Z",
				"amount": {"currency_code": "USD", "value": "33.00"}
			}]}}]
		}`))
	})

	capture, err := c.CaptureOrder(context.Background(), "5O190127TN364715T")
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", capture.Status)
	assert.Equal(t, "3C679366HH908993F", capture.CaptureID)
	assert.Equal(t, "buyer@example.com", capture.PayerEmail)
	assert.Equal(t, PaypalAmount{Currency: "USD", Value: "33.00"}, capture.Amount)
}

func TestPaypalClient_CaptureOrderEscapesID(t *testing.T) {
	c := newTestPaypal(t, func(w http.ResponseWriter, r *http.Request) {
		// the id stays one path segment
		assert.Equal(t, "/v2/checkout/orders/X%2F..%2F..%2Fv1%2Fvault/capture", r.URL.EscapedPath())
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"name":"RESOURCE_NOT_FOUND","message":"The specified resource does not exist."}`))
	})

	_, err := c.CaptureOrder(context.Background(), "X/../../v1/vault")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "The specified resource does not exist.", apiErr.Message)
}
