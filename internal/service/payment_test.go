package service

import (
	"context"
	"errors"
	"testing"

	"artmarket-storefront/internal/client"
	"artmarket-storefront/internal/dto"
	"artmarket-storefront/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePaypalClient struct {
	capture *client.PaypalCapture
	err     error
}

func (c *fakePaypalClient) CaptureOrder(_ context.Context, _ string) (*client.PaypalCapture, error) {
	return c.capture, c.err
}

type fakeBraintreeClient struct {
	amount decimal.Decimal
	err    error
}

func (c *fakeBraintreeClient) ChargeNonce(_ context.Context, nonce string, amount decimal.Decimal, _ string) (*client.BraintreeCharge, error) {
	c.amount = amount
	if c.err != nil {
		return nil, c.err
	}
	return &client.BraintreeCharge{TransactionID: "bt-" + nonce, Status: "submitted_for_settlement"}, nil
}

type fakePaystackClient struct {
	tx *client.PaystackTransaction
}

func (c *fakePaystackClient) VerifyTransaction(_ context.Context, _ string) (*client.PaystackTransaction, error) {
	return c.tx, nil
}

// fallback table: 50000 NGN is 33.00 USD
func testConverter() Converter {
	return NewCurrencyService(nil, nil, "NGN", FallbackRates())
}

func orderTotal(total string) *model.Order {
	return &model.Order{ID: "order-1", TotalPrice: decimal.RequireFromString(total)}
}

func TestPaypalProvider_Reference(t *testing.T) {
	p := NewPaypalProvider(&fakePaypalClient{}, testConverter())

	ref, err := p.Reference(&dto.PayRequest{PaypalOrderID: " 5O190127TN364715T "})
	require.NoError(t, err)
	assert.Equal(t, "5O190127TN364715T", ref)

	for _, id := range []string{"", "X/../../../v1/customer/partners", "abc?x=1", "5O19%2F"} {
		_, err := p.Reference(&dto.PayRequest{PaypalOrderID: id})
		assert.ErrorIs(t, err, ErrValidation, id)
	}
}

func TestPaypalProvider_Confirm(t *testing.T) {
	tests := []struct {
		name     string
		capture  *client.PaypalCapture
		declined bool
	}{
		{"exact amount", &client.PaypalCapture{Status: "COMPLETED", CaptureID: "cap", Amount: client.PaypalAmount{Currency: "USD", Value: "33.00"}}, false},
		{"within rate drift", &client.PaypalCapture{Status: "COMPLETED", CaptureID: "cap", Amount: client.PaypalAmount{Currency: "USD", Value: "32.80"}}, false},
		{"base currency", &client.PaypalCapture{Status: "COMPLETED", CaptureID: "cap", Amount: client.PaypalAmount{Currency: "NGN", Value: "50000.00"}}, false},
		{"underpaid", &client.PaypalCapture{Status: "COMPLETED", CaptureID: "cap", Amount: client.PaypalAmount{Currency: "USD", Value: "0.01"}}, true},
		{"unknown currency", &client.PaypalCapture{Status: "COMPLETED", CaptureID: "cap", Amount: client.PaypalAmount{Currency: "JPY", Value: "5000"}}, true},
		{"malformed amount", &client.PaypalCapture{Status: "COMPLETED", CaptureID: "cap", Amount: client.PaypalAmount{Currency: "USD", Value: ""}}, true},
		{"not completed", &client.PaypalCapture{Status: "PAYER_ACTION_REQUIRED", Amount: client.PaypalAmount{Currency: "USD", Value: "33.00"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPaypalProvider(&fakePaypalClient{capture: tt.capture}, testConverter())

			result, err := p.Confirm(context.Background(), orderTotal("50000"), "5O190127TN364715T")
			if tt.declined {
				assert.ErrorIs(t, err, ErrPaymentDeclined)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "paypal", result.Gateway)
			assert.Equal(t, "cap", result.ID)
		})
	}
}

func TestPaypalProvider_CaptureFailureIsNotADecline(t *testing.T) {
	apiErr := &client.APIError{StatusCode: 422, Message: "ORDER_NOT_APPROVED"}
	p := NewPaypalProvider(&fakePaypalClient{err: apiErr}, testConverter())

	_, err := p.Confirm(context.Background(), orderTotal("50000"), "5O190127TN364715T")
	assert.ErrorIs(t, err, apiErr)
	assert.NotErrorIs(t, err, ErrPaymentDeclined)
}

func TestBraintreeProvider_ChargesInAccountCurrency(t *testing.T) {
	bt := &fakeBraintreeClient{}
	p := NewBraintreeProvider(bt, testConverter(), "usd")

	_, err := p.Reference(&dto.PayRequest{})
	assert.ErrorIs(t, err, ErrValidation)

	result, err := p.Confirm(context.Background(), orderTotal("50000"), "nonce-1")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("33").Equal(bt.amount), bt.amount.String())
	assert.Equal(t, "bt-nonce-1", result.ID)
	assert.Equal(t, "braintree", result.Gateway)
	assert.NotEmpty(t, result.UpdateTime)
}

func TestBraintreeProvider_Declined(t *testing.T) {
	p := NewBraintreeProvider(&fakeBraintreeClient{err: errors.New("transaction declined by processor: Insufficient Funds")}, testConverter(), "USD")

	_, err := p.Confirm(context.Background(), orderTotal("50000"), "nonce-1")
	assert.ErrorIs(t, err, ErrPaymentDeclined)
}

func TestBraintreeProvider_UnknownAccountCurrency(t *testing.T) {
	bt := &fakeBraintreeClient{}
	p := NewBraintreeProvider(bt, testConverter(), "JPY")

	_, err := p.Confirm(context.Background(), orderTotal("50000"), "nonce-1")
	assert.ErrorIs(t, err, ErrUnknownCurrency)
	assert.True(t, bt.amount.IsZero())
}

func TestPaystackProvider_Confirm(t *testing.T) {
	tests := []struct {
		name     string
		tx       *client.PaystackTransaction
		declined bool
	}{
		{"matching amount", &client.PaystackTransaction{Reference: "ref-1", Status: "success", AmountKobo: 5000000}, false},
		{"amount mismatch", &client.PaystackTransaction{Reference: "ref-1", Status: "success", AmountKobo: 100}, true},
		{"failed transaction", &client.PaystackTransaction{Reference: "ref-1", Status: "failed", AmountKobo: 5000000}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPaystackProvider(&fakePaystackClient{tx: tt.tx})

			result, err := p.Confirm(context.Background(), orderTotal("50000"), "ref-1")
			if tt.declined {
				assert.ErrorIs(t, err, ErrPaymentDeclined)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "ref-1", result.ID)
		})
	}
}
