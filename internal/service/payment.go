package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"artmarket-storefront/internal/client"
	"artmarket-storefront/internal/dto"
	"artmarket-storefront/internal/model"

	"github.com/shopspring/decimal"
)

// PaymentProvider confirms a buyer's payment with one gateway and produces
// the payload the marketplace pay endpoint expects.
type PaymentProvider interface {
	Gateway() string
	// Reference extracts and validates the gateway-specific input.
	Reference(in *dto.PayRequest) (string, error)
	Confirm(ctx context.Context, order *model.Order, reference string) (*model.PaymentResult, error)
}

// Converter turns an amount in the base currency into another currency.
// CurrencyService satisfies it.
type Converter interface {
	Convert(amount decimal.Decimal, code string) (decimal.Decimal, error)
}

// Rates may refresh between the buyer's checkout and the capture, so a paid
// amount within this fraction below the expected one is accepted.
var amountTolerance = decimal.RequireFromString("0.01")

// --- paypal ---

var paypalOrderIDPattern = regexp.MustCompile(`^[A-Z0-9]{1,36}$`)

type paypalProvider struct {
	paypalClient client.PaypalClient
	converter    Converter
}

func NewPaypalProvider(paypalClient client.PaypalClient, converter Converter) PaymentProvider {
	return &paypalProvider{paypalClient: paypalClient, converter: converter}
}

func (p *paypalProvider) Gateway() string { return "paypal" }

func (p *paypalProvider) Reference(in *dto.PayRequest) (string, error) {
	id := strings.TrimSpace(in.PaypalOrderID)
	if id == "" {
		return "", fmt.Errorf("%w: paypalOrderId is required", ErrValidation)
	}
	if !paypalOrderIDPattern.MatchString(id) {
		return "", fmt.Errorf("%w: malformed paypalOrderId", ErrValidation)
	}
	return id, nil
}

func (p *paypalProvider) Confirm(ctx context.Context, order *model.Order, reference string) (*model.PaymentResult, error) {
	capture, err := p.paypalClient.CaptureOrder(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("paypal capture: %w", err)
	}
	if capture.Status != "COMPLETED" {
		return nil, fmt.Errorf("%w: paypal order status %s", ErrPaymentDeclined, capture.Status)
	}
	if err := p.checkAmount(order, capture.Amount); err != nil {
		return nil, err
	}

	id := capture.CaptureID
	if id == "" {
		id = capture.OrderID
	}
	return &model.PaymentResult{
		Gateway:      p.Gateway(),
		ID:           id,
		Status:       capture.Status,
		UpdateTime:   capture.UpdateTime,
		EmailAddress: capture.PayerEmail,
	}, nil
}

// checkAmount compares the captured amount with the order total converted
// into the capture currency.
func (p *paypalProvider) checkAmount(order *model.Order, amount client.PaypalAmount) error {
	paid, err := decimal.NewFromString(amount.Value)
	if err != nil {
		return fmt.Errorf("%w: paypal capture amount %q", ErrPaymentDeclined, amount.Value)
	}
	expected, err := p.converter.Convert(order.TotalPrice, amount.Currency)
	if err != nil {
		return fmt.Errorf("%w: paypal capture currency: %v", ErrPaymentDeclined, err)
	}
	if paid.LessThan(expected.Sub(expected.Mul(amountTolerance)).Round(2)) {
		return fmt.Errorf("%w: paid %s %s, order total is %s %s",
			ErrPaymentDeclined, paid.StringFixed(2), amount.Currency, expected.StringFixed(2), amount.Currency)
	}
	return nil
}

// --- braintree ---

type braintreeProvider struct {
	braintreeClient client.BraintreeClient
	converter       Converter
	currency        string
	now             func() time.Time
}

// NewBraintreeProvider charges in currency, the settlement currency of the
// configured merchant account.
func NewBraintreeProvider(braintreeClient client.BraintreeClient, converter Converter, currency string) PaymentProvider {
	return &braintreeProvider{
		braintreeClient: braintreeClient,
		converter:       converter,
		currency:        strings.ToUpper(currency),
		now:             time.Now,
	}
}

func (p *braintreeProvider) Gateway() string { return "braintree" }

func (p *braintreeProvider) Reference(in *dto.PayRequest) (string, error) {
	if strings.TrimSpace(in.Nonce) == "" {
		return "", fmt.Errorf("%w: nonce is required", ErrValidation)
	}
	return in.Nonce, nil
}

func (p *braintreeProvider) Confirm(ctx context.Context, order *model.Order, reference string) (*model.PaymentResult, error) {
	amount, err := p.converter.Convert(order.TotalPrice, p.currency)
	if err != nil {
		return nil, fmt.Errorf("braintree charge currency: %w", err)
	}

	charge, err := p.braintreeClient.ChargeNonce(ctx, reference, amount, order.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentDeclined, err)
	}

	return &model.PaymentResult{
		Gateway:      p.Gateway(),
		ID:           charge.TransactionID,
		Status:       charge.Status,
		UpdateTime:   p.now().UTC().Format(time.RFC3339),
		EmailAddress: charge.CustomerEmail,
	}, nil
}

// --- paystack ---

type paystackProvider struct {
	paystackClient client.PaystackClient
}

func NewPaystackProvider(paystackClient client.PaystackClient) PaymentProvider {
	return &paystackProvider{paystackClient: paystackClient}
}

func (p *paystackProvider) Gateway() string { return "paystack" }

func (p *paystackProvider) Reference(in *dto.PayRequest) (string, error) {
	if strings.TrimSpace(in.Reference) == "" {
		return "", fmt.Errorf("%w: reference is required", ErrValidation)
	}
	return in.Reference, nil
}

func (p *paystackProvider) Confirm(ctx context.Context, order *model.Order, reference string) (*model.PaymentResult, error) {
	tx, err := p.paystackClient.VerifyTransaction(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("paystack verify: %w", err)
	}
	if tx.Status != "success" {
		return nil, fmt.Errorf("%w: paystack transaction status %s", ErrPaymentDeclined, tx.Status)
	}

	// paystack amounts are in kobo
	expected := order.TotalPrice.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	if tx.AmountKobo != expected {
		return nil, fmt.Errorf("%w: paid %d kobo, order total is %d kobo", ErrPaymentDeclined, tx.AmountKobo, expected)
	}

	id := tx.Reference
	if id == "" {
		id = reference
	}
	return &model.PaymentResult{
		Gateway:      p.Gateway(),
		ID:           id,
		Status:       tx.Status,
		UpdateTime:   tx.PaidAt,
		EmailAddress: tx.CustomerEmail,
	}, nil
}
