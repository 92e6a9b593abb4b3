package client

import (
	"context"
	"fmt"

	"artmarket-storefront/internal/config"

	"github.com/braintree-go/braintree-go"
	"github.com/shopspring/decimal"
)

// --- INTERFACE ---

type BraintreeClient interface {
	// ChargeNonce charges a drop-in nonce for amount, in the merchant account's
	// currency, and submits it for settlement
	ChargeNonce(ctx context.Context, nonce string, amount decimal.Decimal, orderID string) (*BraintreeCharge, error)
}

type BraintreeCharge struct {
	TransactionID string
	Status        string
	CustomerEmail string
}

// --- IMPLEMENTATION ---

type braintreeClientImpl struct {
	gateway           *braintree.Braintree
	merchantAccountID string
}

// NewBraintreeClient initializes the Braintree SDK gateway
func NewBraintreeClient(cfg *config.Braintree) BraintreeClient {
	env := braintree.Sandbox
	if cfg.Environment == "production" {
		env = braintree.Production
	}

	gateway := braintree.New(
		env,
		cfg.MerchantID,
		cfg.PublicKey,
		cfg.PrivateKey,
	)

	return &braintreeClientImpl{
		gateway:           gateway,
		merchantAccountID: cfg.MerchantAccountID,
	}
}

// --- METHODS ---

func (c *braintreeClientImpl) ChargeNonce(ctx context.Context, nonce string, amount decimal.Decimal, orderID string) (*BraintreeCharge, error) {
	// braintree wants unscaled units at a fixed scale: 50.00 -> NewDecimal(5000, 2)
	cents := amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	btAmount := braintree.NewDecimal(cents, 2)

	req := &braintree.TransactionRequest{
		Type:               "sale",
		Amount:             btAmount,
		PaymentMethodNonce: nonce,
		OrderId:            orderID,
		MerchantAccountId:  c.merchantAccountID,
		Options: &braintree.TransactionOptions{
			SubmitForSettlement: true,
		},
	}

	tx, err := c.gateway.Transaction().Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("transaction creation failed: %w", err)
	}

	if tx.Status == braintree.TransactionStatusProcessorDeclined ||
		tx.Status == braintree.TransactionStatusGatewayRejected {
		return nil, fmt.Errorf("transaction declined by processor: %s", tx.ProcessorResponseText)
	}

	charge := &BraintreeCharge{
		TransactionID: tx.Id,
		Status:        string(tx.Status),
	}
	if tx.Customer != nil {
		charge.CustomerEmail = tx.Customer.Email
	}
	return charge, nil
}
