package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Read copies of marketplace records. The backend owns all of them.

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
)

type DisputeStatus string

const (
	DisputeStatusNone     DisputeStatus = "none"
	DisputeStatusOpen     DisputeStatus = "open"
	DisputeStatusResolved DisputeStatus = "resolved"
)

type OrderUser struct {
	ID    string `json:"_id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type OrderItem struct {
	ProductID string          `json:"product"`
	Name      string          `json:"name"`
	Image     string          `json:"image,omitempty"`
	Quantity  int             `json:"qty"`
	Price     decimal.Decimal `json:"price"`
	SellerID  string          `json:"seller,omitempty"`
}

type ShippingAddress struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

func (a ShippingAddress) Complete() bool {
	return a.Address != "" && a.City != "" && a.PostalCode != "" && a.Country != ""
}

type Dispute struct {
	Status      DisputeStatus `json:"status"`
	Reason      string        `json:"reason,omitempty"`
	Description string        `json:"description,omitempty"`
	Resolution  string        `json:"resolution,omitempty"`
	OpenedBy    string        `json:"openedBy,omitempty"`
	CreatedAt   *time.Time    `json:"createdAt,omitempty"`
	ResolvedAt  *time.Time    `json:"resolvedAt,omitempty"`
}

type PaymentResult struct {
	Gateway      string `json:"gateway"`
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address,omitempty"`
}

type Order struct {
	ID              string          `json:"_id"`
	User            OrderUser       `json:"user"`
	OrderItems      []OrderItem     `json:"orderItems"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	Packaging       string          `json:"packaging,omitempty"`
	PaymentResult   *PaymentResult  `json:"paymentResult,omitempty"`
	ItemsPrice      decimal.Decimal `json:"itemsPrice"`
	ShippingPrice   decimal.Decimal `json:"shippingPrice"`
	TaxPrice        decimal.Decimal `json:"taxPrice"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	IsPaid          bool            `json:"isPaid"`
	PaidAt          *time.Time      `json:"paidAt,omitempty"`
	IsShipped       bool            `json:"isShipped"`
	ShippedAt       *time.Time      `json:"shippedAt,omitempty"`
	Status          OrderStatus     `json:"status"`
	DeliveredAt     *time.Time      `json:"deliveredAt,omitempty"`
	Dispute         *Dispute        `json:"dispute,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// DisputeStatus treats a missing dispute sub-record as "none".
func (o *Order) DisputeStatus() DisputeStatus {
	if o.Dispute == nil || o.Dispute.Status == "" {
		return DisputeStatusNone
	}
	return o.Dispute.Status
}

// SellerIDs returns the distinct seller ids across the line items.
func (o *Order) SellerIDs() []string {
	seen := make(map[string]struct{}, len(o.OrderItems))
	ids := make([]string, 0, len(o.OrderItems))
	for _, item := range o.OrderItems {
		if item.SellerID == "" {
			continue
		}
		if _, ok := seen[item.SellerID]; ok {
			continue
		}
		seen[item.SellerID] = struct{}{}
		ids = append(ids, item.SellerID)
	}
	return ids
}

type OrderDispute struct {
	OrderID string    `json:"orderId"`
	Buyer   OrderUser `json:"user"`
	Dispute Dispute   `json:"dispute"`
}
