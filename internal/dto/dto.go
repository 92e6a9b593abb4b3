package dto

import (
	"artmarket-storefront/internal/model"

	"github.com/shopspring/decimal"
)

// --- session ---

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type EmailRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type SessionResponse struct {
	Authenticated       bool   `json:"authenticated"`
	PendingVerification bool   `json:"pendingVerification,omitempty"`
	UserID              string `json:"userId,omitempty"`
	Name                string `json:"name,omitempty"`
	Email               string `json:"email,omitempty"`
	IsSeller            bool   `json:"isSeller"`
	IsSellerApproved    bool   `json:"isSellerApproved"`
	IsAdmin             bool   `json:"isAdmin"`
	Currency            string `json:"currency"`
}

func NewSessionResponse(s *model.Session) *SessionResponse {
	return &SessionResponse{
		Authenticated:    s.Authenticated(),
		UserID:           s.UserID,
		Name:             s.Name,
		Email:            s.Email,
		IsSeller:         s.IsSeller,
		IsSellerApproved: s.IsSellerApproved,
		IsAdmin:          s.IsAdmin,
		Currency:         s.Currency,
	}
}

// --- cart ---

type SetCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type PaymentMethodRequest struct {
	PaymentMethod string `json:"paymentMethod"`
}

type PackagingRequest struct {
	Packaging string `json:"packaging"`
}

type CartLine struct {
	ProductID    string          `json:"productId"`
	Name         string          `json:"name"`
	Image        string          `json:"image"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	CountInStock int             `json:"countInStock"`
	Quantity     int             `json:"quantity"`
	LineTotal    decimal.Decimal `json:"lineTotal"`
}

type CartTotals struct {
	ItemsPrice    decimal.Decimal `json:"itemsPrice"`
	ShippingPrice decimal.Decimal `json:"shippingPrice"`
	TaxPrice      decimal.Decimal `json:"taxPrice"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
}

type CartResponse struct {
	Items           []CartLine            `json:"items"`
	ShippingAddress model.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                `json:"paymentMethod"`
	Packaging       string                `json:"packaging"`
	Totals          CartTotals            `json:"totals"`
}

type PlaceOrderResponse struct {
	OrderID string `json:"orderId"`
}

// --- currency ---

type SelectCurrencyRequest struct {
	Currency string `json:"currency"`
}

type CurrencyResponse struct {
	Selected string                     `json:"selected"`
	Base     string                     `json:"base"`
	Rates    map[string]decimal.Decimal `json:"rates"`
	Symbols  map[string]string          `json:"symbols"`
}

type ConvertResponse struct {
	Currency  string          `json:"currency"`
	Amount    decimal.Decimal `json:"amount"`
	Formatted string          `json:"formatted"`
}

// --- orders ---

type PayRequest struct {
	PaypalOrderID string `json:"paypalOrderId,omitempty"`
	Nonce         string `json:"nonce,omitempty"`
	Reference     string `json:"reference,omitempty"`
}

type DisputeRequest struct {
	Reason      string `json:"reason"`
	Description string `json:"description"`
}

type ResolveDisputeRequest struct {
	Resolution string `json:"resolution"`
}

type OrderView struct {
	Order             *model.Order `json:"order"`
	IsPaid            bool         `json:"isPaid"`
	IsShipped         bool         `json:"isShipped"`
	IsDelivered       bool         `json:"isDelivered"`
	IsBuyer           bool         `json:"isBuyer"`
	IsSeller          bool         `json:"isSeller"`
	IsAdmin           bool         `json:"isAdmin"`
	HasOpenDispute    bool         `json:"hasOpenDispute"`
	IsDisputeResolved bool         `json:"isDisputeResolved"`
	Actions           []string     `json:"actions"`
	PayGateways       []string     `json:"payGateways,omitempty"`
}

type PaymentKeysResponse struct {
	Keys map[string]string `json:"keys"`
}

// --- users ---

type WishlistResponse struct {
	Wishlist []string `json:"wishlist"`
}
