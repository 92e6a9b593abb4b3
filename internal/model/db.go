package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Session is one browser session. UserID is empty for anonymous visitors.
type Session struct {
	ID               string `gorm:"primaryKey;size:64;not null"`
	UserID           string `gorm:"size:64;index"`
	Name             string `gorm:"size:128"`
	Email            string `gorm:"size:255"`
	IsSeller         bool   `gorm:"not null;default:false"`
	IsSellerApproved bool   `gorm:"not null;default:false"`
	IsAdmin          bool   `gorm:"not null;default:false"`
	Token            string `gorm:"type:text"`
	ExpiresAt        *time.Time
	Currency         string `gorm:"size:8"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != ""
}

// Expired reports whether the bearer token is past its expiry.
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && !now.Before(*s.ExpiresAt)
}

type CartItem struct {
	SessionID    string          `gorm:"primaryKey;size:64;not null"`
	ProductID    string          `gorm:"primaryKey;size:64;not null"`
	Name         string          `gorm:"size:255;not null"`
	Image        string          `gorm:"size:512"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CountInStock int             `gorm:"not null"`
	SellerID     string          `gorm:"size:64"`
	Quantity     int             `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CheckoutSelection holds the shipping, payment and packaging choices of a cart.
type CheckoutSelection struct {
	SessionID     string `gorm:"primaryKey;size:64;not null"`
	Address       string `gorm:"size:255"`
	City          string `gorm:"size:128"`
	PostalCode    string `gorm:"size:32"`
	Country       string `gorm:"size:64"`
	PaymentMethod string `gorm:"size:32"`
	Packaging     string `gorm:"size:32"`
	UpdatedAt     time.Time
}

func (c *CheckoutSelection) ShippingAddress() ShippingAddress {
	return ShippingAddress{
		Address:    c.Address,
		City:       c.City,
		PostalCode: c.PostalCode,
		Country:    c.Country,
	}
}

// PaymentRecord is a gateway confirmation already obtained for an order.
type PaymentRecord struct {
	Gateway       string `gorm:"primaryKey;size:32;not null"`
	Reference     string `gorm:"primaryKey;size:128;not null"`
	OrderID       string `gorm:"size:64;index;not null"`
	TransactionID string `gorm:"size:128;not null"`
	Status        string `gorm:"size:32;not null"`
	UpdateTime    string `gorm:"size:64"`
	EmailAddress  string `gorm:"size:255"`
	Reported      bool   `gorm:"not null;default:false"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (p *PaymentRecord) Result() *PaymentResult {
	return &PaymentResult{
		Gateway:      p.Gateway,
		ID:           p.TransactionID,
		Status:       p.Status,
		UpdateTime:   p.UpdateTime,
		EmailAddress: p.EmailAddress,
	}
}
