package model

import "github.com/shopspring/decimal"

type Product struct {
	ID           string          `json:"_id"`
	Name         string          `json:"name"`
	Image        string          `json:"image"`
	Description  string          `json:"description,omitempty"`
	Category     string          `json:"category,omitempty"`
	Price        decimal.Decimal `json:"price"`
	CountInStock int             `json:"countInStock"`
	SellerID     string          `json:"user,omitempty"`
	IsApproved   bool            `json:"isApproved"`
	IsFeatured   bool            `json:"isFeatured"`
}

type ProductPage struct {
	Products []Product `json:"products"`
	Page     int       `json:"page"`
	Pages    int       `json:"pages"`
}

type User struct {
	ID               string   `json:"_id"`
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	IsSeller         bool     `json:"isSeller"`
	IsSellerApproved bool     `json:"isSellerApproved"`
	IsAdmin          bool     `json:"isAdmin"`
	IsFeatured       bool     `json:"isFeatured,omitempty"`
	Wishlist         []string `json:"wishlist,omitempty"`
	Token            string   `json:"token,omitempty"`
}
