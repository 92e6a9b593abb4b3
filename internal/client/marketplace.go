package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"artmarket-storefront/internal/config"
	"artmarket-storefront/internal/model"

	"github.com/shopspring/decimal"
)

// MarketplaceClient is the REST surface of the marketplace backend. Every
// call that needs credentials takes the session's bearer token.
type MarketplaceClient interface {
	// auth
	Login(ctx context.Context, email, password string) (*model.User, error)
	Logout(ctx context.Context, token string) error
	Register(ctx context.Context, in *RegisterInput) (*model.User, error)
	VerifyOTP(ctx context.Context, email, otp string) (*model.User, error)
	ResendOTP(ctx context.Context, email string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, resetToken, password string) error

	// products
	ListProducts(ctx context.Context, q ProductQuery) (*model.ProductPage, error)
	GetProduct(ctx context.Context, productID string) (*model.Product, error)
	CreateProduct(ctx context.Context, token string, in *ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, token, productID string, in *ProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, token, productID string) error
	ApproveProduct(ctx context.Context, token, productID string) (*model.Product, error)
	DeclineProduct(ctx context.Context, token, productID string) (*model.Product, error)
	ToggleFeaturedProduct(ctx context.Context, token, productID string) (*model.Product, error)
	ProductsByArtist(ctx context.Context, artistID string) ([]model.Product, error)
	ProductsByCategory(ctx context.Context, category string) ([]model.Product, error)

	// orders
	CreateOrder(ctx context.Context, token string, in *CreateOrderInput) (*model.Order, error)
	GetOrder(ctx context.Context, token, orderID string) (*model.Order, error)
	PayOrder(ctx context.Context, token, orderID string, result *model.PaymentResult) (*model.Order, error)
	ShipOrder(ctx context.Context, token, orderID string) (*model.Order, error)
	ConfirmReceipt(ctx context.Context, token, orderID string) (*model.Order, error)
	ListMyOrders(ctx context.Context, token string) ([]model.Order, error)
	ListSellerOrders(ctx context.Context, token string) ([]model.Order, error)
	ListOrders(ctx context.Context, token string) ([]model.Order, error)
	CreateDispute(ctx context.Context, token, orderID string, in *DisputeInput) (*model.Order, error)
	UpdateDispute(ctx context.Context, token, orderID string, in *DisputeUpdateInput) (*model.Order, error)
	ListDisputes(ctx context.Context, token string) ([]model.OrderDispute, error)

	// users
	GetProfile(ctx context.Context, token string) (*model.User, error)
	UpdateProfile(ctx context.Context, token string, in *ProfileInput) (*model.User, error)
	RequestSeller(ctx context.Context, token string, in *SellerRequestInput) (*model.User, error)
	ApproveSeller(ctx context.Context, token, userID string) (*model.User, error)
	DeclineSeller(ctx context.Context, token, userID string) (*model.User, error)
	ToggleFeaturedArtist(ctx context.Context, token, userID string) (*model.User, error)
	AddToWishlist(ctx context.Context, token, productID string) ([]string, error)
	RemoveFromWishlist(ctx context.Context, token, productID string) ([]string, error)

	// config
	PaymentKey(ctx context.Context, gateway string) (string, error)
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ProductQuery struct {
	Keyword string
	Page    int
}

type ProductInput struct {
	Name         string          `json:"name"`
	Image        string          `json:"image"`
	Description  string          `json:"description"`
	Category     string          `json:"category"`
	Price        decimal.Decimal `json:"price"`
	CountInStock int             `json:"countInStock"`
}

type CreateOrderInput struct {
	OrderItems      []model.OrderItem     `json:"orderItems"`
	ShippingAddress model.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                `json:"paymentMethod"`
	Packaging       string                `json:"packaging"`
	ItemsPrice      decimal.Decimal       `json:"itemsPrice"`
	ShippingPrice   decimal.Decimal       `json:"shippingPrice"`
	TaxPrice        decimal.Decimal       `json:"taxPrice"`
	TotalPrice      decimal.Decimal       `json:"totalPrice"`
}

type DisputeInput struct {
	Reason      string `json:"reason"`
	Description string `json:"description"`
}

type DisputeUpdateInput struct {
	Status     model.DisputeStatus `json:"status"`
	Resolution string              `json:"resolution"`
}

type ProfileInput struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

type SellerRequestInput struct {
	StoreName string `json:"storeName"`
	Bio       string `json:"bio"`
	Portfolio string `json:"portfolio,omitempty"`
}

type marketplaceClientImpl struct {
	httpClient *http.Client
	baseURL    string
}

func NewMarketplaceClient(cfg *config.Marketplace) MarketplaceClient {
	return &marketplaceClientImpl{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

func (c *marketplaceClientImpl) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal req payload: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, respBody)
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func esc(s string) string {
	return url.PathEscape(s)
}

// --- auth ---

func (c *marketplaceClientImpl) Login(ctx context.Context, email, password string) (*model.User, error) {
	var user model.User
	err := c.do(ctx, http.MethodPost, "/api/users/login", "", map[string]string{
		"email":    email,
		"password": password,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *marketplaceClientImpl) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/api/users/logout", token, nil, nil)
}

func (c *marketplaceClientImpl) Register(ctx context.Context, in *RegisterInput) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodPost, "/api/users", "", in, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *marketplaceClientImpl) VerifyOTP(ctx context.Context, email, otp string) (*model.User, error) {
	var user model.User
	err := c.do(ctx, http.MethodPost, "/api/users/verify-otp", "", map[string]string{
		"email": email,
		"otp":   otp,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *marketplaceClientImpl) ResendOTP(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/api/users/resend-otp", "", map[string]string{"email": email}, nil)
}

func (c *marketplaceClientImpl) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/api/users/forgot-password", "", map[string]string{"email": email}, nil)
}

func (c *marketplaceClientImpl) ResetPassword(ctx context.Context, resetToken, password string) error {
	return c.do(ctx, http.MethodPut, "/api/users/reset-password/"+esc(resetToken), "",
		map[string]string{"password": password}, nil)
}

// --- products ---

func (c *marketplaceClientImpl) ListProducts(ctx context.Context, q ProductQuery) (*model.ProductPage, error) {
	params := url.Values{}
	if q.Keyword != "" {
		params.Set("keyword", q.Keyword)
	}
	if q.Page > 0 {
		params.Set("pageNumber", strconv.Itoa(q.Page))
	}
	path := "/api/products"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var page model.ProductPage
	if err := c.do(ctx, http.MethodGet, path, "", nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *marketplaceClientImpl) GetProduct(ctx context.Context, productID string) (*model.Product, error) {
	var product model.Product
	if err := c.do(ctx, http.MethodGet, "/api/products/"+esc(productID), "", nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *marketplaceClientImpl) productCall(ctx context.Context, method, path, token string, in any) (*model.Product, error) {
	var product model.Product
	if err := c.do(ctx, method, path, token, in, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *marketplaceClientImpl) CreateProduct(ctx context.Context, token string, in *ProductInput) (*model.Product, error) {
	return c.productCall(ctx, http.MethodPost, "/api/products", token, in)
}

func (c *marketplaceClientImpl) UpdateProduct(ctx context.Context, token, productID string, in *ProductInput) (*model.Product, error) {
	return c.productCall(ctx, http.MethodPut, "/api/products/"+esc(productID), token, in)
}

func (c *marketplaceClientImpl) DeleteProduct(ctx context.Context, token, productID string) error {
	return c.do(ctx, http.MethodDelete, "/api/products/"+esc(productID), token, nil, nil)
}

func (c *marketplaceClientImpl) ApproveProduct(ctx context.Context, token, productID string) (*model.Product, error) {
	return c.productCall(ctx, http.MethodPut, "/api/products/"+esc(productID)+"/approve", token, nil)
}

func (c *marketplaceClientImpl) DeclineProduct(ctx context.Context, token, productID string) (*model.Product, error) {
	return c.productCall(ctx, http.MethodPut, "/api/products/"+esc(productID)+"/decline", token, nil)
}

func (c *marketplaceClientImpl) ToggleFeaturedProduct(ctx context.Context, token, productID string) (*model.Product, error) {
	return c.productCall(ctx, http.MethodPut, "/api/products/"+esc(productID)+"/featured", token, nil)
}

func (c *marketplaceClientImpl) ProductsByArtist(ctx context.Context, artistID string) ([]model.Product, error) {
	var products []model.Product
	if err := c.do(ctx, http.MethodGet, "/api/products/artist/"+esc(artistID), "", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *marketplaceClientImpl) ProductsByCategory(ctx context.Context, category string) ([]model.Product, error) {
	var products []model.Product
	if err := c.do(ctx, http.MethodGet, "/api/products/category/"+esc(category), "", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// --- orders ---

func (c *marketplaceClientImpl) orderCall(ctx context.Context, method, path, token string, in any) (*model.Order, error) {
	var order model.Order
	if err := c.do(ctx, method, path, token, in, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *marketplaceClientImpl) listOrders(ctx context.Context, path, token string) ([]model.Order, error) {
	var orders []model.Order
	if err := c.do(ctx, http.MethodGet, path, token, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *marketplaceClientImpl) CreateOrder(ctx context.Context, token string, in *CreateOrderInput) (*model.Order, error) {
	return c.orderCall(ctx, http.MethodPost, "/api/orders", token, in)
}

func (c *marketplaceClientImpl) GetOrder(ctx context.Context, token, orderID string) (*model.Order, error) {
	return c.orderCall(ctx, http.MethodGet, "/api/orders/"+esc(orderID), token, nil)
}

func (c *marketplaceClientImpl) PayOrder(ctx context.Context, token, orderID string, result *model.PaymentResult) (*model.Order, error) {
	return c.orderCall(ctx, http.MethodPut, "/api/orders/"+esc(orderID)+"/pay", token, result)
}

func (c *marketplaceClientImpl) ShipOrder(ctx context.Context, token, orderID string) (*model.Order, error) {
	return c.orderCall(ctx, http.MethodPut, "/api/orders/"+esc(orderID)+"/ship", token, nil)
}

func (c *marketplaceClientImpl) ConfirmReceipt(ctx context.Context, token, orderID string) (*model.Order, error) {
	return c.orderCall(ctx, http.MethodPut, "/api/orders/"+esc(orderID)+"/deliver", token, nil)
}

func (c *marketplaceClientImpl) ListMyOrders(ctx context.Context, token string) ([]model.Order, error) {
	return c.listOrders(ctx, "/api/orders/myorders", token)
}

func (c *marketplaceClientImpl) ListSellerOrders(ctx context.Context, token string) ([]model.Order, error) {
	return c.listOrders(ctx, "/api/orders/seller", token)
}

func (c *marketplaceClientImpl) ListOrders(ctx context.Context, token string) ([]model.Order, error) {
	return c.listOrders(ctx, "/api/orders", token)
}

func (c *marketplaceClientImpl) CreateDispute(ctx context.Context, token, orderID string, in *DisputeInput) (*model.Order, error) {
	return c.orderCall(ctx, http.MethodPost, "/api/orders/"+esc(orderID)+"/dispute", token, in)
}

func (c *marketplaceClientImpl) UpdateDispute(ctx context.Context, token, orderID string, in *DisputeUpdateInput) (*model.Order, error) {
	return c.orderCall(ctx, http.MethodPut, "/api/orders/"+esc(orderID)+"/dispute", token, in)
}

func (c *marketplaceClientImpl) ListDisputes(ctx context.Context, token string) ([]model.OrderDispute, error) {
	var disputes []model.OrderDispute
	if err := c.do(ctx, http.MethodGet, "/api/orders/disputes", token, nil, &disputes); err != nil {
		return nil, err
	}
	return disputes, nil
}

// --- users ---

func (c *marketplaceClientImpl) userCall(ctx context.Context, method, path, token string, in any) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, method, path, token, in, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *marketplaceClientImpl) GetProfile(ctx context.Context, token string) (*model.User, error) {
	return c.userCall(ctx, http.MethodGet, "/api/users/profile", token, nil)
}

func (c *marketplaceClientImpl) UpdateProfile(ctx context.Context, token string, in *ProfileInput) (*model.User, error) {
	return c.userCall(ctx, http.MethodPut, "/api/users/profile", token, in)
}

func (c *marketplaceClientImpl) RequestSeller(ctx context.Context, token string, in *SellerRequestInput) (*model.User, error) {
	return c.userCall(ctx, http.MethodPost, "/api/users/seller-request", token, in)
}

func (c *marketplaceClientImpl) ApproveSeller(ctx context.Context, token, userID string) (*model.User, error) {
	return c.userCall(ctx, http.MethodPut, "/api/users/"+esc(userID)+"/seller/approve", token, nil)
}

func (c *marketplaceClientImpl) DeclineSeller(ctx context.Context, token, userID string) (*model.User, error) {
	return c.userCall(ctx, http.MethodPut, "/api/users/"+esc(userID)+"/seller/decline", token, nil)
}

func (c *marketplaceClientImpl) ToggleFeaturedArtist(ctx context.Context, token, userID string) (*model.User, error) {
	return c.userCall(ctx, http.MethodPut, "/api/users/"+esc(userID)+"/featured", token, nil)
}

func (c *marketplaceClientImpl) AddToWishlist(ctx context.Context, token, productID string) ([]string, error) {
	var res struct {
		Wishlist []string `json:"wishlist"`
	}
	err := c.do(ctx, http.MethodPost, "/api/users/wishlist", token, map[string]string{"productId": productID}, &res)
	if err != nil {
		return nil, err
	}
	return res.Wishlist, nil
}

func (c *marketplaceClientImpl) RemoveFromWishlist(ctx context.Context, token, productID string) ([]string, error) {
	var res struct {
		Wishlist []string `json:"wishlist"`
	}
	if err := c.do(ctx, http.MethodDelete, "/api/users/wishlist/"+esc(productID), token, nil, &res); err != nil {
		return nil, err
	}
	return res.Wishlist, nil
}

// --- config ---

// PaymentKey fetches the public (client-side) key of a payment gateway.
func (c *marketplaceClientImpl) PaymentKey(ctx context.Context, gateway string) (string, error) {
	var res struct {
		ClientID  string `json:"clientId"`
		PublicKey string `json:"publicKey"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/config/"+esc(gateway), "", nil, &res); err != nil {
		return "", err
	}
	if res.ClientID != "" {
		return res.ClientID, nil
	}
	return res.PublicKey, nil
}
