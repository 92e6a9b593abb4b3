package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"artmarket-storefront/internal/client"
	"artmarket-storefront/internal/config"
	"artmarket-storefront/internal/dto"
	"artmarket-storefront/internal/model"
	"artmarket-storefront/internal/repository"

	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
)

// Pricing holds the checkout constants: free shipping above the threshold,
// a flat fee otherwise, tax as a fraction of the items price.
type Pricing struct {
	FreeShippingThreshold decimal.Decimal
	ShippingFee           decimal.Decimal
	TaxRate               decimal.Decimal
}

func NewPricing(cfg *config.Checkout) (Pricing, error) {
	threshold, err := decimal.NewFromString(cfg.FreeShippingThreshold)
	if err != nil {
		return Pricing{}, fmt.Errorf("invalid free shipping threshold: %w", err)
	}
	fee, err := decimal.NewFromString(cfg.ShippingFee)
	if err != nil {
		return Pricing{}, fmt.Errorf("invalid shipping fee: %w", err)
	}
	rate, err := decimal.NewFromString(cfg.TaxRate)
	if err != nil {
		return Pricing{}, fmt.Errorf("invalid tax rate: %w", err)
	}
	return Pricing{
		FreeShippingThreshold: threshold,
		ShippingFee:           fee,
		TaxRate:               rate,
	}, nil
}

// ComputeTotals recomputes every total from the line items.
func ComputeTotals(items []*model.CartItem, pricing Pricing) dto.CartTotals {
	itemsPrice := decimal.Zero
	for _, item := range items {
		itemsPrice = itemsPrice.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	itemsPrice = itemsPrice.Round(2)

	shipping := pricing.ShippingFee
	if itemsPrice.GreaterThan(pricing.FreeShippingThreshold) {
		shipping = decimal.Zero
	}
	shipping = shipping.Round(2)

	tax := itemsPrice.Mul(pricing.TaxRate).Round(2)

	return dto.CartTotals{
		ItemsPrice:    itemsPrice,
		ShippingPrice: shipping,
		TaxPrice:      tax,
		TotalPrice:    itemsPrice.Add(shipping).Add(tax),
	}
}

type CartService interface {
	Get(ctx context.Context, sessionID string) (*dto.CartResponse, error)
	// SetItem adds the product or overwrites the quantity of an existing line.
	SetItem(ctx context.Context, sessionID, productID string, quantity int) (*dto.CartResponse, error)
	// RemoveItem is a no-op for products that are not in the cart.
	RemoveItem(ctx context.Context, sessionID, productID string) (*dto.CartResponse, error)
	Clear(ctx context.Context, sessionID string) error
	SetShippingAddress(ctx context.Context, sessionID string, address model.ShippingAddress) (*dto.CartResponse, error)
	SetPaymentMethod(ctx context.Context, sessionID, method string) (*dto.CartResponse, error)
	SetPackaging(ctx context.Context, sessionID, packaging string) (*dto.CartResponse, error)
	PlaceOrder(ctx context.Context, session *model.Session) (*model.Order, error)
}

type cartServiceImpl struct {
	cartRepo         repository.CartRepository
	marketplace      client.MarketplaceClient
	pricing          Pricing
	gateways         []string
	packagingOptions []string
}

func NewCartService(
	cartRepo repository.CartRepository,
	marketplace client.MarketplaceClient,
	pricing Pricing,
	gateways []string,
	packagingOptions []string,
) CartService {
	return &cartServiceImpl{
		cartRepo:         cartRepo,
		marketplace:      marketplace,
		pricing:          pricing,
		gateways:         gateways,
		packagingOptions: packagingOptions,
	}
}

func (s *cartServiceImpl) Get(ctx context.Context, sessionID string) (*dto.CartResponse, error) {
	items, err := s.cartRepo.Items(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get cart items: %w", err)
	}
	selection, err := s.cartRepo.GetSelection(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get checkout selection: %w", err)
	}

	lines := make([]dto.CartLine, len(items))
	for i, item := range items {
		lines[i] = dto.CartLine{
			ProductID:    item.ProductID,
			Name:         item.Name,
			Image:        item.Image,
			UnitPrice:    item.UnitPrice,
			CountInStock: item.CountInStock,
			Quantity:     item.Quantity,
			LineTotal:    item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
		}
	}

	return &dto.CartResponse{
		Items:           lines,
		ShippingAddress: selection.ShippingAddress(),
		PaymentMethod:   selection.PaymentMethod,
		Packaging:       selection.Packaging,
		Totals:          ComputeTotals(items, s.pricing),
	}, nil
}

func (s *cartServiceImpl) SetItem(ctx context.Context, sessionID, productID string, quantity int) (*dto.CartResponse, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidQuantity)
	}

	product, err := s.marketplace.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", productID, err)
	}
	if product.CountInStock > 0 && quantity > product.CountInStock {
		return nil, fmt.Errorf("%w: only %d in stock", ErrInvalidQuantity, product.CountInStock)
	}

	err = s.cartRepo.Upsert(ctx, &model.CartItem{
		SessionID:    sessionID,
		ProductID:    product.ID,
		Name:         product.Name,
		Image:        product.Image,
		UnitPrice:    product.Price,
		CountInStock: product.CountInStock,
		SellerID:     product.SellerID,
		Quantity:     quantity,
	})
	if err != nil {
		return nil, fmt.Errorf("store cart item: %w", err)
	}

	return s.Get(ctx, sessionID)
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, sessionID, productID string) (*dto.CartResponse, error) {
	if err := s.cartRepo.Remove(ctx, sessionID, productID); err != nil {
		return nil, fmt.Errorf("remove cart item: %w", err)
	}
	return s.Get(ctx, sessionID)
}

func (s *cartServiceImpl) Clear(ctx context.Context, sessionID string) error {
	return s.cartRepo.Clear(ctx, sessionID)
}

func (s *cartServiceImpl) updateSelection(ctx context.Context, sessionID string, apply func(*model.CheckoutSelection)) (*dto.CartResponse, error) {
	selection, err := s.cartRepo.GetSelection(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get checkout selection: %w", err)
	}
	apply(selection)
	if err := s.cartRepo.SaveSelection(ctx, selection); err != nil {
		return nil, fmt.Errorf("save checkout selection: %w", err)
	}
	return s.Get(ctx, sessionID)
}

func (s *cartServiceImpl) SetShippingAddress(ctx context.Context, sessionID string, address model.ShippingAddress) (*dto.CartResponse, error) {
	address = model.ShippingAddress{
		Address:    strings.TrimSpace(address.Address),
		City:       strings.TrimSpace(address.City),
		PostalCode: strings.TrimSpace(address.PostalCode),
		Country:    strings.TrimSpace(address.Country),
	}
	if !address.Complete() {
		return nil, ErrMissingShipping
	}

	return s.updateSelection(ctx, sessionID, func(sel *model.CheckoutSelection) {
		sel.Address = address.Address
		sel.City = address.City
		sel.PostalCode = address.PostalCode
		sel.Country = address.Country
	})
}

func (s *cartServiceImpl) SetPaymentMethod(ctx context.Context, sessionID, method string) (*dto.CartResponse, error) {
	if !slices.Contains(s.gateways, method) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGateway, method)
	}
	return s.updateSelection(ctx, sessionID, func(sel *model.CheckoutSelection) {
		sel.PaymentMethod = method
	})
}

func (s *cartServiceImpl) SetPackaging(ctx context.Context, sessionID, packaging string) (*dto.CartResponse, error) {
	if !slices.Contains(s.packagingOptions, packaging) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPackaging, packaging)
	}
	return s.updateSelection(ctx, sessionID, func(sel *model.CheckoutSelection) {
		sel.Packaging = packaging
	})
}

func (s *cartServiceImpl) PlaceOrder(ctx context.Context, session *model.Session) (*model.Order, error) {
	if !session.Authenticated() {
		return nil, ErrNotAuthenticated
	}

	items, err := s.cartRepo.Items(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("get cart items: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	selection, err := s.cartRepo.GetSelection(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("get checkout selection: %w", err)
	}
	if !selection.ShippingAddress().Complete() {
		return nil, ErrMissingShipping
	}
	if selection.PaymentMethod == "" {
		return nil, ErrMissingPaymentMethod
	}

	packaging := selection.Packaging
	if packaging == "" && len(s.packagingOptions) > 0 {
		packaging = s.packagingOptions[0]
	}

	totals := ComputeTotals(items, s.pricing)
	orderItems := make([]model.OrderItem, len(items))
	for i, item := range items {
		orderItems[i] = model.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Quantity:  item.Quantity,
			Price:     item.UnitPrice,
			SellerID:  item.SellerID,
		}
	}

	order, err := s.marketplace.CreateOrder(ctx, session.Token, &client.CreateOrderInput{
		OrderItems:      orderItems,
		ShippingAddress: selection.ShippingAddress(),
		PaymentMethod:   selection.PaymentMethod,
		Packaging:       packaging,
		ItemsPrice:      totals.ItemsPrice,
		ShippingPrice:   totals.ShippingPrice,
		TaxPrice:        totals.TaxPrice,
		TotalPrice:      totals.TotalPrice,
	})
	if err != nil {
		return nil, fmt.Errorf("marketplace create order: %w", err)
	}

	// the order exists now; a failed clear only leaves a stale cart behind
	if err := s.cartRepo.Clear(ctx, session.ID); err != nil {
		log.Errorf("clear cart after order %s: %v", order.ID, err)
	}

	return order, nil
}
