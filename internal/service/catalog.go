package service

import (
	"context"
	"fmt"
	"strings"

	"artmarket-storefront/internal/client"
	"artmarket-storefront/internal/model"
)

type CatalogService interface {
	List(ctx context.Context, q client.ProductQuery) (*model.ProductPage, error)
	Get(ctx context.Context, productID string) (*model.Product, error)
	Create(ctx context.Context, session *model.Session, in *client.ProductInput) (*model.Product, error)
	Update(ctx context.Context, session *model.Session, productID string, in *client.ProductInput) (*model.Product, error)
	Delete(ctx context.Context, session *model.Session, productID string) error
	Approve(ctx context.Context, session *model.Session, productID string) (*model.Product, error)
	Decline(ctx context.Context, session *model.Session, productID string) (*model.Product, error)
	ToggleFeatured(ctx context.Context, session *model.Session, productID string) (*model.Product, error)
	ByArtist(ctx context.Context, artistID string) ([]model.Product, error)
	ByCategory(ctx context.Context, category string) ([]model.Product, error)
}

type catalogServiceImpl struct {
	marketplace client.MarketplaceClient
}

func NewCatalogService(marketplace client.MarketplaceClient) CatalogService {
	return &catalogServiceImpl{
		marketplace: marketplace,
	}
}

func requireSeller(session *model.Session) error {
	if !session.Authenticated() {
		return ErrNotAuthenticated
	}
	if session.IsAdmin || (session.IsSeller && session.IsSellerApproved) {
		return nil
	}
	return ErrForbidden
}

func requireAdmin(session *model.Session) error {
	if !session.Authenticated() {
		return ErrNotAuthenticated
	}
	if !session.IsAdmin {
		return ErrForbidden
	}
	return nil
}

func validateProduct(in *client.ProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: product name is required", ErrValidation)
	}
	if !in.Price.IsPositive() {
		return fmt.Errorf("%w: price must be positive", ErrValidation)
	}
	if in.CountInStock < 0 {
		return fmt.Errorf("%w: stock cannot be negative", ErrValidation)
	}
	return nil
}

func (s *catalogServiceImpl) List(ctx context.Context, q client.ProductQuery) (*model.ProductPage, error) {
	return s.marketplace.ListProducts(ctx, q)
}

func (s *catalogServiceImpl) Get(ctx context.Context, productID string) (*model.Product, error) {
	return s.marketplace.GetProduct(ctx, productID)
}

func (s *catalogServiceImpl) Create(ctx context.Context, session *model.Session, in *client.ProductInput) (*model.Product, error) {
	if err := requireSeller(session); err != nil {
		return nil, err
	}
	if err := validateProduct(in); err != nil {
		return nil, err
	}
	return s.marketplace.CreateProduct(ctx, session.Token, in)
}

func (s *catalogServiceImpl) Update(ctx context.Context, session *model.Session, productID string, in *client.ProductInput) (*model.Product, error) {
	if err := requireSeller(session); err != nil {
		return nil, err
	}
	if err := validateProduct(in); err != nil {
		return nil, err
	}
	return s.marketplace.UpdateProduct(ctx, session.Token, productID, in)
}

func (s *catalogServiceImpl) Delete(ctx context.Context, session *model.Session, productID string) error {
	if err := requireSeller(session); err != nil {
		return err
	}
	return s.marketplace.DeleteProduct(ctx, session.Token, productID)
}

func (s *catalogServiceImpl) Approve(ctx context.Context, session *model.Session, productID string) (*model.Product, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	return s.marketplace.ApproveProduct(ctx, session.Token, productID)
}

func (s *catalogServiceImpl) Decline(ctx context.Context, session *model.Session, productID string) (*model.Product, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	return s.marketplace.DeclineProduct(ctx, session.Token, productID)
}

func (s *catalogServiceImpl) ToggleFeatured(ctx context.Context, session *model.Session, productID string) (*model.Product, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	return s.marketplace.ToggleFeaturedProduct(ctx, session.Token, productID)
}

func (s *catalogServiceImpl) ByArtist(ctx context.Context, artistID string) ([]model.Product, error) {
	return s.marketplace.ProductsByArtist(ctx, artistID)
}

func (s *catalogServiceImpl) ByCategory(ctx context.Context, category string) ([]model.Product, error) {
	return s.marketplace.ProductsByCategory(ctx, category)
}
