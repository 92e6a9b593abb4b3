package service

import (
	"context"
	"fmt"
	"strings"

	"artmarket-storefront/internal/client"
	"artmarket-storefront/internal/model"
)

type UserService interface {
	Profile(ctx context.Context, session *model.Session) (*model.User, error)
	UpdateProfile(ctx context.Context, session *model.Session, in *client.ProfileInput) (*model.User, error)
	RequestSeller(ctx context.Context, session *model.Session, in *client.SellerRequestInput) (*model.User, error)
	ApproveSeller(ctx context.Context, session *model.Session, userID string) (*model.User, error)
	DeclineSeller(ctx context.Context, session *model.Session, userID string) (*model.User, error)
	ToggleFeaturedArtist(ctx context.Context, session *model.Session, userID string) (*model.User, error)
	AddToWishlist(ctx context.Context, session *model.Session, productID string) ([]string, error)
	RemoveFromWishlist(ctx context.Context, session *model.Session, productID string) ([]string, error)
}

type userServiceImpl struct {
	marketplace client.MarketplaceClient
	sessions    SessionService
}

func NewUserService(
	marketplace client.MarketplaceClient,
	sessions SessionService,
) UserService {
	return &userServiceImpl{
		marketplace: marketplace,
		sessions:    sessions,
	}
}

// Profile reads the profile and refreshes the session's snapshot with it.
func (s *userServiceImpl) Profile(ctx context.Context, session *model.Session) (*model.User, error) {
	if !session.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	user, err := s.marketplace.GetProfile(ctx, session.Token)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if _, err := s.sessions.Apply(ctx, session.ID, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userServiceImpl) UpdateProfile(ctx context.Context, session *model.Session, in *client.ProfileInput) (*model.User, error) {
	if !session.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	if in.Email != "" && !emailPattern.MatchString(in.Email) {
		return nil, fmt.Errorf("%w: invalid email address", ErrValidation)
	}
	if in.Password != "" {
		if err := validatePassword(in.Password, in.Password); err != nil {
			return nil, err
		}
	}

	user, err := s.marketplace.UpdateProfile(ctx, session.Token, in)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if _, err := s.sessions.Apply(ctx, session.ID, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userServiceImpl) RequestSeller(ctx context.Context, session *model.Session, in *client.SellerRequestInput) (*model.User, error) {
	if !session.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	if strings.TrimSpace(in.StoreName) == "" {
		return nil, fmt.Errorf("%w: store name is required", ErrValidation)
	}

	user, err := s.marketplace.RequestSeller(ctx, session.Token, in)
	if err != nil {
		return nil, fmt.Errorf("request seller: %w", err)
	}
	if _, err := s.sessions.Apply(ctx, session.ID, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userServiceImpl) ApproveSeller(ctx context.Context, session *model.Session, userID string) (*model.User, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	return s.marketplace.ApproveSeller(ctx, session.Token, userID)
}

func (s *userServiceImpl) DeclineSeller(ctx context.Context, session *model.Session, userID string) (*model.User, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	return s.marketplace.DeclineSeller(ctx, session.Token, userID)
}

func (s *userServiceImpl) ToggleFeaturedArtist(ctx context.Context, session *model.Session, userID string) (*model.User, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	return s.marketplace.ToggleFeaturedArtist(ctx, session.Token, userID)
}

func (s *userServiceImpl) AddToWishlist(ctx context.Context, session *model.Session, productID string) ([]string, error) {
	if !session.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	return s.marketplace.AddToWishlist(ctx, session.Token, productID)
}

func (s *userServiceImpl) RemoveFromWishlist(ctx context.Context, session *model.Session, productID string) ([]string, error) {
	if !session.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	return s.marketplace.RemoveFromWishlist(ctx, session.Token, productID)
}
