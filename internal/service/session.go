package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"artmarket-storefront/internal/client"
	"artmarket-storefront/internal/dto"
	"artmarket-storefront/internal/model"
	"artmarket-storefront/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type SessionService interface {
	// Resolve loads the session, creating a fresh anonymous one when the id
	// is empty or unknown. An expired login is cleared before returning.
	Resolve(ctx context.Context, sessionID string) (*model.Session, error)
	Login(ctx context.Context, sessionID string, req *dto.LoginRequest) (*model.Session, error)
	Register(ctx context.Context, sessionID string, req *dto.RegisterRequest) (*model.Session, bool, error)
	VerifyOTP(ctx context.Context, sessionID string, req *dto.VerifyOTPRequest) (*model.Session, error)
	ResendOTP(ctx context.Context, email string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
	Logout(ctx context.Context, sessionID string) error
	// Apply stores a fresh profile snapshot on an authenticated session.
	Apply(ctx context.Context, sessionID string, user *model.User) (*model.Session, error)
}

type sessionServiceImpl struct {
	sessionRepo     repository.SessionRepository
	marketplace     client.MarketplaceClient
	defaultCurrency string
	now             func() time.Time
}

func NewSessionService(
	sessionRepo repository.SessionRepository,
	marketplace client.MarketplaceClient,
	defaultCurrency string,
) SessionService {
	return &sessionServiceImpl{
		sessionRepo:     sessionRepo,
		marketplace:     marketplace,
		defaultCurrency: defaultCurrency,
		now:             time.Now,
	}
}

func (s *sessionServiceImpl) Resolve(ctx context.Context, sessionID string) (*model.Session, error) {
	if sessionID != "" {
		session, err := s.sessionRepo.Get(ctx, sessionID)
		if err == nil {
			if session.Authenticated() && session.Expired(s.now()) {
				log.Infof("session %s: token expired, clearing user", session.ID)
				if err := s.sessionRepo.ClearUser(ctx, session.ID); err != nil {
					return nil, fmt.Errorf("clear expired session: %w", err)
				}
				return s.sessionRepo.Get(ctx, session.ID)
			}
			return session, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("get session: %w", err)
		}
	}

	session := &model.Session{
		ID:       uuid.NewString(),
		Currency: s.defaultCurrency,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

func (s *sessionServiceImpl) Login(ctx context.Context, sessionID string, req *dto.LoginRequest) (*model.Session, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	user, err := s.marketplace.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, fmt.Errorf("marketplace login: %w", err)
	}

	return s.Apply(ctx, sessionID, user)
}

// Register returns pending=true when the backend still wants an email OTP
// before it issues a token.
func (s *sessionServiceImpl) Register(ctx context.Context, sessionID string, req *dto.RegisterRequest) (*model.Session, bool, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, false, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !emailPattern.MatchString(req.Email) {
		return nil, false, fmt.Errorf("%w: invalid email address", ErrValidation)
	}
	if err := validatePassword(req.Password, req.ConfirmPassword); err != nil {
		return nil, false, err
	}

	user, err := s.marketplace.Register(ctx, &client.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, false, fmt.Errorf("marketplace register: %w", err)
	}

	if user.Token == "" {
		session, err := s.Resolve(ctx, sessionID)
		return session, true, err
	}

	session, err := s.Apply(ctx, sessionID, user)
	return session, false, err
}

func (s *sessionServiceImpl) VerifyOTP(ctx context.Context, sessionID string, req *dto.VerifyOTPRequest) (*model.Session, error) {
	if req.Email == "" || req.OTP == "" {
		return nil, fmt.Errorf("%w: email and otp are required", ErrValidation)
	}

	user, err := s.marketplace.VerifyOTP(ctx, req.Email, req.OTP)
	if err != nil {
		return nil, fmt.Errorf("marketplace verify otp: %w", err)
	}

	if user.Token == "" {
		return s.Resolve(ctx, sessionID)
	}
	return s.Apply(ctx, sessionID, user)
}

func (s *sessionServiceImpl) ResendOTP(ctx context.Context, email string) error {
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: invalid email address", ErrValidation)
	}
	return s.marketplace.ResendOTP(ctx, email)
}

func (s *sessionServiceImpl) ForgotPassword(ctx context.Context, email string) error {
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: invalid email address", ErrValidation)
	}
	return s.marketplace.ForgotPassword(ctx, email)
}

func (s *sessionServiceImpl) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	if req.Token == "" {
		return fmt.Errorf("%w: reset token is required", ErrValidation)
	}
	if err := validatePassword(req.Password, req.ConfirmPassword); err != nil {
		return err
	}
	return s.marketplace.ResetPassword(ctx, req.Token, req.Password)
}

func (s *sessionServiceImpl) Logout(ctx context.Context, sessionID string) error {
	session, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("get session: %w", err)
	}

	if session.Token != "" {
		// the local session is cleared whatever the backend says
		if err := s.marketplace.Logout(ctx, session.Token); err != nil {
			log.Warnf("marketplace logout for session %s: %v", session.ID, err)
		}
	}

	return s.sessionRepo.ClearUser(ctx, session.ID)
}

func (s *sessionServiceImpl) Apply(ctx context.Context, sessionID string, user *model.User) (*model.Session, error) {
	session, err := s.Resolve(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	session.UserID = user.ID
	session.Name = user.Name
	session.Email = user.Email
	session.IsSeller = user.IsSeller
	session.IsSellerApproved = user.IsSellerApproved
	session.IsAdmin = user.IsAdmin
	if user.Token != "" {
		session.Token = user.Token
		session.ExpiresAt = tokenExpiry(user.Token)
	}

	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

// tokenExpiry reads the exp claim without verifying the signature; the
// signing key belongs to the backend. Opaque tokens have no known expiry.
func tokenExpiry(token string) *time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	t := exp.Time
	return &t
}

func validatePassword(password, confirm string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return fmt.Errorf("%w: password needs an upper case letter, a lower case letter and a digit", ErrValidation)
	}
	if password != confirm {
		return fmt.Errorf("%w: passwords do not match", ErrValidation)
	}
	return nil
}
