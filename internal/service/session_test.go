package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"artmarket-storefront/internal/dto"
	"artmarket-storefront/internal/model"
	"artmarket-storefront/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  "buyer",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return signed
}

func newTestSessionService(t *testing.T) (*sessionServiceImpl, *fakeMarketplace, repository.SessionRepository) {
	t.Helper()
	marketplace := newFakeMarketplace()
	sessionRepo := repository.NewSessionRepository(newTestDB(t))
	svc := NewSessionService(sessionRepo, marketplace, "NGN").(*sessionServiceImpl)
	return svc, marketplace, sessionRepo
}

func TestSessionService_ResolveCreatesAnonymousSession(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestSessionService(t)

	session, err := svc.Resolve(ctx, "")
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.False(t, session.Authenticated())
	assert.Equal(t, "NGN", session.Currency)

	again, err := svc.Resolve(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, again.ID)

	fresh, err := svc.Resolve(ctx, "forged-or-deleted")
	require.NoError(t, err)
	assert.NotEqual(t, "forged-or-deleted", fresh.ID)
}

func TestSessionService_LoginStoresTokenExpiry(t *testing.T) {
	ctx := context.Background()
	svc, marketplace, _ := newTestSessionService(t)

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	marketplace.user = &model.User{ID: "buyer", Name: "Ada", Email: "ada@example.com", Token: signedToken(t, exp)}

	anon, err := svc.Resolve(ctx, "")
	require.NoError(t, err)

	session, err := svc.Login(ctx, anon.ID, &dto.LoginRequest{Email: "ada@example.com", Password: "Secret123"})
	require.NoError(t, err)

	assert.Equal(t, anon.ID, session.ID)
	assert.Equal(t, "buyer", session.UserID)
	require.NotNil(t, session.ExpiresAt)
	assert.True(t, exp.Equal(*session.ExpiresAt))
}

func TestSessionService_LoginFailureKeepsAnonymous(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestSessionService(t)

	anon, err := svc.Resolve(ctx, "")
	require.NoError(t, err)

	_, err = svc.Login(ctx, anon.ID, &dto.LoginRequest{Email: "ada@example.com", Password: "wrong"})
	require.Error(t, err)

	session, err := svc.Resolve(ctx, anon.ID)
	require.NoError(t, err)
	assert.False(t, session.Authenticated())
}

func TestSessionService_ExpiredTokenClearsUser(t *testing.T) {
	ctx := context.Background()
	svc, marketplace, _ := newTestSessionService(t)

	marketplace.user = &model.User{ID: "buyer", Token: signedToken(t, time.Now().Add(time.Hour))}
	anon, err := svc.Resolve(ctx, "")
	require.NoError(t, err)
	_, err = svc.Login(ctx, anon.ID, &dto.LoginRequest{Email: "ada@example.com", Password: "Secret123"})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	session, err := svc.Resolve(ctx, anon.ID)
	require.NoError(t, err)
	assert.Equal(t, anon.ID, session.ID)
	assert.False(t, session.Authenticated())
	assert.Empty(t, session.Token)
}

func TestSessionService_LogoutIsBestEffort(t *testing.T) {
	ctx := context.Background()
	svc, marketplace, sessionRepo := newTestSessionService(t)

	marketplace.user = &model.User{ID: "buyer", Token: "opaque-token"}
	marketplace.logoutErr = errors.New("backend unavailable")

	anon, err := svc.Resolve(ctx, "")
	require.NoError(t, err)
	session, err := svc.Login(ctx, anon.ID, &dto.LoginRequest{Email: "ada@example.com", Password: "Secret123"})
	require.NoError(t, err)
	assert.Nil(t, session.ExpiresAt)

	require.NoError(t, sessionRepo.SetCurrency(ctx, anon.ID, "USD"))
	require.NoError(t, svc.Logout(ctx, anon.ID))
	assert.Equal(t, 1, marketplace.logouts)

	session, err = sessionRepo.Get(ctx, anon.ID)
	require.NoError(t, err)
	assert.False(t, session.Authenticated())
	assert.Equal(t, "USD", session.Currency)
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		confirm  string
		ok       bool
	}{
		{"Secret123", "Secret123", true},
		{"Sec123", "Sec123", false},
		{"secret123", "secret123", false},
		{"SECRET123", "SECRET123", false},
		{"SecretPass", "SecretPass", false},
		{"Secret123", "Secret124", false},
	}

	for _, tt := range tests {
		err := validatePassword(tt.password, tt.confirm)
		if tt.ok {
			assert.NoError(t, err, tt.password)
		} else {
			assert.ErrorIs(t, err, ErrValidation, tt.password)
		}
	}
}

func TestSessionService_ResetPasswordValidates(t *testing.T) {
	svc, _, _ := newTestSessionService(t)

	err := svc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{Token: "t", Password: "short", ConfirmPassword: "short"})
	assert.ErrorIs(t, err, ErrValidation)

	err = svc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{Token: "t", Password: "Secret123", ConfirmPassword: "Secret123"})
	assert.NoError(t, err)
}

func TestTokenExpiry(t *testing.T) {
	assert.Nil(t, tokenExpiry("not-a-jwt"))

	exp := time.Now().Add(time.Minute).Truncate(time.Second)
	got := tokenExpiry(signedToken(t, exp))
	require.NotNil(t, got)
	assert.True(t, exp.Equal(*got))
}
