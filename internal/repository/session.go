package repository

import (
	"context"
	"errors"
	"time"

	"artmarket-storefront/internal/model"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")

type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	Get(ctx context.Context, sessionID string) (*model.Session, error)
	Save(ctx context.Context, session *model.Session) error
	ClearUser(ctx context.Context, sessionID string) error
	SetCurrency(ctx context.Context, sessionID, currency string) error
}

type sessionRepoImpl struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepoImpl{
		db: db,
	}
}

func (r *sessionRepoImpl) Create(ctx context.Context, session *model.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepoImpl) Get(ctx context.Context, sessionID string) (*model.Session, error) {
	var session model.Session
	err := r.db.WithContext(ctx).
		Where("id = ?", sessionID).
		First(&session).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &session, nil
}

func (r *sessionRepoImpl) Save(ctx context.Context, session *model.Session) error {
	return r.db.WithContext(ctx).Save(session).Error
}

// ClearUser drops the user snapshot and token but keeps the session row, so
// the cart and currency choice survive a logout.
func (r *sessionRepoImpl) ClearUser(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).Model(&model.Session{}).
		Where("id = ?", sessionID).
		Updates(map[string]interface{}{
			"user_id":            "",
			"name":               "",
			"email":              "",
			"is_seller":          false,
			"is_seller_approved": false,
			"is_admin":           false,
			"token":              "",
			"expires_at":         nil,
			"updated_at":         time.Now(),
		}).Error
}

func (r *sessionRepoImpl) SetCurrency(ctx context.Context, sessionID, currency string) error {
	result := r.db.WithContext(ctx).Model(&model.Session{}).
		Where("id = ?", sessionID).
		Updates(map[string]interface{}{
			"currency":   currency,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
