package repository

import (
	"context"
	"errors"
	"time"

	"artmarket-storefront/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentRepository interface {
	Create(ctx context.Context, record *model.PaymentRecord) error
	Find(ctx context.Context, gateway, reference string) (*model.PaymentRecord, error)
	MarkReported(ctx context.Context, gateway, reference string) error
}

type paymentRepoImpl struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepoImpl{
		db: db,
	}
}

func (r *paymentRepoImpl) Create(ctx context.Context, record *model.PaymentRecord) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(record).Error
}

func (r *paymentRepoImpl) Find(ctx context.Context, gateway, reference string) (*model.PaymentRecord, error) {
	var record model.PaymentRecord
	err := r.db.WithContext(ctx).
		Where("gateway = ? AND reference = ?", gateway, reference).
		First(&record).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *paymentRepoImpl) MarkReported(ctx context.Context, gateway, reference string) error {
	return r.db.WithContext(ctx).Model(&model.PaymentRecord{}).
		Where("gateway = ? AND reference = ?", gateway, reference).
		Updates(map[string]interface{}{
			"reported":   true,
			"updated_at": time.Now(),
		}).Error
}
