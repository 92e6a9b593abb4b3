package repository

import (
	"context"
	"errors"
	"time"

	"artmarket-storefront/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository interface {
	// Upsert inserts the line or overwrites quantity and snapshot of an existing one.
	Upsert(ctx context.Context, item *model.CartItem) error
	Remove(ctx context.Context, sessionID, productID string) error
	Clear(ctx context.Context, sessionID string) error
	Items(ctx context.Context, sessionID string) ([]*model.CartItem, error)

	GetSelection(ctx context.Context, sessionID string) (*model.CheckoutSelection, error)
	SaveSelection(ctx context.Context, selection *model.CheckoutSelection) error
}

type cartRepoImpl struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepoImpl{
		db: db,
	}
}

func (r *cartRepoImpl) Upsert(ctx context.Context, item *model.CartItem) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":       item.Quantity,
			"name":           item.Name,
			"image":          item.Image,
			"unit_price":     item.UnitPrice,
			"count_in_stock": item.CountInStock,
			"seller_id":      item.SellerID,
			"updated_at":     time.Now(),
		}),
	}).Create(item).Error
}

func (r *cartRepoImpl) Remove(ctx context.Context, sessionID, productID string) error {
	return r.db.WithContext(ctx).
		Where("session_id = ? AND product_id = ?", sessionID, productID).
		Delete(&model.CartItem{}).Error
}

func (r *cartRepoImpl) Clear(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&model.CartItem{}).Error
}

func (r *cartRepoImpl) Items(ctx context.Context, sessionID string) ([]*model.CartItem, error) {
	var items []*model.CartItem
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at, product_id").
		Find(&items).Error

	if err != nil {
		return nil, err
	}

	return items, nil
}

// GetSelection returns an empty selection when nothing was chosen yet.
func (r *cartRepoImpl) GetSelection(ctx context.Context, sessionID string) (*model.CheckoutSelection, error) {
	var selection model.CheckoutSelection
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&selection).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &model.CheckoutSelection{SessionID: sessionID}, nil
	}
	if err != nil {
		return nil, err
	}

	return &selection, nil
}

func (r *cartRepoImpl) SaveSelection(ctx context.Context, selection *model.CheckoutSelection) error {
	return r.db.WithContext(ctx).Save(selection).Error
}
