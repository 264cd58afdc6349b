package mysql

import (
	"context"
	"errors"

	"github.com/wyfcoding/ecommerce/internal/cart/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type cartRepository struct{ db *gorm.DB }

// NewCartRepository 创建购物车仓储
func NewCartRepository(db *gorm.DB) domain.CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) GetByUserID(ctx context.Context, userID uint) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("cart_items.id ASC") }).
		Where("user_id = ?", userID).
		First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// Save 整体持久化购物车聚合：行集合以内存状态为准
func (r *cartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(cart).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("cart_id = ?", cart.ID).Delete(&domain.CartItem{}).Error; err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return nil
		}
		for i := range cart.Items {
			cart.Items[i].ID = 0
			cart.Items[i].CartID = cart.ID
		}
		return tx.Create(&cart.Items).Error
	})
}

func (r *cartRepository) Clear(ctx context.Context, userID uint) error {
	cart, err := r.GetByUserID(ctx, userID)
	if err != nil || cart == nil {
		return err
	}
	return r.db.WithContext(ctx).Unscoped().
		Where("cart_id = ?", cart.ID).
		Delete(&domain.CartItem{}).Error
}

func (r *cartRepository) GetForUpdate(ctx context.Context, tx *gorm.DB, userID uint) (*domain.Cart, error) {
	query := tx.WithContext(ctx)
	// sqlite 不支持 SELECT ... FOR UPDATE
	if tx.Dialector.Name() == "mysql" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var cart domain.Cart
	err := query.
		Where("user_id = ?", userID).
		First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	err = tx.WithContext(ctx).
		Where("cart_id = ?", cart.ID).
		Order("cart_items.id ASC").
		Find(&cart.Items).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) ClearInTx(ctx context.Context, tx *gorm.DB, cartID uint) error {
	return tx.WithContext(ctx).Unscoped().
		Where("cart_id = ?", cartID).
		Delete(&domain.CartItem{}).Error
}
