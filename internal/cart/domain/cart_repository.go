package domain

import (
	"context"

	"gorm.io/gorm"
)

type CartRepository interface {
	// GetByUserID 返回用户购物车，不存在时返回 (nil, nil)
	GetByUserID(ctx context.Context, userID uint) (*Cart, error)
	Save(ctx context.Context, cart *Cart) error
	Clear(ctx context.Context, userID uint) error

	// GetForUpdate 在事务内加行锁读取购物车，结算流程专用
	GetForUpdate(ctx context.Context, tx *gorm.DB, userID uint) (*Cart, error)
	// ClearInTx 在事务内清空购物车行
	ClearInTx(ctx context.Context, tx *gorm.DB, cartID uint) error
}
