package domain

import (
	"context"

	"gorm.io/gorm"
)

// OrderRepository 订单仓储接口
type OrderRepository interface {
	// CreateInTx 在给定事务内写入订单及其订单行
	CreateInTx(ctx context.Context, tx *gorm.DB, order *Order) error
	// GetByNumber 按订单号查询，未找到时返回 (nil, nil)
	GetByNumber(ctx context.Context, userID uint, orderNumber string) (*Order, error)
	// ListByUser 按用户查询订单，按创建时间倒序
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*Order, int64, error)
}
