package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 订单事件主题
const (
	TopicOrderCreated = "order.created"
)

// OrderCreatedEvent 下单成功事件，与订单写入同库同事务落入发件箱
type OrderCreatedEvent struct {
	OrderNumber string          `json:"order_number"`
	UserID      uint            `json:"user_id"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	ItemCount   int             `json:"item_count"`
	CreatedAt   time.Time       `json:"created_at"`
}

// EventPublisher 订单事件发布接口
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, event any) error
	PublishInTx(ctx context.Context, tx *gorm.DB, topic, key string, event any) error
}
