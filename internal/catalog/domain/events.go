package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	ProductCreatedEventType      = "catalog.product.created"
	ProductUpdatedEventType      = "catalog.product.updated"
	ProductPriceChangedEventType = "catalog.product.price_changed"
)

// ProductCreatedEvent 商品创建事件
type ProductCreatedEvent struct {
	ProductID uint            `json:"product_id"`
	SellerID  uint            `json:"seller_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Timestamp time.Time       `json:"timestamp"`
}

// ProductUpdatedEvent 商品更新事件
type ProductUpdatedEvent struct {
	ProductID uint      `json:"product_id"`
	SellerID  uint      `json:"seller_id"`
	Available bool      `json:"available"`
	Timestamp time.Time `json:"timestamp"`
}

// ProductPriceChangedEvent 商品价格变更事件
type ProductPriceChangedEvent struct {
	ProductID uint            `json:"product_id"`
	OldPrice  decimal.Decimal `json:"old_price"`
	NewPrice  decimal.Decimal `json:"new_price"`
	Timestamp time.Time       `json:"timestamp"`
}

// EventPublisher 领域事件发布接口
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
	PublishInTx(ctx context.Context, tx *gorm.DB, topic string, key string, event any) error
}
