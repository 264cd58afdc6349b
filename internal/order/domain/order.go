// Package domain 定义订单上下文的核心领域模型
package domain

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order 订单聚合根。下单时冻结价格与收货信息，之后目录价格变动不影响订单
type Order struct {
	gorm.Model
	OrderNumber string `gorm:"size:32;uniqueIndex;not null" json:"order_number"`
	UserID      uint   `gorm:"index;not null" json:"user_id"`

	// 收货信息快照
	FullName    string `gorm:"size:128;not null" json:"full_name"`
	Email       string `gorm:"size:128;not null" json:"email"`
	Phone       string `gorm:"size:32" json:"phone"`
	AddressLine string `gorm:"size:256;not null" json:"address_line"`
	City        string `gorm:"size:64;not null" json:"city"`
	PostalCode  string `gorm:"size:16" json:"postal_code"`
	Country     string `gorm:"size:64;not null" json:"country"`

	TotalPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`
	Paid          bool            `gorm:"default:false" json:"paid"`
	PaymentMethod string          `gorm:"size:32" json:"payment_method"`
	Notes         string          `gorm:"size:512" json:"notes"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

// OrderItem 订单行。Price 为下单时刻的单价快照
type OrderItem struct {
	gorm.Model
	OrderID     uint            `gorm:"index;not null" json:"order_id"`
	ProductID   uint            `gorm:"index;not null" json:"product_id"`
	ProductName string          `gorm:"size:256;not null" json:"product_name"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Quantity    int             `gorm:"not null" json:"quantity"`
}

// LineTotal 返回订单行小计
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ComputeTotal 按订单行重新计算总价
func (o *Order) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// NewOrderNumber 生成订单号，形如 WB-1A2B3C4D5E
func NewOrderNumber() string {
	hex := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "WB-" + hex[:10]
}
