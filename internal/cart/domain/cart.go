package domain

import "gorm.io/gorm"

type Cart struct {
	gorm.Model
	UserID uint       `gorm:"column:user_id;uniqueIndex;not null" json:"user_id"`
	Items  []CartItem `gorm:"foreignKey:CartID" json:"items"`
}

func (Cart) TableName() string { return "carts" }

type CartItem struct {
	gorm.Model
	CartID    uint `gorm:"column:cart_id;index;not null" json:"-"`
	ProductID uint `gorm:"column:product_id;not null" json:"product_id"`
	Quantity  int  `gorm:"column:quantity;not null" json:"quantity"`
}

func (CartItem) TableName() string { return "cart_items" }

// AddItem 添加商品。已存在时默认累加数量，override 为 true 时改为覆盖。
// 数量必须为正，非法数量由 update 语义处理（见 UpdateItem）
func (c *Cart) AddItem(productID uint, quantity int, override bool) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			if override {
				c.Items[i].Quantity = quantity
			} else {
				c.Items[i].Quantity += quantity
			}
			return nil
		}
	}
	c.Items = append(c.Items, CartItem{ProductID: productID, Quantity: quantity})
	return nil
}

// UpdateItem 设置商品数量。数量 ≤ 0 时删除该行
func (c *Cart) UpdateItem(productID uint, quantity int) error {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			if quantity <= 0 {
				c.Items = append(c.Items[:i], c.Items[i+1:]...)
			} else {
				c.Items[i].Quantity = quantity
			}
			return nil
		}
	}
	return ErrItemNotFound
}

// RemoveItem 删除商品行，不存在时为 no-op
func (c *Cart) RemoveItem(productID uint) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// Clear 清空购物车
func (c *Cart) Clear() {
	c.Items = nil
}

// TotalItems 所有行的数量之和
func (c *Cart) TotalItems() int {
	var total int
	for i := range c.Items {
		total += c.Items[i].Quantity
	}
	return total
}

// IsEmpty 是否为空
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
