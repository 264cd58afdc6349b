package application

import "github.com/shopspring/decimal"

// CartLine 购物车行视图：单价与小计为目录实时价格。
type CartLine struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// CartSummary 购物车汇总视图。
type CartSummary struct {
	Lines      []CartLine      `json:"lines"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
	IsEmpty    bool            `json:"is_empty"`
}
