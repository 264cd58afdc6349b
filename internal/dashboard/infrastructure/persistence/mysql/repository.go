package mysql

import (
	"context"

	"github.com/wyfcoding/ecommerce/internal/dashboard/application"
	"gorm.io/gorm"
)

type salesRepository struct{ db *gorm.DB }

// NewSalesRepository 创建销售数据仓储
func NewSalesRepository(db *gorm.DB) application.SalesRepository {
	return &salesRepository{db: db}
}

func (r *salesRepository) SummarizeSeller(ctx context.Context, sellerID uint) (*application.SalesSummary, error) {
	var summary application.SalesSummary
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(DISTINCT oi.order_id)                        AS order_count,
			COALESCE(SUM(oi.quantity), 0)                      AS units_sold,
			COALESCE(SUM(oi.price * oi.quantity), 0)           AS revenue
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE p.seller_id = ? AND oi.deleted_at IS NULL`, sellerID).
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *salesRepository) ListSoldItems(ctx context.Context, sellerID uint, limit, offset int) ([]*application.SoldItem, error) {
	var items []*application.SoldItem
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			o.order_number   AS order_number,
			oi.product_id    AS product_id,
			oi.product_name  AS product_name,
			oi.price         AS price,
			oi.quantity      AS quantity
		FROM order_items oi
		JOIN orders o   ON o.id = oi.order_id
		JOIN products p ON p.id = oi.product_id
		WHERE p.seller_id = ? AND oi.deleted_at IS NULL
		ORDER BY oi.id DESC
		LIMIT ? OFFSET ?`, sellerID, limit, offset).
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
