package application

import (
	"context"

	"github.com/wyfcoding/ecommerce/internal/order/domain"
)

// OrderQueryService 订单查询服务，全部查询按用户归属过滤
type OrderQueryService struct {
	orders domain.OrderRepository
}

// NewOrderQueryService 创建订单查询服务
func NewOrderQueryService(orders domain.OrderRepository) *OrderQueryService {
	return &OrderQueryService{orders: orders}
}

// GetOrder 按订单号取订单，只能取到本人订单
func (s *OrderQueryService) GetOrder(ctx context.Context, userID uint, orderNumber string) (*domain.Order, error) {
	order, err := s.orders.GetByNumber(ctx, userID, orderNumber)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

// ListOrders 按用户分页取订单
func (s *OrderQueryService) ListOrders(ctx context.Context, userID uint, limit, offset int) ([]*domain.Order, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.orders.ListByUser(ctx, userID, limit, offset)
}
