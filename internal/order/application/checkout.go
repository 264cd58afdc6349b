// Package application 实现订单上下文的应用服务
package application

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	cartdomain "github.com/wyfcoding/ecommerce/internal/cart/domain"
	catalogdomain "github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/ecommerce/internal/order/domain"
	"github.com/wyfcoding/ecommerce/pkg/db"
	"github.com/wyfcoding/ecommerce/pkg/logger"
	"github.com/wyfcoding/ecommerce/pkg/metrics"
	"gorm.io/gorm"
)

// ProductSnapshot 结算消费的商品快照视图
type ProductSnapshot struct {
	ID        uint
	Name      string
	Price     decimal.Decimal
	Available bool
}

// Catalog 商品目录协作接口，结算按下单时刻价格冻结订单行
type Catalog interface {
	GetSnapshot(ctx context.Context, productID uint) (*ProductSnapshot, error)
}

// ShippingAddress 收货地址视图，来自用户上下文的地址簿
type ShippingAddress struct {
	ID          uint
	FullName    string
	Email       string
	Phone       string
	AddressLine string
	City        string
	PostalCode  string
	Country     string
}

// AddressBook 地址簿协作接口
type AddressBook interface {
	// GetAddress 取用户名下指定地址，未找到时返回 (nil, nil)
	GetAddress(ctx context.Context, userID, addressID uint) (*ShippingAddress, error)
	// GetDefaultAddress 取用户默认地址，没有时返回 (nil, nil)
	GetDefaultAddress(ctx context.Context, userID uint) (*ShippingAddress, error)
}

// CartSummaryInvalidator 购物车汇总缓存失效接口。
// 结算在事务内清空了购物车行，提交后必须同步失效汇总缓存，
// 否则缓存未过期前购物车会被读到结算前的内容
type CartSummaryInvalidator interface {
	InvalidateSummary(ctx context.Context, userID uint) error
}

// CheckoutService 结算服务。购物车转订单在单个数据库事务内完成：
// 锁行读购物车、冻结价格、写订单、清空购物车、落发件箱，任一步失败全部回滚
type CheckoutService struct {
	db        *db.DB
	cartRepo  cartdomain.CartRepository
	orderRepo domain.OrderRepository
	catalog   Catalog
	addresses AddressBook
	publisher domain.EventPublisher
	summaries CartSummaryInvalidator
	metrics   *metrics.Metrics
}

// NewCheckoutService 创建结算服务。summaries 与 metrics 可为 nil
func NewCheckoutService(
	database *db.DB,
	cartRepo cartdomain.CartRepository,
	orderRepo domain.OrderRepository,
	catalog Catalog,
	addresses AddressBook,
	publisher domain.EventPublisher,
	summaries CartSummaryInvalidator,
	m *metrics.Metrics,
) *CheckoutService {
	return &CheckoutService{
		db:        database,
		cartRepo:  cartRepo,
		orderRepo: orderRepo,
		catalog:   catalog,
		addresses: addresses,
		publisher: publisher,
		summaries: summaries,
		metrics:   m,
	}
}

// CreateOrder 将用户购物车转为订单。addressID 为 0 时使用默认地址
func (s *CheckoutService) CreateOrder(ctx context.Context, userID, addressID uint, notes string) (*domain.Order, error) {
	start := time.Now()

	address, err := s.resolveAddress(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	var order *domain.Order
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		cart, err := s.cartRepo.GetForUpdate(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("lock cart: %w", err)
		}
		if cart == nil || cart.IsEmpty() {
			return domain.ErrEmptyCart
		}

		order = &domain.Order{
			OrderNumber:   domain.NewOrderNumber(),
			UserID:        userID,
			FullName:      address.FullName,
			Email:         address.Email,
			Phone:         address.Phone,
			AddressLine:   address.AddressLine,
			City:          address.City,
			PostalCode:    address.PostalCode,
			Country:       address.Country,
			Paid:          true,
			PaymentMethod: "card_simulated",
			Notes:         notes,
		}

		for _, item := range cart.Items {
			snap, err := s.catalog.GetSnapshot(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if !snap.Available {
				return catalogdomain.ErrProductUnavailable
			}
			order.Items = append(order.Items, domain.OrderItem{
				ProductID:   item.ProductID,
				ProductName: snap.Name,
				Price:       snap.Price,
				Quantity:    item.Quantity,
			})
		}
		order.TotalPrice = order.ComputeTotal()

		if err := s.orderRepo.CreateInTx(ctx, tx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if err := s.cartRepo.ClearInTx(ctx, tx, cart.ID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}

		event := domain.OrderCreatedEvent{
			OrderNumber: order.OrderNumber,
			UserID:      userID,
			TotalPrice:  order.TotalPrice,
			ItemCount:   len(order.Items),
			CreatedAt:   time.Now(),
		}
		if err := s.publisher.PublishInTx(ctx, tx, domain.TopicOrderCreated, order.OrderNumber, event); err != nil {
			return fmt.Errorf("publish order created: %w", err)
		}
		return nil
	})
	if err != nil {
		if s.metrics != nil {
			s.metrics.CheckoutFailures.Inc()
		}
		return nil, err
	}

	// 事务已提交，清掉结算前缓存的购物车汇总
	if s.summaries != nil {
		if err := s.summaries.InvalidateSummary(ctx, userID); err != nil {
			logger.Warn(ctx, "invalidate cart summary cache failed", "user_id", userID, "error", err)
		}
	}

	if s.metrics != nil {
		s.metrics.OrdersTotal.Inc()
		s.metrics.CheckoutDuration.Observe(time.Since(start).Seconds())
	}
	logger.Info(ctx, "order created",
		"order_number", order.OrderNumber,
		"user_id", userID,
		"total_price", order.TotalPrice.String(),
		"items", len(order.Items))
	return order, nil
}

func (s *CheckoutService) resolveAddress(ctx context.Context, userID, addressID uint) (*ShippingAddress, error) {
	var (
		address *ShippingAddress
		err     error
	)
	if addressID > 0 {
		address, err = s.addresses.GetAddress(ctx, userID, addressID)
	} else {
		address, err = s.addresses.GetDefaultAddress(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve address: %w", err)
	}
	if address == nil {
		return nil, domain.ErrMissingAddress
	}
	return address, nil
}
