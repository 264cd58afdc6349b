// Package application 实现购物车的应用服务
package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/ecommerce/internal/cart/domain"
	catalogdomain "github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/ecommerce/pkg/cache"
	"github.com/wyfcoding/ecommerce/pkg/logger"
	"github.com/wyfcoding/ecommerce/pkg/metrics"
)

const summaryCacheTTL = 30 * time.Second

// ProductSnapshot 购物车消费的商品快照视图
type ProductSnapshot struct {
	ID        uint
	Name      string
	Price     decimal.Decimal
	Available bool
}

// Catalog 商品目录协作接口，购物车不存价格，汇总时实时取价
type Catalog interface {
	GetSnapshot(ctx context.Context, productID uint) (*ProductSnapshot, error)
}

// CartService 购物车应用服务
type CartService struct {
	repo    domain.CartRepository
	catalog Catalog
	cache   *cache.RedisCache
	metrics *metrics.Metrics
}

// NewCartService 创建购物车服务。cache 与 metrics 可为 nil
func NewCartService(repo domain.CartRepository, catalog Catalog, c *cache.RedisCache, m *metrics.Metrics) *CartService {
	return &CartService{repo: repo, catalog: catalog, cache: c, metrics: m}
}

// AddItem 向购物车添加商品。override 为 true 时覆盖数量而非累加
func (s *CartService) AddItem(ctx context.Context, userID, productID uint, quantity int, override bool) error {
	if quantity < 1 {
		return domain.ErrInvalidQuantity
	}

	snap, err := s.catalog.GetSnapshot(ctx, productID)
	if err != nil {
		return err
	}
	if !snap.Available {
		return catalogdomain.ErrProductUnavailable
	}

	cart, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if cart == nil {
		cart = &domain.Cart{UserID: userID}
	}

	if err := cart.AddItem(productID, quantity, override); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, cart); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}

	s.afterMutation(ctx, userID)
	return nil
}

// UpdateItem 修改购物车行数量，数量小于等于 0 时删除该行
func (s *CartService) UpdateItem(ctx context.Context, userID, productID uint, quantity int) error {
	cart, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if cart == nil {
		return domain.ErrItemNotFound
	}

	if err := cart.UpdateItem(productID, quantity); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, cart); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}

	s.afterMutation(ctx, userID)
	return nil
}

// RemoveItem 删除购物车行，行不存在时不报错
func (s *CartService) RemoveItem(ctx context.Context, userID, productID uint) error {
	cart, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if cart == nil {
		return nil
	}

	cart.RemoveItem(productID)
	if err := s.repo.Save(ctx, cart); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}

	s.afterMutation(ctx, userID)
	return nil
}

// ClearCart 清空购物车
func (s *CartService) ClearCart(ctx context.Context, userID uint) error {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	s.afterMutation(ctx, userID)
	return nil
}

// GetSummary 返回购物车汇总，价格为目录实时价格
func (s *CartService) GetSummary(ctx context.Context, userID uint) (*CartSummary, error) {
	key := summaryCacheKey(userID)
	if s.cache != nil {
		var cached CartSummary
		hit, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			logger.Warn(ctx, "read cart summary cache failed", "error", err)
		} else if hit {
			return &cached, nil
		}
	}

	cart, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &CartSummary{Lines: []CartLine{}, TotalPrice: decimal.Zero, IsEmpty: true}
	if cart != nil {
		for _, item := range cart.Items {
			snap, err := s.catalog.GetSnapshot(ctx, item.ProductID)
			if err != nil {
				if errors.Is(err, catalogdomain.ErrProductNotFound) {
					// 商品已下架删除，汇总时跳过该行
					continue
				}
				return nil, err
			}
			lineTotal := snap.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			summary.Lines = append(summary.Lines, CartLine{
				ProductID:   item.ProductID,
				ProductName: snap.Name,
				Quantity:    item.Quantity,
				UnitPrice:   snap.Price,
				LineTotal:   lineTotal,
			})
			summary.TotalItems += item.Quantity
			summary.TotalPrice = summary.TotalPrice.Add(lineTotal)
		}
	}
	summary.IsEmpty = len(summary.Lines) == 0

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, summary, summaryCacheTTL); err != nil {
			logger.Warn(ctx, "write cart summary cache failed", "error", err)
		}
	}
	return summary, nil
}

// InvalidateSummary 使购物车汇总缓存失效。
// 购物车自身的变更走 afterMutation；结算清空购物车后由订单侧调用此入口
func (s *CartService) InvalidateSummary(ctx context.Context, userID uint) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, summaryCacheKey(userID))
}

func (s *CartService) afterMutation(ctx context.Context, userID uint) {
	if s.metrics != nil {
		s.metrics.CartMutationsTotal.Inc()
	}
	if err := s.InvalidateSummary(ctx, userID); err != nil {
		logger.Warn(ctx, "invalidate cart summary cache failed", "error", err)
	}
}

func summaryCacheKey(userID uint) string {
	return fmt.Sprintf("cart:summary:%d", userID)
}
