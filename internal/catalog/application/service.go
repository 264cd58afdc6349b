// Package application 实现商品目录的应用服务
package application

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/ecommerce/internal/catalog/domain"
)

// CatalogService 商品目录服务门面，整合命令和查询服务
type CatalogService struct {
	Command *CatalogCommandService
	Query   *CatalogQueryService
}

// NewCatalogService 创建商品目录服务
func NewCatalogService(
	products domain.ProductRepository,
	categories domain.CategoryRepository,
	brands domain.BrandRepository,
	reviews domain.ReviewRepository,
	wishlist domain.WishlistRepository,
	publisher domain.EventPublisher,
) *CatalogService {
	return &CatalogService{
		Command: NewCatalogCommandService(products, categories, brands, reviews, wishlist, publisher),
		Query:   NewCatalogQueryService(products, categories, brands, reviews, wishlist),
	}
}

// ProductSnapshot 供其他限界上下文消费的商品快照
type ProductSnapshot struct {
	ID        uint
	Name      string
	Price     decimal.Decimal
	Available bool
}

// GetSnapshot 返回商品快照，购物车汇总与下单定价均以此为准
func (s *CatalogService) GetSnapshot(ctx context.Context, productID uint) (*ProductSnapshot, error) {
	product, err := s.Query.products.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return &ProductSnapshot{
		ID:        product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Available: product.Purchasable(),
	}, nil
}

// GetPrice 返回商品当前价格。购物车与结算均以此为准
func (s *CatalogService) GetPrice(ctx context.Context, productID uint) (decimal.Decimal, error) {
	product, err := s.Query.products.Get(ctx, productID)
	if err != nil {
		return decimal.Zero, err
	}
	if product == nil {
		return decimal.Zero, domain.ErrProductNotFound
	}
	return product.Price, nil
}

// GetAvailability 返回商品当前是否可购买
func (s *CatalogService) GetAvailability(ctx context.Context, productID uint) (bool, error) {
	product, err := s.Query.products.Get(ctx, productID)
	if err != nil {
		return false, err
	}
	if product == nil {
		return false, domain.ErrProductNotFound
	}
	return product.Purchasable(), nil
}
