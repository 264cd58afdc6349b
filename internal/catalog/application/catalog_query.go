package application

import (
	"context"

	"github.com/wyfcoding/ecommerce/internal/catalog/domain"
)

// CatalogQueryService 商品目录查询服务
type CatalogQueryService struct {
	products   domain.ProductRepository
	categories domain.CategoryRepository
	brands     domain.BrandRepository
	reviews    domain.ReviewRepository
	wishlist   domain.WishlistRepository
}

// NewCatalogQueryService 创建查询服务实例
func NewCatalogQueryService(
	products domain.ProductRepository,
	categories domain.CategoryRepository,
	brands domain.BrandRepository,
	reviews domain.ReviewRepository,
	wishlist domain.WishlistRepository,
) *CatalogQueryService {
	return &CatalogQueryService{
		products:   products,
		categories: categories,
		brands:     brands,
		reviews:    reviews,
		wishlist:   wishlist,
	}
}

// ListProducts 按过滤条件返回商品列表与总数
func (s *CatalogQueryService) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, int64, error) {
	return s.products.List(ctx, filter)
}

// GetProduct 按 ID 返回商品
func (s *CatalogQueryService) GetProduct(ctx context.Context, id uint) (*domain.Product, error) {
	product, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return product, nil
}

// GetProductBySlug 按 slug 返回商品
func (s *CatalogQueryService) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	product, err := s.products.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return product, nil
}

// ListCategories 返回全部分类
func (s *CatalogQueryService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx)
}

// ListBrands 返回全部品牌
func (s *CatalogQueryService) ListBrands(ctx context.Context) ([]*domain.Brand, error) {
	return s.brands.List(ctx)
}

// ListReviews 返回商品的全部评价
func (s *CatalogQueryService) ListReviews(ctx context.Context, productID uint) ([]*domain.Review, error) {
	return s.reviews.ListByProduct(ctx, productID)
}

// ListWishlist 返回用户的心愿单
func (s *CatalogQueryService) ListWishlist(ctx context.Context, userID uint) ([]*domain.WishlistItem, error) {
	return s.wishlist.ListByUser(ctx, userID)
}
