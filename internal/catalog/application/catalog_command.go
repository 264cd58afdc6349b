package application

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/ecommerce/internal/catalog/domain"
)

// CreateProductCommand 创建商品命令
type CreateProductCommand struct {
	SellerID    uint
	Name        string
	Slug        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Available   bool
	Image       string
	CategoryID  uint
	BrandID     uint
}

// UpdateProductCommand 更新商品命令
type UpdateProductCommand struct {
	ProductID   uint
	SellerID    uint
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Available   bool
	Image       string
	CategoryID  uint
	BrandID     uint
}

// AddReviewCommand 添加评价命令
type AddReviewCommand struct {
	ProductID     uint
	UserID        uint
	Rating        int
	Comment       string
	Advantages    string
	Disadvantages string
}

// CatalogCommandService 商品目录命令服务
type CatalogCommandService struct {
	products   domain.ProductRepository
	categories domain.CategoryRepository
	brands     domain.BrandRepository
	reviews    domain.ReviewRepository
	wishlist   domain.WishlistRepository
	publisher  domain.EventPublisher
}

// NewCatalogCommandService 创建命令服务实例
func NewCatalogCommandService(
	products domain.ProductRepository,
	categories domain.CategoryRepository,
	brands domain.BrandRepository,
	reviews domain.ReviewRepository,
	wishlist domain.WishlistRepository,
	publisher domain.EventPublisher,
) *CatalogCommandService {
	return &CatalogCommandService{
		products:   products,
		categories: categories,
		brands:     brands,
		reviews:    reviews,
		wishlist:   wishlist,
		publisher:  publisher,
	}
}

// CreateProduct 创建商品
func (s *CatalogCommandService) CreateProduct(ctx context.Context, cmd CreateProductCommand) (*domain.Product, error) {
	product := &domain.Product{
		Name:        cmd.Name,
		Slug:        cmd.Slug,
		Description: cmd.Description,
		Price:       cmd.Price,
		Stock:       cmd.Stock,
		Available:   cmd.Available,
		Image:       cmd.Image,
		CategoryID:  cmd.CategoryID,
		BrandID:     cmd.BrandID,
		SellerID:    cmd.SellerID,
	}
	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		event := domain.ProductCreatedEvent{
			ProductID: product.ID,
			SellerID:  product.SellerID,
			Name:      product.Name,
			Price:     product.Price,
			Timestamp: time.Now(),
		}
		_ = s.publisher.Publish(ctx, domain.ProductCreatedEventType, product.Slug, event)
	}

	return product, nil
}

// UpdateProduct 更新商品，仅限商品卖家
func (s *CatalogCommandService) UpdateProduct(ctx context.Context, cmd UpdateProductCommand) (*domain.Product, error) {
	product, err := s.products.Get(ctx, cmd.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	if product.SellerID != cmd.SellerID {
		return nil, domain.ErrNotProductSeller
	}

	oldPrice := product.Price

	product.Name = cmd.Name
	product.Description = cmd.Description
	product.Price = cmd.Price
	product.Stock = cmd.Stock
	product.Available = cmd.Available
	product.Image = cmd.Image
	product.CategoryID = cmd.CategoryID
	product.BrandID = cmd.BrandID

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if !oldPrice.Equal(product.Price) {
			event := domain.ProductPriceChangedEvent{
				ProductID: product.ID,
				OldPrice:  oldPrice,
				NewPrice:  product.Price,
				Timestamp: time.Now(),
			}
			_ = s.publisher.Publish(ctx, domain.ProductPriceChangedEventType, product.Slug, event)
		}
		event := domain.ProductUpdatedEvent{
			ProductID: product.ID,
			SellerID:  product.SellerID,
			Available: product.Available,
			Timestamp: time.Now(),
		}
		_ = s.publisher.Publish(ctx, domain.ProductUpdatedEventType, product.Slug, event)
	}

	return product, nil
}

// DeleteProduct 删除商品，仅限商品卖家
func (s *CatalogCommandService) DeleteProduct(ctx context.Context, productID, sellerID uint) error {
	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrProductNotFound
	}
	if product.SellerID != sellerID {
		return domain.ErrNotProductSeller
	}
	return s.products.Delete(ctx, productID)
}

// CreateCategory 创建分类
func (s *CatalogCommandService) CreateCategory(ctx context.Context, name, slug string) (*domain.Category, error) {
	category := &domain.Category{Name: name, Slug: slug}
	if err := s.categories.Save(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// CreateBrand 创建品牌
func (s *CatalogCommandService) CreateBrand(ctx context.Context, name, slug string) (*domain.Brand, error) {
	brand := &domain.Brand{Name: name, Slug: slug}
	if err := s.brands.Save(ctx, brand); err != nil {
		return nil, err
	}
	return brand, nil
}

// AddReview 添加商品评价，同一用户对同一商品仅允许一条
func (s *CatalogCommandService) AddReview(ctx context.Context, cmd AddReviewCommand) (*domain.Review, error) {
	if cmd.Rating < 1 || cmd.Rating > 5 {
		return nil, domain.ErrInvalidRating
	}

	product, err := s.products.Get(ctx, cmd.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	existing, err := s.reviews.GetByProductAndUser(ctx, cmd.ProductID, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateReview
	}

	review := &domain.Review{
		ProductID:     cmd.ProductID,
		UserID:        cmd.UserID,
		Rating:        cmd.Rating,
		Comment:       cmd.Comment,
		Advantages:    cmd.Advantages,
		Disadvantages: cmd.Disadvantages,
	}
	if err := s.reviews.Save(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// AddToWishlist 将商品加入心愿单
func (s *CatalogCommandService) AddToWishlist(ctx context.Context, userID, productID uint) (*domain.WishlistItem, error) {
	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	existing, err := s.wishlist.Get(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateWishlist
	}

	item := &domain.WishlistItem{UserID: userID, ProductID: productID}
	if err := s.wishlist.Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveFromWishlist 从心愿单移除商品，不存在时视为成功
func (s *CatalogCommandService) RemoveFromWishlist(ctx context.Context, userID, productID uint) error {
	return s.wishlist.Delete(ctx, userID, productID)
}
