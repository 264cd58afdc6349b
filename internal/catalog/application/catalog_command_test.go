package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"gorm.io/gorm"
)

type memoryProductRepo struct {
	products map[uint]*domain.Product
	nextID   uint
}

func newMemoryProductRepo() *memoryProductRepo {
	return &memoryProductRepo{products: map[uint]*domain.Product{}, nextID: 1}
}

func (r *memoryProductRepo) Save(_ context.Context, product *domain.Product) error {
	if product.ID == 0 {
		product.ID = r.nextID
		r.nextID++
	}
	copied := *product
	r.products[product.ID] = &copied
	return nil
}

func (r *memoryProductRepo) Get(_ context.Context, id uint) (*domain.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	copied := *product
	return &copied, nil
}

func (r *memoryProductRepo) GetBySlug(_ context.Context, slug string) (*domain.Product, error) {
	for _, product := range r.products {
		if product.Slug == slug {
			copied := *product
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memoryProductRepo) List(_ context.Context, filter domain.ProductFilter) ([]*domain.Product, int64, error) {
	var out []*domain.Product
	for _, product := range r.products {
		if filter.SellerID != 0 && product.SellerID != filter.SellerID {
			continue
		}
		if filter.OnlyAvailable && !product.Purchasable() {
			continue
		}
		copied := *product
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (r *memoryProductRepo) Delete(_ context.Context, id uint) error {
	delete(r.products, id)
	return nil
}

type memoryReviewRepo struct {
	reviews []*domain.Review
}

func (r *memoryReviewRepo) Save(_ context.Context, review *domain.Review) error {
	review.ID = uint(len(r.reviews) + 1)
	r.reviews = append(r.reviews, review)
	return nil
}

func (r *memoryReviewRepo) GetByProductAndUser(_ context.Context, productID, userID uint) (*domain.Review, error) {
	for _, review := range r.reviews {
		if review.ProductID == productID && review.UserID == userID {
			return review, nil
		}
	}
	return nil, nil
}

func (r *memoryReviewRepo) ListByProduct(_ context.Context, productID uint) ([]*domain.Review, error) {
	var out []*domain.Review
	for _, review := range r.reviews {
		if review.ProductID == productID {
			out = append(out, review)
		}
	}
	return out, nil
}

func (r *memoryReviewRepo) Delete(_ context.Context, _ uint) error { return nil }

type memoryWishlistRepo struct {
	items []*domain.WishlistItem
}

func (r *memoryWishlistRepo) Save(_ context.Context, item *domain.WishlistItem) error {
	r.items = append(r.items, item)
	return nil
}

func (r *memoryWishlistRepo) Get(_ context.Context, userID, productID uint) (*domain.WishlistItem, error) {
	for _, item := range r.items {
		if item.UserID == userID && item.ProductID == productID {
			return item, nil
		}
	}
	return nil, nil
}

func (r *memoryWishlistRepo) ListByUser(_ context.Context, userID uint) ([]*domain.WishlistItem, error) {
	var out []*domain.WishlistItem
	for _, item := range r.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *memoryWishlistRepo) Delete(_ context.Context, userID, productID uint) error {
	for i, item := range r.items {
		if item.UserID == userID && item.ProductID == productID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return nil
}

type recordingPublisher struct {
	topics []string
}

func (p *recordingPublisher) Publish(_ context.Context, topic, _ string, _ any) error {
	p.topics = append(p.topics, topic)
	return nil
}

func (p *recordingPublisher) PublishInTx(ctx context.Context, _ *gorm.DB, topic, key string, event any) error {
	return p.Publish(ctx, topic, key, event)
}

func newTestCatalogService() (*CatalogService, *memoryProductRepo, *recordingPublisher) {
	products := newMemoryProductRepo()
	publisher := &recordingPublisher{}
	svc := NewCatalogService(products, nil, nil, &memoryReviewRepo{}, &memoryWishlistRepo{}, publisher)
	return svc, products, publisher
}

func seedProduct(t *testing.T, svc *CatalogService, sellerID uint, price string) *domain.Product {
	t.Helper()
	product, err := svc.Command.CreateProduct(context.Background(), CreateProductCommand{
		SellerID:  sellerID,
		Name:      "Keyboard",
		Slug:      "keyboard",
		Price:     decimal.RequireFromString(price),
		Stock:     10,
		Available: true,
	})
	require.NoError(t, err)
	return product
}

func TestCreateProductPublishesEvent(t *testing.T) {
	svc, _, publisher := newTestCatalogService()

	product := seedProduct(t, svc, 7, "10.00")

	assert.NotZero(t, product.ID)
	assert.Contains(t, publisher.topics, domain.ProductCreatedEventType)
}

func TestUpdateProductBySellerOnly(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestCatalogService()
	product := seedProduct(t, svc, 7, "10.00")

	_, err := svc.Command.UpdateProduct(ctx, UpdateProductCommand{
		ProductID: product.ID,
		SellerID:  8,
		Name:      "Keyboard",
		Price:     decimal.RequireFromString("12.00"),
	})
	assert.ErrorIs(t, err, domain.ErrNotProductSeller)
}

func TestUpdateProductPriceChangePublishesEvent(t *testing.T) {
	ctx := context.Background()
	svc, _, publisher := newTestCatalogService()
	product := seedProduct(t, svc, 7, "10.00")

	updated, err := svc.Command.UpdateProduct(ctx, UpdateProductCommand{
		ProductID: product.ID,
		SellerID:  7,
		Name:      "Keyboard",
		Price:     decimal.RequireFromString("12.50"),
		Stock:     10,
		Available: true,
	})
	require.NoError(t, err)

	assert.True(t, updated.Price.Equal(decimal.RequireFromString("12.50")))
	assert.Contains(t, publisher.topics, domain.ProductPriceChangedEventType)
	assert.Contains(t, publisher.topics, domain.ProductUpdatedEventType)
}

func TestGetSnapshotReflectsCurrentState(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestCatalogService()
	product := seedProduct(t, svc, 7, "10.00")

	snap, err := svc.GetSnapshot(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Keyboard", snap.Name)
	assert.True(t, snap.Price.Equal(decimal.RequireFromString("10.00")))
	assert.True(t, snap.Available)

	_, err = svc.GetSnapshot(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestGetAvailabilityOutOfStock(t *testing.T) {
	ctx := context.Background()
	svc, products, _ := newTestCatalogService()
	product := seedProduct(t, svc, 7, "10.00")

	products.products[product.ID].Stock = 0

	available, err := svc.GetAvailability(ctx, product.ID)
	require.NoError(t, err)
	assert.False(t, available)
}

func TestAddReviewValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestCatalogService()
	product := seedProduct(t, svc, 7, "10.00")

	_, err := svc.Command.AddReview(ctx, AddReviewCommand{ProductID: product.ID, UserID: 1, Rating: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidRating)

	_, err = svc.Command.AddReview(ctx, AddReviewCommand{ProductID: product.ID, UserID: 1, Rating: 6})
	assert.ErrorIs(t, err, domain.ErrInvalidRating)

	_, err = svc.Command.AddReview(ctx, AddReviewCommand{ProductID: product.ID, UserID: 1, Rating: 5, Comment: "great"})
	require.NoError(t, err)

	// 同一用户对同一商品只允许一条评价
	_, err = svc.Command.AddReview(ctx, AddReviewCommand{ProductID: product.ID, UserID: 1, Rating: 3})
	assert.ErrorIs(t, err, domain.ErrDuplicateReview)
}

func TestWishlistDeduplicates(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestCatalogService()
	product := seedProduct(t, svc, 7, "10.00")

	_, err := svc.Command.AddToWishlist(ctx, 1, product.ID)
	require.NoError(t, err)

	_, err = svc.Command.AddToWishlist(ctx, 1, product.ID)
	assert.ErrorIs(t, err, domain.ErrDuplicateWishlist)

	require.NoError(t, svc.Command.RemoveFromWishlist(ctx, 1, product.ID))
	require.NoError(t, svc.Command.RemoveFromWishlist(ctx, 1, product.ID))
}
