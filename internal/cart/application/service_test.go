package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/ecommerce/internal/cart/domain"
	catalogdomain "github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"gorm.io/gorm"
)

type stubCatalog struct {
	snapshots map[uint]*ProductSnapshot
}

func (s *stubCatalog) GetSnapshot(_ context.Context, productID uint) (*ProductSnapshot, error) {
	snap, ok := s.snapshots[productID]
	if !ok {
		return nil, catalogdomain.ErrProductNotFound
	}
	return snap, nil
}

type memoryCartRepo struct {
	carts map[uint]*domain.Cart
}

func newMemoryCartRepo() *memoryCartRepo {
	return &memoryCartRepo{carts: map[uint]*domain.Cart{}}
}

func (r *memoryCartRepo) GetByUserID(_ context.Context, userID uint) (*domain.Cart, error) {
	cart, ok := r.carts[userID]
	if !ok {
		return nil, nil
	}
	copied := *cart
	copied.Items = append([]domain.CartItem(nil), cart.Items...)
	return &copied, nil
}

func (r *memoryCartRepo) Save(_ context.Context, cart *domain.Cart) error {
	if cart.ID == 0 {
		cart.ID = uint(len(r.carts) + 1)
	}
	r.carts[cart.UserID] = cart
	return nil
}

func (r *memoryCartRepo) Clear(_ context.Context, userID uint) error {
	if cart, ok := r.carts[userID]; ok {
		cart.Items = nil
	}
	return nil
}

func (r *memoryCartRepo) GetForUpdate(ctx context.Context, _ *gorm.DB, userID uint) (*domain.Cart, error) {
	return r.GetByUserID(ctx, userID)
}

func (r *memoryCartRepo) ClearInTx(_ context.Context, _ *gorm.DB, cartID uint) error {
	for _, cart := range r.carts {
		if cart.ID == cartID {
			cart.Items = nil
		}
	}
	return nil
}

func newTestService(snapshots map[uint]*ProductSnapshot) (*CartService, *memoryCartRepo) {
	repo := newMemoryCartRepo()
	svc := NewCartService(repo, &stubCatalog{snapshots: snapshots}, nil, nil)
	return svc, repo
}

func twoProducts() map[uint]*ProductSnapshot {
	return map[uint]*ProductSnapshot{
		100: {ID: 100, Name: "Keyboard", Price: decimal.RequireFromString("10.00"), Available: true},
		200: {ID: 200, Name: "Mouse", Price: decimal.RequireFromString("5.00"), Available: true},
	}
}

func TestAddItemAndSummary(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(twoProducts())

	require.NoError(t, svc.AddItem(ctx, 1, 100, 2, false))
	require.NoError(t, svc.AddItem(ctx, 1, 200, 1, false))

	summary, err := svc.GetSummary(ctx, 1)
	require.NoError(t, err)
	require.Len(t, summary.Lines, 2)
	assert.Equal(t, 3, summary.TotalItems)
	assert.True(t, summary.TotalPrice.Equal(decimal.RequireFromString("25.00")),
		"got total %s", summary.TotalPrice)
	assert.False(t, summary.IsEmpty)
}

func TestSummaryFollowsCurrentCatalogPrice(t *testing.T) {
	ctx := context.Background()
	snapshots := twoProducts()
	svc, _ := newTestService(snapshots)

	require.NoError(t, svc.AddItem(ctx, 1, 100, 2, false))

	// 目录调价后，购物车汇总跟随新价格
	snapshots[100].Price = decimal.RequireFromString("99.00")

	summary, err := svc.GetSummary(ctx, 1)
	require.NoError(t, err)
	assert.True(t, summary.TotalPrice.Equal(decimal.RequireFromString("198.00")),
		"got total %s", summary.TotalPrice)
}

func TestAddItemUnknownProduct(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(twoProducts())

	err := svc.AddItem(ctx, 1, 999, 1, false)

	assert.ErrorIs(t, err, catalogdomain.ErrProductNotFound)
	assert.Empty(t, repo.carts)
}

func TestAddItemUnavailableProduct(t *testing.T) {
	ctx := context.Background()
	snapshots := twoProducts()
	snapshots[100].Available = false
	svc, repo := newTestService(snapshots)

	err := svc.AddItem(ctx, 1, 100, 1, false)

	assert.ErrorIs(t, err, catalogdomain.ErrProductUnavailable)
	assert.Empty(t, repo.carts)
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(twoProducts())

	assert.ErrorIs(t, svc.AddItem(ctx, 1, 100, 0, false), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, svc.AddItem(ctx, 1, 100, -2, false), domain.ErrInvalidQuantity)
	assert.Empty(t, repo.carts)
}

func TestUpdateItemZeroDeletesLine(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(twoProducts())

	require.NoError(t, svc.AddItem(ctx, 1, 100, 2, false))
	require.NoError(t, svc.AddItem(ctx, 1, 200, 1, false))
	require.NoError(t, svc.UpdateItem(ctx, 1, 100, 0))

	summary, err := svc.GetSummary(ctx, 1)
	require.NoError(t, err)
	require.Len(t, summary.Lines, 1)
	assert.Equal(t, uint(200), summary.Lines[0].ProductID)
}

func TestUpdateItemMissingCart(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(twoProducts())

	assert.ErrorIs(t, svc.UpdateItem(ctx, 1, 100, 3), domain.ErrItemNotFound)
}

func TestRemoveItemOnEmptyCartIsNoop(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(twoProducts())

	require.NoError(t, svc.RemoveItem(ctx, 1, 100))
}

func TestClearCart(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(twoProducts())

	require.NoError(t, svc.AddItem(ctx, 1, 100, 2, false))
	require.NoError(t, svc.ClearCart(ctx, 1))

	summary, err := svc.GetSummary(ctx, 1)
	require.NoError(t, err)
	assert.True(t, summary.IsEmpty)
	assert.True(t, summary.TotalPrice.IsZero())
}

func TestSummarySkipsDeletedProducts(t *testing.T) {
	ctx := context.Background()
	snapshots := twoProducts()
	svc, _ := newTestService(snapshots)

	require.NoError(t, svc.AddItem(ctx, 1, 100, 2, false))
	require.NoError(t, svc.AddItem(ctx, 1, 200, 1, false))

	delete(snapshots, 100)

	summary, err := svc.GetSummary(ctx, 1)
	require.NoError(t, err)
	require.Len(t, summary.Lines, 1)
	assert.Equal(t, uint(200), summary.Lines[0].ProductID)
	assert.True(t, summary.TotalPrice.Equal(decimal.RequireFromString("5.00")))
}
