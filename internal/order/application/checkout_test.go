package application

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cartdomain "github.com/wyfcoding/ecommerce/internal/cart/domain"
	cartmysql "github.com/wyfcoding/ecommerce/internal/cart/infrastructure/persistence/mysql"
	catalogdomain "github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/ecommerce/internal/order/domain"
	ordermsg "github.com/wyfcoding/ecommerce/internal/order/infrastructure/messaging"
	ordermysql "github.com/wyfcoding/ecommerce/internal/order/infrastructure/persistence/mysql"
	"github.com/wyfcoding/ecommerce/pkg/db"
	"github.com/wyfcoding/ecommerce/pkg/outbox"
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
	copied := *snap
	return &copied, nil
}

type stubAddressBook struct {
	address *ShippingAddress
}

func (s *stubAddressBook) GetAddress(_ context.Context, _, _ uint) (*ShippingAddress, error) {
	return s.address, nil
}

func (s *stubAddressBook) GetDefaultAddress(_ context.Context, _ uint) (*ShippingAddress, error) {
	return s.address, nil
}

// failingCartRepo 在清空购物车时注入失败，用于验证整体回滚
type failingCartRepo struct {
	cartdomain.CartRepository
}

func (r *failingCartRepo) ClearInTx(_ context.Context, _ *gorm.DB, _ uint) error {
	return errors.New("injected clear failure")
}

// recordingInvalidator 记录每次汇总缓存失效的用户
type recordingInvalidator struct {
	userIDs []uint
}

func (r *recordingInvalidator) InvalidateSummary(_ context.Context, userID uint) error {
	r.userIDs = append(r.userIDs, userID)
	return nil
}

type checkoutFixture struct {
	db          *db.DB
	cartRepo    cartdomain.CartRepository
	orderRepo   domain.OrderRepository
	catalog     *stubCatalog
	addresses   *stubAddressBook
	outbox      *outbox.Manager
	invalidator *recordingInvalidator
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// 内存库每个连接互相独立，限制为单连接
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(
		&cartdomain.Cart{},
		&cartdomain.CartItem{},
		&domain.Order{},
		&domain.OrderItem{},
		&outbox.Message{},
	))

	return &checkoutFixture{
		db:        db.Wrap(gdb),
		cartRepo:  cartmysql.NewCartRepository(gdb),
		orderRepo: ordermysql.NewOrderRepository(gdb),
		catalog: &stubCatalog{snapshots: map[uint]*ProductSnapshot{
			100: {ID: 100, Name: "Keyboard", Price: decimal.RequireFromString("10.00"), Available: true},
			200: {ID: 200, Name: "Mouse", Price: decimal.RequireFromString("5.00"), Available: true},
		}},
		addresses: &stubAddressBook{address: &ShippingAddress{
			ID:          1,
			FullName:    "Ada Lovelace",
			Email:       "ada@example.com",
			AddressLine: "12 Analytical St",
			City:        "London",
			PostalCode:  "SW1A",
			Country:     "UK",
		}},
		outbox:      outbox.NewManager(gdb),
		invalidator: &recordingInvalidator{},
	}
}

func (f *checkoutFixture) service(cartRepo cartdomain.CartRepository) *CheckoutService {
	return NewCheckoutService(
		f.db, cartRepo, f.orderRepo,
		f.catalog, f.addresses,
		ordermsg.NewOutboxPublisher(f.outbox),
		f.invalidator, nil,
	)
}

func (f *checkoutFixture) seedCart(t *testing.T, userID uint, items ...cartdomain.CartItem) {
	t.Helper()
	cart, err := f.cartRepo.GetByUserID(context.Background(), userID)
	require.NoError(t, err)
	if cart == nil {
		cart = &cartdomain.Cart{UserID: userID}
	}
	cart.Items = items
	require.NoError(t, f.cartRepo.Save(context.Background(), cart))
}

func TestCreateOrderHappyPath(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.seedCart(t, 1,
		cartdomain.CartItem{ProductID: 100, Quantity: 2},
		cartdomain.CartItem{ProductID: 200, Quantity: 1},
	)

	order, err := f.service(f.cartRepo).CreateOrder(ctx, 1, 0, "leave at door")
	require.NoError(t, err)

	assert.Regexp(t, `^WB-[0-9A-F]{10}$`, order.OrderNumber)
	assert.True(t, order.TotalPrice.Equal(decimal.RequireFromString("25.00")), "got %s", order.TotalPrice)
	assert.True(t, order.Paid)
	assert.Equal(t, "card_simulated", order.PaymentMethod)
	assert.Equal(t, "Ada Lovelace", order.FullName)
	assert.Equal(t, "ada@example.com", order.Email)
	require.Len(t, order.Items, 2)

	// 购物车已清空
	cart, err := f.cartRepo.GetByUserID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, cart)
	assert.True(t, cart.IsEmpty())

	// 订单可按归属查询
	stored, err := f.orderRepo.GetByNumber(ctx, 1, order.OrderNumber)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.TotalPrice.Equal(order.TotalPrice))

	// 发件箱里有 order.created 事件
	var messages []outbox.Message
	require.NoError(t, f.outbox.DB().Find(&messages).Error)
	require.Len(t, messages, 1)
	assert.Equal(t, domain.TopicOrderCreated, messages[0].Topic)
	assert.Equal(t, order.OrderNumber, messages[0].Key)
	assert.False(t, messages[0].Published)
}

func TestCreateOrderInvalidatesCartSummaryCache(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.seedCart(t, 1, cartdomain.CartItem{ProductID: 100, Quantity: 2})

	_, err := f.service(f.cartRepo).CreateOrder(ctx, 1, 0, "")
	require.NoError(t, err)

	// 结算清空购物车后汇总缓存必须同步失效，否则缓存过期前购物车仍显示结算前内容
	assert.Equal(t, []uint{1}, f.invalidator.userIDs)
}

func TestCreateOrderFailureLeavesSummaryCacheAlone(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.seedCart(t, 1)

	_, err := f.service(f.cartRepo).CreateOrder(ctx, 1, 0, "")
	assert.ErrorIs(t, err, domain.ErrEmptyCart)

	// 事务回滚时购物车未变，不触发缓存失效
	assert.Empty(t, f.invalidator.userIDs)
}

func TestCreateOrderFreezesPrices(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.seedCart(t, 1, cartdomain.CartItem{ProductID: 100, Quantity: 2})

	order, err := f.service(f.cartRepo).CreateOrder(ctx, 1, 0, "")
	require.NoError(t, err)

	// 下单后目录调价，订单价格不变
	f.catalog.snapshots[100].Price = decimal.RequireFromString("99.00")

	stored, err := f.orderRepo.GetByNumber(ctx, 1, order.OrderNumber)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.True(t, stored.Items[0].Price.Equal(decimal.RequireFromString("10.00")))
	assert.True(t, stored.TotalPrice.Equal(decimal.RequireFromString("20.00")))
}

func TestCreateOrderEmptyCart(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.seedCart(t, 1)

	_, err := f.service(f.cartRepo).CreateOrder(ctx, 1, 0, "")
	assert.ErrorIs(t, err, domain.ErrEmptyCart)

	assertNoOrders(t, f)
}

func TestCreateOrderNoCartRow(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)

	_, err := f.service(f.cartRepo).CreateOrder(ctx, 1, 0, "")
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
}

func TestCreateOrderMissingAddress(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.addresses.address = nil
	f.seedCart(t, 1, cartdomain.CartItem{ProductID: 100, Quantity: 1})

	_, err := f.service(f.cartRepo).CreateOrder(ctx, 1, 0, "")
	assert.ErrorIs(t, err, domain.ErrMissingAddress)

	assertNoOrders(t, f)
	assertCartIntact(t, f, 1, 1)
}

func TestCreateOrderUnavailableProductRollsBack(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.catalog.snapshots[200].Available = false
	f.seedCart(t, 1,
		cartdomain.CartItem{ProductID: 100, Quantity: 1},
		cartdomain.CartItem{ProductID: 200, Quantity: 1},
	)

	_, err := f.service(f.cartRepo).CreateOrder(ctx, 1, 0, "")
	assert.ErrorIs(t, err, catalogdomain.ErrProductUnavailable)

	assertNoOrders(t, f)
	assertCartIntact(t, f, 1, 2)
}

func TestCreateOrderClearFailureRollsBackEverything(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.seedCart(t, 1, cartdomain.CartItem{ProductID: 100, Quantity: 2})

	svc := f.service(&failingCartRepo{CartRepository: f.cartRepo})
	_, err := svc.CreateOrder(ctx, 1, 0, "")
	require.Error(t, err)

	// 写订单成功但清空购物车失败：订单、订单行、发件箱全部回滚
	assertNoOrders(t, f)
	assertCartIntact(t, f, 1, 1)

	var messages []outbox.Message
	require.NoError(t, f.outbox.DB().Find(&messages).Error)
	assert.Empty(t, messages)
}

func TestGetOrderIsOwnerScoped(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.seedCart(t, 1, cartdomain.CartItem{ProductID: 100, Quantity: 1})

	order, err := f.service(f.cartRepo).CreateOrder(ctx, 1, 0, "")
	require.NoError(t, err)

	query := NewOrderQueryService(f.orderRepo)

	got, err := query.GetOrder(ctx, 1, order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, got.OrderNumber)

	// 其他用户按同一订单号查询不到
	_, err = query.GetOrder(ctx, 2, order.OrderNumber)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestListOrders(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	svc := f.service(f.cartRepo)

	f.seedCart(t, 1, cartdomain.CartItem{ProductID: 100, Quantity: 1})
	_, err := svc.CreateOrder(ctx, 1, 0, "")
	require.NoError(t, err)

	f.seedCart(t, 1, cartdomain.CartItem{ProductID: 200, Quantity: 3})
	_, err = svc.CreateOrder(ctx, 1, 0, "")
	require.NoError(t, err)

	query := NewOrderQueryService(f.orderRepo)
	orders, total, err := query.ListOrders(ctx, 1, 20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, orders, 2)

	_, total, err = query.ListOrders(ctx, 2, 20, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func assertNoOrders(t *testing.T, f *checkoutFixture) {
	t.Helper()
	var orderCount, itemCount int64
	require.NoError(t, f.outbox.DB().Model(&domain.Order{}).Count(&orderCount).Error)
	require.NoError(t, f.outbox.DB().Model(&domain.OrderItem{}).Count(&itemCount).Error)
	assert.Zero(t, orderCount)
	assert.Zero(t, itemCount)
}

func assertCartIntact(t *testing.T, f *checkoutFixture, userID uint, lines int) {
	t.Helper()
	cart, err := f.cartRepo.GetByUserID(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, cart)
	assert.Len(t, cart.Items, lines)
}
