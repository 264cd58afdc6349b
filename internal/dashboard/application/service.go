// Package application 实现卖家工作台的应用服务
package application

import (
	"context"

	"github.com/shopspring/decimal"
	catalogapp "github.com/wyfcoding/ecommerce/internal/catalog/application"
	catalogdomain "github.com/wyfcoding/ecommerce/internal/catalog/domain"
)

// SalesSummary 卖家销售汇总
type SalesSummary struct {
	OrderCount int64           `json:"order_count"`
	UnitsSold  int64           `json:"units_sold"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// SoldItem 卖家已售订单行
type SoldItem struct {
	OrderNumber string          `json:"order_number"`
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// SalesRepository 卖家销售数据查询接口
type SalesRepository interface {
	SummarizeSeller(ctx context.Context, sellerID uint) (*SalesSummary, error)
	ListSoldItems(ctx context.Context, sellerID uint, limit, offset int) ([]*SoldItem, error)
}

// DashboardService 卖家工作台服务，商品管理委托给目录上下文
type DashboardService struct {
	catalog *catalogapp.CatalogService
	sales   SalesRepository
}

// NewDashboardService 创建工作台服务
func NewDashboardService(catalog *catalogapp.CatalogService, sales SalesRepository) *DashboardService {
	return &DashboardService{catalog: catalog, sales: sales}
}

// ListProducts 卖家名下商品列表，含下架商品
func (s *DashboardService) ListProducts(ctx context.Context, sellerID uint, limit, offset int) ([]*catalogdomain.Product, int64, error) {
	return s.catalog.Query.ListProducts(ctx, catalogdomain.ProductFilter{
		SellerID:      sellerID,
		OnlyAvailable: false,
		Limit:         limit,
		Offset:        offset,
	})
}

// CreateProduct 创建商品
func (s *DashboardService) CreateProduct(ctx context.Context, cmd catalogapp.CreateProductCommand) (*catalogdomain.Product, error) {
	return s.catalog.Command.CreateProduct(ctx, cmd)
}

// UpdateProduct 更新商品，仅限本人商品
func (s *DashboardService) UpdateProduct(ctx context.Context, cmd catalogapp.UpdateProductCommand) (*catalogdomain.Product, error) {
	return s.catalog.Command.UpdateProduct(ctx, cmd)
}

// DeleteProduct 删除商品，仅限本人商品
func (s *DashboardService) DeleteProduct(ctx context.Context, productID, sellerID uint) error {
	return s.catalog.Command.DeleteProduct(ctx, productID, sellerID)
}

// SalesSummary 卖家销售汇总
func (s *DashboardService) SalesSummary(ctx context.Context, sellerID uint) (*SalesSummary, error) {
	return s.sales.SummarizeSeller(ctx, sellerID)
}

// SoldItems 卖家已售订单行分页
func (s *DashboardService) SoldItems(ctx context.Context, sellerID uint, limit, offset int) ([]*SoldItem, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.sales.ListSoldItems(ctx, sellerID, limit, offset)
}
