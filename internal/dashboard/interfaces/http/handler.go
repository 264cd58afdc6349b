package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	catalogapp "github.com/wyfcoding/ecommerce/internal/catalog/application"
	catalogdomain "github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/ecommerce/internal/dashboard/application"
	"github.com/wyfcoding/ecommerce/pkg/logger"
	"github.com/wyfcoding/ecommerce/pkg/middleware"
	"github.com/wyfcoding/ecommerce/pkg/response"
)

// DashboardHandler HTTP 处理器
// 卖家工作台路由，要求登录且为卖家账号
type DashboardHandler struct {
	svc *application.DashboardService
}

// NewDashboardHandler 创建 HTTP 处理器实例
func NewDashboardHandler(svc *application.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// RegisterRoutes 注册路由。seller 路由组已挂载 RequireSeller 中间件
func (h *DashboardHandler) RegisterRoutes(seller *gin.RouterGroup) {
	seller.GET("/dashboard/products", h.ListProducts)
	seller.POST("/dashboard/products", h.CreateProduct)
	seller.PUT("/dashboard/products/:id", h.UpdateProduct)
	seller.DELETE("/dashboard/products/:id", h.DeleteProduct)
	seller.GET("/dashboard/sales", h.SalesSummary)
	seller.GET("/dashboard/sales/items", h.SoldItems)
}

type productRequest struct {
	Name        string          `json:"name" binding:"required"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Stock       int             `json:"stock"`
	Available   bool            `json:"available"`
	Image       string          `json:"image"`
	CategoryID  uint            `json:"category_id"`
	BrandID     uint            `json:"brand_id"`
}

// ListProducts 卖家商品列表
func (h *DashboardHandler) ListProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	sellerID := middleware.CurrentUserID(c)

	products, total, err := h.svc.ListProducts(c.Request.Context(), sellerID, limit, offset)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list seller products", "seller_id", sellerID, "error", err)
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.Success(c, gin.H{"products": products, "total": total})
}

// CreateProduct 创建商品
func (h *DashboardHandler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	sellerID := middleware.CurrentUserID(c)

	product, err := h.svc.CreateProduct(c.Request.Context(), catalogapp.CreateProductCommand{
		SellerID:    sellerID,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Available:   req.Available,
		Image:       req.Image,
		CategoryID:  req.CategoryID,
		BrandID:     req.BrandID,
	})
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to create product", "seller_id", sellerID, "error", err)
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.Created(c, product)
}

// UpdateProduct 更新商品
func (h *DashboardHandler) UpdateProduct(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid product id")
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	sellerID := middleware.CurrentUserID(c)

	product, err := h.svc.UpdateProduct(c.Request.Context(), catalogapp.UpdateProductCommand{
		ProductID:   uint(productID),
		SellerID:    sellerID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Available:   req.Available,
		Image:       req.Image,
		CategoryID:  req.CategoryID,
		BrandID:     req.BrandID,
	})
	if err != nil {
		h.mapCatalogError(c, err, sellerID)
		return
	}

	response.Success(c, product)
}

// DeleteProduct 删除商品
func (h *DashboardHandler) DeleteProduct(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid product id")
		return
	}
	sellerID := middleware.CurrentUserID(c)

	if err := h.svc.DeleteProduct(c.Request.Context(), uint(productID), sellerID); err != nil {
		h.mapCatalogError(c, err, sellerID)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}

// SalesSummary 销售汇总
func (h *DashboardHandler) SalesSummary(c *gin.Context) {
	sellerID := middleware.CurrentUserID(c)

	summary, err := h.svc.SalesSummary(c.Request.Context(), sellerID)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to summarize sales", "seller_id", sellerID, "error", err)
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.Success(c, summary)
}

// SoldItems 已售订单行
func (h *DashboardHandler) SoldItems(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	sellerID := middleware.CurrentUserID(c)

	items, err := h.svc.SoldItems(c.Request.Context(), sellerID, limit, offset)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list sold items", "seller_id", sellerID, "error", err)
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.Success(c, items)
}

func (h *DashboardHandler) mapCatalogError(c *gin.Context, err error, sellerID uint) {
	switch {
	case errors.Is(err, catalogdomain.ErrProductNotFound):
		response.Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, catalogdomain.ErrNotProductSeller):
		response.Error(c, http.StatusForbidden, err.Error())
	default:
		logger.Error(c.Request.Context(), "Dashboard product operation failed", "seller_id", sellerID, "error", err)
		response.Error(c, http.StatusInternalServerError, err.Error())
	}
}
