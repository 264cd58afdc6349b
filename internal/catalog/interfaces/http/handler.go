package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/ecommerce/internal/catalog/application"
	"github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/ecommerce/pkg/logger"
	"github.com/wyfcoding/ecommerce/pkg/middleware"
	"github.com/wyfcoding/ecommerce/pkg/response"
)

// CatalogHandler HTTP 处理器
// 负责商品、分类、品牌、评价与心愿单相关的请求
type CatalogHandler struct {
	svc *application.CatalogService
}

// NewCatalogHandler 创建 HTTP 处理器实例
func NewCatalogHandler(svc *application.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// RegisterRoutes 注册路由。authorized 为携带 JWT 鉴权的路由组
func (h *CatalogHandler) RegisterRoutes(public, authorized *gin.RouterGroup) {
	public.GET("/products", h.ListProducts)
	public.GET("/products/:slug", h.GetProduct)
	public.GET("/products/:slug/reviews", h.ListReviews)
	public.GET("/categories", h.ListCategories)
	public.GET("/brands", h.ListBrands)

	authorized.POST("/products/:slug/reviews", h.AddReview)
	authorized.GET("/wishlist", h.ListWishlist)
	authorized.POST("/wishlist", h.AddToWishlist)
	authorized.DELETE("/wishlist/:product_id", h.RemoveFromWishlist)
}

// ListProducts 商品列表
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := domain.ProductFilter{
		CategorySlug:  c.Query("category"),
		BrandSlug:     c.Query("brand"),
		Query:         c.Query("q"),
		OnlyAvailable: c.DefaultQuery("available", "true") == "true",
		Limit:         limit,
		Offset:        offset,
	}

	products, total, err := h.svc.Query.ListProducts(c.Request.Context(), filter)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list products", "error", err)
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.Success(c, gin.H{"products": products, "total": total})
}

// GetProduct 商品详情
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.svc.Query.GetProductBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			response.Error(c, http.StatusNotFound, "product not found")
			return
		}
		logger.Error(c.Request.Context(), "Failed to get product", "slug", c.Param("slug"), "error", err)
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.Success(c, product)
}

// ListCategories 分类列表
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.svc.Query.ListCategories(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, categories)
}

// ListBrands 品牌列表
func (h *CatalogHandler) ListBrands(c *gin.Context) {
	brands, err := h.svc.Query.ListBrands(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, brands)
}

// ListReviews 商品评价列表
func (h *CatalogHandler) ListReviews(c *gin.Context) {
	product, err := h.svc.Query.GetProductBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			response.Error(c, http.StatusNotFound, "product not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	reviews, err := h.svc.Query.ListReviews(c.Request.Context(), product.ID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.Success(c, reviews)
}

// AddReviewRequest 添加评价请求
type AddReviewRequest struct {
	Rating        int    `json:"rating" binding:"required"`
	Comment       string `json:"comment"`
	Advantages    string `json:"advantages"`
	Disadvantages string `json:"disadvantages"`
}

// AddReview 添加商品评价
func (h *CatalogHandler) AddReview(c *gin.Context) {
	var req AddReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.svc.Query.GetProductBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			response.Error(c, http.StatusNotFound, "product not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	cmd := application.AddReviewCommand{
		ProductID:     product.ID,
		UserID:        middleware.CurrentUserID(c),
		Rating:        req.Rating,
		Comment:       req.Comment,
		Advantages:    req.Advantages,
		Disadvantages: req.Disadvantages,
	}

	review, err := h.svc.Command.AddReview(c.Request.Context(), cmd)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRating):
			response.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrDuplicateReview):
			response.Error(c, http.StatusConflict, err.Error())
		default:
			logger.Error(c.Request.Context(), "Failed to add review", "error", err)
			response.Error(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	response.Created(c, review)
}

// ListWishlist 心愿单列表
func (h *CatalogHandler) ListWishlist(c *gin.Context) {
	items, err := h.svc.Query.ListWishlist(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, items)
}

// AddToWishlistRequest 加入心愿单请求
type AddToWishlistRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// AddToWishlist 加入心愿单
func (h *CatalogHandler) AddToWishlist(c *gin.Context) {
	var req AddToWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.svc.Command.AddToWishlist(c.Request.Context(), middleware.CurrentUserID(c), req.ProductID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrProductNotFound):
			response.Error(c, http.StatusNotFound, err.Error())
		case errors.Is(err, domain.ErrDuplicateWishlist):
			response.Error(c, http.StatusConflict, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	response.Created(c, item)
}

// RemoveFromWishlist 从心愿单移除
func (h *CatalogHandler) RemoveFromWishlist(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid product_id")
		return
	}

	if err := h.svc.Command.RemoveFromWishlist(c.Request.Context(), middleware.CurrentUserID(c), uint(productID)); err != nil {
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.Success(c, gin.H{"status": "removed"})
}
