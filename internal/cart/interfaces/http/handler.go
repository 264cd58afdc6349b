package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/ecommerce/internal/cart/application"
	"github.com/wyfcoding/ecommerce/internal/cart/domain"
	catalogdomain "github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/ecommerce/pkg/logger"
	"github.com/wyfcoding/ecommerce/pkg/middleware"
	"github.com/wyfcoding/ecommerce/pkg/response"
)

// CartHandler HTTP 处理器
// 负责购物车的增删改查请求，所有路由均需登录
type CartHandler struct {
	svc *application.CartService
}

// NewCartHandler 创建 HTTP 处理器实例
func NewCartHandler(svc *application.CartService) *CartHandler {
	return &CartHandler{svc: svc}
}

// RegisterRoutes 注册路由
func (h *CartHandler) RegisterRoutes(authorized *gin.RouterGroup) {
	authorized.GET("/cart", h.GetCart)
	authorized.POST("/cart/items", h.AddItem)
	authorized.PUT("/cart/items/:product_id", h.UpdateItem)
	authorized.DELETE("/cart/items/:product_id", h.RemoveItem)
	authorized.DELETE("/cart", h.ClearCart)
}

type addItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
	Override  bool `json:"override"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart 购物车汇总
func (h *CartHandler) GetCart(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	summary, err := h.svc.GetSummary(c.Request.Context(), userID)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to get cart summary", "user_id", userID, "error", err)
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.Success(c, summary)
}

// AddItem 添加商品到购物车
func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	userID := middleware.CurrentUserID(c)

	err := h.svc.AddItem(c.Request.Context(), userID, req.ProductID, req.Quantity, req.Override)
	if err != nil {
		h.mapError(c, err, "Failed to add cart item", userID)
		return
	}

	response.Success(c, gin.H{"product_id": req.ProductID})
}

// UpdateItem 修改购物车行数量，数量小于等于 0 时等同删除
func (h *CartHandler) UpdateItem(c *gin.Context) {
	productID, err := parseProductID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid product id")
		return
	}

	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	userID := middleware.CurrentUserID(c)

	if err := h.svc.UpdateItem(c.Request.Context(), userID, productID, req.Quantity); err != nil {
		h.mapError(c, err, "Failed to update cart item", userID)
		return
	}

	response.Success(c, gin.H{"product_id": productID})
}

// RemoveItem 删除购物车行
func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, err := parseProductID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid product id")
		return
	}
	userID := middleware.CurrentUserID(c)

	if err := h.svc.RemoveItem(c.Request.Context(), userID, productID); err != nil {
		h.mapError(c, err, "Failed to remove cart item", userID)
		return
	}

	response.Success(c, gin.H{"product_id": productID})
}

// ClearCart 清空购物车
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	if err := h.svc.ClearCart(c.Request.Context(), userID); err != nil {
		h.mapError(c, err, "Failed to clear cart", userID)
		return
	}

	response.Success(c, gin.H{"cleared": true})
}

func (h *CartHandler) mapError(c *gin.Context, err error, msg string, userID uint) {
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		response.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrItemNotFound):
		response.Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, catalogdomain.ErrProductNotFound):
		response.Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, catalogdomain.ErrProductUnavailable):
		response.Error(c, http.StatusConflict, err.Error())
	default:
		logger.Error(c.Request.Context(), msg, "user_id", userID, "error", err)
		response.Error(c, http.StatusInternalServerError, err.Error())
	}
}

func parseProductID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	return uint(id), err
}
