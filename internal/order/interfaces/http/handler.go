package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/ecommerce/internal/order/application"
	"github.com/wyfcoding/ecommerce/internal/order/domain"
	"github.com/wyfcoding/ecommerce/pkg/logger"
	"github.com/wyfcoding/ecommerce/pkg/middleware"
	"github.com/wyfcoding/ecommerce/pkg/response"
)

// OrderHandler HTTP 处理器
// 负责下单与订单查询请求，所有路由均需登录
type OrderHandler struct {
	checkout *application.CheckoutService
	query    *application.OrderQueryService
}

// NewOrderHandler 创建 HTTP 处理器实例
func NewOrderHandler(checkout *application.CheckoutService, query *application.OrderQueryService) *OrderHandler {
	return &OrderHandler{checkout: checkout, query: query}
}

// RegisterRoutes 注册路由
func (h *OrderHandler) RegisterRoutes(authorized *gin.RouterGroup) {
	authorized.POST("/orders", h.CreateOrder)
	authorized.GET("/orders", h.ListOrders)
	authorized.GET("/orders/:number", h.GetOrder)
}

type createOrderRequest struct {
	AddressID uint   `json:"address_id"`
	Notes     string `json:"notes"`
}

// CreateOrder 结算下单
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	userID := middleware.CurrentUserID(c)

	order, err := h.checkout.CreateOrder(c.Request.Context(), userID, req.AddressID, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyCart):
			response.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrMissingAddress):
			response.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, catalogdomain.ErrProductNotFound):
			response.Error(c, http.StatusNotFound, err.Error())
		case errors.Is(err, catalogdomain.ErrProductUnavailable):
			response.Error(c, http.StatusConflict, err.Error())
		default:
			logger.Error(c.Request.Context(), "Failed to create order", "user_id", userID, "error", err)
			response.Error(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	response.Created(c, order)
}

// ListOrders 订单列表
func (h *OrderHandler) ListOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	userID := middleware.CurrentUserID(c)

	orders, total, err := h.query.ListOrders(c.Request.Context(), userID, limit, offset)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list orders", "user_id", userID, "error", err)
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.Success(c, gin.H{"orders": orders, "total": total})
}

// GetOrder 订单详情
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	order, err := h.query.GetOrder(c.Request.Context(), userID, c.Param("number"))
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			response.Error(c, http.StatusNotFound, "order not found")
			return
		}
		logger.Error(c.Request.Context(), "Failed to get order", "user_id", userID, "error", err)
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.Success(c, order)
}
