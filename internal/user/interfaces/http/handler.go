package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/ecommerce/internal/user/application"
	"github.com/wyfcoding/ecommerce/internal/user/domain"
	"github.com/wyfcoding/ecommerce/pkg/logger"
	"github.com/wyfcoding/ecommerce/pkg/middleware"
	"github.com/wyfcoding/ecommerce/pkg/response"
)

// UserHandler HTTP 处理器
// 负责注册登录、令牌刷新、资料与地址簿请求
type UserHandler struct {
	svc *application.UserService
}

// NewUserHandler 创建 HTTP 处理器实例
func NewUserHandler(svc *application.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// RegisterRoutes 注册路由。authorized 为携带 JWT 鉴权的路由组
func (h *UserHandler) RegisterRoutes(public, authorized *gin.RouterGroup) {
	public.POST("/auth/register", h.Register)
	public.POST("/auth/login", h.Login)
	public.POST("/auth/refresh", h.Refresh)

	authorized.GET("/profile", h.GetProfile)
	authorized.PUT("/profile", h.UpdateProfile)
	authorized.GET("/addresses", h.ListAddresses)
	authorized.POST("/addresses", h.AddAddress)
	authorized.PUT("/addresses/:id", h.UpdateAddress)
	authorized.DELETE("/addresses/:id", h.DeleteAddress)
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type profileRequest struct {
	Username string `json:"username"`
	Phone    string `json:"phone"`
}

type addressRequest struct {
	FullName     string `json:"full_name" binding:"required"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"address_line1" binding:"required"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city" binding:"required"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country" binding:"required"`
	IsDefault    bool   `json:"is_default"`
}

// Register 注册
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.svc.Register(c.Request.Context(), req.Email, req.Username, req.Password, req.Phone)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			response.Error(c, http.StatusConflict, err.Error())
			return
		}
		logger.Error(c.Request.Context(), "Failed to register user", "email", req.Email, "error", err)
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.Created(c, user)
}

// Login 登录
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	tokens, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, err.Error())
			return
		}
		logger.Error(c.Request.Context(), "Failed to login", "email", req.Email, "error", err)
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.Success(c, tokens)
}

// Refresh 刷新令牌
func (h *UserHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	tokens, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidToken) {
			response.Error(c, http.StatusUnauthorized, err.Error())
			return
		}
		logger.Error(c.Request.Context(), "Failed to refresh token", "error", err)
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.Success(c, tokens)
}

// GetProfile 用户资料
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	user, err := h.svc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, err.Error())
			return
		}
		logger.Error(c.Request.Context(), "Failed to get profile", "user_id", userID, "error", err)
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.Success(c, user)
}

// UpdateProfile 更新资料
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	userID := middleware.CurrentUserID(c)

	user, err := h.svc.UpdateProfile(c.Request.Context(), userID, req.Username, req.Phone)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to update profile", "user_id", userID, "error", err)
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.Success(c, user)
}

// ListAddresses 地址列表
func (h *UserHandler) ListAddresses(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	addresses, err := h.svc.ListAddresses(c.Request.Context(), userID)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list addresses", "user_id", userID, "error", err)
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.Success(c, addresses)
}

// AddAddress 新增地址
func (h *UserHandler) AddAddress(c *gin.Context) {
	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	userID := middleware.CurrentUserID(c)

	address := req.toDomain(userID, 0)
	if err := h.svc.AddAddress(c.Request.Context(), address); err != nil {
		logger.Error(c.Request.Context(), "Failed to add address", "user_id", userID, "error", err)
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.Created(c, address)
}

// UpdateAddress 更新地址
func (h *UserHandler) UpdateAddress(c *gin.Context) {
	addressID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid address id")
		return
	}

	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	userID := middleware.CurrentUserID(c)

	address := req.toDomain(userID, uint(addressID))
	if err := h.svc.UpdateAddress(c.Request.Context(), address); err != nil {
		if errors.Is(err, domain.ErrAddressNotFound) {
			response.Error(c, http.StatusNotFound, err.Error())
			return
		}
		logger.Error(c.Request.Context(), "Failed to update address", "user_id", userID, "error", err)
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.Success(c, address)
}

// DeleteAddress 删除地址
func (h *UserHandler) DeleteAddress(c *gin.Context) {
	addressID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid address id")
		return
	}
	userID := middleware.CurrentUserID(c)

	if err := h.svc.DeleteAddress(c.Request.Context(), userID, uint(addressID)); err != nil {
		if errors.Is(err, domain.ErrAddressNotFound) {
			response.Error(c, http.StatusNotFound, err.Error())
			return
		}
		logger.Error(c.Request.Context(), "Failed to delete address", "user_id", userID, "error", err)
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.Success(c, gin.H{"deleted": true})
}

func (r addressRequest) toDomain(userID, addressID uint) *domain.Address {
	address := &domain.Address{
		UserID:       userID,
		FullName:     r.FullName,
		Phone:        r.Phone,
		AddressLine1: r.AddressLine1,
		AddressLine2: r.AddressLine2,
		City:         r.City,
		State:        r.State,
		PostalCode:   r.PostalCode,
		Country:      r.Country,
		IsDefault:    r.IsDefault,
	}
	address.ID = addressID
	return address
}
