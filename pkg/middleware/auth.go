package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/wyfcoding/ecommerce/pkg/response"
)

// UserIDKey gin context key for the authenticated user ID
const UserIDKey = "user_id"

// IsSellerKey gin context key for the seller flag
const IsSellerKey = "is_seller"

// AuthClaims access token 自定义声明
type AuthClaims struct {
	UserID   uint `json:"uid"`
	IsSeller bool `json:"is_seller"`
	jwt.RegisteredClaims
}

// JWTAuthMiddleware 校验 Bearer access token，并将用户身份写入 gin context
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			response.Error(c, http.StatusUnauthorized, "missing or malformed authorization header")
			c.Abort()
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &AuthClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		// refresh token 不能当 access token 用
		if err != nil || !token.Valid || claims.Subject != "access" {
			response.Error(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(IsSellerKey, claims.IsSeller)
		c.Next()
	}
}

// RequireSeller 仅允许卖家访问
func RequireSeller() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(IsSellerKey) {
			response.Error(c, http.StatusForbidden, "seller account required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUserID 从 gin context 读取当前用户 ID
func CurrentUserID(c *gin.Context) uint {
	if v, ok := c.Get(UserIDKey); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
