// Package application 实现用户上下文的应用服务
package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/wyfcoding/ecommerce/internal/user/domain"
	"github.com/wyfcoding/ecommerce/pkg/config"
	"github.com/wyfcoding/ecommerce/pkg/logger"
	"github.com/wyfcoding/ecommerce/pkg/middleware"
	"golang.org/x/crypto/bcrypt"
)

// TokenPair 登录、刷新返回的令牌对
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// UserService 用户应用服务，覆盖注册、登录、令牌刷新、资料与地址簿
type UserService struct {
	users     domain.UserRepository
	addresses domain.AddressRepository
	auth      config.AuthConfig
}

// NewUserService 创建用户服务
func NewUserService(users domain.UserRepository, addresses domain.AddressRepository, auth config.AuthConfig) *UserService {
	return &UserService{users: users, addresses: addresses, auth: auth}
}

// Register 注册新用户
func (s *UserService) Register(ctx context.Context, email, username, password, phone string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Phone:        phone,
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}

	logger.Info(ctx, "user registered", "user_id", user.ID, "email", email)
	return user, nil
}

// Login 校验密码并签发令牌对
func (s *UserService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return s.issueTokens(user)
}

// Refresh 校验刷新令牌并签发新的令牌对
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims := &middleware.AuthClaims{}
	token, err := jwt.ParseWithClaims(refreshToken, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.auth.JWTSecret), nil
	})
	if err != nil || !token.Valid || claims.Subject != "refresh" {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidToken
	}
	return s.issueTokens(user)
}

// GetProfile 取用户资料
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile 更新用户名与电话
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, username, phone string) (*domain.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if username != "" {
		user.Username = username
	}
	user.Phone = phone
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	return user, nil
}

// AddAddress 新增地址。首个地址或显式指定时设为默认
func (s *UserService) AddAddress(ctx context.Context, address *domain.Address) error {
	existing, err := s.addresses.ListByUser(ctx, address.UserID)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		address.IsDefault = true
	}
	if address.IsDefault {
		if err := s.addresses.ClearDefault(ctx, address.UserID); err != nil {
			return err
		}
	}
	return s.addresses.Save(ctx, address)
}

// UpdateAddress 更新本人地址
func (s *UserService) UpdateAddress(ctx context.Context, address *domain.Address) error {
	current, err := s.addresses.Get(ctx, address.UserID, address.ID)
	if err != nil {
		return err
	}
	if current == nil {
		return domain.ErrAddressNotFound
	}
	if address.IsDefault && !current.IsDefault {
		if err := s.addresses.ClearDefault(ctx, address.UserID); err != nil {
			return err
		}
	}
	return s.addresses.Save(ctx, address)
}

// DeleteAddress 删除本人地址
func (s *UserService) DeleteAddress(ctx context.Context, userID, addressID uint) error {
	current, err := s.addresses.Get(ctx, userID, addressID)
	if err != nil {
		return err
	}
	if current == nil {
		return domain.ErrAddressNotFound
	}
	return s.addresses.Delete(ctx, userID, addressID)
}

// ListAddresses 取本人地址列表
func (s *UserService) ListAddresses(ctx context.Context, userID uint) ([]*domain.Address, error) {
	return s.addresses.ListByUser(ctx, userID)
}

func (s *UserService) issueTokens(user *domain.User) (*TokenPair, error) {
	now := time.Now()
	accessTTL := time.Duration(s.auth.AccessTokenTTL) * time.Minute
	refreshTTL := time.Duration(s.auth.RefreshTokenTTL) * time.Hour

	access, err := s.signToken(user, "access", now, accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.signToken(user, "refresh", now, refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(accessTTL.Seconds()),
	}, nil
}

func (s *UserService) signToken(user *domain.User, subject string, now time.Time, ttl time.Duration) (string, error) {
	claims := middleware.AuthClaims{
		UserID:   user.ID,
		IsSeller: user.IsSeller,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.auth.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.auth.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
