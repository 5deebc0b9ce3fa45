package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"shopee_dash_v1_202608/internal/api/dto"
	"shopee_dash_v1_202608/internal/middleware"
	"shopee_dash_v1_202608/internal/repository"
	"shopee_dash_v1_202608/pkg/shopee"
)

// ==================== 错误 ====================

var (
	// ErrInvalidCredentials 用户名或密码错误
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	// ErrUserDisabled 账号已停用
	ErrUserDisabled = errors.New("账号已停用")
	// ErrInvalidToken Token 无效
	ErrInvalidToken = errors.New("token 无效")
)

// ==================== 依赖接口 ====================

// TokenGateway 授权侧用到的 Shopee 接口
type TokenGateway interface {
	RefreshAccessToken(ctx context.Context, shopID int64, refreshToken string) (*shopee.TokenResult, error)
}

// ==================== AuthService ====================

// AuthService 认证服务：后台用户登录 + Shopee 店铺凭证刷新
type AuthService struct {
	userRepo repository.UserRepository
	shopRepo repository.ShopRepository
	gateway  TokenGateway
}

// NewAuthService 创建认证服务
func NewAuthService(
	userRepo repository.UserRepository,
	shopRepo repository.ShopRepository,
	gateway TokenGateway,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		shopRepo: shopRepo,
		gateway:  gateway,
	}
}

// ==================== 后台登录 ====================

// Login 用户登录
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.CheckPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}
	if user.Status != 1 {
		return nil, ErrUserDisabled
	}

	accessToken, refreshToken, err := middleware.GenerateTokenPair(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}

	_ = s.userRepo.TouchLogin(ctx, user.ID)

	cfg := middleware.GetJWTConfig()
	info := &dto.UserInfo{
		ID:        user.ID,
		Username:  user.Username,
		Role:      user.Role,
		Status:    user.Status,
		CreatedAt: user.CreatedAt,
	}
	if user.LastLoginAt != nil {
		info.LastLoginAt = *user.LastLoginAt
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(cfg.AccessTokenTTL),
		User:         info,
	}, nil
}

// RefreshToken 刷新登录 Token
func (s *AuthService) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.RefreshTokenResponse, error) {
	claims, err := middleware.ParseToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.Subject != "refresh" {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByUsername(ctx, claims.Username)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Status != 1 {
		return nil, ErrUserDisabled
	}

	accessToken, refreshToken, err := middleware.GenerateTokenPair(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}

	cfg := middleware.GetJWTConfig()
	return &dto.RefreshTokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(cfg.AccessTokenTTL),
	}, nil
}

// ==================== Shopee 凭证刷新 ====================

// RefreshShopToken 用 refresh_token 换新 access_token 并落库
// access_token 4 小时过期，由 TokenTask 定时驱动
func (s *AuthService) RefreshShopToken(ctx context.Context, shopID int64) error {
	shop, err := s.shopRepo.GetByShopID(ctx, shopID)
	if err != nil {
		return fmt.Errorf("查询店铺失败: %w", err)
	}
	if shop == nil {
		return fmt.Errorf("%w: shop_id=%d", ErrShopNotFound, shopID)
	}

	result, err := s.gateway.RefreshAccessToken(ctx, shop.ShopID, shop.RefreshToken)
	if err != nil {
		return fmt.Errorf("刷新凭证失败: %w", err)
	}
	if result.Error != "" {
		return fmt.Errorf("刷新凭证被拒: %s (%s)", result.Error, result.Message)
	}

	expireAt := time.Now().Add(time.Duration(result.ExpireIn) * time.Second)
	if err := s.shopRepo.UpdateToken(ctx, shop.ShopID, result.AccessToken, result.RefreshToken, expireAt); err != nil {
		return fmt.Errorf("凭证落库失败: %w", err)
	}

	log.Printf("[Token] 店铺 %d 凭证已刷新，过期时间 %s", shop.ShopID, expireAt.Format(time.RFC3339))
	return nil
}
