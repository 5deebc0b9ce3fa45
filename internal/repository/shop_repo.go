package repository

import (
	"context"
	"errors"
	"time"

	"shopee_dash_v1_202608/internal/model"

	"gorm.io/gorm"
)

// ==================== ShopRepository 店铺仓库 ====================

// ShopRepository 店铺授权仓库接口；同步侧只读，TokenTask 可写凭证
type ShopRepository interface {
	GetByShopID(ctx context.Context, shopID int64) (*model.ShopeeToken, error)
	ListActive(ctx context.Context) ([]model.ShopeeToken, error)
	FindExpiring(ctx context.Context, within time.Duration) ([]model.ShopeeToken, error)
	UpdateToken(ctx context.Context, shopID int64, accessToken, refreshToken string, expireAt time.Time) error
	Save(ctx context.Context, shop *model.ShopeeToken) error
}

type shopRepository struct {
	db *gorm.DB
}

// NewShopRepository 创建店铺仓库
func NewShopRepository(db *gorm.DB) ShopRepository {
	return &shopRepository{db: db}
}

func (r *shopRepository) GetByShopID(ctx context.Context, shopID int64) (*model.ShopeeToken, error) {
	var shop model.ShopeeToken
	err := r.db.WithContext(ctx).Where("shop_id = ?", shopID).First(&shop).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *shopRepository) ListActive(ctx context.Context) ([]model.ShopeeToken, error) {
	var shops []model.ShopeeToken
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("shop_id ASC").
		Find(&shops).Error
	return shops, err
}

func (r *shopRepository) FindExpiring(ctx context.Context, within time.Duration) ([]model.ShopeeToken, error) {
	var shops []model.ShopeeToken
	deadline := time.Now().Add(within)
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("expire_at <= ?", deadline).
		Find(&shops).Error
	return shops, err
}

func (r *shopRepository) UpdateToken(ctx context.Context, shopID int64, accessToken, refreshToken string, expireAt time.Time) error {
	return r.db.WithContext(ctx).Model(&model.ShopeeToken{}).
		Where("shop_id = ?", shopID).
		Updates(map[string]interface{}{
			"access_token":  accessToken,
			"refresh_token": refreshToken,
			"expire_at":     expireAt,
		}).Error
}

func (r *shopRepository) Save(ctx context.Context, shop *model.ShopeeToken) error {
	return r.db.WithContext(ctx).Save(shop).Error
}
