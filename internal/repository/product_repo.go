package repository

import (
	"context"
	"errors"

	"shopee_dash_v1_202608/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ==================== 过滤条件 ====================

// ItemFilter 商品过滤条件
type ItemFilter struct {
	ShopIDs    []int64
	ItemStatus string
	Keyword    string
	Page       int
	PageSize   int
}

// ==================== ProductRepository 商品仓库 ====================

// ProductRepository 商品仓库接口
// 三张表各自以自然键幂等 upsert：
// items(item_id) / item_variations(item_id,variation_id) / item_models(item_id,model_id)
type ProductRepository interface {
	UpsertItem(ctx context.Context, item *model.Item) error
	UpsertVariations(ctx context.Context, variations []model.ItemVariation) error
	UpsertModels(ctx context.Context, models []model.ItemModel) error

	GetByItemID(ctx context.Context, itemID int64) (*model.Item, error)
	List(ctx context.Context, filter ItemFilter) ([]model.Item, int64, error)
	GetVariationsByItemID(ctx context.Context, itemID int64) ([]model.ItemVariation, error)
	GetModelsByItemID(ctx context.Context, itemID int64) ([]model.ItemModel, error)
	CountByShop(ctx context.Context, shopID int64) (int64, error)
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) UpsertItem(ctx context.Context, item *model.Item) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "item_id"}},
			UpdateAll: true,
		}).
		Create(item).Error
}

func (r *productRepository) UpsertVariations(ctx context.Context, variations []model.ItemVariation) error {
	if len(variations) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "item_id"}, {Name: "variation_id"}},
			UpdateAll: true,
		}).
		CreateInBatches(variations, 100).Error
}

func (r *productRepository) UpsertModels(ctx context.Context, models []model.ItemModel) error {
	if len(models) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "item_id"}, {Name: "model_id"}},
			UpdateAll: true,
		}).
		CreateInBatches(models, 100).Error
}

func (r *productRepository) GetByItemID(ctx context.Context, itemID int64) (*model.Item, error) {
	var item model.Item
	err := r.db.WithContext(ctx).Where("item_id = ?", itemID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *productRepository) List(ctx context.Context, filter ItemFilter) ([]model.Item, int64, error) {
	var items []model.Item
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Item{})

	if len(filter.ShopIDs) > 0 {
		db = db.Where("shop_id IN ?", filter.ShopIDs)
	}
	if filter.ItemStatus != "" {
		db = db.Where("item_status = ?", filter.ItemStatus)
	}
	if filter.Keyword != "" {
		keyword := "%" + filter.Keyword + "%"
		db = db.Where("item_name LIKE ? OR item_sku LIKE ?", keyword, keyword)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	err := db.
		Order("update_time DESC").
		Limit(filter.PageSize).
		Offset(offset).
		Find(&items).Error

	return items, total, err
}

func (r *productRepository) GetVariationsByItemID(ctx context.Context, itemID int64) ([]model.ItemVariation, error) {
	var variations []model.ItemVariation
	err := r.db.WithContext(ctx).Where("item_id = ?", itemID).Find(&variations).Error
	return variations, err
}

func (r *productRepository) GetModelsByItemID(ctx context.Context, itemID int64) ([]model.ItemModel, error) {
	var models []model.ItemModel
	err := r.db.WithContext(ctx).Where("item_id = ?", itemID).Find(&models).Error
	return models, err
}

func (r *productRepository) CountByShop(ctx context.Context, shopID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Item{}).
		Where("shop_id = ?", shopID).
		Count(&count).Error
	return count, err
}
