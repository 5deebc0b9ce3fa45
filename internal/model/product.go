package model

import (
	"time"

	"gorm.io/datatypes"
)

// ==================== Item 商品主表 ====================

// Item 商品，item_id 全局唯一（Shopee 的 item_id 跨店铺不重复）
type Item struct {
	ID     int64 `gorm:"primaryKey;autoIncrement"`
	ItemID int64 `gorm:"uniqueIndex;not null"`
	ShopID int64 `gorm:"index;not null"`

	CategoryID  int64
	ItemName    string `gorm:"size:500"`
	Description string `gorm:"type:text"`
	ItemSKU     string `gorm:"size:100;index"`

	// Shopee 侧时间戳（unix 秒）
	CreateTime int64
	UpdateTime int64

	Weight string `gorm:"size:32"`

	// 嵌套结构统一存 JSONB，与外部存储的 items 表结构一致
	Image          datatypes.JSON `gorm:"type:jsonb"`
	LogisticInfo   datatypes.JSON `gorm:"type:jsonb"`
	PreOrder       datatypes.JSON `gorm:"type:jsonb"`
	Brand          datatypes.JSON `gorm:"type:jsonb"`
	PromotionImage datatypes.JSON `gorm:"type:jsonb"`

	Condition         string `gorm:"size:32"`
	ItemStatus        string `gorm:"size:32;index"`
	HasModel          bool   `gorm:"default:false"`
	ItemDangerous     int
	DescriptionType   string `gorm:"size:32"`
	SizeChartID       int64
	Deboost           bool `gorm:"default:false"`
	AuthorisedBrandID int64

	// 审计字段
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (*Item) TableName() string {
	return "items"
}

// ==================== ItemVariation 变体 ====================

// ItemVariation 变体维度，冲突键 (item_id, variation_id)
type ItemVariation struct {
	ID          int64 `gorm:"primaryKey;autoIncrement"`
	ItemID      int64 `gorm:"uniqueIndex:idx_item_variation;not null"`
	VariationID int64 `gorm:"uniqueIndex:idx_item_variation;not null"`

	VariationName string `gorm:"size:255"`

	// {group_id, options:[{id,name,image_url}]}
	VariationOption datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (*ItemVariation) TableName() string {
	return "item_variations"
}

// ==================== ItemModel 型号 ====================

// ItemModel 型号（价格/库存粒度），冲突键 (item_id, model_id)
type ItemModel struct {
	ID      int64 `gorm:"primaryKey;autoIncrement"`
	ItemID  int64 `gorm:"uniqueIndex:idx_item_model;not null"`
	ModelID int64 `gorm:"uniqueIndex:idx_item_model;not null"`

	ModelName     string `gorm:"size:255"`
	CurrentPrice  float64
	OriginalPrice float64
	StockInfo     datatypes.JSON `gorm:"type:jsonb"`
	ModelStatus   string         `gorm:"size:32"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (*ItemModel) TableName() string {
	return "item_models"
}
