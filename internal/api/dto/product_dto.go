package dto

import (
	"time"

	"gorm.io/datatypes"
)

// ==================== 商品列表 ====================

// ListProductsRequest 商品列表请求
type ListProductsRequest struct {
	ShopID   int64  `form:"shop_id"`
	Status   string `form:"status"` // NORMAL, BANNED, UNLIST
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
}

// ListProductsResponse 商品列表响应
type ListProductsResponse struct {
	Total int64             `json:"total"`
	List  []ProductListItem `json:"list"`
}

// ProductListItem 商品列表项
type ProductListItem struct {
	ID         int64          `json:"id"`
	ItemID     int64          `json:"item_id"`
	ShopID     int64          `json:"shop_id"`
	ItemName   string         `json:"item_name"`
	ItemSKU    string         `json:"item_sku,omitempty"`
	ItemStatus string         `json:"item_status"`
	Condition  string         `json:"condition,omitempty"`
	Weight     string         `json:"weight,omitempty"`
	Image      datatypes.JSON `json:"image,omitempty"`
	HasModel   bool           `json:"has_model"`
	Deboost    bool           `json:"deboost"`
	CreateTime int64          `json:"create_time"`
	UpdateTime int64          `json:"update_time"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// ==================== 库存价格明细 ====================

// StockPricesResponse 单品的规格与型号库存价格
type StockPricesResponse struct {
	ItemID     int64         `json:"item_id"`
	Variations []VariationVO `json:"variations"`
	Models     []ModelVO     `json:"models"`
}

// VariationVO 规格视图对象
type VariationVO struct {
	VariationID int64          `json:"variation_id"`
	Name        string         `json:"name"`
	Option      datatypes.JSON `json:"option,omitempty"`
}

// ModelVO 型号视图对象
type ModelVO struct {
	ModelID       int64          `json:"model_id"`
	ModelName     string         `json:"model_name"`
	ModelStatus   string         `json:"model_status,omitempty"`
	CurrentPrice  float64        `json:"current_price"`
	OriginalPrice float64        `json:"original_price"`
	StockInfo     datatypes.JSON `json:"stock_info,omitempty"`
}
