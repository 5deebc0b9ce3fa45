package dto

import "time"

// ==================== 订单列表查询 ====================

// ListOrdersRequest 订单列表请求
type ListOrdersRequest struct {
	ShopID    int64  `form:"shop_id"`
	Status    string `form:"status"`     // UNPAID, READY_TO_SHIP, SHIPPED ...
	StartTime int64  `form:"start_time"` // unix 秒
	EndTime   int64  `form:"end_time"`
	Page      int    `form:"page,default=1"`
	PageSize  int    `form:"page_size,default=20"`
}

// ListOrdersResponse 订单列表响应
type ListOrdersResponse struct {
	Total int64           `json:"total"`
	List  []OrderListItem `json:"list"`
}

// OrderListItem 订单列表项
type OrderListItem struct {
	ID              int64     `json:"id"`
	OrderSN         string    `json:"order_sn"`
	ShopID          int64     `json:"shop_id"`
	OrderStatus     string    `json:"order_status"`
	CancelReason    string    `json:"cancel_reason,omitempty"`
	BuyerUsername   string    `json:"buyer_username"`
	TotalAmount     float64   `json:"total_amount"`
	Currency        string    `json:"currency"`
	SkuQty          int       `json:"sku_qty"`
	TrackingNumber  string    `json:"tracking_number,omitempty"`
	ShippingCarrier string    `json:"shipping_carrier,omitempty"`
	COD             bool      `json:"cod"`
	CreateTime      int64     `json:"create_time"`
	UpdateTime      int64     `json:"update_time"`
	SyncedAt        time.Time `json:"synced_at"`
}

// ==================== 订单搜索 ====================

// SearchOrdersRequest 订单搜索请求，关键词至少 4 个字符
type SearchOrdersRequest struct {
	Keyword string `form:"q" binding:"required"`
}

// SearchOrdersResponse 订单搜索响应
type SearchOrdersResponse struct {
	Total int             `json:"total"`
	List  []OrderListItem `json:"list"`
}

// ==================== 订单统计 ====================

// OrderStatsResponse 订单各状态桶统计
type OrderStatsResponse struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Process  int64 `json:"process"`
	Shipping int64 `json:"shipping"`
	Cancel   int64 `json:"cancel"`
	Failed   int64 `json:"failed"`
}
