package model

import (
	"time"

	"gorm.io/datatypes"
)

// ==================== 订单状态常量 ====================

// Shopee 订单状态（order_status）
const (
	OrderStatusUnpaid           = "UNPAID"             // 待付款
	OrderStatusProcessed        = "PROCESSED"          // 已处理（待揽收）
	OrderStatusShipped          = "SHIPPED"            // 已发货
	OrderStatusCompleted        = "COMPLETED"          // 已完成
	OrderStatusCancelled        = "CANCELLED"          // 已取消
	OrderStatusInCancel         = "IN_CANCEL"          // 取消中
	OrderStatusToConfirmReceive = "TO_CONFIRM_RECEIVE" // 待买家确认收货
	OrderStatusToReturn         = "TO_RETURN"          // 退货中
)

// CancelReasonFailedDelivery COD 派送失败，报表中单列一档
const CancelReasonFailedDelivery = "Failed Delivery"

// ==================== Order 订单主表 ====================

// Order 订单，upsert 以 order_sn 为冲突键，整行覆盖，永不删除
type Order struct {
	ID      int64  `gorm:"primaryKey;autoIncrement"`
	OrderSN string `gorm:"uniqueIndex;not null;size:32"`
	ShopID  int64  `gorm:"index;not null"`

	// 状态
	OrderStatus  string `gorm:"size:32;index"`
	CancelReason string `gorm:"size:128"`

	// 买家
	BuyerUsername string `gorm:"size:255;index"`

	// 金额与数量
	TotalAmount float64
	Currency    string `gorm:"size:10"`
	SkuQty      int

	// 物流
	TrackingNumber  string `gorm:"size:64;index"`
	ShippingCarrier string `gorm:"size:64"`

	// COD
	COD bool `gorm:"default:false"`

	// Shopee 侧时间戳（unix 秒）
	CreateTime int64 `gorm:"index"`
	UpdateTime int64

	// 原始明细（PostgreSQL JSONB）
	RawData datatypes.JSON `gorm:"type:jsonb"`

	// 同步时间
	SyncedAt *time.Time

	// 审计字段
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (*Order) TableName() string {
	return "orders"
}

// IsFailedDelivery 是否 COD 派送失败
func (o *Order) IsFailedDelivery() bool {
	return o.CancelReason == CancelReasonFailedDelivery
}

// ==================== OrderStats 状态统计 ====================

// OrderStats 仪表盘状态卡片计数
// Total 不含 UNPAID / CANCELLED / Failed Delivery
type OrderStats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Process  int64 `json:"process"`
	Shipping int64 `json:"shipping"`
	Cancel   int64 `json:"cancel"`
	Failed   int64 `json:"failed"`
}
