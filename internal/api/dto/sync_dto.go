package dto

import "time"

// ==================== 同步触发 ====================

// SyncOrdersRequest 手动触发订单同步的可选参数
type SyncOrdersRequest struct {
	ShopID         int64  `form:"shop_id"`
	TimeRangeField string `form:"time_range_field"` // create_time / update_time
	StartTime      int64  `form:"start_time"`
	EndTime        int64  `form:"end_time"`
	OrderStatus    string `form:"order_status"`
}

// SyncResponse 同步完成响应
// Summary 的键为 "<店铺名> (<shop_id>)"，值为 fulfilled / rejected
type SyncResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Summary map[string]string `json:"summary"`
}

// SyncErrorResponse 同步失败响应
type SyncErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// ==================== 同步状态 ====================

// SyncStatusResponse 最近一轮同步的结果
type SyncStatusResponse struct {
	Running    bool              `json:"running"`
	LastRunAt  *time.Time        `json:"last_run_at,omitempty"`
	LastWindow *SyncWindow       `json:"last_window,omitempty"`
	Summary    map[string]string `json:"summary,omitempty"`
}

// SyncWindow 同步时间窗
type SyncWindow struct {
	TimeRangeField string `json:"time_range_field"`
	StartTime      int64  `json:"start_time"`
	EndTime        int64  `json:"end_time"`
}
