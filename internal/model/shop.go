package model

import "time"

// ==================== ShopeeToken 店铺授权表 ====================

// ShopeeToken 一行即一家已授权店铺；同步逻辑对本表只读
type ShopeeToken struct {
	ID     int64 `gorm:"primaryKey;autoIncrement"`
	ShopID int64 `gorm:"uniqueIndex;not null"`

	ShopName string `gorm:"size:255"`
	Region   string `gorm:"size:10"`

	// 授权凭证（access_token 4 小时过期，由 TokenTask 刷新）
	AccessToken  string    `gorm:"size:512"`
	RefreshToken string    `gorm:"size:512"`
	ExpireAt     time.Time `gorm:"index"`

	IsActive bool `gorm:"index;default:true"`

	// 审计字段
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (*ShopeeToken) TableName() string {
	return "shopee_tokens"
}

// TokenExpiringSoon 是否即将过期（提前 30 分钟刷新）
func (s *ShopeeToken) TokenExpiringSoon() bool {
	return time.Until(s.ExpireAt) < 30*time.Minute
}
