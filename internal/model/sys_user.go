package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ==================== SysUser 后台用户 ====================

// 用户角色
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

// SysUser 后台登录账号
type SysUser struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Username string `gorm:"uniqueIndex;size:64;not null"`
	Password string `gorm:"size:128;not null"` // bcrypt hash
	Role     string `gorm:"size:32;default:operator"`
	Status   int    `gorm:"default:1"` // 0: 停用, 1: 正常

	LastLoginAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (*SysUser) TableName() string {
	return "sys_users"
}

// SetPassword 写入 bcrypt 哈希
func (u *SysUser) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

// CheckPassword 校验明文密码
func (u *SysUser) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}
