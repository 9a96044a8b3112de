package model

import (
	"time"
)

// User 后台用户,身份认证归属外部系统,这里只保留角色信息
type User struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Username string `json:"username" gorm:"not null;uniqueIndex"`
	Role     Role   `json:"role" gorm:"not null;index"`
}

// Role 用户角色
type Role string

const (
	RoleAccountant Role = "accountant" // 会计
	RoleManager    Role = "manager"    // 经理
	RoleAdmin      Role = "admin"      // 管理员
)

// TableName 自定义表名
func (User) TableName() string {
	return "user"
}

// Actor 当前操作者,由认证中间件从令牌解析
type Actor struct {
	UserId int64 `json:"user_id"`
	Role   Role  `json:"role"`
}
