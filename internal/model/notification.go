package model

import (
	"time"
)

// Notification 站内通知,投递失败不影响触发它的业务操作
type Notification struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	UserId  int64  `json:"user_id" gorm:"not null;index"`
	Title   string `json:"title" gorm:"not null"`
	Message string `json:"message" gorm:"type:text"`

	// 关联业务实体
	EntityType string `json:"entity_type"`
	EntityId   int64  `json:"entity_id"`

	Read bool `json:"read" gorm:"default:false"`
}

// TableName 自定义表名
func (Notification) TableName() string {
	return "notification"
}
