package logic

import (
	"fmt"

	"github.com/devpool/pps/internal/model"
	"gorm.io/gorm"
)

// NotificationLogic 站内通知查询
type NotificationLogic struct {
	db *gorm.DB
}

// NewNotificationLogic 创建通知查询逻辑
func NewNotificationLogic(db *gorm.DB) *NotificationLogic {
	return &NotificationLogic{db: db}
}

// ListByUser 获取用户的通知,按时间倒序
func (l *NotificationLogic) ListByUser(userId int64) ([]model.Notification, error) {
	var notifications []model.Notification
	if err := l.db.Where("user_id = ?", userId).
		Order("id DESC").
		Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("获取通知列表失败: %w", err)
	}
	return notifications, nil
}

// MarkRead 将通知标记为已读
func (l *NotificationLogic) MarkRead(userId, notificationId int64) error {
	res := l.db.Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", notificationId, userId).
		Update("read", true)
	if res.Error != nil {
		return fmt.Errorf("更新通知失败: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: 通知 %d", ErrNotFound, notificationId)
	}
	return nil
}
