package notify

import (
	"github.com/devpool/pps/internal/logger"
	"github.com/devpool/pps/internal/model"
	"github.com/panjf2000/ants/v2"
	"gorm.io/gorm"
)

// Notifier 通知发送契约。投递即发即忘,失败不得影响触发它的业务操作。
type Notifier interface {
	NotifyRole(role model.Role, title, message, entityType string, entityId int64)
	NotifyUsers(userIds []int64, title, message, entityType string, entityId int64)
}

// Sink 站内通知投递器,写入通知表,投递任务交给协程池
type Sink struct {
	db   *gorm.DB
	pool *ants.Pool
}

// NewSink 创建通知投递器
func NewSink(db *gorm.DB, poolSize int) (*Sink, error) {
	if poolSize <= 0 {
		poolSize = 8
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}
	return &Sink{db: db, pool: pool}, nil
}

// NotifyRole 通知某角色的全部用户
func (s *Sink) NotifyRole(role model.Role, title, message, entityType string, entityId int64) {
	s.submit(func() {
		s.deliverRole(role, title, message, entityType, entityId)
	})
}

// NotifyUsers 通知指定用户
func (s *Sink) NotifyUsers(userIds []int64, title, message, entityType string, entityId int64) {
	s.submit(func() {
		s.deliverUsers(userIds, title, message, entityType, entityId)
	})
}

// submit 提交投递任务,协程池不可用时退化为同步投递
func (s *Sink) submit(task func()) {
	if err := s.pool.Submit(task); err != nil {
		logger.Warn("Notification pool unavailable, delivering synchronously: %v", err)
		task()
	}
}

func (s *Sink) deliverRole(role model.Role, title, message, entityType string, entityId int64) {
	var users []model.User
	if err := s.db.Where("role = ?", role).Find(&users).Error; err != nil {
		logger.Warn("Failed to resolve users for role %s: %v", role, err)
		return
	}
	if len(users) == 0 {
		logger.Warn("No users found for role %s, notification dropped", role)
		return
	}

	userIds := make([]int64, 0, len(users))
	for _, u := range users {
		userIds = append(userIds, u.Id)
	}
	s.deliverUsers(userIds, title, message, entityType, entityId)
}

func (s *Sink) deliverUsers(userIds []int64, title, message, entityType string, entityId int64) {
	for _, userId := range userIds {
		notification := model.Notification{
			UserId:     userId,
			Title:      title,
			Message:    message,
			EntityType: entityType,
			EntityId:   entityId,
		}
		if err := s.db.Create(&notification).Error; err != nil {
			// 通知失败只记录,从不向上传播
			logger.Warn("Failed to deliver notification to user %d: %v", userId, err)
		}
	}
}

// Close 释放协程池
func (s *Sink) Close() {
	s.pool.Release()
}
