package model

import (
	"time"
)

// PaymentPeriod 伙伴付款账期,按(伙伴,年,月)唯一
type PaymentPeriod struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PartnerId   int64 `json:"partner_id" gorm:"not null;uniqueIndex:uniq_partner_period"`
	PeriodYear  int   `json:"period_year" gorm:"not null;uniqueIndex:uniq_partner_period"`
	PeriodMonth int   `json:"period_month" gorm:"not null;uniqueIndex:uniq_partner_period"`

	// 状态由聚合器派生,不允许直接写入
	Status PeriodStatus `json:"status" gorm:"default:'open'"`
}

// PeriodStatus 账期状态
type PeriodStatus string

const (
	PeriodStatusOpen       PeriodStatus = "open"       // 开放
	PeriodStatusProcessing PeriodStatus = "processing" // 处理中
	PeriodStatusClosed     PeriodStatus = "closed"     // 已关闭
)

// TableName 自定义表名
func (PaymentPeriod) TableName() string {
	return "payment_period"
}
