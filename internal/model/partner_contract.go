package model

import (
	"time"
)

// PartnerContract 伙伴合同(合同库归属外部系统,本服务只读)
type PartnerContract struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PartnerId int64 `json:"partner_id" gorm:"not null;index"`
	TalentId  int64 `json:"talent_id" gorm:"not null"`

	// 生效区间,EndDate 为空表示无固定结束日期
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`

	// 状态
	Status ContractStatus `json:"status" gorm:"default:'draft';index"`
}

// ContractStatus 合同生命周期状态
type ContractStatus string

const (
	ContractStatusDraft      ContractStatus = "draft"      // 草稿
	ContractStatusActive     ContractStatus = "active"     // 已生效
	ContractStatusOngoing    ContractStatus = "ongoing"    // 履行中
	ContractStatusExpired    ContractStatus = "expired"    // 已到期
	ContractStatusTerminated ContractStatus = "terminated" // 已终止
)

// TableName 自定义表名
func (PartnerContract) TableName() string {
	return "partner_contract"
}
