package model

import (
	"time"
)

// ContractPayment 合同在某个账期内的付款记录,按(账期,合同)唯一
type ContractPayment struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PartnerPeriodId   int64 `json:"partner_period_id" gorm:"not null;uniqueIndex:uniq_period_contract"`
	PartnerContractId int64 `json:"partner_contract_id" gorm:"not null;uniqueIndex:uniq_period_contract;index"`
	TalentId          int64 `json:"talent_id" gorm:"not null"`

	// 会计录入的工时,是付款的权威计量输入
	ActualWorkHours float64  `json:"actual_work_hours" gorm:"default:0"`
	OtHours         *float64 `json:"ot_hours"`

	// 金额(最小货币单位)。CalculatedAmount 由下游计费系统回写
	CalculatedAmount *int64     `json:"calculated_amount"`
	PaidAmount       *int64     `json:"paid_amount"`
	PaymentDate      *time.Time `json:"payment_date"`

	// 状态
	Status PaymentStatus `json:"status" gorm:"default:'pending_calculation';index"`

	Notes string `json:"notes" gorm:"type:text"`
}

// PaymentStatus 付款记录状态
type PaymentStatus string

const (
	PaymentStatusPendingCalculation PaymentStatus = "pending_calculation" // 待核算
	PaymentStatusPendingApproval    PaymentStatus = "pending_approval"    // 待审批
	PaymentStatusRejected           PaymentStatus = "rejected"            // 已驳回
	PaymentStatusApproved           PaymentStatus = "approved"            // 已批准
	PaymentStatusPaid               PaymentStatus = "paid"                // 已支付
	PaymentStatusCancelled          PaymentStatus = "cancelled"           // 已取消
)

// TableName 自定义表名
func (ContractPayment) TableName() string {
	return "contract_payment"
}
