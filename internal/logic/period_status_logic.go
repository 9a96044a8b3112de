package logic

import (
	"errors"
	"fmt"

	"github.com/devpool/pps/internal/logger"
	"github.com/devpool/pps/internal/model"
	"gorm.io/gorm"
)

// PeriodStatusLogic 账期状态聚合。账期状态只由子付款记录状态派生,
// 不接受任何直接写入;重复执行产生相同结果。
type PeriodStatusLogic struct {
	db *gorm.DB
}

// NewPeriodStatusLogic 创建账期状态聚合逻辑
func NewPeriodStatusLogic(db *gorm.DB) *PeriodStatusLogic {
	return &PeriodStatusLogic{db: db}
}

// Recompute 重算账期状态,仅在派生结果与当前值不同时写回
func (l *PeriodStatusLogic) Recompute(periodId int64) (*model.PaymentPeriod, error) {
	var period model.PaymentPeriod
	if err := l.db.First(&period, periodId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: 账期 %d", ErrNotFound, periodId)
		}
		return nil, fmt.Errorf("获取账期失败: %w", err)
	}

	var payments []model.ContractPayment
	if err := l.db.Where("partner_period_id = ?", periodId).Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("获取账期付款记录失败: %w", err)
	}

	next := derivePeriodStatus(period.Status, payments)
	if next == period.Status {
		return &period, nil
	}

	if err := l.db.Model(&period).Update("status", next).Error; err != nil {
		return nil, fmt.Errorf("更新账期状态失败: %w", err)
	}
	logger.Info("Period %d status changed from %s to %s", period.Id, period.Status, next)
	period.Status = next
	return &period, nil
}

// derivePeriodStatus 派生规则,按优先级:
//  1. 全部付款已支付 → closed
//  2. 任一付款已离开待核算且账期仍为 open → processing
//  3. 其余情况维持不变
//
// 已取消的记录不算已支付,因此含取消记录的账期不会关闭。
func derivePeriodStatus(current model.PeriodStatus, payments []model.ContractPayment) model.PeriodStatus {
	if len(payments) == 0 {
		return current
	}

	allPaid := true
	anyAdvanced := false
	for _, p := range payments {
		if p.Status != model.PaymentStatusPaid {
			allPaid = false
		}
		if p.Status != model.PaymentStatusPendingCalculation {
			anyAdvanced = true
		}
	}

	if allPaid {
		return model.PeriodStatusClosed
	}
	if anyAdvanced && current == model.PeriodStatusOpen {
		return model.PeriodStatusProcessing
	}
	return current
}
