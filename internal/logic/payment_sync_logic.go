package logic

import (
	"errors"
	"fmt"
	"time"

	"github.com/devpool/pps/internal/logger"
	"github.com/devpool/pps/internal/model"
	"gorm.io/gorm"
)

// PaymentSyncLogic 付款记录补齐业务逻辑。
// 覆盖合同在账期已生成之后才获批的场景:为每个(账期,生效合同)
// 交叠组合补建缺失的付款记录。
type PaymentSyncLogic struct {
	db *gorm.DB
}

// NewPaymentSyncLogic 创建付款记录补齐业务逻辑
func NewPaymentSyncLogic(db *gorm.DB) *PaymentSyncLogic {
	return &PaymentSyncLogic{db: db}
}

// SynchronizePayments 为伙伴的每个账期补齐生效合同的付款记录。
// 只补建缺失记录,从不改动已有记录;可安全重跑。
func (l *PaymentSyncLogic) SynchronizePayments(partnerId int64) (*SyncResult, error) {
	var periods []model.PaymentPeriod
	if err := l.db.Where("partner_id = ?", partnerId).Find(&periods).Error; err != nil {
		return nil, fmt.Errorf("获取账期列表失败: %w", err)
	}

	var contracts []model.PartnerContract
	if err := l.db.Where("partner_id = ? AND status IN ?", partnerId,
		[]model.ContractStatus{model.ContractStatusActive, model.ContractStatusOngoing}).
		Find(&contracts).Error; err != nil {
		return nil, fmt.Errorf("获取生效合同失败: %w", err)
	}

	result := &SyncResult{}
	for _, period := range periods {
		periodStart := time.Date(period.PeriodYear, time.Month(period.PeriodMonth), 1, 0, 0, 0, 0, time.UTC)
		// 下月第0天即本月最后一天
		periodEnd := time.Date(period.PeriodYear, time.Month(period.PeriodMonth)+1, 0, 0, 0, 0, 0, time.UTC)

		for _, contract := range contracts {
			if !contractCoversRange(contract, periodStart, periodEnd) {
				continue
			}
			created, err := l.ensurePayment(period, contract)
			if err != nil {
				logger.Error("Failed to create payment for period %d contract %d: %v",
					period.Id, contract.Id, err)
				result.Failed = append(result.Failed, EntryFailure{
					Key:    fmt.Sprintf("period:%d/contract:%d", period.Id, contract.Id),
					Reason: err.Error(),
				})
				continue
			}
			if created == 0 {
				result.Skipped++
			} else {
				result.Succeeded = append(result.Succeeded, created)
			}
		}
	}

	logger.Info("Payment sync for partner %d completed: created %d, skipped %d, failed %d",
		partnerId, len(result.Succeeded), result.Skipped, len(result.Failed))
	return result, nil
}

// ensurePayment 确保(账期,合同)组合存在付款记录,返回新建记录id(0表示已存在)
func (l *PaymentSyncLogic) ensurePayment(period model.PaymentPeriod, contract model.PartnerContract) (int64, error) {
	var existing model.ContractPayment
	err := l.db.Where("partner_period_id = ? AND partner_contract_id = ?",
		period.Id, contract.Id).First(&existing).Error
	if err == nil {
		return 0, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	payment := model.ContractPayment{
		PartnerPeriodId:   period.Id,
		PartnerContractId: contract.Id,
		TalentId:          contract.TalentId,
		ActualWorkHours:   0,
		Status:            model.PaymentStatusPendingCalculation,
	}
	if err := l.db.Create(&payment).Error; err != nil {
		// 并发竞争落败按零效果成功处理
		if isDuplicateKey(err) {
			return 0, nil
		}
		return 0, err
	}
	return payment.Id, nil
}

// contractCoversRange 合同生效区间与账期日历区间相交
func contractCoversRange(c model.PartnerContract, rangeStart, rangeEnd time.Time) bool {
	if c.StartDate == nil {
		return false
	}
	if c.StartDate.After(rangeEnd) {
		return false
	}
	if c.EndDate != nil && c.EndDate.Before(rangeStart) {
		return false
	}
	return true
}
