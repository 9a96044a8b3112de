package logic

import (
	"fmt"
	"sort"

	"github.com/devpool/pps/internal/logger"
	"github.com/devpool/pps/internal/model"
	"gorm.io/gorm"
)

// CancellationLogic 合同终止级联取消。已终止合同不得继续积压待审批付款;
// 已支付的记录是既成事实,永不回收。
type CancellationLogic struct {
	db          *gorm.DB
	statusLogic *PeriodStatusLogic
}

// NewCancellationLogic 创建级联取消业务逻辑
func NewCancellationLogic(db *gorm.DB) *CancellationLogic {
	return &CancellationLogic{
		db:          db,
		statusLogic: NewPeriodStatusLogic(db),
	}
}

// Propagate 将伙伴已终止合同的未完结付款记录强制置为已取消,
// 然后重算所有受影响账期的状态。可安全重跑。
func (l *CancellationLogic) Propagate(partnerId int64) (*CancelResult, error) {
	var terminated []model.PartnerContract
	if err := l.db.Where("partner_id = ? AND status = ?", partnerId,
		model.ContractStatusTerminated).Find(&terminated).Error; err != nil {
		return nil, fmt.Errorf("获取已终止合同失败: %w", err)
	}

	result := &CancelResult{}
	if len(terminated) == 0 {
		return result, nil
	}

	contractIds := make([]int64, 0, len(terminated))
	for _, c := range terminated {
		contractIds = append(contractIds, c.Id)
	}

	var payments []model.ContractPayment
	if err := l.db.Where("partner_contract_id IN ? AND status NOT IN ?", contractIds,
		[]model.PaymentStatus{model.PaymentStatusPaid, model.PaymentStatusCancelled}).
		Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("获取待取消付款记录失败: %w", err)
	}

	affected := make(map[int64]struct{})
	for _, payment := range payments {
		if err := l.db.Model(&payment).
			Update("status", model.PaymentStatusCancelled).Error; err != nil {
			logger.Error("Failed to cancel payment %d: %v", payment.Id, err)
			result.Failed = append(result.Failed, EntryFailure{
				Key:    fmt.Sprintf("payment:%d", payment.Id),
				Reason: err.Error(),
			})
			continue
		}
		result.Cancelled = append(result.Cancelled, payment.Id)
		affected[payment.PartnerPeriodId] = struct{}{}
	}

	// 取消完成后重算受影响账期
	periodIds := make([]int64, 0, len(affected))
	for id := range affected {
		periodIds = append(periodIds, id)
	}
	sort.Slice(periodIds, func(i, j int) bool { return periodIds[i] < periodIds[j] })
	for _, periodId := range periodIds {
		if _, err := l.statusLogic.Recompute(periodId); err != nil {
			logger.Error("Failed to recompute period %d after cancellation: %v", periodId, err)
		}
	}

	logger.Info("Cancellation propagation for partner %d completed: cancelled %d, failed %d",
		partnerId, len(result.Cancelled), len(result.Failed))
	return result, nil
}
