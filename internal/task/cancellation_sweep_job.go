package task

import (
	"time"

	"github.com/devpool/pps/internal/config"
	"github.com/devpool/pps/internal/logger"
	"github.com/devpool/pps/internal/logic"
	"github.com/devpool/pps/internal/model"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// CancellationSweepJob 周期性级联取消任务。兜底处理合同终止时
// 未触发或未完成的取消传播。
type CancellationSweepJob struct {
	db                *gorm.DB
	config            *config.Config
	cancellationLogic *logic.CancellationLogic
}

// NewCancellationSweepJob 创建级联取消任务
func NewCancellationSweepJob(db *gorm.DB, cfg *config.Config) *CancellationSweepJob {
	return &CancellationSweepJob{
		db:                db,
		config:            cfg,
		cancellationLogic: logic.NewCancellationLogic(db),
	}
}

// GetName 获取任务名称
func (j *CancellationSweepJob) GetName() string {
	return "cancellation_sweep"
}

// GetSchedule 获取调度配置
func (j *CancellationSweepJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.Interval) * time.Second)
}

// Execute 执行任务
func (j *CancellationSweepJob) Execute() {
	logger.Info("Starting cancellation sweep task")

	// 找出存在已终止合同的伙伴
	var partnerIds []int64
	err := j.db.Model(&model.PartnerContract{}).
		Where("status = ?", model.ContractStatusTerminated).
		Distinct("partner_id").
		Pluck("partner_id", &partnerIds).Error
	if err != nil {
		logger.Error("Failed to fetch partners with terminated contracts: %v", err)
		return
	}

	cancelledCount := 0
	for _, partnerId := range partnerIds {
		result, err := j.cancellationLogic.Propagate(partnerId)
		if err != nil {
			logger.Error("Failed to propagate cancellations for partner %d: %v", partnerId, err)
			continue
		}
		cancelledCount += result.CancelledCount()
	}

	logger.Info("Cancellation sweep completed. Cancelled %d payments across %d partners",
		cancelledCount, len(partnerIds))
}
