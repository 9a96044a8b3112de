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

// PeriodStatusJob 账期状态对账任务。逐个重算未关闭账期的派生状态,
// 修正因流转后重算失败造成的偏差。
type PeriodStatusJob struct {
	db          *gorm.DB
	config      *config.Config
	statusLogic *logic.PeriodStatusLogic
}

// NewPeriodStatusJob 创建账期状态对账任务
func NewPeriodStatusJob(db *gorm.DB, cfg *config.Config) *PeriodStatusJob {
	return &PeriodStatusJob{
		db:          db,
		config:      cfg,
		statusLogic: logic.NewPeriodStatusLogic(db),
	}
}

// GetName 获取任务名称
func (j *PeriodStatusJob) GetName() string {
	return "period_status_reconciler"
}

// GetSchedule 获取调度配置
func (j *PeriodStatusJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.Interval) * time.Second)
}

// Execute 执行任务
func (j *PeriodStatusJob) Execute() {
	logger.Info("Starting period status reconciliation task")

	var periods []model.PaymentPeriod
	err := j.db.Where("status IN ?", []model.PeriodStatus{
		model.PeriodStatusOpen,
		model.PeriodStatusProcessing,
	}).Find(&periods).Error
	if err != nil {
		logger.Error("Failed to fetch open periods: %v", err)
		return
	}

	updatedCount := 0
	for _, period := range periods {
		before := period.Status
		recomputed, err := j.statusLogic.Recompute(period.Id)
		if err != nil {
			logger.Error("Failed to recompute period %d: %v", period.Id, err)
			continue
		}
		if recomputed.Status != before {
			updatedCount++
		}
	}

	logger.Info("Period status reconciliation completed. Updated %d of %d periods",
		updatedCount, len(periods))
}
