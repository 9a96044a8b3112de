package logic

import (
	"fmt"
	"sort"
	"time"

	"github.com/devpool/pps/internal/logger"
	"github.com/devpool/pps/internal/model"
	"gorm.io/gorm"
)

// 无固定结束日期的合同按哨兵日期参与账期推导
var openEndedSentinel = time.Date(2099, time.December, 1, 0, 0, 0, 0, time.UTC)

// PeriodKey (年,月)账期键
type PeriodKey struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// PeriodLogic 账期生成业务逻辑
type PeriodLogic struct {
	db *gorm.DB
}

// NewPeriodLogic 创建账期生成业务逻辑
func NewPeriodLogic(db *gorm.DB) *PeriodLogic {
	return &PeriodLogic{db: db}
}

// GeneratePeriods 为伙伴补齐缺失的付款账期。
// 对合同数据不变的重复调用不产生新账期,可安全重跑。
func (l *PeriodLogic) GeneratePeriods(partnerId int64) (*GenerateResult, error) {
	var contracts []model.PartnerContract
	if err := l.db.Where("partner_id = ?", partnerId).Find(&contracts).Error; err != nil {
		return nil, fmt.Errorf("获取伙伴合同失败: %w", err)
	}

	// 合同生效月份的并集
	active := make(map[PeriodKey]struct{})
	for _, c := range contracts {
		for _, key := range contractMonths(c) {
			active[key] = struct{}{}
		}
	}

	var periods []model.PaymentPeriod
	if err := l.db.Where("partner_id = ?", partnerId).Find(&periods).Error; err != nil {
		return nil, fmt.Errorf("获取已有账期失败: %w", err)
	}

	existing := make(map[PeriodKey]struct{}, len(periods))
	for _, p := range periods {
		existing[PeriodKey{Year: p.PeriodYear, Month: p.PeriodMonth}] = struct{}{}
	}

	var missing []PeriodKey
	for key := range active {
		if _, ok := existing[key]; !ok {
			missing = append(missing, key)
		}
	}
	sort.Slice(missing, func(i, j int) bool {
		if missing[i].Year != missing[j].Year {
			return missing[i].Year < missing[j].Year
		}
		return missing[i].Month < missing[j].Month
	})

	result := &GenerateResult{}
	for _, key := range missing {
		period := model.PaymentPeriod{
			PartnerId:   partnerId,
			PeriodYear:  key.Year,
			PeriodMonth: key.Month,
			Status:      model.PeriodStatusOpen,
		}

		if err := l.db.Create(&period).Error; err != nil {
			// 并发竞争落败按零效果成功处理
			if isDuplicateKey(err) {
				result.Skipped++
				continue
			}
			logger.Error("Failed to create period %d/%d for partner %d: %v",
				key.Month, key.Year, partnerId, err)
			result.Failed = append(result.Failed, EntryFailure{
				Key:    fmt.Sprintf("%d/%d", key.Month, key.Year),
				Reason: err.Error(),
			})
			continue
		}
		result.Succeeded = append(result.Succeeded, key)
	}

	logger.Info("Period generation for partner %d completed: created %d, skipped %d, failed %d",
		partnerId, len(result.Succeeded), result.Skipped, len(result.Failed))
	return result, nil
}

// ListPeriods 获取伙伴的账期列表,按时间倒序
func (l *PeriodLogic) ListPeriods(partnerId int64) ([]model.PaymentPeriod, error) {
	var periods []model.PaymentPeriod
	if err := l.db.Where("partner_id = ?", partnerId).
		Order("period_year DESC, period_month DESC").
		Find(&periods).Error; err != nil {
		return nil, fmt.Errorf("获取账期列表失败: %w", err)
	}
	return periods, nil
}

// contractMonths 合同生效区间覆盖的(年,月)序列。
// 起始日期缺失或晚于结束日期时不贡献任何月份。
func contractMonths(c model.PartnerContract) []PeriodKey {
	if c.StartDate == nil {
		return nil
	}

	end := openEndedSentinel
	if c.EndDate != nil {
		end = *c.EndDate
	}
	if c.StartDate.After(end) {
		return nil
	}

	cur := time.Date(c.StartDate.Year(), c.StartDate.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)

	var keys []PeriodKey
	for !cur.After(last) {
		keys = append(keys, PeriodKey{Year: cur.Year(), Month: int(cur.Month())})
		cur = cur.AddDate(0, 1, 0)
	}
	return keys
}
