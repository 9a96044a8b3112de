package logic

import (
	"testing"
	"time"

	"github.com/devpool/pps/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecomputeClosesFullyPaidPeriod(t *testing.T) {
	db := newTestDB(t)
	l := NewPeriodStatusLogic(db)

	period := createPeriod(t, db, 1, 2024, 1, model.PeriodStatusProcessing)
	createPayment(t, db, period.Id, 100, 10, model.PaymentStatusPaid)
	createPayment(t, db, period.Id, 101, 11, model.PaymentStatusPaid)

	updated, err := l.Recompute(period.Id)
	require.NoError(t, err)
	assert.Equal(t, model.PeriodStatusClosed, updated.Status)
}

func TestRecomputeMixedStatusesStayProcessing(t *testing.T) {
	db := newTestDB(t)
	l := NewPeriodStatusLogic(db)

	// 一条已支付、一条待审批: 不能关闭
	period := createPeriod(t, db, 1, 2024, 1, model.PeriodStatusOpen)
	createPayment(t, db, period.Id, 100, 10, model.PaymentStatusPaid)
	createPayment(t, db, period.Id, 101, 11, model.PaymentStatusPendingApproval)

	updated, err := l.Recompute(period.Id)
	require.NoError(t, err)
	assert.Equal(t, model.PeriodStatusProcessing, updated.Status)
}

func TestRecomputeAllPendingLeavesOpen(t *testing.T) {
	db := newTestDB(t)
	l := NewPeriodStatusLogic(db)

	period := createPeriod(t, db, 1, 2024, 1, model.PeriodStatusOpen)
	createPayment(t, db, period.Id, 100, 10, model.PaymentStatusPendingCalculation)
	createPayment(t, db, period.Id, 101, 11, model.PaymentStatusPendingCalculation)

	updated, err := l.Recompute(period.Id)
	require.NoError(t, err)
	assert.Equal(t, model.PeriodStatusOpen, updated.Status)
}

func TestRecomputeEmptyPeriodUnchanged(t *testing.T) {
	db := newTestDB(t)
	l := NewPeriodStatusLogic(db)

	period := createPeriod(t, db, 1, 2024, 1, model.PeriodStatusOpen)

	updated, err := l.Recompute(period.Id)
	require.NoError(t, err)
	assert.Equal(t, model.PeriodStatusOpen, updated.Status)
}

func TestRecomputeCancelledBlocksClosure(t *testing.T) {
	db := newTestDB(t)
	l := NewPeriodStatusLogic(db)

	// 已取消不等于已支付,账期不能关闭
	period := createPeriod(t, db, 1, 2024, 1, model.PeriodStatusOpen)
	createPayment(t, db, period.Id, 100, 10, model.PaymentStatusPaid)
	createPayment(t, db, period.Id, 101, 11, model.PaymentStatusCancelled)

	updated, err := l.Recompute(period.Id)
	require.NoError(t, err)
	assert.Equal(t, model.PeriodStatusProcessing, updated.Status)
}

func TestRecomputeDoesNotWriteWhenUnchanged(t *testing.T) {
	db := newTestDB(t)
	l := NewPeriodStatusLogic(db)

	period := createPeriod(t, db, 1, 2024, 1, model.PeriodStatusProcessing)
	createPayment(t, db, period.Id, 100, 10, model.PaymentStatusPendingApproval)

	var before model.PaymentPeriod
	require.NoError(t, db.First(&before, period.Id).Error)

	time.Sleep(10 * time.Millisecond)
	_, err := l.Recompute(period.Id)
	require.NoError(t, err)

	// 状态未变时不写库,UpdatedAt 保持不变
	var after model.PaymentPeriod
	require.NoError(t, db.First(&after, period.Id).Error)
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
}

func TestRecomputeUnknownPeriod(t *testing.T) {
	db := newTestDB(t)
	l := NewPeriodStatusLogic(db)

	_, err := l.Recompute(42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDerivePeriodStatusPrecedence(t *testing.T) {
	paid := model.ContractPayment{Status: model.PaymentStatusPaid}
	pending := model.ContractPayment{Status: model.PaymentStatusPendingCalculation}
	rejected := model.ContractPayment{Status: model.PaymentStatusRejected}

	tests := []struct {
		name     string
		current  model.PeriodStatus
		payments []model.ContractPayment
		want     model.PeriodStatus
	}{
		{name: "all paid closes", current: model.PeriodStatusOpen, payments: []model.ContractPayment{paid, paid}, want: model.PeriodStatusClosed},
		{name: "advanced opens processing", current: model.PeriodStatusOpen, payments: []model.ContractPayment{pending, rejected}, want: model.PeriodStatusProcessing},
		{name: "advanced does not demote closed", current: model.PeriodStatusClosed, payments: []model.ContractPayment{rejected}, want: model.PeriodStatusClosed},
		{name: "all pending unchanged", current: model.PeriodStatusOpen, payments: []model.ContractPayment{pending}, want: model.PeriodStatusOpen},
		{name: "no payments unchanged", current: model.PeriodStatusOpen, payments: nil, want: model.PeriodStatusOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, derivePeriodStatus(tt.current, tt.payments))
		})
	}
}
