package logic

import (
	"testing"
	"time"

	"github.com/devpool/pps/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropagateCancelsOpenPaymentsOfTerminatedContracts(t *testing.T) {
	db := newTestDB(t)
	l := NewCancellationLogic(db)

	// 合同中途终止: 一条待审批、一条已支付
	contract := createContract(t, db, 1, 10, date(2024, time.January, 1), date(2024, time.March, 31), model.ContractStatusTerminated)
	period := createPeriod(t, db, 1, 2024, 1, model.PeriodStatusProcessing)
	pending := createPayment(t, db, period.Id, contract.Id, 10, model.PaymentStatusPendingApproval)
	paid := createPayment(t, db, period.Id, 999, 10, model.PaymentStatusPaid)

	result, err := l.Propagate(1)
	require.NoError(t, err)
	assert.Equal(t, 1, result.CancelledCount())
	assert.Equal(t, []int64{pending.Id}, result.Cancelled)

	var cancelled model.ContractPayment
	require.NoError(t, db.First(&cancelled, pending.Id).Error)
	assert.Equal(t, model.PaymentStatusCancelled, cancelled.Status)

	// 已支付的是既成事实,不被取消
	var untouched model.ContractPayment
	require.NoError(t, db.First(&untouched, paid.Id).Error)
	assert.Equal(t, model.PaymentStatusPaid, untouched.Status)

	// 含取消记录的账期保持处理中,不会关闭
	var after model.PaymentPeriod
	require.NoError(t, db.First(&after, period.Id).Error)
	assert.Equal(t, model.PeriodStatusProcessing, after.Status)
}

func TestPropagateDoesNotCancelPaidPayments(t *testing.T) {
	db := newTestDB(t)
	l := NewCancellationLogic(db)

	contract := createContract(t, db, 1, 10, date(2024, time.January, 1), nil, model.ContractStatusTerminated)
	period := createPeriod(t, db, 1, 2024, 1, model.PeriodStatusClosed)
	createPayment(t, db, period.Id, contract.Id, 10, model.PaymentStatusPaid)

	result, err := l.Propagate(1)
	require.NoError(t, err)
	assert.Equal(t, 0, result.CancelledCount())
}

func TestPropagateIgnoresActiveContracts(t *testing.T) {
	db := newTestDB(t)
	l := NewCancellationLogic(db)

	contract := createContract(t, db, 1, 10, date(2024, time.January, 1), nil, model.ContractStatusActive)
	period := createPeriod(t, db, 1, 2024, 1, model.PeriodStatusOpen)
	createPayment(t, db, period.Id, contract.Id, 10, model.PaymentStatusPendingApproval)

	result, err := l.Propagate(1)
	require.NoError(t, err)
	assert.Equal(t, 0, result.CancelledCount())
}

func TestPropagateIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	l := NewCancellationLogic(db)

	contract := createContract(t, db, 1, 10, date(2024, time.January, 1), nil, model.ContractStatusTerminated)
	period := createPeriod(t, db, 1, 2024, 1, model.PeriodStatusOpen)
	createPayment(t, db, period.Id, contract.Id, 10, model.PaymentStatusPendingCalculation)

	first, err := l.Propagate(1)
	require.NoError(t, err)
	assert.Equal(t, 1, first.CancelledCount())

	second, err := l.Propagate(1)
	require.NoError(t, err)
	assert.Equal(t, 0, second.CancelledCount())
}

func TestPropagateSpansMultiplePeriods(t *testing.T) {
	db := newTestDB(t)
	l := NewCancellationLogic(db)

	contract := createContract(t, db, 1, 10, date(2024, time.January, 1), date(2024, time.February, 29), model.ContractStatusTerminated)
	p1 := createPeriod(t, db, 1, 2024, 1, model.PeriodStatusOpen)
	p2 := createPeriod(t, db, 1, 2024, 2, model.PeriodStatusOpen)
	createPayment(t, db, p1.Id, contract.Id, 10, model.PaymentStatusPendingCalculation)
	createPayment(t, db, p2.Id, contract.Id, 10, model.PaymentStatusPendingApproval)

	result, err := l.Propagate(1)
	require.NoError(t, err)
	assert.Equal(t, 2, result.CancelledCount())
}
