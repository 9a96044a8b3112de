package logic

import (
	"errors"
	"testing"
	"time"

	"github.com/devpool/pps/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	accountant = model.Actor{UserId: 1, Role: model.RoleAccountant}
	manager    = model.Actor{UserId: 2, Role: model.RoleManager}
)

func paymentFixture(t *testing.T, db *gorm.DB, status model.PaymentStatus) model.ContractPayment {
	t.Helper()
	contract := createContract(t, db, 1, 10, date(2024, time.January, 1), date(2024, time.January, 31), model.ContractStatusActive)
	period := createPeriod(t, db, 1, 2024, 1, model.PeriodStatusOpen)
	return createPayment(t, db, period.Id, contract.Id, 10, status)
}

func TestSubmitForApproval(t *testing.T) {
	db := newTestDB(t)
	stub := &notifierStub{}
	l := NewPaymentLogic(db, stub)

	payment := paymentFixture(t, db, model.PaymentStatusPendingCalculation)

	ot := 8.5
	updated, err := l.SubmitForApproval(accountant, payment.Id, SubmitRequest{
		ActualWorkHours: 160,
		OtHours:         &ot,
		Notes:           "一月核算",
	})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPendingApproval, updated.Status)
	assert.Equal(t, 160.0, updated.ActualWorkHours)

	var persisted model.ContractPayment
	require.NoError(t, db.First(&persisted, payment.Id).Error)
	assert.Equal(t, model.PaymentStatusPendingApproval, persisted.Status)
	require.NotNil(t, persisted.OtHours)
	assert.Equal(t, 8.5, *persisted.OtHours)
	assert.Equal(t, "一月核算", persisted.Notes)

	// 提交后通知经理角色
	require.Len(t, stub.roleCalls, 1)
	assert.Equal(t, model.RoleManager, stub.roleCalls[0])

	// 流转后账期进入处理中
	var period model.PaymentPeriod
	require.NoError(t, db.First(&period, persisted.PartnerPeriodId).Error)
	assert.Equal(t, model.PeriodStatusProcessing, period.Status)
}

func TestSubmitForApprovalPreconditions(t *testing.T) {
	db := newTestDB(t)
	l := NewPaymentLogic(db, &notifierStub{})

	payment := paymentFixture(t, db, model.PaymentStatusPendingCalculation)

	// 角色不符
	_, err := l.SubmitForApproval(manager, payment.Id, SubmitRequest{ActualWorkHours: 160})
	assert.ErrorIs(t, err, ErrPreconditionFailed)

	// 工时缺失
	_, err = l.SubmitForApproval(accountant, payment.Id, SubmitRequest{})
	assert.ErrorIs(t, err, ErrPreconditionFailed)

	// 记录不存在
	_, err = l.SubmitForApproval(accountant, 9999, SubmitRequest{ActualWorkHours: 160})
	assert.ErrorIs(t, err, ErrNotFound)

	// 失败的尝试不产生部分写入
	var persisted model.ContractPayment
	require.NoError(t, db.First(&persisted, payment.Id).Error)
	assert.Equal(t, model.PaymentStatusPendingCalculation, persisted.Status)
	assert.Zero(t, persisted.ActualWorkHours)
}

func TestApproveAndReject(t *testing.T) {
	db := newTestDB(t)
	l := NewPaymentLogic(db, &notifierStub{})

	payment := paymentFixture(t, db, model.PaymentStatusPendingApproval)

	// 会计不能审批
	_, err := l.Approve(accountant, payment.Id)
	assert.ErrorIs(t, err, ErrPreconditionFailed)

	updated, err := l.Approve(manager, payment.Id)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusApproved, updated.Status)

	// 已批准的记录不能再驳回
	_, err = l.Reject(manager, payment.Id)
	assert.ErrorIs(t, err, ErrPreconditionFailed)
}

func TestRejectIsTerminal(t *testing.T) {
	db := newTestDB(t)
	l := NewPaymentLogic(db, &notifierStub{})

	payment := paymentFixture(t, db, model.PaymentStatusPendingApproval)

	updated, err := l.Reject(manager, payment.Id)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusRejected, updated.Status)

	// 驳回为终态,无法重新提交
	_, err = l.SubmitForApproval(accountant, payment.Id, SubmitRequest{ActualWorkHours: 160})
	assert.ErrorIs(t, err, ErrPreconditionFailed)
}

func TestMarkPaidRequiresBothDocuments(t *testing.T) {
	db := newTestDB(t)
	l := NewPaymentLogic(db, &notifierStub{})

	payment := paymentFixture(t, db, model.PaymentStatusApproved)
	req := PayRequest{PaidAmount: 500000, PaymentDate: time.Date(2024, time.February, 5, 0, 0, 0, 0, time.UTC)}

	// 无任何凭证: 先报缺发票
	_, err := l.MarkPaid(accountant, payment.Id, req)
	var missing *MissingDocumentError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, model.DocumentTypeInvoice, missing.DocumentType)

	// 只有发票: 报缺回单
	attachDocument(t, db, payment.Id, model.DocumentTypeInvoice)
	_, err = l.MarkPaid(accountant, payment.Id, req)
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, model.DocumentTypeReceipt, missing.DocumentType)

	// 凭证齐备后成功
	attachDocument(t, db, payment.Id, model.DocumentTypeReceipt)
	updated, err := l.MarkPaid(accountant, payment.Id, req)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, updated.Status)
	require.NotNil(t, updated.PaidAmount)
	assert.Equal(t, int64(500000), *updated.PaidAmount)

	// 唯一付款已支付,账期关闭
	var period model.PaymentPeriod
	require.NoError(t, db.First(&period, payment.PartnerPeriodId).Error)
	assert.Equal(t, model.PeriodStatusClosed, period.Status)
}

func TestMarkPaidPreconditions(t *testing.T) {
	db := newTestDB(t)
	l := NewPaymentLogic(db, &notifierStub{})

	payment := paymentFixture(t, db, model.PaymentStatusApproved)
	attachDocument(t, db, payment.Id, model.DocumentTypeInvoice)
	attachDocument(t, db, payment.Id, model.DocumentTypeReceipt)

	paymentDate := time.Date(2024, time.February, 5, 0, 0, 0, 0, time.UTC)

	// 经理不能确认付款
	_, err := l.MarkPaid(manager, payment.Id, PayRequest{PaidAmount: 100, PaymentDate: paymentDate})
	assert.ErrorIs(t, err, ErrPreconditionFailed)

	// 金额与日期必填
	_, err = l.MarkPaid(accountant, payment.Id, PayRequest{PaymentDate: paymentDate})
	assert.ErrorIs(t, err, ErrPreconditionFailed)
	_, err = l.MarkPaid(accountant, payment.Id, PayRequest{PaidAmount: 100})
	assert.ErrorIs(t, err, ErrPreconditionFailed)

	// 待核算记录不能直接确认付款
	other := createPayment(t, db, payment.PartnerPeriodId, 999, 10, model.PaymentStatusPendingCalculation)
	_, err = l.MarkPaid(accountant, other.Id, PayRequest{PaidAmount: 100, PaymentDate: paymentDate})
	assert.ErrorIs(t, err, ErrPreconditionFailed)
}
