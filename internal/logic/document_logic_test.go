package logic

import (
	"testing"
	"time"

	"github.com/devpool/pps/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachDocument(t *testing.T) {
	db := newTestDB(t)
	l := NewDocumentLogic(db)

	payment := paymentFixture(t, db, model.PaymentStatusPendingApproval)

	document, err := l.Attach(accountant, payment.Id, model.DocumentTypeInvoice,
		"https://files.example.com/invoice.pdf", "一月发票")
	require.NoError(t, err)
	assert.Equal(t, payment.Id, document.ContractPaymentId)
	assert.Equal(t, accountant.UserId, document.UploadedByUserId)
	assert.Equal(t, "一月发票", document.Description)

	documents, err := l.ListByPayment(payment.Id)
	require.NoError(t, err)
	assert.Len(t, documents, 1)
}

func TestAttachDocumentValidation(t *testing.T) {
	db := newTestDB(t)
	l := NewDocumentLogic(db)

	payment := paymentFixture(t, db, model.PaymentStatusPendingApproval)

	// 目录之外的类型被拒绝
	_, err := l.Attach(accountant, payment.Id, "contract", "https://files.example.com/x.pdf", "")
	assert.ErrorIs(t, err, ErrPreconditionFailed)

	// 付款记录必须存在
	_, err = l.Attach(accountant, 9999, model.DocumentTypeInvoice, "https://files.example.com/x.pdf", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNotificationListAndMarkRead(t *testing.T) {
	db := newTestDB(t)
	l := NewNotificationLogic(db)

	require.NoError(t, db.Create(&model.Notification{
		UserId: 7, Title: "付款待审批", Message: "付款记录 #1 已提交", CreatedAt: time.Now(),
	}).Error)

	notifications, err := l.ListByUser(7)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.False(t, notifications[0].Read)

	require.NoError(t, l.MarkRead(7, notifications[0].Id))

	notifications, err = l.ListByUser(7)
	require.NoError(t, err)
	assert.True(t, notifications[0].Read)

	// 他人的通知不可标记
	err = l.MarkRead(8, notifications[0].Id)
	assert.ErrorIs(t, err, ErrNotFound)
}
