package logic

import (
	"errors"
	"fmt"
	"time"

	"github.com/devpool/pps/internal/logger"
	"github.com/devpool/pps/internal/model"
	"github.com/devpool/pps/internal/notify"
	"gorm.io/gorm"
)

// PaymentLogic 付款审批流转业务逻辑。
// 状态机: pending_calculation → pending_approval → approved/rejected,
// approved → paid;未支付记录可被系统级联取消。rejected 为终态。
type PaymentLogic struct {
	db          *gorm.DB
	statusLogic *PeriodStatusLogic
	notifier    notify.Notifier
}

// NewPaymentLogic 创建付款审批业务逻辑
func NewPaymentLogic(db *gorm.DB, notifier notify.Notifier) *PaymentLogic {
	return &PaymentLogic{
		db:          db,
		statusLogic: NewPeriodStatusLogic(db),
		notifier:    notifier,
	}
}

// SubmitRequest 提交审批的核算输入
type SubmitRequest struct {
	ActualWorkHours float64  `json:"actual_work_hours"`
	OtHours         *float64 `json:"ot_hours"`
	Notes           string   `json:"notes"`
}

// PayRequest 付款确认输入
type PayRequest struct {
	PaidAmount  int64     `json:"paid_amount"`
	PaymentDate time.Time `json:"payment_date"`
	Notes       string    `json:"notes"`
}

// SubmitForApproval 会计录入工时并提交审批,通知经理待审批
func (l *PaymentLogic) SubmitForApproval(actor model.Actor, paymentId int64, req SubmitRequest) (*model.ContractPayment, error) {
	if actor.Role != model.RoleAccountant {
		return nil, preconditionf("只有会计可以提交审批")
	}

	payment, err := l.getPayment(paymentId)
	if err != nil {
		return nil, err
	}
	if payment.Status != model.PaymentStatusPendingCalculation {
		return nil, preconditionf("付款记录当前状态为 %s,无法提交审批", payment.Status)
	}
	if req.ActualWorkHours <= 0 {
		return nil, preconditionf("实际工时必须大于0")
	}

	updates := map[string]interface{}{
		"status":            model.PaymentStatusPendingApproval,
		"actual_work_hours": req.ActualWorkHours,
		"ot_hours":          req.OtHours,
	}
	if req.Notes != "" {
		updates["notes"] = req.Notes
	}
	if err := l.db.Model(payment).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("更新付款记录失败: %w", err)
	}
	payment.Status = model.PaymentStatusPendingApproval
	payment.ActualWorkHours = req.ActualWorkHours
	payment.OtHours = req.OtHours
	if req.Notes != "" {
		payment.Notes = req.Notes
	}

	// 通知即发即忘,失败不回滚已写入的状态
	l.notifier.NotifyRole(model.RoleManager, "付款待审批",
		fmt.Sprintf("付款记录 #%d 已提交,等待审批", payment.Id),
		"contract_payment", payment.Id)

	l.recomputePeriod(payment.PartnerPeriodId)
	return payment, nil
}

// Approve 经理批准付款
func (l *PaymentLogic) Approve(actor model.Actor, paymentId int64) (*model.ContractPayment, error) {
	return l.review(actor, paymentId, model.PaymentStatusApproved)
}

// Reject 经理驳回付款。驳回后不可重新提交。
func (l *PaymentLogic) Reject(actor model.Actor, paymentId int64) (*model.ContractPayment, error) {
	return l.review(actor, paymentId, model.PaymentStatusRejected)
}

func (l *PaymentLogic) review(actor model.Actor, paymentId int64, target model.PaymentStatus) (*model.ContractPayment, error) {
	if actor.Role != model.RoleManager {
		return nil, preconditionf("只有经理可以审批付款")
	}

	payment, err := l.getPayment(paymentId)
	if err != nil {
		return nil, err
	}
	if payment.Status != model.PaymentStatusPendingApproval {
		return nil, preconditionf("付款记录当前状态为 %s,无法审批", payment.Status)
	}

	if err := l.db.Model(payment).Update("status", target).Error; err != nil {
		return nil, fmt.Errorf("更新付款记录失败: %w", err)
	}
	payment.Status = target

	l.recomputePeriod(payment.PartnerPeriodId)
	return payment, nil
}

// MarkPaid 会计确认付款。要求发票与回单凭证齐备。
func (l *PaymentLogic) MarkPaid(actor model.Actor, paymentId int64, req PayRequest) (*model.ContractPayment, error) {
	if actor.Role != model.RoleAccountant {
		return nil, preconditionf("只有会计可以确认付款")
	}

	payment, err := l.getPayment(paymentId)
	if err != nil {
		return nil, err
	}
	if payment.Status != model.PaymentStatusApproved {
		return nil, preconditionf("付款记录当前状态为 %s,无法确认付款", payment.Status)
	}
	if req.PaidAmount <= 0 {
		return nil, preconditionf("实付金额必须大于0")
	}
	if req.PaymentDate.IsZero() {
		return nil, preconditionf("必须提供付款日期")
	}
	if err := l.checkPaymentDocuments(paymentId); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"status":       model.PaymentStatusPaid,
		"paid_amount":  req.PaidAmount,
		"payment_date": req.PaymentDate,
	}
	if req.Notes != "" {
		updates["notes"] = req.Notes
	}
	if err := l.db.Model(payment).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("更新付款记录失败: %w", err)
	}
	payment.Status = model.PaymentStatusPaid
	payment.PaidAmount = &req.PaidAmount
	payment.PaymentDate = &req.PaymentDate
	if req.Notes != "" {
		payment.Notes = req.Notes
	}

	l.recomputePeriod(payment.PartnerPeriodId)
	return payment, nil
}

// ListByPeriod 获取账期下的付款记录
func (l *PaymentLogic) ListByPeriod(periodId int64) ([]model.ContractPayment, error) {
	var payments []model.ContractPayment
	if err := l.db.Where("partner_period_id = ?", periodId).
		Order("id ASC").
		Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("获取付款记录失败: %w", err)
	}
	return payments, nil
}

// checkPaymentDocuments 付款确认前的凭证门禁:发票与回单缺一不可
func (l *PaymentLogic) checkPaymentDocuments(paymentId int64) error {
	for _, code := range []string{model.DocumentTypeInvoice, model.DocumentTypeReceipt} {
		var count int64
		err := l.db.Model(&model.SupportingDocument{}).
			Joins("JOIN document_type ON document_type.id = supporting_document.document_type_id").
			Where("supporting_document.contract_payment_id = ? AND document_type.code = ?", paymentId, code).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("查询付款凭证失败: %w", err)
		}
		if count == 0 {
			return &MissingDocumentError{DocumentType: code}
		}
	}
	return nil
}

func (l *PaymentLogic) getPayment(paymentId int64) (*model.ContractPayment, error) {
	var payment model.ContractPayment
	if err := l.db.First(&payment, paymentId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: 付款记录 %d", ErrNotFound, paymentId)
		}
		return nil, fmt.Errorf("获取付款记录失败: %w", err)
	}
	return &payment, nil
}

// recomputePeriod 每次流转后重算账期状态,失败只记录
func (l *PaymentLogic) recomputePeriod(periodId int64) {
	if _, err := l.statusLogic.Recompute(periodId); err != nil {
		logger.Error("Failed to recompute period %d status: %v", periodId, err)
	}
}
