package handler

import (
	"net/http"
	"strconv"

	"github.com/devpool/pps/internal/logic"
	"github.com/devpool/pps/internal/middleware"
	"github.com/devpool/pps/internal/notify"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PaymentHandler struct {
	paymentLogic      *logic.PaymentLogic
	syncLogic         *logic.PaymentSyncLogic
	cancellationLogic *logic.CancellationLogic
}

func NewPaymentHandler(db *gorm.DB, notifier notify.Notifier) *PaymentHandler {
	return &PaymentHandler{
		paymentLogic:      logic.NewPaymentLogic(db, notifier),
		syncLogic:         logic.NewPaymentSyncLogic(db),
		cancellationLogic: logic.NewCancellationLogic(db),
	}
}

// SynchronizePayments 为伙伴补齐付款记录
func (h *PaymentHandler) SynchronizePayments(c *gin.Context) {
	partnerId, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的伙伴ID")
		return
	}

	result, err := h.syncLogic.SynchronizePayments(partnerId)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "付款记录补齐完成", gin.H{
		"created_count": result.CreatedCount(),
		"succeeded":     result.Succeeded,
		"skipped":       result.Skipped,
		"failed":        result.Failed,
	})
}

// PropagateCancellations 级联取消已终止合同的未完结付款
func (h *PaymentHandler) PropagateCancellations(c *gin.Context) {
	partnerId, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的伙伴ID")
		return
	}

	result, err := h.cancellationLogic.Propagate(partnerId)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "取消级联完成", gin.H{
		"cancelled_count": result.CancelledCount(),
		"cancelled":       result.Cancelled,
		"failed":          result.Failed,
	})
}

// ListPeriodPayments 获取账期下的付款记录
func (h *PaymentHandler) ListPeriodPayments(c *gin.Context) {
	periodId, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的账期ID")
		return
	}

	payments, err := h.paymentLogic.ListByPeriod(periodId)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payments": payments,
		"total":    len(payments),
	})
}

// SubmitForApproval 会计提交核算结果
func (h *PaymentHandler) SubmitForApproval(c *gin.Context) {
	paymentId, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的付款记录ID")
		return
	}

	var req logic.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	payment, err := h.paymentLogic.SubmitForApproval(middleware.ActorFrom(c), paymentId, req)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "已提交审批", payment)
}

// Approve 经理批准付款
func (h *PaymentHandler) Approve(c *gin.Context) {
	paymentId, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的付款记录ID")
		return
	}

	payment, err := h.paymentLogic.Approve(middleware.ActorFrom(c), paymentId)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "已批准", payment)
}

// Reject 经理驳回付款
func (h *PaymentHandler) Reject(c *gin.Context) {
	paymentId, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的付款记录ID")
		return
	}

	payment, err := h.paymentLogic.Reject(middleware.ActorFrom(c), paymentId)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "已驳回", payment)
}

// MarkPaid 会计确认付款
func (h *PaymentHandler) MarkPaid(c *gin.Context) {
	paymentId, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的付款记录ID")
		return
	}

	var req logic.PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	payment, err := h.paymentLogic.MarkPaid(middleware.ActorFrom(c), paymentId, req)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "付款已确认", payment)
}
