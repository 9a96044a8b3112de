package handler

import (
	"net/http"
	"strconv"

	"github.com/devpool/pps/internal/logic"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PeriodHandler struct {
	periodLogic *logic.PeriodLogic
	statusLogic *logic.PeriodStatusLogic
}

func NewPeriodHandler(db *gorm.DB) *PeriodHandler {
	return &PeriodHandler{
		periodLogic: logic.NewPeriodLogic(db),
		statusLogic: logic.NewPeriodStatusLogic(db),
	}
}

// GeneratePeriods 为伙伴补齐付款账期
func (h *PeriodHandler) GeneratePeriods(c *gin.Context) {
	partnerId, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的伙伴ID")
		return
	}

	result, err := h.periodLogic.GeneratePeriods(partnerId)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "账期生成完成", gin.H{
		"created_count": result.CreatedCount(),
		"succeeded":     result.Succeeded,
		"skipped":       result.Skipped,
		"failed":        result.Failed,
	})
}

// ListPeriods 获取伙伴的账期列表
func (h *PeriodHandler) ListPeriods(c *gin.Context) {
	partnerId, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的伙伴ID")
		return
	}

	periods, err := h.periodLogic.ListPeriods(partnerId)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"periods": periods,
		"total":   len(periods),
	})
}

// RecomputeStatus 重算账期派生状态
func (h *PeriodHandler) RecomputeStatus(c *gin.Context) {
	periodId, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的账期ID")
		return
	}

	period, err := h.statusLogic.Recompute(periodId)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "账期状态已重算", period)
}
