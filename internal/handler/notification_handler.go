package handler

import (
	"net/http"
	"strconv"

	"github.com/devpool/pps/internal/logic"
	"github.com/devpool/pps/internal/middleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type NotificationHandler struct {
	notificationLogic *logic.NotificationLogic
}

func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{
		notificationLogic: logic.NewNotificationLogic(db),
	}
}

// List 获取当前用户的通知
func (h *NotificationHandler) List(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	notifications, err := h.notificationLogic.ListByUser(actor.UserId)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"total":         len(notifications),
	})
}

// MarkRead 将通知标记为已读
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	notificationId, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的通知ID")
		return
	}

	actor := middleware.ActorFrom(c)
	if err := h.notificationLogic.MarkRead(actor.UserId, notificationId); err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "通知已读", nil)
}
