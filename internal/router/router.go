package router

import (
	"github.com/devpool/pps/internal/blob"
	"github.com/devpool/pps/internal/config"
	"github.com/devpool/pps/internal/handler"
	"github.com/devpool/pps/internal/middleware"
	"github.com/devpool/pps/internal/model"
	"github.com/devpool/pps/internal/notify"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(db *gorm.DB, blobStore blob.Store, notifier notify.Notifier, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "partner-payment-service",
		})
	})

	// API版本组,全部需要认证
	v1 := r.Group("/api/v1")
	v1.Use(middleware.Auth(cfg.Auth.JwtSecret))
	{
		periodHandler := handler.NewPeriodHandler(db)
		paymentHandler := handler.NewPaymentHandler(db, notifier)
		documentHandler := handler.NewDocumentHandler(db, blobStore)
		notificationHandler := handler.NewNotificationHandler(db)

		// 伙伴维度的批量操作
		partners := v1.Group("/partners")
		{
			partners.POST("/:id/periods/generate",
				middleware.RequireRoles(model.RoleAccountant, model.RoleAdmin),
				periodHandler.GeneratePeriods)
			partners.GET("/:id/periods", periodHandler.ListPeriods)
			partners.POST("/:id/payments/sync",
				middleware.RequireRoles(model.RoleAccountant, model.RoleAdmin),
				paymentHandler.SynchronizePayments)
			partners.POST("/:id/cancellations",
				middleware.RequireRoles(model.RoleAdmin),
				paymentHandler.PropagateCancellations)
		}

		// 账期
		periods := v1.Group("/periods")
		{
			periods.GET("/:id/payments", paymentHandler.ListPeriodPayments)
			periods.POST("/:id/recompute", periodHandler.RecomputeStatus)
		}

		// 付款审批流转,角色校验在logic层按状态机执行
		payments := v1.Group("/payments")
		{
			payments.POST("/:id/submit", paymentHandler.SubmitForApproval)
			payments.POST("/:id/approve", paymentHandler.Approve)
			payments.POST("/:id/reject", paymentHandler.Reject)
			payments.POST("/:id/pay", paymentHandler.MarkPaid)
			payments.GET("/:id/documents", documentHandler.List)
			payments.POST("/:id/documents", documentHandler.Upload)
		}

		// 通知
		notifications := v1.Group("/notifications")
		{
			notifications.GET("", notificationHandler.List)
			notifications.POST("/:id/read", notificationHandler.MarkRead)
		}
	}

	return r
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
