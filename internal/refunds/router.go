package refunds

import (
	"github.com/gin-gonic/gin"

	"tourly/internal/shared/middleware"
)

// SetupRefundRoutes wires the customer-facing and admin refund endpoints.
func SetupRefundRoutes(rg *gin.RouterGroup, controller *Controller) {
	requests := rg.Group("/refund-requests")
	requests.Use(middleware.JWTAuth())
	{
		requests.POST("", controller.SubmitRequest)
		requests.GET("/preview", controller.PreviewRefund)
		requests.GET("/:id", controller.GetRequest)
		requests.POST("/:id/cancel", controller.CancelRequest)
	}

	admin := rg.Group("/admin/refund-requests")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.GET("", controller.ListRequests)
		admin.POST("/:id/approve", controller.ApproveRequest)
		admin.POST("/:id/reject", controller.RejectRequest)
		admin.POST("/:id/complete", controller.CompleteRequest)
	}
}
