package policies

import (
	"tourly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupPolicyRoutes configures refund policy authoring routes. Policy
// authoring is admin-only.
func SetupPolicyRoutes(rg *gin.RouterGroup, controller *Controller) {
	admin := rg.Group("/admin/refund-policies")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.POST("", controller.CreatePolicy)                 // POST   /api/v1/admin/refund-policies
		admin.GET("", controller.ListPolicies)                  // GET    /api/v1/admin/refund-policies
		admin.GET("/next-priority", controller.NextFreePriority) // GET    /api/v1/admin/refund-policies/next-priority
		admin.GET("/resolve", controller.ResolvePolicy)         // GET    /api/v1/admin/refund-policies/resolve
		admin.GET("/:id", controller.GetPolicy)                 // GET    /api/v1/admin/refund-policies/:id
		admin.PUT("/:id", controller.UpdatePolicy)              // PUT    /api/v1/admin/refund-policies/:id
		admin.POST("/:id/deactivate", controller.DeactivatePolicy) // POST /api/v1/admin/refund-policies/:id/deactivate
		admin.DELETE("/:id", controller.DeletePolicy)           // DELETE /api/v1/admin/refund-policies/:id
	}
}
