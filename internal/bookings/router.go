package bookings

import (
	"github.com/gin-gonic/gin"

	"tourly/internal/shared/middleware"
)

// SetupBookingRoutes wires the booking endpoints the refund flow depends on.
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller) {
	group := rg.Group("/bookings")
	group.Use(middleware.JWTAuth())
	{
		group.GET("/:id", controller.GetBooking)
		group.POST("/:id/cancel", controller.CancelBooking)
	}
}
