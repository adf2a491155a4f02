// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"tourly/internal/bookings"
	"tourly/internal/ledger"
	"tourly/internal/notifications"
	"tourly/internal/policies"
	"tourly/internal/refunds"
	"tourly/internal/shared/config"
	"tourly/internal/shared/database"
	"tourly/pkg/cache"
	"tourly/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config *config.Config
	db     *database.DB
	log    *logger.Logger

	cacheService    cache.Service
	policyService   policies.Service
	bookingService  bookings.Service
	notifier        refunds.NotificationPublisher
	ledgerPublisher refunds.LedgerPublisher
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB) *Router {
	return &Router{
		config: cfg,
		db:     db,
		log:    logger.GetDefault(),
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.cacheService = cache.NewService(r.db.GetRedisClient())
	r.setupMessaging()

	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupPolicyRoutes(api)
		r.setupBookingRoutes(api)
		r.setupRefundRoutes(api)
	}
}

// setupMessaging wires the Kafka producers. A broker outage does not block
// startup; the refund service degrades to running without notifications and
// the completion handler reports ledger signal failures to the caller.
func (r *Router) setupMessaging() {
	producerConfig := notifications.DefaultProducerConfig(r.config.Kafka.Brokers, r.config.Kafka.NotificationTopic)
	producer, err := notifications.NewKafkaProducer(producerConfig)
	if err != nil {
		r.log.WithError(err).Warn("notification producer unavailable, continuing without notifications")
	} else {
		r.notifier = notifications.NewRefundServiceAdapter(producer)
	}

	ledgerPublisher, err := ledger.NewPublisher(r.config.Kafka)
	if err != nil {
		r.log.WithError(err).Warn("ledger publisher unavailable, refund completion will report signal failures")
	} else {
		r.ledgerPublisher = ledgerPublisher
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "tourly-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "tourly-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupPolicyRoutes configures refund policy administration routes
func (r *Router) setupPolicyRoutes(rg *gin.RouterGroup) {
	policyRepo := policies.NewRepository(r.db.GetPostgreSQL())
	r.policyService = policies.NewService(policyRepo, r.cacheService, r.config.Redis.PolicyCacheTTL)
	policyController := policies.NewController(r.policyService)

	policies.SetupPolicyRoutes(rg, policyController)
}

// setupBookingRoutes configures the booking endpoints the refund flow uses
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	r.bookingService = bookings.NewService(bookingRepo)
	bookingController := bookings.NewController(r.bookingService)

	bookings.SetupBookingRoutes(rg, bookingController)
}

// setupRefundRoutes configures the refund request lifecycle routes
func (r *Router) setupRefundRoutes(rg *gin.RouterGroup) {
	refundRepo := refunds.NewRepository(r.db.GetPostgreSQL())
	bookingAdapter := refunds.NewBookingServiceAdapter(r.bookingService)
	refundService := refunds.NewService(refundRepo, r.policyService, bookingAdapter,
		r.notifier, r.ledgerPublisher, r.config.Refunds)
	refundController := refunds.NewController(refundService)

	refunds.SetupRefundRoutes(rg, refundController)
}
