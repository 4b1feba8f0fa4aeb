package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"ecopass/internal/handler"
	"ecopass/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	TripHandler    *handler.TripHandler
	AdminHandler   *handler.AdminHandler
	StationHandler *handler.StationHandler
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
	JWTSecret      []byte
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	auth := middleware.AuthMiddleware(deps.JWTSecret)

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Trip routes. Every operation acts on behalf of the caller.
		trips := v1.Group("/trips", auth)
		{
			trips.POST("", deps.TripHandler.StartTrip)
			trips.GET("", deps.TripHandler.ListTrips)
			trips.GET("/:id", deps.TripHandler.GetTrip)
			trips.POST("/:id/transfer", deps.TripHandler.TransferTrip)
			trips.POST("/:id/arrive", deps.TripHandler.ArriveTrip)
		}

		// Admin review routes.
		admin := v1.Group("/admin", auth, middleware.AdminOnly())
		{
			admin.GET("/dashboard", deps.AdminHandler.GetDashboardStats)
			admin.GET("/trips", deps.AdminHandler.ListAll)
			admin.GET("/trips/pending", deps.AdminHandler.ListPending)
			admin.GET("/trips/:id", deps.AdminHandler.GetTripDetail)
			admin.POST("/trips/:id/approve", deps.AdminHandler.ApproveTrip)
			admin.POST("/trips/:id/reject", deps.AdminHandler.RejectTrip)
		}

		// Station lookups are public.
		stations := v1.Group("/stations")
		{
			stations.GET("", deps.StationHandler.ListStations)
			stations.GET("/nearby", deps.StationHandler.FindNearby)
		}

		v1.GET("/parking-lots", deps.StationHandler.ListParkingLots)
	}

	return router
}
