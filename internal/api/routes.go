package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/tablesim/internal/api/handlers"
	"github.com/playmatatu/tablesim/internal/config"
	"github.com/playmatatu/tablesim/internal/middleware"
	"github.com/playmatatu/tablesim/internal/service"
	"github.com/playmatatu/tablesim/internal/ws"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, sim *service.Simulator, hub *ws.Hub, cfg *config.Config) {
	router.Use(middleware.CORSMiddleware(cfg))

	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] no-cache headers enabled for all routes")
	}

	router.GET("/health", handlers.HealthCheck(sim))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck(sim))
		v1.GET("/table", handlers.GetTable(sim))

		v1.POST("/simulate", handlers.Simulate(sim))
		v1.GET("/simulate/ws", middleware.WebSocketCORSCheck(cfg), handlers.HandleSimulateWebSocket(sim, cfg.StreamBatchSize))

		runs := v1.Group("/runs")
		{
			runs.GET("", handlers.ListRuns(sim))
			runs.GET("/:id", handlers.GetRun(sim))
			runs.DELETE("/:id", middleware.AuthMiddleware(cfg.JWTSecret), handlers.DeleteRun(sim))
		}

		v1.GET("/events/ws", middleware.WebSocketCORSCheck(cfg), handlers.HandleEventsWebSocket(hub))
	}
}
