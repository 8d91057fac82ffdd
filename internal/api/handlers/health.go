package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/tablesim/internal/service"
)

var startTime = time.Now()

const version = "1.0.0"

// HealthCheck returns server health status with the active table and backends
func HealthCheck(sim *service.Simulator) gin.HandlerFunc {
	return func(c *gin.Context) {
		st := sim.Status()
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "tablesim-api",
			"version": version,
			"uptime":  time.Since(startTime).String(),
			"table":   sim.Limits().Table,
			"store":   st.Runs,
			"cache":   st.Cache,
			"events":  st.Events,
		})
	}
}
