package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/tablesim/internal/service"
)

// GetTable returns the default table and request limits the server applies.
func GetTable(sim *service.Simulator) gin.HandlerFunc {
	return func(c *gin.Context) {
		lim := sim.Limits()
		c.JSON(http.StatusOK, gin.H{
			"table":       lim.Table,
			"center":      lim.Table.Center(),
			"total_time":  lim.TotalTime,
			"dt":          lim.TimeStep,
			"max_samples": lim.MaxSamples,
		})
	}
}
