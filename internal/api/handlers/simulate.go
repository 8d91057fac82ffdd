package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/tablesim/internal/input"
	"github.com/playmatatu/tablesim/internal/service"
)

// Simulate runs one trajectory from a JSON request body.
func Simulate(sim *service.Simulator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req input.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Printf("[API] bad simulate body: %v", err)
			respondInputError(c, input.ErrInvalidInputFormat)
			return
		}

		res, err := sim.Simulate(c.Request.Context(), req)
		if err != nil {
			respondInputError(c, err)
			return
		}

		if res.Cached {
			c.Header("X-Cache", "HIT")
		} else {
			c.Header("X-Cache", "MISS")
		}

		min, max := res.Trajectory.Bounds()
		resp := gin.H{
			"params":  res.Params,
			"table":   res.Table,
			"samples": res.Samples(),
			"final":   res.Trajectory.Final(),
			"bounds":  gin.H{"min": min, "max": max},
			"reflections": gin.H{
				"x": res.ReflectionsX,
				"y": res.ReflectionsY,
			},
			"cached":     res.Cached,
			"trajectory": res.Trajectory,
		}
		if res.RunID != "" {
			c.Header("X-Run-ID", res.RunID)
			resp["run_id"] = res.RunID
		}
		c.JSON(http.StatusOK, resp)
	}
}
