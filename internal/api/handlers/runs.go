package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/tablesim/internal/middleware"
	"github.com/playmatatu/tablesim/internal/service"
	"github.com/playmatatu/tablesim/internal/store"
)

// ListRuns returns persisted run summaries, newest first.
func ListRuns(sim *service.Simulator) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := pageParams(c)

		runs, err := sim.Runs(c.Request.Context(), limit, offset)
		if err != nil {
			log.Printf("[API] list runs failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list runs"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"runs":   runs,
			"limit":  limit,
			"offset": offset,
		})
	}
}

// GetRun returns a run summary with its trajectory.
func GetRun(sim *service.Simulator) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if !store.ValidID(id) {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}

		run, traj, err := sim.Run(c.Request.Context(), id)
		if errors.Is(err, store.ErrRunNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		if err != nil {
			log.Printf("[API] get run %s failed: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load run"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"run":        run,
			"trajectory": traj,
		})
	}
}

// DeleteRun removes a run. The route is behind middleware.AuthMiddleware.
func DeleteRun(sim *service.Simulator) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if !store.ValidID(id) {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}

		err := sim.DeleteRun(c.Request.Context(), id)
		if errors.Is(err, store.ErrRunNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		if err != nil {
			log.Printf("[API] delete run %s failed: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete run"})
			return
		}

		log.Printf("[API] run %s deleted by %s", id, c.GetString(middleware.OperatorKey))
		c.Status(http.StatusNoContent)
	}
}
