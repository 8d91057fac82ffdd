package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/playmatatu/tablesim/internal/service"
	"github.com/playmatatu/tablesim/internal/ws"
)

// HandleSimulateWebSocket streams trajectories sample by sample.
func HandleSimulateWebSocket(sim *service.Simulator, batch int) gin.HandlerFunc {
	return ws.HandleSimulateStream(sim, batch)
}

// HandleEventsWebSocket pushes run events to watchers.
func HandleEventsWebSocket(hub *ws.Hub) gin.HandlerFunc {
	return ws.HandleEvents(hub)
}
