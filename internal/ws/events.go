package ws

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// HandleEvents registers the connection as a watcher of run events.
func HandleEvents(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[WS] upgrade error: %v", err)
			return
		}

		client := newClient(conn, uuid.NewString())
		if !hub.Join(client) {
			conn.Close()
			return
		}

		go client.writePump()
		go client.watchPump(hub)
	}
}

// watchPump only drains control frames; watchers never send commands.
func (c *Client) watchPump(hub *Hub) {
	defer hub.Leave(c)
	c.prepareRead()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] read error for %s: %v", c.id, err)
			}
			return
		}
	}
}
