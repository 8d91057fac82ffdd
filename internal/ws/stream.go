package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/playmatatu/tablesim/internal/input"
	"github.com/playmatatu/tablesim/internal/physics"
	"github.com/playmatatu/tablesim/internal/service"
)

// HandleSimulateStream upgrades the connection and answers every "simulate"
// message with batches of samples followed by a "done" message.
func HandleSimulateStream(sim *service.Simulator, batch int) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[WS] upgrade error: %v", err)
			return
		}

		client := newClient(conn, uuid.NewString())
		ctx, cancel := context.WithCancel(context.Background())

		go func() {
			client.writePump()
			cancel()
		}()
		go client.streamPump(ctx, cancel, sim, batch)
	}
}

// streamPump reads requests and runs them one at a time. It owns the send
// channel and closes it on exit.
func (c *Client) streamPump(ctx context.Context, cancel context.CancelFunc, sim *service.Simulator, batch int) {
	defer func() {
		cancel()
		close(c.send)
	}()
	c.prepareRead()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] read error for %s: %v", c.id, err)
			}
			return
		}

		var msg WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.sendError(input.Code(input.ErrInvalidInputFormat), "invalid message")
			continue
		}

		switch msg.Type {
		case "simulate":
			var req input.Request
			if err := json.Unmarshal(msg.Data, &req); err != nil {
				c.sendError(input.Code(input.ErrInvalidInputFormat), input.Message(input.ErrInvalidInputFormat))
				continue
			}
			c.stream(ctx, sim, req, batch)
		case "ping":
			c.sendJSON(map[string]interface{}{"type": "pong"})
		default:
			c.sendError("unknown_type", "unknown message type: "+msg.Type)
		}
	}
}

func (c *Client) stream(ctx context.Context, sim *service.Simulator, req input.Request, batch int) {
	n, err := sim.Stream(ctx, req, batch, func(samples []physics.Sample) error {
		data, err := json.Marshal(map[string]interface{}{
			"type":    "samples",
			"samples": samples,
		})
		if err != nil {
			return err
		}
		select {
		case c.send <- data:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Printf("[WS] stream for %s failed after %d samples: %v", c.id, n, err)
		code := input.Code(err)
		if code == "" {
			code = "stream_failed"
		}
		c.sendError(code, input.Message(err))
		return
	}

	c.sendJSON(map[string]interface{}{
		"type":    "done",
		"samples": n,
	})
}
