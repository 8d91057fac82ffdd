package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/playmatatu/tablesim/internal/store"
	"github.com/redis/go-redis/v9"
)

// StartEventSubscriber subscribes to the simulation events channel and
// broadcasts incoming run events to every watcher on hub.
func StartEventSubscriber(ctx context.Context, rdb *redis.Client, hub *Hub) {
	if rdb == nil {
		log.Println("[WS] Redis client not set; event subscriber not started")
		return
	}

	pubsub := rdb.Subscribe(ctx, store.EventsChannel)
	ch := pubsub.Channel()
	go func() {
		defer pubsub.Close()
		log.Printf("[WS] %s subscriber started", store.EventsChannel)
		for {
			select {
			case <-ctx.Done():
				log.Printf("[WS] %s subscriber stopped", store.EventsChannel)
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				relayEvent(hub, []byte(msg.Payload))
			}
		}
	}()
}

// relayEvent forwards a published payload when it looks like a run event.
func relayEvent(hub *Hub, payload []byte) bool {
	var head struct {
		Type  string `json:"type"`
		RunID string `json:"run_id"`
	}
	if err := json.Unmarshal(payload, &head); err != nil {
		log.Printf("[WS] invalid event payload: %v", err)
		return false
	}
	if head.Type == "" {
		log.Printf("[WS] event without type ignored")
		return false
	}

	log.Printf("[WS] event received: type=%s run_id=%s watchers=%d", head.Type, head.RunID, hub.Size())
	hub.Broadcast(payload)
	return true
}
