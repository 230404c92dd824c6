package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/playmatatu/spinball/internal/game"
	"github.com/redis/go-redis/v9"
)

// StartMatchEventSubscriber subscribes to the match events channel and
// broadcasts incoming events to the local match rooms.
func StartMatchEventSubscriber(ctx context.Context, rdb *redis.Client, h *Hub) {
	if rdb == nil {
		log.Println("[WS] Redis client not set; match event subscriber not started")
		return
	}

	pubsub := rdb.Subscribe(ctx, game.MatchEventsChannel)
	ch := pubsub.Channel()
	go func() {
		defer pubsub.Close()
		log.Printf("[WS] %s subscriber started", game.MatchEventsChannel)
		for {
			select {
			case <-ctx.Done():
				log.Printf("[WS] %s subscriber stopping", game.MatchEventsChannel)
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				h.dispatchPayload([]byte(msg.Payload))
			}
		}
	}()
}

// dispatchPayload decodes one pub/sub payload and fans it out.
func (h *Hub) dispatchPayload(payload []byte) {
	var ev game.MatchEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		log.Printf("[WS] invalid event payload: %v", err)
		return
	}
	if ev.MatchID == "" {
		log.Printf("[WS] event %s without match id dropped", ev.Type)
		return
	}

	switch ev.Type {
	case game.EventTypeGoal, game.EventTypeMatchOver, game.EventTypeMatchClosed:
		n := h.RoomSize(ev.MatchID)
		if n == 0 {
			log.Printf("[WS] no room for match %s; %s will not be broadcast", ev.MatchID, ev.Type)
			return
		}
		log.Printf("[WS] broadcasting %s to match %s (room_size=%d)", ev.Type, ev.MatchID, n)
		h.BroadcastToMatch(ev.MatchID, ev)
	default:
		log.Printf("[WS] unknown event type: %s", ev.Type)
	}
}
