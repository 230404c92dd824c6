package game

import (
	"context"
	"encoding/json"
	"log"
)

// MatchEventsChannel is the redis pub/sub channel carrying goal, full-time
// and close events for every match.
const MatchEventsChannel = "match_events"

// Event types sent to presentation clients.
const (
	EventTypeSnapshot    = "snapshot"
	EventTypeGoal        = "goal"
	EventTypeMatchOver   = "match_over"
	EventTypeMatchClosed = "match_closed"
	EventTypeError       = "error"
)

// MatchEvent is one message for the clients watching a match.
type MatchEvent struct {
	Type     string     `json:"type" msgpack:"type"`
	MatchID  string     `json:"match_id" msgpack:"match_id"`
	Goal     *GoalEvent `json:"goal,omitempty" msgpack:"goal,omitempty"`
	Snapshot *Snapshot  `json:"snapshot,omitempty" msgpack:"snapshot,omitempty"`
	Message  string     `json:"message,omitempty" msgpack:"message,omitempty"`
}

// Broadcaster fans events out to the clients of one match.
type Broadcaster interface {
	BroadcastToMatch(matchID string, ev MatchEvent)
}

// publish sends a discrete event over redis so every server instance sees
// it, or straight to the local broadcaster when redis is not configured.
func (mm *MatchManager) publish(ev MatchEvent) {
	mm.mu.RLock()
	b := mm.broadcaster
	mm.mu.RUnlock()

	if mm.rdb == nil {
		if b != nil {
			b.BroadcastToMatch(ev.MatchID, ev)
		}
		return
	}

	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[REDIS] Failed to marshal %s event for %s: %v", ev.Type, ev.MatchID, err)
		return
	}
	if n, err := mm.rdb.Publish(context.Background(), MatchEventsChannel, data).Result(); err != nil {
		log.Printf("[REDIS] publish %s failed: match=%s err=%v", ev.Type, ev.MatchID, err)
		if b != nil {
			b.BroadcastToMatch(ev.MatchID, ev)
		}
	} else {
		log.Printf("[REDIS] published %s: match=%s subscribers=%d", ev.Type, ev.MatchID, n)
	}
}
