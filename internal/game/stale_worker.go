package game

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/playmatatu/spinball/internal/config"
	"github.com/redis/go-redis/v9"
)

// matchIdleKey is the sorted set of match ids scored by last activity.
const matchIdleKey = "match_idle"

// Touch records activity on a match so the stale worker leaves it alone.
func (mm *MatchManager) Touch(id string) {
	mm.mu.RLock()
	m, ok := mm.matches[id]
	mm.mu.RUnlock()
	if !ok {
		return
	}

	now := time.Now()
	m.touch(now)
	if mm.rdb == nil {
		return
	}
	if err := mm.rdb.ZAdd(context.Background(), matchIdleKey, redis.Z{Score: float64(now.Unix()), Member: id}).Err(); err != nil {
		log.Printf("[STALE] Failed to record activity for %s: %v", id, err)
	}
}

// StartStaleMatchWorker starts a background worker that removes matches
// nobody has touched for cfg.MatchIdleMinutes.
func StartStaleMatchWorker(ctx context.Context, mm *MatchManager, cfg *config.Config) {
	if mm == nil || cfg == nil || cfg.MatchIdleMinutes <= 0 {
		log.Println("[STALE] Manager or idle timeout missing; stale match worker not started")
		return
	}
	poll := time.Duration(cfg.IdleWorkerPollInterval) * time.Second
	if poll <= 0 {
		poll = 30 * time.Second
	}
	maxIdle := time.Duration(cfg.MatchIdleMinutes) * time.Minute

	log.Println("[STALE] Stale match worker started")
	go func() {
		ticker := time.NewTicker(poll)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Println("[STALE] Stale match worker stopping")
				return
			case <-ticker.C:
				if reaped := mm.reapStale(ctx, time.Now().Add(-maxIdle)); len(reaped) > 0 {
					log.Printf("[STALE] Reaped %d idle match(es): %v", len(reaped), reaped)
				}
			}
		}
	}()
}

// reapStale removes every non-running match idle since before cutoff and
// returns the removed ids.
func (mm *MatchManager) reapStale(ctx context.Context, cutoff time.Time) []string {
	var candidates []string
	if mm.rdb != nil {
		members, err := mm.rdb.ZRangeByScore(ctx, matchIdleKey, &redis.ZRangeBy{Min: "-inf", Max: fmt.Sprintf("%d", cutoff.Unix())}).Result()
		if err != nil {
			log.Printf("[STALE] Failed to fetch idle matches: %v", err)
			return nil
		}
		// Entries of other instances stay in the set for their own reaper.
		for _, id := range mm.ownedIDs(members) {
			// Attempt to remove (race-safe)
			if removed, _ := mm.rdb.ZRem(ctx, matchIdleKey, id).Result(); removed > 0 {
				candidates = append(candidates, id)
			}
		}
	} else {
		for _, m := range mm.Matches() {
			if m.IdleSince().Before(cutoff) {
				candidates = append(candidates, m.ID)
			}
		}
	}

	var reaped []string
	for _, id := range candidates {
		mm.mu.RLock()
		m, ok := mm.matches[id]
		mm.mu.RUnlock()
		if !ok {
			// owned by another instance or already gone
			continue
		}
		if m.Status() == StatusRunning {
			mm.Touch(id)
			continue
		}
		if err := mm.removeMatch(id, "match closed after inactivity"); err == nil {
			reaped = append(reaped, id)
		}
	}
	return reaped
}

// ownedIDs keeps the ids of matches hosted by this manager.
func (mm *MatchManager) ownedIDs(ids []string) []string {
	mm.mu.RLock()
	defer mm.mu.RUnlock()

	owned := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := mm.matches[id]; ok {
			owned = append(owned, id)
		}
	}
	return owned
}
