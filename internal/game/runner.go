package game

import (
	"context"
	"log"
	"time"
)

// Runner drives every live match of a manager from one goroutine at the
// fixed tick rate and replicates snapshots to the broadcaster.
type Runner struct {
	manager        *MatchManager
	broadcaster    Broadcaster
	tickRate       float64
	replicateEvery uint64
	saveEvery      uint64
	frame          uint64
}

// NewRunner builds a runner using the manager's config for its rates.
func NewRunner(mm *MatchManager, b Broadcaster) *Runner {
	r := &Runner{
		manager:        mm,
		broadcaster:    b,
		tickRate:       mm.tickRate(),
		replicateEvery: 1,
		saveEvery:      30,
	}
	if mm.config.ReplicationEveryTicks > 0 {
		r.replicateEvery = uint64(mm.config.ReplicationEveryTicks)
	}
	if mm.config.SnapshotSaveEveryTicks > 0 {
		r.saveEvery = uint64(mm.config.SnapshotSaveEveryTicks)
	}
	return r
}

// Run ticks until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) {
	interval := time.Duration(float64(time.Second) / r.tickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("[MATCH] Runner started at %.0f Hz", r.tickRate)
	for {
		select {
		case <-ctx.Done():
			log.Println("[MATCH] Runner stopping")
			return
		case <-ticker.C:
			r.Step()
		}
	}
}

// Step advances every live match by one tick.
func (r *Runner) Step() {
	r.frame++
	replicate := r.broadcaster != nil && r.frame%r.replicateEvery == 0
	save := r.frame%r.saveEvery == 0

	for _, m := range r.manager.Matches() {
		m.Tick()
		if !replicate && !save {
			continue
		}

		snap := m.Snapshot()
		if replicate {
			r.broadcaster.BroadcastToMatch(m.ID, MatchEvent{
				Type:     EventTypeSnapshot,
				MatchID:  m.ID,
				Snapshot: &snap,
			})
		}
		if save && snap.Status == StatusRunning {
			if err := r.manager.saveSnapshotToRedis(snap, m.Settings()); err != nil {
				log.Printf("[REDIS] Failed to save snapshot for %s: %v", m.ID, err)
			}
			r.manager.Touch(m.ID)
		}
	}
}
