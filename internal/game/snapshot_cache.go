package game

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// cachedMatch is what the redis snapshot cache stores per match.
type cachedMatch struct {
	Snapshot Snapshot  `json:"snapshot"`
	Settings Settings  `json:"settings"`
	SavedAt  time.Time `json:"saved_at"`
}

func snapshotKey(id string) string {
	return "match:" + id + ":state"
}

func (mm *MatchManager) snapshotTTL() time.Duration {
	if mm.config.SnapshotTTLSeconds > 0 {
		return time.Duration(mm.config.SnapshotTTLSeconds) * time.Second
	}
	return time.Hour
}

// saveSnapshotToRedis caches the latest state of a match.
func (mm *MatchManager) saveSnapshotToRedis(s Snapshot, settings Settings) error {
	if mm.rdb == nil {
		return nil
	}

	data, err := json.Marshal(cachedMatch{Snapshot: s, Settings: settings, SavedAt: time.Now()})
	if err != nil {
		return err
	}
	return mm.rdb.SetEx(context.Background(), snapshotKey(s.MatchID), data, mm.snapshotTTL()).Err()
}

// loadSnapshotFromRedis reads a cached match.
func (mm *MatchManager) loadSnapshotFromRedis(id string) (Snapshot, Settings, error) {
	if mm.rdb == nil {
		return Snapshot{}, Settings{}, ErrMatchNotFound
	}

	data, err := mm.rdb.Get(context.Background(), snapshotKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Snapshot{}, Settings{}, ErrMatchNotFound
	} else if err != nil {
		return Snapshot{}, Settings{}, err
	}

	var cached cachedMatch
	if err := json.Unmarshal(data, &cached); err != nil {
		return Snapshot{}, Settings{}, err
	}
	cached.Snapshot.MatchID = id
	return cached.Snapshot, cached.Settings, nil
}

func (mm *MatchManager) deleteSnapshotFromRedis(id string) {
	if mm.rdb == nil {
		return
	}
	ctx := context.Background()
	mm.rdb.Del(ctx, snapshotKey(id))
	mm.rdb.ZRem(ctx, matchIdleKey, id)
}
