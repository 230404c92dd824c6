package game

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/playmatatu/spinball/internal/config"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrMatchNotFound is returned for an unknown or reaped match id.
	ErrMatchNotFound = errors.New("match not found")
	// ErrTooManyMatches is returned when the server is at MaxMatches.
	ErrTooManyMatches = errors.New("too many live matches")
)

// MatchManager owns every live match on this server.
type MatchManager struct {
	matches     map[string]*Match
	rdb         *redis.Client  // snapshot cache and event bus, optional
	config      *config.Config // application config
	broadcaster Broadcaster    // local fan-out when redis is not configured
	mu          sync.RWMutex
}

// MatchSummary is a list entry for the API.
type MatchSummary struct {
	ID        string      `json:"id"`
	Status    MatchStatus `json:"status"`
	Team1     string      `json:"team1_name"`
	Team2     string      `json:"team2_name"`
	Score     string      `json:"score"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewMatchManager creates a new match manager. rdb may be nil.
func NewMatchManager(rdb *redis.Client, cfg *config.Config) *MatchManager {
	if cfg == nil {
		cfg = &config.Config{}
	}
	return &MatchManager{
		matches: make(map[string]*Match),
		rdb:     rdb,
		config:  cfg,
	}
}

// SettingsFromConfig returns the configured default match settings.
func SettingsFromConfig(cfg *config.Config) Settings {
	s := DefaultSettings()
	if cfg == nil {
		return s
	}
	if cfg.DefaultTeam1Name != "" {
		s.Team1Name = cfg.DefaultTeam1Name
	}
	if cfg.DefaultTeam2Name != "" {
		s.Team2Name = cfg.DefaultTeam2Name
	}
	if cfg.DefaultRotationSpeed > 0 {
		s.RotationSpeed = ClampRotationSpeed(cfg.DefaultRotationSpeed)
	}
	if cfg.DefaultMatchDuration > 0 {
		s.MatchDuration = cfg.DefaultMatchDuration
	}
	return s
}

// SetBroadcaster installs the local event fan-out used when no redis client
// is configured.
func (mm *MatchManager) SetBroadcaster(b Broadcaster) {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	mm.broadcaster = b
}

// generateToken generates a secure random token
func generateToken(length int) string {
	bytes := make([]byte, length)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// generateMatchID generates a unique match ID
func generateMatchID() string {
	return "match_" + generateToken(8)
}

func (mm *MatchManager) tickRate() float64 {
	if mm.config.TickRate > 0 {
		return mm.config.TickRate
	}
	return TickRate
}

// CreateMatch builds and registers a new idle match.
func (mm *MatchManager) CreateMatch(settings Settings) (*Match, error) {
	m, err := NewMatch(generateMatchID(), settings, MatchOptions{
		TickRate: mm.tickRate(),
		Seed:     mm.config.RandomSeed,
		Observer: mm,
	})
	if err != nil {
		return nil, err
	}

	mm.mu.Lock()
	if mm.config.MaxMatches > 0 && len(mm.matches) >= mm.config.MaxMatches {
		mm.mu.Unlock()
		return nil, ErrTooManyMatches
	}
	mm.matches[m.ID] = m
	mm.mu.Unlock()

	mm.Touch(m.ID)
	if err := mm.saveSnapshotToRedis(m.Snapshot(), m.Settings()); err != nil {
		log.Printf("[REDIS] Failed to cache new match %s: %v", m.ID, err)
	}

	log.Printf("[MATCH] Created %s (%s vs %s, %.1f°/tick, %.0fs)",
		m.ID, settings.Team1Name, settings.Team2Name, m.Settings().RotationSpeed, settings.MatchDuration)
	return m, nil
}

// GetMatch retrieves a live match, rehydrating it from the redis snapshot
// cache when this process does not hold it.
func (mm *MatchManager) GetMatch(id string) (*Match, error) {
	mm.mu.RLock()
	m, exists := mm.matches[id]
	mm.mu.RUnlock()
	if exists {
		return m, nil
	}

	snap, settings, err := mm.loadSnapshotFromRedis(id)
	if err != nil {
		return nil, ErrMatchNotFound
	}

	m, err = NewMatch(id, settings, MatchOptions{
		TickRate: mm.tickRate(),
		Seed:     mm.config.RandomSeed,
		Observer: mm,
	})
	if err != nil {
		return nil, err
	}
	m.restore(snap)

	mm.mu.Lock()
	if existing, ok := mm.matches[id]; ok {
		mm.mu.Unlock()
		return existing, nil
	}
	mm.matches[id] = m
	mm.mu.Unlock()

	mm.Touch(id)
	log.Printf("[MATCH] Rehydrated %s from redis at %s (%s)", id, snap.MatchTime, snap.Scoreline())
	return m, nil
}

// RemoveMatch drops a match and its cached snapshot.
func (mm *MatchManager) RemoveMatch(id string) error {
	return mm.removeMatch(id, "match removed")
}

func (mm *MatchManager) removeMatch(id, reason string) error {
	mm.mu.Lock()
	_, exists := mm.matches[id]
	delete(mm.matches, id)
	mm.mu.Unlock()

	if !exists {
		return ErrMatchNotFound
	}
	mm.deleteSnapshotFromRedis(id)
	mm.publish(MatchEvent{Type: EventTypeMatchClosed, MatchID: id, Message: reason})
	log.Printf("[MATCH] Removed %s: %s", id, reason)
	return nil
}

// Matches returns the live matches ordered by creation time.
func (mm *MatchManager) Matches() []*Match {
	mm.mu.RLock()
	out := make([]*Match, 0, len(mm.matches))
	for _, m := range mm.matches {
		out = append(out, m)
	}
	mm.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// ListMatches summarises the live matches.
func (mm *MatchManager) ListMatches() []MatchSummary {
	matches := mm.Matches()
	out := make([]MatchSummary, 0, len(matches))
	for _, m := range matches {
		s := m.Snapshot()
		out = append(out, MatchSummary{
			ID:        m.ID,
			Status:    s.Status,
			Team1:     s.Bodies[0].Name,
			Team2:     s.Bodies[1].Name,
			Score:     s.Scoreline(),
			CreatedAt: m.CreatedAt,
		})
	}
	return out
}

// GetActiveMatchCount returns the number of live matches.
func (mm *MatchManager) GetActiveMatchCount() int {
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	return len(mm.matches)
}

// GoalScored implements Observer.
func (mm *MatchManager) GoalScored(ev GoalEvent, snap Snapshot) {
	log.Printf("[MATCH] GOAL in %s! %s scores at %s. New score: %s",
		snap.MatchID, snap.Bodies[ev.ScoringBodyID].Name, snap.MatchTime, snap.Scoreline())
	goal := ev
	mm.publish(MatchEvent{
		Type:     EventTypeGoal,
		MatchID:  snap.MatchID,
		Goal:     &goal,
		Snapshot: &snap,
	})
}

// MatchEnded implements Observer.
func (mm *MatchManager) MatchEnded(snap Snapshot) {
	log.Printf("[MATCH] MATCH OVER in %s! Final score: %s. %s", snap.MatchID, snap.Scoreline(), snap.Result())
	mm.publish(MatchEvent{
		Type:     EventTypeMatchOver,
		MatchID:  snap.MatchID,
		Message:  snap.Result(),
		Snapshot: &snap,
	})
	if err := mm.saveSnapshotToRedis(snap, mm.settingsOf(snap.MatchID)); err != nil {
		log.Printf("[REDIS] Failed to cache final state of %s: %v", snap.MatchID, err)
	}
}

func (mm *MatchManager) settingsOf(id string) Settings {
	mm.mu.RLock()
	m, ok := mm.matches[id]
	mm.mu.RUnlock()
	if !ok {
		return DefaultSettings()
	}
	return m.Settings()
}
