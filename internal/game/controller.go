package game

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// ErrUnknownBody is returned for a body id outside 0..NumBodies-1.
var ErrUnknownBody = errors.New("unknown body")

// Observer is notified after a tick has been fully applied. Callbacks run on
// the ticking goroutine without the match lock held.
type Observer interface {
	GoalScored(ev GoalEvent, snap Snapshot)
	MatchEnded(snap Snapshot)
}

// MatchOptions tunes how a match is built. Zero values pick the defaults.
type MatchOptions struct {
	TickRate float64
	Seed     int64 // respawn randomness; 0 seeds from the clock
	Field    *Field
	Observer Observer
}

// Match is the complete state of one arena match and the only entry point
// for mutating it. Every exported method takes the match lock, so a driver
// goroutine calling Tick and input handlers calling the setters never
// interleave inside a tick.
type Match struct {
	ID           string
	CreatedAt    time.Time
	LastActivity time.Time

	field    *Field
	bodies   [NumBodies]*Body
	clock    *MatchClock
	settings Settings
	effects  EffectTimers
	engine   *PhysicsEngine
	observer Observer

	tick       uint64
	lastScorer int
	events     []CollisionEvent
	mu         sync.RWMutex
}

// NewMatch builds an idle match at kickoff. It fails with
// ErrInvalidConfiguration when the settings or field are unusable.
func NewMatch(id string, settings Settings, opts MatchOptions) (*Match, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	settings.RotationSpeed = ClampRotationSpeed(settings.RotationSpeed)
	if name, ok := cleanName(settings.Team1Name); ok {
		settings.Team1Name = name
	} else {
		settings.Team1Name = DefaultTeam1Name
	}
	if name, ok := cleanName(settings.Team2Name); ok {
		settings.Team2Name = name
	} else {
		settings.Team2Name = DefaultTeam2Name
	}

	tickRate := opts.TickRate
	if tickRate == 0 {
		tickRate = TickRate
	}
	clock, err := NewMatchClock(tickRate, settings.MatchDuration)
	if err != nil {
		return nil, err
	}

	field := opts.Field
	if field == nil {
		field = NewStandardField()
	} else {
		// The half-width is always re-derived from the arc width.
		rebuilt, err := NewField(field.Center, field.Radius, field.GoalArcWidth, field.GoalHeight)
		if err != nil {
			return nil, err
		}
		rebuilt.Rotation = NormalizeDeg(field.Rotation)
		field = rebuilt
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	now := time.Now()
	m := &Match{
		ID:           id,
		CreatedAt:    now,
		LastActivity: now,
		field:        field,
		bodies:       kickoffBodies(field.Center, settings.Names()),
		clock:        clock,
		settings:     settings,
		observer:     opts.Observer,
		lastScorer:   -1,
	}
	m.engine = NewPhysicsEngine(m.bodies, field, rand.New(rand.NewSource(seed)))
	return m, nil
}

// SetObserver replaces the tick observer.
func (m *Match) SetObserver(o Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observer = o
}

// Tick advances the match by one fixed step and returns the goals scored on
// it. While the clock runs the field turns by the rotation speed, match time
// advances and the bodies are simulated; effect timers count down on every
// tick regardless.
func (m *Match) Tick() []GoalEvent {
	m.mu.Lock()

	m.tick++
	m.events = m.events[:0]
	m.effects.Decay(m.clock.Step())

	if m.clock.Running() {
		m.field.Rotate(m.settings.RotationSpeed)
	}

	simulate, ended := m.clock.Advance()
	var goals []GoalEvent
	if simulate {
		goals = m.engine.Step(m.tick, m.clock.Elapsed())
		m.events = append(m.events, m.engine.Events...)
		for _, g := range goals {
			m.bodies[g.ScoringBodyID].Score++
			m.lastScorer = g.ScoringBodyID
			m.effects.Trigger()
		}
	}

	observer := m.observer
	var snap Snapshot
	if observer != nil && (len(goals) > 0 || ended) {
		snap = m.snapshotLocked()
	}
	m.mu.Unlock()

	if observer != nil {
		for _, g := range goals {
			observer.GoalScored(g, snap)
		}
		if ended {
			observer.MatchEnded(snap)
		}
	}
	return goals
}

// SetRunning starts or pauses play. Ignored once full time is reached.
func (m *Match) SetRunning(running bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastActivity = time.Now()
	return m.clock.SetRunning(running)
}

// ToggleRunning flips between play and pause.
func (m *Match) ToggleRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastActivity = time.Now()
	return m.clock.Toggle()
}

// Reset restores kickoff: bodies on their spots with zero scores, rotation
// and match time at zero, clock idle. Team names and rotation speed are kept.
func (m *Match) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, b := range m.bodies {
		b.resetKickoff(m.field.Center)
	}
	m.field.Rotation = 0
	m.clock.Reset()
	m.effects = EffectTimers{}
	m.lastScorer = -1
	m.tick = 0
	m.events = m.events[:0]
	m.LastActivity = time.Now()
}

// SetRotationSpeed stores the speed clamped to [0.1, 2.0] and returns the
// stored value. NaN leaves the current speed untouched.
func (m *Match) SetRotationSpeed(v float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings.SetRotationSpeed(v)
	m.LastActivity = time.Now()
	return m.settings.RotationSpeed
}

// ApplySetting applies raw text input to one setting. Invalid input is
// dropped silently and reported as false.
func (m *Match) ApplySetting(field SettingField, text string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastActivity = time.Now()

	if !m.settings.ApplyText(field, text) {
		return false
	}
	switch field {
	case SettingTeam1Name:
		m.bodies[0].Name = m.settings.Team1Name
	case SettingTeam2Name:
		m.bodies[1].Name = m.settings.Team2Name
	case SettingMatchDuration:
		m.clock.SetDuration(m.settings.MatchDuration)
	}
	return true
}

// RenameBody changes a team name.
func (m *Match) RenameBody(id int, name string) error {
	if id < 0 || id >= NumBodies {
		return fmt.Errorf("%w: %d", ErrUnknownBody, id)
	}
	field := SettingTeam1Name
	if id == 1 {
		field = SettingTeam2Name
	}
	m.ApplySetting(field, name)
	return nil
}

// Settings returns the current settings.
func (m *Match) Settings() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings
}

// Status returns the clock status.
func (m *Match) Status() MatchStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.clock.Status()
}

// IdleSince returns the time of the last input.
func (m *Match) IdleSince() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastActivity
}

// Snapshot returns a copy of everything the presentation layer draws.
func (m *Match) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

func (m *Match) snapshotLocked() Snapshot {
	start, end := m.field.GoalAngularBounds(m.field.Rotation)
	s := Snapshot{
		MatchID:                m.ID,
		Tick:                   m.tick,
		Status:                 m.clock.Status(),
		FieldCenter:            m.field.Center,
		FieldRadius:            m.field.Radius,
		FieldRotationDeg:       m.field.Rotation,
		GoalHalfWidthDeg:       m.field.GoalHalfWidth,
		GoalHeight:             m.field.GoalHeight,
		GoalStartDeg:           start,
		GoalEndDeg:             end,
		ElapsedSeconds:         m.clock.Elapsed(),
		DurationSeconds:        m.clock.Duration(),
		MatchTime:              FormatMatchTime(m.clock.Elapsed(), m.clock.Duration()),
		RotationSpeed:          m.settings.RotationSpeed,
		ScoringEffectRemaining: m.effects.ScoringEffect,
		ScorePulseRemaining:    m.effects.ScorePulse,
		ScoringBodyID:          m.lastScorer,
	}
	for i, b := range m.bodies {
		s.Bodies[i] = *b
	}
	if len(m.events) > 0 {
		s.Events = make([]CollisionEvent, len(m.events))
		copy(s.Events, m.events)
	}
	return s
}

// restore loads the positions, scores, rotation and clock of a cached
// snapshot into a freshly built match.
func (m *Match) restore(s Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, b := range m.bodies {
		cached := s.Bodies[i]
		b.Position = cached.Position
		b.Velocity = cached.Velocity
		b.Score = cached.Score
		if name, ok := cleanName(cached.Name); ok {
			b.Name = name
		}
	}
	m.field.Rotation = NormalizeDeg(s.FieldRotationDeg)
	m.clock.restore(s.ElapsedSeconds, s.Status)
	m.tick = s.Tick
	m.lastScorer = s.ScoringBodyID
}

func (m *Match) touch(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastActivity = t
}
