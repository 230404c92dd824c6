package game

import (
	"fmt"
	"math"
)

// clockEpsilon absorbs float error when comparing elapsed ticks against a
// duration that is not a whole number of ticks.
const clockEpsilon = 1e-9

// MatchClock is the fixed-step match timer. Elapsed time is derived from a
// tick counter so it never drifts with wall-clock jitter.
type MatchClock struct {
	tickRate float64
	duration float64
	ticks    uint64 // ticks spent running
	status   MatchStatus
}

// NewMatchClock returns an idle clock.
func NewMatchClock(tickRate, duration float64) (*MatchClock, error) {
	if !(tickRate > 0) {
		return nil, fmt.Errorf("%w: tick rate must be positive, got %v", ErrInvalidConfiguration, tickRate)
	}
	if !(duration > 0) {
		return nil, fmt.Errorf("%w: match duration must be positive, got %v", ErrInvalidConfiguration, duration)
	}
	return &MatchClock{tickRate: tickRate, duration: duration, status: StatusIdle}, nil
}

func (c *MatchClock) Status() MatchStatus {
	return c.status
}

func (c *MatchClock) Running() bool {
	return c.status == StatusRunning
}

func (c *MatchClock) Ended() bool {
	return c.status == StatusEnded
}

// Elapsed returns the match seconds played so far.
func (c *MatchClock) Elapsed() float64 {
	return float64(c.ticks) / c.tickRate
}

func (c *MatchClock) Duration() float64 {
	return c.duration
}

func (c *MatchClock) TickRate() float64 {
	return c.tickRate
}

// Step is the fixed time step, 1/tickRate seconds.
func (c *MatchClock) Step() float64 {
	return 1 / c.tickRate
}

// SetRunning starts or pauses the clock. It has no effect once the match
// has ended. It reports whether the status changed.
func (c *MatchClock) SetRunning(running bool) bool {
	if c.status == StatusEnded {
		return false
	}
	next := StatusPaused
	if running {
		next = StatusRunning
	} else if c.status == StatusIdle {
		return false
	}
	if next == c.status {
		return false
	}
	c.status = next
	return true
}

// Toggle flips between running and paused (or idle and running).
func (c *MatchClock) Toggle() bool {
	return c.SetRunning(c.status != StatusRunning)
}

// SetDuration changes the match length. A non-positive value is ignored.
func (c *MatchClock) SetDuration(seconds float64) bool {
	if !(seconds > 0) || math.IsInf(seconds, 0) {
		return false
	}
	c.duration = seconds
	return true
}

// Advance moves the clock one tick. It reports whether the bodies should be
// simulated on this tick and whether the match reached full time on it; the
// tick on which the match ends does not move the bodies.
func (c *MatchClock) Advance() (simulate, ended bool) {
	if c.status != StatusRunning {
		return false, false
	}
	c.ticks++
	if c.Elapsed() >= c.duration-clockEpsilon {
		c.status = StatusEnded
		return false, true
	}
	return true, false
}

// Reset returns the clock to idle with no time played.
func (c *MatchClock) Reset() {
	c.ticks = 0
	c.status = StatusIdle
}

// Remaining returns the match seconds left, never negative.
func (c *MatchClock) Remaining() float64 {
	return math.Max(0, c.duration-c.Elapsed())
}

// EffectTimers are presentation countdowns started by a goal. They have no
// influence on the physics.
type EffectTimers struct {
	ScoringEffect float64 `json:"scoring_effect" msgpack:"scoring_effect"`
	ScorePulse    float64 `json:"score_pulse" msgpack:"score_pulse"`
}

// Trigger restarts both countdowns.
func (e *EffectTimers) Trigger() {
	e.ScoringEffect = ScoringEffectSeconds
	e.ScorePulse = ScorePulseSeconds
}

// Decay counts both timers down by step, clamping at zero.
func (e *EffectTimers) Decay(step float64) {
	e.ScoringEffect = math.Max(0, e.ScoringEffect-step)
	e.ScorePulse = math.Max(0, e.ScorePulse-step)
}

// FormatMatchTime maps real elapsed seconds onto a 90-minute match clock and
// renders it as minutes'seconds, e.g. 45'00.
func FormatMatchTime(elapsed, duration float64) string {
	if !(duration > 0) || elapsed < 0 {
		return "0'00"
	}
	scaled := elapsed / duration * ScaledMatchMinutes
	if scaled > ScaledMatchMinutes {
		scaled = ScaledMatchMinutes
	}
	minutes := int(scaled)
	seconds := int((scaled - float64(minutes)) * 60)
	return fmt.Sprintf("%d'%02d", minutes, seconds)
}

// restore rewinds the clock to a cached elapsed time and status. A running
// status comes back paused; nothing drives a rehydrated match until asked.
func (c *MatchClock) restore(elapsed float64, status MatchStatus) {
	if elapsed < 0 {
		elapsed = 0
	}
	c.ticks = uint64(math.Round(elapsed * c.tickRate))
	switch status {
	case StatusRunning:
		c.status = StatusPaused
	case StatusPaused, StatusEnded:
		c.status = status
	default:
		c.status = StatusIdle
	}
}
