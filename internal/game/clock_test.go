package game

import (
	"errors"
	"testing"
)

func TestNewMatchClockValidates(t *testing.T) {
	if _, err := NewMatchClock(0, 30); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("zero tick rate: got %v", err)
	}
	if _, err := NewMatchClock(60, -1); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("negative duration: got %v", err)
	}
}

func TestClockStateMachine(t *testing.T) {
	c, err := NewMatchClock(60, 1)
	if err != nil {
		t.Fatal(err)
	}
	if c.Status() != StatusIdle {
		t.Fatalf("new clock status = %s", c.Status())
	}

	// Pausing an idle clock does nothing.
	if c.SetRunning(false) || c.Status() != StatusIdle {
		t.Errorf("pause from idle changed status to %s", c.Status())
	}
	if sim, _ := c.Advance(); sim || c.Elapsed() != 0 {
		t.Error("idle clock advanced")
	}

	if !c.Toggle() || c.Status() != StatusRunning {
		t.Fatalf("toggle from idle: status %s", c.Status())
	}
	if !c.Toggle() || c.Status() != StatusPaused {
		t.Fatalf("toggle from running: status %s", c.Status())
	}
	c.SetRunning(true)

	ticks := 0
	for {
		sim, ended := c.Advance()
		ticks++
		if ended {
			if sim {
				t.Error("ending tick should not simulate")
			}
			break
		}
		if !sim {
			t.Fatalf("running tick %d did not simulate", ticks)
		}
		if ticks > 100 {
			t.Fatal("clock never ended")
		}
	}
	if ticks != 60 {
		t.Errorf("ended after %d ticks, want 60", ticks)
	}
	if c.Status() != StatusEnded {
		t.Errorf("status = %s, want ENDED", c.Status())
	}

	// Ended is sticky until reset.
	if c.SetRunning(true) || c.Toggle() {
		t.Error("ended clock accepted a state change")
	}
	c.Reset()
	if c.Status() != StatusIdle || c.Elapsed() != 0 {
		t.Errorf("after reset: status %s elapsed %v", c.Status(), c.Elapsed())
	}
}

func TestClockFractionalDurationEnds(t *testing.T) {
	c, _ := NewMatchClock(60, 0.1)
	c.SetRunning(true)
	for i := 0; i < 6; i++ {
		c.Advance()
	}
	if !c.Ended() {
		t.Errorf("0.1s match not ended after 6 ticks, elapsed %v", c.Elapsed())
	}
}

func TestEffectTimers(t *testing.T) {
	var e EffectTimers
	e.Trigger()
	if e.ScoringEffect != ScoringEffectSeconds || e.ScorePulse != ScorePulseSeconds {
		t.Fatalf("trigger set %+v", e)
	}
	e.Decay(0.4)
	if !approx(e.ScoringEffect, 0.6, 1e-12) {
		t.Errorf("after decay: %v", e.ScoringEffect)
	}
	e.Decay(5)
	if e.ScoringEffect != 0 || e.ScorePulse != 0 {
		t.Errorf("timers should clamp at zero: %+v", e)
	}
}

func TestFormatMatchTime(t *testing.T) {
	cases := []struct {
		elapsed, duration float64
		want              string
	}{
		{0, 30, "0'00"},
		{15, 30, "45'00"},
		{30, 30, "90'00"},
		{45, 30, "90'00"},
		{7.5, 60, "11'15"},
		{10, 0, "0'00"},
	}
	for _, c := range cases {
		if got := FormatMatchTime(c.elapsed, c.duration); got != c.want {
			t.Errorf("FormatMatchTime(%v, %v) = %q, want %q", c.elapsed, c.duration, got, c.want)
		}
	}
}
