package tui

import (
	"context"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/playmatatu/spinball/internal/game"
)

// Sounds plays feedback for collision events. A nil Sounds is silent.
type Sounds interface {
	Goal()
	Bounce(speed float64)
}

// Run drives m at its tick rate, draws every tick and handles keys until the
// player quits or ctx is cancelled. The caller owns screen and finalises it.
func Run(ctx context.Context, screen tcell.Screen, m *game.Match, tickRate float64, sounds Sounds) error {
	if tickRate <= 0 {
		tickRate = game.TickRate
	}
	renderer := NewRenderer(screen)

	eventChan := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Duration(float64(time.Second) / tickRate))
	defer ticker.Stop()

	log.Printf("[TUI] Match %s started at %.0f Hz", m.ID, tickRate)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev := <-eventChan:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if Apply(m, KeyAction(ev.Key(), ev.Rune())) {
					return nil
				}
			case *tcell.EventResize:
				screen.Sync()
			}

		case <-ticker.C:
			m.Tick()
			snap := m.Snapshot()
			playEvents(sounds, snap.Events)
			renderer.Draw(snap)
			screen.Show()
		}
	}
}

func playEvents(sounds Sounds, events []game.CollisionEvent) {
	if sounds == nil {
		return
	}
	for _, ev := range events {
		switch ev.Type {
		case game.EventGoal:
			sounds.Goal()
		case game.EventBoundary:
			sounds.Bounce(ev.Speed)
		case game.EventBody:
			// each contact is reported once per body
			if ev.BodyID < ev.TargetID {
				sounds.Bounce(ev.Speed)
			}
		}
	}
}
