package tui

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/playmatatu/spinball/internal/game"
)

// Action is a player command decoded from a key press.
type Action int

const (
	ActionNone Action = iota
	ActionToggle
	ActionReset
	ActionFaster
	ActionSlower
	ActionQuit
)

// RotationStep is how far one +/- press moves the rotation speed.
const RotationStep = 0.1

// KeyAction maps a key to an action.
func KeyAction(key tcell.Key, ch rune) Action {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit
	case tcell.KeyRune:
	default:
		return ActionNone
	}

	switch ch {
	case ' ':
		return ActionToggle
	case 'r', 'R':
		return ActionReset
	case '+', '=':
		return ActionFaster
	case '-', '_':
		return ActionSlower
	case 'q', 'Q':
		return ActionQuit
	}
	return ActionNone
}

// Apply performs a on m and reports whether the loop should stop.
func Apply(m *game.Match, a Action) (quit bool) {
	switch a {
	case ActionToggle:
		m.ToggleRunning()
	case ActionReset:
		m.Reset()
	case ActionFaster:
		m.SetRotationSpeed(stepSpeed(m.Settings().RotationSpeed, RotationStep))
	case ActionSlower:
		m.SetRotationSpeed(stepSpeed(m.Settings().RotationSpeed, -RotationStep))
	case ActionQuit:
		return true
	}
	return false
}

// stepSpeed keeps the speed on the 0.1 grid so repeated presses do not drift.
func stepSpeed(current, delta float64) float64 {
	return math.Round((current+delta)*10) / 10
}
