package tui

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/playmatatu/spinball/internal/game"
)

var (
	styleDefault = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	styleBorder  = styleDefault.Foreground(tcell.ColorSilver)
	styleGoal    = styleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleHeader  = styleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleScore   = styleDefault.Foreground(tcell.ColorLime).Bold(true)
	stylePulse   = styleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorLime).Bold(true)
	styleHelp    = styleDefault.Foreground(tcell.ColorGray)
	styleResult  = styleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite).Bold(true)

	teamColors = [game.NumBodies]tcell.Color{tcell.ColorRed, tcell.ColorBlue}
)

const helpLine = "space start/pause  r reset  +/- rotation  q quit"

// canvas is the part of tcell.Screen the renderer draws on.
type canvas interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (width, height int)
}

// Renderer draws match snapshots onto a terminal.
type Renderer struct {
	screen canvas
}

// NewRenderer returns a renderer for screen.
func NewRenderer(screen canvas) *Renderer {
	return &Renderer{screen: screen}
}

// Draw paints one frame. It does not call Show.
func (r *Renderer) Draw(s game.Snapshot) {
	w, h := r.screen.Size()
	r.fill(w, h)

	field := s.Field()
	vp := newViewport(w, h, field.Center, field.Radius+field.GoalHeight)

	r.drawBoundary(vp, &field)
	r.drawGoal(vp, &field)
	for i := range s.Bodies {
		r.drawBody(vp, s.Bodies[i])
	}

	r.drawScoreboard(w, s)
	if s.ScoringEffectRemaining > 0 && s.ScoringBodyID >= 0 {
		r.drawGoalFlash(w, vp, s)
	}
	if s.Status == game.StatusEnded {
		r.drawResult(w, vp, s)
	}
	r.text(0, h-1, helpLine, styleHelp)
}

func (r *Renderer) fill(w, h int) {
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r.screen.SetContent(x, y, ' ', nil, styleDefault)
		}
	}
}

func (r *Renderer) plot(vp viewport, p game.Vec2, ch rune, style tcell.Style) {
	x, y := vp.cell(p)
	if vp.inArena(x, y) {
		r.screen.SetContent(x, y, ch, nil, style)
	}
}

// drawBoundary samples the closed wall finely enough that neighbouring
// samples land in adjacent cells.
func (r *Renderer) drawBoundary(vp viewport, f *game.Field) {
	n := int(2 * math.Pi * f.Radius * vp.scaleX)
	if n < 36 {
		n = 36
	}
	for _, p := range f.BoundaryArc(n) {
		r.plot(vp, p, '·', styleBorder)
	}
}

func (r *Renderer) drawGoal(vp viewport, f *game.Field) {
	posts := f.GoalPosts()
	r.line(vp, posts.LeftInner, posts.LeftOuter, '#', styleGoal)
	r.line(vp, posts.RightInner, posts.RightOuter, '#', styleGoal)
	r.line(vp, posts.LeftOuter, posts.RightOuter, '=', styleGoal)
}

func (r *Renderer) line(vp viewport, a, b game.Vec2, ch rune, style tcell.Style) {
	d := b.Minus(a)
	steps := int(math.Max(math.Abs(d.X*vp.scaleX), math.Abs(d.Y*vp.scaleY))) + 1
	for i := 0; i <= steps; i++ {
		r.plot(vp, a.Plus(d.Times(float64(i)/float64(steps))), ch, style)
	}
}

// drawBody fills the cells covered by the marker and puts the team initial
// in the centre.
func (r *Renderer) drawBody(vp viewport, b game.Body) {
	color := teamColors[b.ID%game.NumBodies]
	fill := styleDefault.Foreground(color)
	rad := b.Radius()

	cx, cy := vp.cell(b.Position)
	rx := int(math.Ceil(rad * vp.scaleX))
	ry := int(math.Ceil(rad * vp.scaleY))
	for dy := -ry; dy <= ry; dy++ {
		for dx := -rx; dx <= rx; dx++ {
			ux := float64(dx) / vp.scaleX
			uy := float64(dy) / vp.scaleY
			if ux*ux+uy*uy > rad*rad {
				continue
			}
			if vp.inArena(cx+dx, cy+dy) {
				r.screen.SetContent(cx+dx, cy+dy, '█', nil, fill)
			}
		}
	}

	initial := '?'
	if ch, _ := utf8.DecodeRuneInString(b.Name); ch != utf8.RuneError {
		initial = ch
	}
	if vp.inArena(cx, cy) {
		r.screen.SetContent(cx, cy, initial, nil, styleDefault.Background(color).Bold(true))
	}
}

// drawScoreboard renders "Team A  1:0  Team B" with the clock and status
// underneath. The score is highlighted while the goal pulse runs.
func (r *Renderer) drawScoreboard(w int, s game.Snapshot) {
	score := " " + s.Scoreline() + " "
	left := s.Bodies[0].Name + " "
	right := " " + s.Bodies[1].Name
	total := utf8.RuneCountInString(left) + utf8.RuneCountInString(score) + utf8.RuneCountInString(right)

	x := (w - total) / 2
	x = r.text(x, 0, left, styleDefault.Foreground(teamColors[0]).Bold(true))
	scoreStyle := styleScore
	if s.ScorePulseRemaining > 0 {
		scoreStyle = stylePulse
	}
	x = r.text(x, 0, score, scoreStyle)
	r.text(x, 0, right, styleDefault.Foreground(teamColors[1]).Bold(true))

	status := fmt.Sprintf("%s  %s  rotation %.1f°/tick", s.MatchTime, statusLabel(s.Status), s.RotationSpeed)
	r.centered(w, 1, status, styleHeader)
}

func (r *Renderer) drawGoalFlash(w int, vp viewport, s game.Snapshot) {
	scorer := s.Bodies[s.ScoringBodyID]
	msg := fmt.Sprintf(" GOAL! %s scores ", scorer.Name)
	style := styleDefault.Background(teamColors[scorer.ID%game.NumBodies]).Foreground(tcell.ColorWhite).Bold(true)
	r.centered(w, vp.originY, msg, style)
}

func (r *Renderer) drawResult(w int, vp viewport, s game.Snapshot) {
	r.centered(w, vp.originY-1, " FULL TIME ", styleResult)
	r.centered(w, vp.originY, " "+s.Result()+" ", styleResult)
	r.centered(w, vp.originY+1, " "+s.Scoreline()+" ", styleResult)
}

func (r *Renderer) centered(w, y int, msg string, style tcell.Style) {
	r.text((w-utf8.RuneCountInString(msg))/2, y, msg, style)
}

// text writes msg from (x, y) and returns the column after it.
func (r *Renderer) text(x, y int, msg string, style tcell.Style) int {
	w, h := r.screen.Size()
	for _, ch := range msg {
		if x >= 0 && x < w && y >= 0 && y < h {
			r.screen.SetContent(x, y, ch, nil, style)
		}
		x++
	}
	return x
}

func statusLabel(s game.MatchStatus) string {
	switch s {
	case game.StatusRunning:
		return "playing"
	case game.StatusPaused:
		return "paused"
	case game.StatusEnded:
		return "full time"
	}
	return "ready"
}
