package game

import (
	"strings"
	"unicode/utf8"
)

// Body is a team marker: a disc of fixed size bouncing inside the field.
type Body struct {
	ID       int     `json:"id" msgpack:"id"`
	Name     string  `json:"name" msgpack:"name"`
	Position Vec2    `json:"position" msgpack:"position"`
	Velocity Vec2    `json:"velocity" msgpack:"velocity"` // units per tick
	Size     float64 `json:"size" msgpack:"size"`         // diameter
	Score    uint32  `json:"score" msgpack:"score"`
}

// Radius is half the marker size.
func (b *Body) Radius() float64 {
	return b.Size / 2
}

// Advance moves the body by one tick of its velocity.
func (b *Body) Advance() {
	b.Position = b.Position.Plus(b.Velocity)
}

func (b *Body) Speed() float64 {
	return b.Velocity.Magnitude()
}

// Rename sets the display name. Names are trimmed and cut to MaxNameLength
// runes; a blank name leaves the current one in place.
func (b *Body) Rename(name string) bool {
	name, ok := cleanName(name)
	if !ok {
		return false
	}
	b.Name = name
	return true
}

func cleanName(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		name = string([]rune(name)[:MaxNameLength])
	}
	return name, true
}

// Other returns the id of the opposing body.
func Other(id int) int {
	if id == 0 {
		return 1
	}
	return 0
}

// kickoffBodies returns both markers in their symmetric starting state.
func kickoffBodies(center Vec2, names [NumBodies]string) [NumBodies]*Body {
	var bodies [NumBodies]*Body
	for id := range bodies {
		bodies[id] = &Body{ID: id, Name: names[id], Size: BodySize}
		bodies[id].resetKickoff(center)
	}
	return bodies
}

// resetKickoff puts the body back on its kickoff spot with a zero score.
// Body 0 starts left of centre heading up, body 1 mirrors it.
func (b *Body) resetKickoff(center Vec2) {
	if b.ID == 0 {
		b.Position = NewVec2(center.X-KickoffOffset, center.Y)
		b.Velocity = NewVec2(0, -KickoffSpeed)
	} else {
		b.Position = NewVec2(center.X+KickoffOffset, center.Y)
		b.Velocity = NewVec2(0, KickoffSpeed)
	}
	b.Score = 0
}
